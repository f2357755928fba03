package conversation

import (
	"context"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/arnavzz/Conversation-Management/types"
)

// The exchange counter and the retention policy must agree for any k and
// any number of sends: the counter always equals the number of completed
// exchanges, and the history length follows directly from when the last
// compression fired.
func TestManagerRetentionInvariants(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.IntRange(0, 5).Draw(t, "k")
		sends := rapid.IntRange(0, 24).Draw(t, "sends")

		mgr, err := NewManager(Config{Model: "m", SummarizeEveryK: k}, echoGateway(), nil)
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}

		wantLen := 0
		for i := 0; i < sends; i++ {
			if _, err := mgr.Send(context.Background(), fmt.Sprintf("q%d", i)); err != nil {
				t.Fatalf("send %d: %v", i, err)
			}
			wantLen += 2
			if k > 0 && (i+1)%k == 0 {
				wantLen = 1
			}
		}

		if got := mgr.Turns(); got != sends {
			t.Fatalf("turns = %d, want %d", got, sends)
		}
		msgs := mgr.Messages()
		if len(msgs) != wantLen {
			t.Fatalf("history length = %d, want %d", len(msgs), wantLen)
		}
		for _, m := range msgs {
			if m.Role == types.RoleSystem {
				t.Fatalf("system turn stored in history")
			}
		}
		if wantLen == 1 && !msgs[0].IsSummary() {
			t.Fatalf("single remaining turn is not a summary")
		}
	})
}

// Truncation strategies are pure: they keep a suffix, preserve order, and
// never exceed their budget.
func TestTruncationStrategyProperties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(t, "messages")
		msgs := make([]types.Message, 0, n)
		for i := 0; i < n; i++ {
			content := rapid.StringMatching(`[a-z ]{1,40}`).Draw(t, fmt.Sprintf("content%d", i))
			if i%2 == 0 {
				msgs = append(msgs, types.NewUserMessage(content))
			} else {
				msgs = append(msgs, types.NewAssistantMessage(content))
			}
		}

		limit := rapid.IntRange(0, 200).Draw(t, "limit")
		kept, err := MaxChars(limit)(msgs)
		if err != nil {
			t.Fatalf("MaxChars: %v", err)
		}

		total := 0
		for _, m := range kept {
			total += len(m.Content)
		}
		if total > limit {
			t.Fatalf("kept %d chars, budget %d", total, limit)
		}
		// Suffix property: kept must equal the tail of the input.
		if len(kept) > len(msgs) {
			t.Fatalf("kept more messages than given")
		}
		tail := msgs[len(msgs)-len(kept):]
		for i := range kept {
			if kept[i].Content != tail[i].Content || kept[i].Role != tail[i].Role {
				t.Fatalf("kept[%d] is not the input suffix", i)
			}
		}
	})
}
