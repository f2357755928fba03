// Package conversation implements bounded multi-turn dialogue state.
//
// A Manager accumulates user/assistant turns in a History, replays them to
// a model gateway on every exchange, and keeps the active context bounded:
// after every k-th completed exchange the whole history is compressed into
// a single fact-preserving summary turn via one extra model call. Manual
// truncation strategies (last-N-turns, char/word/token limits) are
// available as pure functions for callers that want deterministic
// reduction instead of, or alongside, periodic summarization.
//
// The returned reply of an exchange is never altered by retention side
// effects, and a failed summarization never fails the exchange that
// triggered it.
package conversation
