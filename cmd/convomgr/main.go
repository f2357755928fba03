// convomgr is the command-line entry point: an interactive chat session
// backed by the conversation manager, and a one-shot structured
// extraction mode.
//
// Usage:
//
//	convomgr chat                        # interactive chat (reads stdin)
//	convomgr chat --config config.yaml   # with a config file
//	convomgr extract "free text here"    # extract contact fields
//	convomgr health                      # gateway reachability probe
//	convomgr version
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arnavzz/Conversation-Management/config"
	"github.com/arnavzz/Conversation-Management/conversation"
	"github.com/arnavzz/Conversation-Management/extraction"
	"github.com/arnavzz/Conversation-Management/internal/metrics"
	"github.com/arnavzz/Conversation-Management/llm/groq"
)

// Build info, injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "chat":
		err = runChat(os.Args[2:])
	case "extract":
		err = runExtract(os.Args[2:])
	case "health":
		err = runHealth(os.Args[2:])
	case "version":
		fmt.Printf("convomgr %s (%s)\n", Version, GitCommit)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: convomgr <chat|extract|health|version> [flags]")
}

// runtime bundles what every subcommand needs.
type runtime struct {
	cfg       config.Config
	logger    *zap.Logger
	gateway   *groq.Gateway
	collector *metrics.Collector
}

// setup loads config and builds the logger and gateway shared by all
// subcommands.
func setup(fs *flag.FlagSet, args []string) (*runtime, error) {
	configPath := fs.String("config", "", "path to YAML config file")
	metricsAddr := fs.String("metrics-addr", "", "address to expose /metrics on (disabled when empty)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Log.BuildLogger()
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:    cfg,
		logger: logger,
		gateway: groq.New(groq.Config{
			APIKey:       cfg.LLM.APIKey,
			BaseURL:      cfg.LLM.BaseURL,
			DefaultModel: cfg.LLM.Model,
			Timeout:      cfg.LLM.Timeout,
		}, logger),
	}

	if *metricsAddr != "" {
		rt.collector = metrics.NewCollector("convomgr")
		rt.gateway.WithMetrics(rt.collector)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	return rt, nil
}

func runChat(args []string) error {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	rt, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer rt.logger.Sync() //nolint:errcheck

	mgr, err := conversation.NewManager(conversation.Config{
		Model:              rt.cfg.LLM.Model,
		SystemPrompt:       rt.cfg.Conversation.SystemPrompt,
		SummarizeEveryK:    rt.cfg.Conversation.SummarizeEveryK,
		Temperature:        rt.cfg.Conversation.Temperature,
		SummaryTemperature: rt.cfg.Conversation.SummaryTemperature,
		RollbackOnError:    rt.cfg.Conversation.RollbackOnError,
	}, rt.gateway, rt.logger)
	if err != nil {
		return err
	}
	mgr.WithMetrics(rt.collector)

	sessionID := uuid.NewString()
	rt.logger.Info("chat session started",
		zap.String("session_id", sessionID),
		zap.String("model", rt.cfg.LLM.Model),
		zap.Int("summarize_every_k", rt.cfg.Conversation.SummarizeEveryK),
	)
	fmt.Println("convomgr chat — /history, /summarize, /reset, /quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit", line == "/exit":
			return scanner.Err()
		case line == "/history":
			for _, m := range mgr.Messages() {
				fmt.Printf("[%s] %s\n", m.Role, m.Content)
			}
			continue
		case line == "/summarize":
			if err := mgr.Summarize(context.Background()); err != nil {
				fmt.Println("summarization failed:", err)
			} else {
				fmt.Println("history compressed")
			}
			continue
		case line == "/reset":
			mgr.Reset()
			fmt.Println("history cleared")
			continue
		}

		reply, err := mgr.Send(context.Background(), line)
		if err != nil {
			fmt.Println("send failed:", err)
			continue
		}
		fmt.Println(reply)
	}
	return scanner.Err()
}

func runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	rt, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer rt.logger.Sync() //nolint:errcheck

	text := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("extract requires the input text as an argument")
	}

	extractor, err := extraction.NewExtractor(rt.gateway, extraction.ContactSchema(), "record_contact", rt.cfg.LLM.Model, rt.logger)
	if err != nil {
		return err
	}
	extractor.WithMetrics(rt.collector)

	record, err := extractor.Extract(context.Background(), text)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runHealth(args []string) error {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	rt, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer rt.logger.Sync() //nolint:errcheck

	status, err := rt.gateway.HealthCheck(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("healthy=%v latency=%s\n", status.Healthy, status.Latency)
	return nil
}
