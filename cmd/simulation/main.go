package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yorikya/note-speaker/internal/bootstrap"
	"github.com/yorikya/note-speaker/internal/config"
	"github.com/yorikya/note-speaker/internal/pkg/logger"
	"github.com/yorikya/note-speaker/pkg/assistant"
	"github.com/yorikya/note-speaker/pkg/intent"
)

const simulationLog = "logs/simulation.log"

type options struct {
	logFile           string
	sessionID         string
	embeddingProvider string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "simulation",
		Short: "Interactive console for the note assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.InOrStdin())
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&opts.logFile, "log-file", simulationLog, "log file path")
	cmd.Flags().StringVar(&opts.sessionID, "session", "simulation", "session id used for events")
	cmd.Flags().StringVar(&opts.embeddingProvider, "embedding-provider", "", "override EMBEDDING_PROVIDER (gemini|ollama|jina|fallback)")
	return cmd
}

func run(ctx context.Context, opts *options, in io.Reader) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()
	if opts.embeddingProvider != "" {
		cfg.Ai.EmbeddingProvider = opts.embeddingProvider
	}
	sysLogger := logger.NewIsolatedLogger(opts.logFile)
	defer sysLogger.Sync()

	router := bootstrap.NewRouter(ctx, cfg, bootstrap.NewEmbeddingProvider(ctx, cfg), sysLogger)
	a := assistant.New(opts.sessionID, router, assistant.Options{TitleCutoff: cfg.Intent.TitleCutoff}, sysLogger)

	color.Cyan("=== note-speaker console ===")
	fmt.Println("Type a command, optionally followed by '| payload'. The payload may be JSON.")
	fmt.Println("Meta commands: :notes, :state, :quit")

	prompt := color.New(color.FgYellow)
	scanner := bufio.NewScanner(in)
	for {
		prompt.Printf("[%s] > ", a.State().Mode)
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case ":quit", ":q":
			return nil
		case ":notes":
			printNotes(a)
			continue
		case ":state":
			printJSON(a.State())
			continue
		}

		command, payload, err := parseLine(line)
		if err != nil {
			color.Red("Invalid payload: %v", err)
			continue
		}
		color.Green("%s", a.Handle(ctx, command, payload))
	}
}

// parseLine splits "command | payload". Without a payload the command text
// doubles as the payload.
func parseLine(line string) (string, intent.Payload, error) {
	command, raw, found := strings.Cut(line, "|")
	command = strings.TrimSpace(command)
	if !found {
		return command, intent.TextPayload(command), nil
	}

	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") {
		fields := map[string]interface{}{}
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return "", intent.Payload{}, err
		}
		return command, intent.FieldsPayload(fields), nil
	}
	return command, intent.TextPayload(raw), nil
}

func printNotes(a *assistant.Assistant) {
	notes := a.Notes()
	if len(notes) == 0 {
		fmt.Println("(no notes)")
		return
	}
	for i, n := range notes {
		color.Cyan("%d. %s", i+1, n.Title)
		if n.Description != "" {
			fmt.Println("   " + strings.ReplaceAll(n.Description, "\n", "\n   "))
		}
	}
}

func printJSON(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}
