// Command stockchat sends one message to the Stock-Lab chat backend and
// streams the assistant's reply to stdout.
//
// Usage:
//
//	stockchat [flags] "message"
//	echo "message" | stockchat [flags]
//
// Flags:
//
//	-config string    Path to TOML config file (optional)
//	-base-url string  Base URL of the chat backend (overrides config/env)
//	-session string   Conversation session ID (default: random)
//	-token string     Bearer token (overrides STOCKCHAT_TOKEN)
//	-timeout duration Per-request timeout (overrides config/env)
//	-verbose          Debug logging to stderr
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crucial-sub/stockchat"
	"github.com/crucial-sub/stockchat/api"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stockchat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "Path to TOML config file")
		baseURL    = flag.String("base-url", "", "Base URL of the chat backend")
		sessionID  = flag.String("session", "", "Conversation session ID")
		token      = flag.String("token", "", "Bearer token")
		timeout    = flag.Duration("timeout", 0, "Per-request timeout")
		verbose    = flag.Bool("verbose", false, "Debug logging to stderr")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}

	cfg, err := loadConfig(*configPath, *baseURL, *timeout)
	if err != nil {
		return err
	}
	if cfg.BaseURL == "" {
		return errors.New("no base URL configured (use -base-url, STOCKCHAT_BASE_URL, or a config file)")
	}

	message, err := readMessage(flag.Args())
	if err != nil {
		return err
	}

	bearer := *token
	if bearer == "" {
		bearer = os.Getenv("STOCKCHAT_TOKEN")
	}
	var transportOpts []api.Option
	if bearer != "" {
		transportOpts = append(transportOpts, api.WithTokenSource(api.StaticToken(bearer)))
	}
	transport := api.New(cfg.BaseURL, transportOpts...)

	clientOpts := []stockchat.Option{
		stockchat.WithConfig(cfg),
		stockchat.WithLogger(logger),
		stockchat.WithEventHandler(printEvent(logger)),
	}
	if *sessionID != "" {
		clientOpts = append(clientOpts, stockchat.WithSessionID(*sessionID))
	}
	client := stockchat.New(transport, clientOpts...)

	// Ctrl-C aborts the in-flight turn cleanly and silently.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := client.SendMessage(ctx, message); err != nil {
		return err
	}
	if client.State() == stockchat.StateComplete {
		fmt.Println()
	}
	return nil
}

// printEvent writes chunk text to stdout as it arrives and logs the rest.
func printEvent(logger zerolog.Logger) func(stockchat.Event) {
	return func(ev stockchat.Event) {
		switch e := ev.(type) {
		case stockchat.EventStreamStart:
			logger.Debug().Str("message_id", e.MessageID).Msg("stream started")
		case stockchat.EventStreamChunk:
			fmt.Print(e.Content)
		case stockchat.EventSideChannel:
			logger.Debug().RawJSON("data", e.Data).Msg("side-channel payload")
		case stockchat.EventProtocolError:
			logger.Warn().Str("code", e.Code).Bool("retryable", e.Retryable).Msg(e.Message)
		}
	}
}

// readMessage takes the message from args, or from stdin when piped.
func readMessage(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		return "", errors.New("no message given")
	}
	return msg, nil
}
