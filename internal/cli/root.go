// Package cli implements the memcart CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rcliao/memory-cartography/internal/client"
	"github.com/rcliao/memory-cartography/internal/session"
	"github.com/rcliao/memory-cartography/internal/view"
)

var (
	sessionFlag string
	baseURLFlag string
	timeoutFlag time.Duration
	formatFlag  string
	verboseFlag bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "memcart",
	Short: "Browse and weigh a memory collection",
	Long:  "A client for the memory cartography backend. Search photo memories, adjust per-item relevance weights, edit locations, and generate narrative summaries.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&sessionFlag, "session", "s", "", "Session ID, or a pasted page URL containing ?session= (default: $MEMCART_SESSION)")
	RootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Backend base URL (default: $MEMCART_API_URL or $MEMCART_BACKEND_URL)")
	RootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", client.DefaultTimeout, "Request timeout")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verboseFlag {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func newClient() *client.Client {
	return client.New(client.Options{
		BaseURL: baseURLFlag,
		Timeout: timeoutFlag,
		Logger:  newLogger(),
	})
}

// newController resolves the session ID and builds a controller around a
// configured client. Missing session is a hard error for every
// state-mutating command.
func newController() (*view.Controller, error) {
	id, err := session.Resolve(sessionFlag)
	if err != nil {
		return nil, err
	}
	return view.New(view.Options{
		Client:    newClient(),
		SessionID: id,
		Logger:    newLogger(),
	}), nil
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
