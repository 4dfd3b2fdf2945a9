package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "examsplit",
	Short: "Split scanned exam pages into question and answer crops",
	Long: `examsplit finds the text lines of a scanned exam page, classifies the
question and answer markers that start them, and writes one image per
question and per answer option.

Logs go to stderr so that "split --dry-run" can print its manifest on stdout.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ll, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}

		opts := &slog.HandlerOptions{
			Level: logLevel(ll),
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts)))

		return nil
	},
}

// logLevel maps a --log-level value to a slog level. Unknown values mean INFO.
func logLevel(name string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func init() {
	ll := os.Getenv("LOG_LEVEL")
	if ll == "" {
		ll = "INFO"
	}
	RootCmd.PersistentFlags().String("log-level", ll, "The logging level for the command (DEBUG, INFO, WARN, ERROR)")
}
