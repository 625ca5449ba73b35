// Command haloqa serves the demo contact page and drives the search
// workflow from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thesyncim/haloqa/internal/logging"
	"github.com/thesyncim/haloqa/pkg/harness/config"
	"github.com/thesyncim/haloqa/pkg/harness/search"
)

// Exit codes.
const (
	exitFailure   = 1
	exitChallenge = 3
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    config.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "haloqa",
	Short: "Demo contact page server and search automation harness",
	Long: `haloqa serves the demo contact page and runs the human-paced search
workflow used by the browser tests.

Settings come from --config (YAML), a .env file and the environment
(BASE_URL, TIMEOUT, VIEWPORT_WIDTH, VIEWPORT_HEIGHT, HEADLESS, SLOW_MO,
SCREENSHOT_DIR, LOG_LEVEL).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			logger, err = logging.NewDevelopment()
		} else {
			logger, err = logging.New(cfg.LogLevel)
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(devicesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates an inconclusive run (challenge) from a failed one.
func exitCode(err error) int {
	if errors.Is(err, search.ErrCaptcha) {
		return exitChallenge
	}
	return exitFailure
}
