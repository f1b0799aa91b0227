package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jcline/revlist/internal/aggregate"
	"github.com/jcline/revlist/internal/config"
	"github.com/jcline/revlist/internal/output"
)

const version = "0.1.0"

// Exit codes.
const (
	ExitSuccess      = 0
	ExitUsageError   = 1
	ExitRuntimeError = 2
)

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var (
	flagConfig   string
	flagState    string
	flagValue    int
	flagDuration string
	flagFormat   string
	flagReverse  bool
	flagDebug    bool
	flagInsecure bool
	flagCACert   string
	flagWorkers  int
)

var rootCmd = &cobra.Command{
	Use:   "revlist",
	Short: "List open review requests across code hosting services",
	Long: "Revlist aggregates open pull, merge, and change requests from GitHub, GitLab,\n" +
		"Pagure, and Gerrit instances, filters them by age, and prints one sorted report.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		runList()
		return nil
	},
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

func runList() {
	cfg, err := config.Load(flagConfig, buildOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var cfgErr *config.ConfigError
		var argErr *config.ArgumentError
		if errors.As(err, &cfgErr) || errors.As(err, &argErr) {
			exitCode = ExitUsageError
		} else {
			exitCode = ExitRuntimeError
		}
		return
	}

	log := newLogger(cfg.Arguments.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := aggregate.Run(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if err := output.Write(os.Stdout, records, cfg.Arguments.Format, cfg.Arguments.Reverse); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
}

// newLogger builds the process logger once at startup; the level is
// read-only afterwards.
func newLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// buildOverrides collects the flags the user explicitly set, keyed the way
// config.Load expects them.
func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagState != "" {
		m["state"] = flagState
	}
	if flagValue > 0 {
		m["value"] = strconv.Itoa(flagValue)
	}
	if flagDuration != "" {
		m["duration"] = flagDuration
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagCACert != "" {
		m["cacert"] = flagCACert
	}
	if flagWorkers > 0 {
		m["workers"] = strconv.Itoa(flagWorkers)
	}
	if flagReverse {
		m["reverse"] = "true"
	}
	if flagInsecure {
		m["insecure"] = "true"
	}
	if flagDebug {
		m["debug"] = "true"
	}
	return m
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print revlist version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "revlist version %s\n", version)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Config file path")
	rootCmd.Flags().StringVarP(&flagState, "state", "s", "", "Age filter state (older, newer)")
	rootCmd.Flags().IntVarP(&flagValue, "value", "v", 0, "Age filter value")
	rootCmd.Flags().StringVarP(&flagDuration, "duration", "d", "", "Age filter duration unit (y, m, d, h, min)")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Output style (oneline, indented, json)")
	rootCmd.Flags().BoolVar(&flagReverse, "reverse", false, "Sort newest first")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&flagInsecure, "insecure", "k", false, "Skip TLS certificate verification")
	rootCmd.Flags().StringVar(&flagCACert, "cacert", "", "Additional CA certificate bundle (PEM)")
	rootCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent fetch limit")
}
