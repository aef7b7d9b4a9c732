package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sablefm/sable/internal/config"
	"github.com/sablefm/sable/internal/logging"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		verbosity   int
		workers     int
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:           "sable",
		Short:         "File-operation engine of the sable file manager",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.Setup(verbosity)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("workers") {
				cfg.Tasks.Workers = workers
			}
			engineCfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "sable %s\n", version)
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().
		IntVar(&workers, "workers", 0, "number of concurrent leaf executors (default: config, then min(NumCPU, 8))")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	rootCmd.AddCommand(cpCmd(), mvCmd(), lnCmd(), rmCmd(), trashCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

// engineCfg is resolved once in PersistentPreRunE and read by subcommands.
var engineCfg config.Config

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
