package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ZxlHyy/i18n-tr/internal/catalog"
	"github.com/ZxlHyy/i18n-tr/internal/config"
	"github.com/ZxlHyy/i18n-tr/internal/migrate"
	"github.com/ZxlHyy/i18n-tr/internal/reconcile"
	"github.com/ZxlHyy/i18n-tr/pkg/i18n"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "i18n-tr",
		Short: "Catalog maintainer for marker-based string translation",
		Long: `i18n-tr scans a source tree for translation marker calls, reconciles the
extracted texts against per-locale catalog files, and regenerates the
runtime manifest consumed by the i18n package.`,
		Version:       i18n.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}

	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Run failed")
		os.Exit(exitCode(err))
	}
}

// exitCode separates data-integrity conflicts, which need a catalog edit or
// a migration rule, from ordinary configuration and input failures.
func exitCode(err error) int {
	var keyConflict *catalog.ConflictError
	var ruleConflict *migrate.ConflictError
	if errors.As(err, &keyConflict) || errors.As(err, &ruleConflict) {
		return 2
	}
	return 1
}

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile catalogs against the source tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			prune, _ := cmd.Flags().GetBool("prune")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return runSync(configPath(cmd), prune, dryRun, false)
		},
	}

	cmd.Flags().StringP("config", "c", "i18n-tr.yaml", "Path to the project configuration")
	cmd.Flags().Bool("prune", false, "Remove entries whose text no longer appears in the tree")
	cmd.Flags().Bool("dry-run", false, "Compute and report without writing any file")

	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the missing-translation report without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(configPath(cmd), false, true, true)
		},
	}

	cmd.Flags().StringP("config", "c", "i18n-tr.yaml", "Path to the project configuration")

	return cmd
}

// configPath resolves the configuration file, letting I18NTR_CONFIG stand
// in when the flag is not given.
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if !cmd.Flags().Changed("config") {
		if env := os.Getenv("I18NTR_CONFIG"); env != "" {
			return env
		}
	}
	return path
}

// runSync handles the `sync` and `report` commands.
func runSync(cfgPath string, prune, dryRun, reportOnly bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	rep, err := reconcile.Run(ctx, cfg, reconcile.Options{
		Prune:  prune || cfg.Prune,
		DryRun: dryRun,
	})
	if err != nil {
		return err
	}

	printReport(os.Stdout, rep, reportOnly)
	return nil
}

// printReport writes the human-readable run summary to w.
func printReport(w io.Writer, rep *reconcile.Report, reportOnly bool) {
	if !reportOnly {
		fmt.Fprintf(w, "extracted %d texts: %d added, %d migrated, %d pruned\n",
			rep.Extracted, rep.Added, rep.Migrated, rep.Pruned)
	}
	if len(rep.Missing) == 0 {
		fmt.Fprintln(w, "no missing translations")
		return
	}
	fmt.Fprintf(w, "missing translations (%d):\n", len(rep.Missing))
	for _, text := range rep.Missing {
		fmt.Fprintf(w, "  %s\n", text)
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
