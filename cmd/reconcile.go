package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"loneton_server/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reconcileOnce bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Expire overdue matches and end finished reflection periods",
	Long: `Applies the time-based transitions for every user. With --once it makes
a single pass and exits, otherwise it repeats every RECONCILE_INTERVAL.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileOnce, "once", false, "run a single pass and exit")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("❌ startup failed", zap.Error(err))
		return err
	}
	defer a.close()

	if !reconcileOnce {
		a.reconciler.Run(ctx)
		return nil
	}

	n, err := a.reconciler.RunOnce(ctx)
	logger.Info("✅ reconcile pass finished", zap.Int("processed", n))
	return err
}
