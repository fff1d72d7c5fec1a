// Package cli implements lianctl, the back-office command line for the yard.
package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/config"
	"github.com/liancar/yard/internal/repository/backend"
	"github.com/liancar/yard/internal/service/finance"
	"github.com/liancar/yard/internal/service/reporting"
	"github.com/liancar/yard/internal/service/yard"
	whatsappclient "github.com/liancar/yard/pkg/clients/whatsapp"
	"github.com/liancar/yard/pkg/logger"
)

// Notifier delivers a text to a WhatsApp recipient.
type Notifier interface {
	SendText(ctx context.Context, to, body string) error
}

// Services wired by the root command, or injected by tests.
var (
	boardService   *yard.Service
	financeService *finance.Service
	reportService  *reporting.Service
	notifier       Notifier
	reportTo       string
	location       = time.UTC

	stores   *backend.Backend
	injected bool
)

var envFile string

var rootCmd = &cobra.Command{
	Use:               "lianctl",
	Short:             "Lian Car yard back office",
	Long:              `Schedule washes, move cars across the yard board, record expenses and export reports.`,
	SilenceUsage:      true,
	PersistentPreRunE: openServices,
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		return closeServices(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openServices loads configuration and wires the stores once per invocation.
func openServices(cmd *cobra.Command, _ []string) error {
	if injected || boardService != nil {
		return nil
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stores, err = backend.Open(ctx, cfg, log.Named("repo"))
	if err != nil {
		return err
	}

	location = cfg.Reporting.Location()
	boardService = yard.NewService(stores.Services, log.Named("svc.yard"))
	financeService = finance.NewService(boardService, stores.Expenses, log.Named("svc.finance"))
	reportService = reporting.NewService(financeService, stores.Reports, log.Named("svc.reporting"))
	reportTo = cfg.WhatsApp.ReportTo
	if cfg.WhatsApp.Enabled() {
		notifier = whatsappclient.NewClient(cfg.WhatsApp)
	}
	log.Debug("cli services ready", zap.String("storage", cfg.Storage.Driver))
	return nil
}

func closeServices(ctx context.Context) error {
	if stores == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := stores.Close(ctx)
	stores = nil
	boardService, financeService, reportService, notifier = nil, nil, nil, nil
	return err
}

func requireServices() error {
	if boardService == nil || financeService == nil || reportService == nil {
		return errors.New("services not configured")
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
