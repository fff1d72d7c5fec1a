package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/liancar/yard/internal/domain/models"
)

var closeDayCmd = &cobra.Command{
	Use:   "close-day",
	Short: "Build the daily close",
	Long:  `Aggregates the day, archives it when MongoDB is configured and optionally sends it over WhatsApp.`,
	Args:  cobra.NoArgs,
	RunE:  runCloseDay,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived daily closes",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var (
	closeDate string
	closeSend bool
)

func init() {
	closeDayCmd.Flags().StringVar(&closeDate, "date", "", "Day to close (default today)")
	closeDayCmd.Flags().BoolVar(&closeSend, "send", false, "Send the close to the report recipient")
	historyCmd.Flags().StringVar(&periodFrom, "from", "", "First day")
	historyCmd.Flags().StringVar(&periodTo, "to", "", "Last day")

	rootCmd.AddCommand(closeDayCmd)
	rootCmd.AddCommand(historyCmd)
}

func runCloseDay(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	day, err := models.ParseDate(closeDate, location)
	if err != nil {
		return err
	}
	if day.IsZero() {
		day = time.Now().In(location)
	}

	ctx := commandContext(cmd)
	_, text, err := reportService.CloseDay(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to close day: %w", err)
	}
	cmd.Println(text)

	if !closeSend {
		return nil
	}
	if notifier == nil || reportTo == "" {
		return errors.New("whatsapp delivery is not configured")
	}
	if err := notifier.SendText(ctx, reportTo, text); err != nil {
		return fmt.Errorf("failed to send close: %w", err)
	}
	cmd.Printf("\nSent to %s\n", reportTo)
	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	period, err := models.ParsePeriod(periodFrom, periodTo, location)
	if err != nil {
		return err
	}
	reports, err := reportService.History(commandContext(cmd), period)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(reports) == 0 {
		cmd.Println("No archived closes")
		return nil
	}
	for _, r := range reports {
		cmd.Printf("  %s  serviços %d  concluídos %d  faturamento %s  lucro %s\n",
			r.Date.Format("02/01/2006"),
			r.ServicesScheduled,
			r.ServicesDone,
			models.FormatBRL(r.Revenue),
			models.FormatBRL(r.Profit),
		)
	}
	return nil
}
