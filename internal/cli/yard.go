package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/receipt"
	"github.com/liancar/yard/internal/service/yard"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the yard board",
	Args:  cobra.NoArgs,
	RunE:  runBoard,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List service records",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule a wash",
	Long:  `Creates a record in the Scheduled lane. Without --amount the catalog price of --service is used.`,
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

var advanceCmd = &cobra.Command{
	Use:   "advance [id]",
	Short: "Move a record to its next lane",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdvance,
}

var statusCmd = &cobra.Command{
	Use:   "status [id] [status]",
	Short: "Set the status of a record",
	Args:  cobra.ExactArgs(2),
	RunE:  runStatus,
}

var receiptCmd = &cobra.Command{
	Use:   "receipt [id]",
	Short: "Write the PDF receipt of a finished service",
	Args:  cobra.ExactArgs(1),
	RunE:  runReceipt,
}

var (
	scheduleClient  string
	schedulePlate   string
	scheduleService string
	scheduleAmount  string
	scheduleDate    string

	listStatus string
	listFrom   string
	listTo     string

	receiptOut string
)

func init() {
	scheduleCmd.Flags().StringVar(&scheduleClient, "client", "", "Client name")
	scheduleCmd.Flags().StringVar(&schedulePlate, "plate", "", "Vehicle plate")
	scheduleCmd.Flags().StringVar(&scheduleService, "service", "", "Service type")
	scheduleCmd.Flags().StringVar(&scheduleAmount, "amount", "", "Amount charged")
	scheduleCmd.Flags().StringVar(&scheduleDate, "date", "", "Scheduling date (2006-01-02 or 02/01/2006)")

	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&listFrom, "from", "", "First day")
	listCmd.Flags().StringVar(&listTo, "to", "", "Last day")

	receiptCmd.Flags().StringVarP(&receiptOut, "out", "o", "", "Output file (default recibo-<plate>.pdf)")

	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(advanceCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(receiptCmd)
}

func runBoard(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	board, err := boardService.BoardView(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	var all []models.ServiceRecord
	for _, status := range models.Statuses() {
		lane := board.Lane(status)
		all = append(all, lane...)

		cmd.Printf("%s (%d)\n", status.Label(), len(lane))
		for _, r := range lane {
			printRecord(cmd, r)
		}
		cmd.Println()
	}

	revenue, pending := yard.Totals(all)
	cmd.Printf("Faturamento: %s\n", models.FormatBRL(revenue))
	cmd.Printf("Em aberto:   %s\n", models.FormatBRL(pending))
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	period, err := models.ParsePeriod(listFrom, listTo, location)
	if err != nil {
		return err
	}
	var status models.Status
	if listStatus != "" {
		if status, err = models.ParseStatus(listStatus); err != nil {
			return err
		}
	}

	records, err := boardService.List(commandContext(cmd), yard.Filter{Status: status, Period: period})
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No services found")
		return nil
	}
	for _, r := range records {
		printRecord(cmd, r)
	}
	cmd.Printf("\nTotal: %d services\n", len(records))
	return nil
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	date, err := models.ParseDate(scheduleDate, location)
	if err != nil {
		return err
	}

	in := yard.ScheduleInput{
		Client:      scheduleClient,
		Plate:       schedulePlate,
		ServiceType: scheduleService,
		Date:        date,
	}
	if strings.TrimSpace(scheduleAmount) != "" {
		amount, err := models.ParseAmount(scheduleAmount)
		if err != nil {
			return err
		}
		in.Amount = &amount
	}

	record, err := boardService.Schedule(commandContext(cmd), in)
	if err != nil {
		return fmt.Errorf("failed to schedule: %w", err)
	}
	cmd.Printf("Scheduled %s\n", record.ID)
	printRecord(cmd, record)
	return nil
}

func runAdvance(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	record, err := boardService.Advance(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to advance: %w", err)
	}
	printRecord(cmd, record)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	target, err := models.ParseStatus(args[1])
	if err != nil {
		return err
	}
	record, err := boardService.SetStatus(commandContext(cmd), args[0], target)
	if err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	printRecord(cmd, record)
	return nil
}

func runReceipt(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	record, err := boardService.Get(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	data, err := receipt.NewGenerator(location).Generate(record)
	if err != nil {
		return fmt.Errorf("failed to render receipt: %w", err)
	}

	out := receiptOut
	if out == "" {
		out = fmt.Sprintf("recibo-%s.pdf", strings.ToLower(record.Plate))
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}
	cmd.Printf("Receipt written to %s\n", out)
	return nil
}

func printRecord(cmd *cobra.Command, r models.ServiceRecord) {
	cmd.Printf("  %s  %s  %-8s %-20s %-22s %12s  %s\n",
		r.ID,
		r.CreatedAt.In(location).Format("02/01/2006"),
		r.Plate,
		r.Client,
		r.ServiceType,
		models.FormatBRL(r.Amount),
		r.Status.Label(),
	)
}
