package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/export"
	"github.com/liancar/yard/internal/service/yard"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show revenue, pending, expenses and profit",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Manage expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add [description] [amount]",
	Short: "Record an expense",
	Args:  cobra.ExactArgs(2),
	RunE:  runExpenseAdd,
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses",
	Args:  cobra.NoArgs,
	RunE:  runExpenseList,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records",
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export services as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExportCSV,
}

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Export the period report as XLSX",
	Args:  cobra.NoArgs,
	RunE:  runExportXLSX,
}

var (
	periodFrom  string
	periodTo    string
	expenseDate string
	csvOut      string
	xlsxOut     string
)

func init() {
	for _, c := range []*cobra.Command{summaryCmd, expenseListCmd, exportCSVCmd, exportXLSXCmd} {
		c.Flags().StringVar(&periodFrom, "from", "", "First day")
		c.Flags().StringVar(&periodTo, "to", "", "Last day")
	}
	expenseAddCmd.Flags().StringVar(&expenseDate, "date", "", "Expense date")
	exportCSVCmd.Flags().StringVarP(&csvOut, "out", "o", "", "Output file (default stdout)")
	exportXLSXCmd.Flags().StringVarP(&xlsxOut, "out", "o", "relatorio-lian-car.xlsx", "Output file")

	expenseCmd.AddCommand(expenseAddCmd)
	expenseCmd.AddCommand(expenseListCmd)
	exportCmd.AddCommand(exportCSVCmd)
	exportCmd.AddCommand(exportXLSXCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(expenseCmd)
	rootCmd.AddCommand(exportCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	period, err := models.ParsePeriod(periodFrom, periodTo, location)
	if err != nil {
		return err
	}
	s, err := financeService.Summary(commandContext(cmd), period)
	if err != nil {
		return fmt.Errorf("failed to summarize: %w", err)
	}

	cmd.Printf("Faturamento: %s\n", models.FormatBRL(s.Revenue))
	cmd.Printf("Em aberto:   %s\n", models.FormatBRL(s.Pending))
	cmd.Printf("Despesas:    %s\n", models.FormatBRL(s.Expenses))
	cmd.Printf("Lucro:       %s\n", models.FormatBRL(s.Profit))
	cmd.Printf("Agendado: %d  Lavando: %d  Concluído: %d\n", s.ScheduledCount, s.WashingCount, s.DoneCount)
	return nil
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	amount, err := models.ParseAmount(args[1])
	if err != nil {
		return err
	}
	date, err := models.ParseDate(expenseDate, location)
	if err != nil {
		return err
	}

	expense, err := financeService.AddExpense(commandContext(cmd), models.NewExpenseRecord{
		Description: args[0],
		Amount:      amount,
		Date:        date,
	})
	if err != nil {
		return fmt.Errorf("failed to add expense: %w", err)
	}
	cmd.Printf("Expense %s recorded: %s %s\n", expense.ID, expense.Description, models.FormatBRL(expense.Amount))
	return nil
}

func runExpenseList(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	period, err := models.ParsePeriod(periodFrom, periodTo, location)
	if err != nil {
		return err
	}
	expenses, err := financeService.ListExpenses(commandContext(cmd), period)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}
	if len(expenses) == 0 {
		cmd.Println("No expenses found")
		return nil
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
		cmd.Printf("  %s  %-30s %12s\n", e.Date.In(location).Format("02/01/2006"), e.Description, models.FormatBRL(e.Amount))
	}
	cmd.Printf("\nTotal: %s\n", models.FormatBRL(total))
	return nil
}

func runExportCSV(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	period, err := models.ParsePeriod(periodFrom, periodTo, location)
	if err != nil {
		return err
	}
	records, err := boardService.List(commandContext(cmd), yard.Filter{Period: period})
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if csvOut != "" {
		f, err := os.Create(csvOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", csvOut, err)
		}
		defer f.Close()
		w = f
	}
	return export.WriteServicesCSV(w, records, location)
}

func runExportXLSX(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	period, err := models.ParsePeriod(periodFrom, periodTo, location)
	if err != nil {
		return err
	}
	report, err := financeService.PeriodReport(commandContext(cmd), period)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	data, err := export.NewGenerator(location).Generate(report)
	if err != nil {
		return fmt.Errorf("generate workbook: %w", err)
	}
	if err := os.WriteFile(xlsxOut, data, 0o644); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	cmd.Printf("Report written to %s\n", xlsxOut)
	return nil
}
