package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/liancar/yard/internal/domain/models"
)

const (
	summarySheet  = "Resumo"
	servicesSheet = "Servicos"
	expensesSheet = "Despesas"
	amountFormat  = "#,##0.00"
)

// Generator renders a PeriodReport as an XLSX workbook.
type Generator struct {
	loc *time.Location
}

// NewGenerator returns a generator writing dates in loc (UTC when nil).
func NewGenerator(loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{loc: loc}
}

// Generate builds the workbook: a summary sheet followed by the services and
// expenses of the period.
func (g *Generator) Generate(report models.PeriodReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	amountStyle, err := file.NewStyle(&excelize.Style{CustomNumFmt: stringPtr(amountFormat)})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}

	g.writeSummary(file, report, amountStyle)

	if _, err := file.NewSheet(servicesSheet); err != nil {
		return nil, err
	}
	g.writeServices(file, report.Services, amountStyle)

	if _, err := file.NewSheet(expensesSheet); err != nil {
		return nil, err
	}
	g.writeExpenses(file, report.Expenses, amountStyle)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, report models.PeriodReport, amountStyle int) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Relatório Lian Car")
	set("A2", "Início do período")
	set("B2", g.formatDate(report.Period.From))
	set("A3", "Fim do período")
	set("B3", g.formatDate(report.Period.To))

	rows := []struct {
		label string
		value interface{}
	}{
		{"Faturamento", amountValue(report.Summary.Revenue)},
		{"Em aberto", amountValue(report.Summary.Pending)},
		{"Despesas", amountValue(report.Summary.Expenses)},
		{"Lucro", amountValue(report.Summary.Profit)},
		{models.StatusScheduled.Label(), report.Summary.ScheduledCount},
		{models.StatusWashing.Label(), report.Summary.WashingCount},
		{models.StatusDone.Label(), report.Summary.DoneCount},
	}
	for i, row := range rows {
		set(fmt.Sprintf("A%d", 5+i), row.label)
		set(fmt.Sprintf("B%d", 5+i), row.value)
	}
	_ = file.SetCellStyle(summarySheet, "B5", "B8", amountStyle)

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "B", 16)
}

func (g *Generator) writeServices(file *excelize.File, records []models.ServiceRecord, amountStyle int) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(servicesSheet, cell, value)
	}

	for i, header := range ServicesCSVHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}
	for i, record := range records {
		row := i + 2
		set(fmt.Sprintf("A%d", row), g.formatDate(record.CreatedAt))
		set(fmt.Sprintf("B%d", row), record.Client)
		set(fmt.Sprintf("C%d", row), record.Plate)
		set(fmt.Sprintf("D%d", row), record.ServiceType)
		set(fmt.Sprintf("E%d", row), amountValue(record.Amount))
		set(fmt.Sprintf("F%d", row), record.Status.Label())
	}
	if len(records) > 0 {
		_ = file.SetCellStyle(servicesSheet, "E2", fmt.Sprintf("E%d", len(records)+1), amountStyle)
	}

	_ = file.SetColWidth(servicesSheet, "A", "A", 12)
	_ = file.SetColWidth(servicesSheet, "B", "B", 28)
	_ = file.SetColWidth(servicesSheet, "C", "C", 12)
	_ = file.SetColWidth(servicesSheet, "D", "D", 24)
	_ = file.SetColWidth(servicesSheet, "E", "F", 14)
}

func (g *Generator) writeExpenses(file *excelize.File, expenses []models.ExpenseRecord, amountStyle int) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(expensesSheet, cell, value)
	}

	set("A1", "Data")
	set("B1", "Descricao")
	set("C1", "Valor")
	for i, expense := range expenses {
		row := i + 2
		set(fmt.Sprintf("A%d", row), g.formatDate(expense.Date))
		set(fmt.Sprintf("B%d", row), expense.Description)
		set(fmt.Sprintf("C%d", row), amountValue(expense.Amount))
	}
	if len(expenses) > 0 {
		_ = file.SetCellStyle(expensesSheet, "C2", fmt.Sprintf("C%d", len(expenses)+1), amountStyle)
	}

	_ = file.SetColWidth(expensesSheet, "A", "A", 12)
	_ = file.SetColWidth(expensesSheet, "B", "B", 40)
	_ = file.SetColWidth(expensesSheet, "C", "C", 14)
}

func (g *Generator) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(g.loc).Format(DateLayout)
}

// amountValue keeps cells numeric so the sheet can sum them.
func amountValue(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func stringPtr(s string) *string {
	return &s
}
