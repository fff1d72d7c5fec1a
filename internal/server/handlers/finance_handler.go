package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/export"
	"github.com/liancar/yard/internal/service/finance"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FinanceHandler serves the dashboard KPIs, expenses and the period workbook.
type FinanceHandler struct {
	finance *finance.Service
	excel   *export.Generator
	loc     *time.Location
	logger  *zap.Logger
}

// NewFinanceHandler constructs the finance HTTP adapter.
func NewFinanceHandler(financeSvc *finance.Service, excel *export.Generator, loc *time.Location, logger *zap.Logger) *FinanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &FinanceHandler{finance: financeSvc, excel: excel, loc: loc, logger: logger}
}

// Dashboard returns the KPI tiles for ?from=&to=.
func (h *FinanceHandler) Dashboard(c *gin.Context) {
	period, err := parsePeriod(c, h.loc)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	summary, err := h.finance.Summary(c.Request.Context(), period)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// ListExpenses returns the expenses for ?from=&to=.
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	period, err := parsePeriod(c, h.loc)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	expenses, err := h.finance.ListExpenses(c.Request.Context(), period)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	c.JSON(http.StatusOK, out)
}

// AddExpense records a new expense.
func (h *FinanceHandler) AddExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid expense payload", zap.Error(err))
		handleError(c, h.logger, bindError(err))
		return
	}

	date, err := parseDate(req.Date, h.loc)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	expense, err := h.finance.AddExpense(c.Request.Context(), models.NewExpenseRecord{
		Description: req.Description,
		Amount:      *req.Amount,
		Date:        date,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// ExportReport downloads the XLSX period report.
func (h *FinanceHandler) ExportReport(c *gin.Context) {
	period, err := parsePeriod(c, h.loc)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	report, err := h.finance.PeriodReport(c.Request.Context(), period)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	data, err := h.excel.Generate(report)
	if err != nil {
		handleError(c, h.logger, fmt.Errorf("generate workbook: %w", err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="relatorio-lian-car.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
