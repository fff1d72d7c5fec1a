package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/liancar/yard/internal/domain/models"
)

type scheduleRequest struct {
	Client      string           `json:"client" binding:"required"`
	Plate       string           `json:"plate" binding:"required"`
	ServiceType string           `json:"service_type"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        string           `json:"date"`
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required,yardstatus"`
}

type expenseRequest struct {
	Description string           `json:"description" binding:"required"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Date        string           `json:"date"`
}

// Amounts leave the API as fixed two-decimal strings.

type serviceResponse struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	Client      string        `json:"client"`
	Plate       string        `json:"plate"`
	ServiceType string        `json:"service_type"`
	Amount      string        `json:"amount"`
	Status      models.Status `json:"status"`
	StatusLabel string        `json:"status_label"`
}

func toServiceResponse(r models.ServiceRecord) serviceResponse {
	return serviceResponse{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Client:      r.Client,
		Plate:       r.Plate,
		ServiceType: r.ServiceType,
		Amount:      r.Amount.StringFixed(2),
		Status:      r.Status,
		StatusLabel: r.Status.Label(),
	}
}

func toServiceResponses(records []models.ServiceRecord) []serviceResponse {
	out := make([]serviceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toServiceResponse(r))
	}
	return out
}

type boardResponse struct {
	Scheduled    []serviceResponse `json:"scheduled"`
	Washing      []serviceResponse `json:"washing"`
	Done         []serviceResponse `json:"done"`
	RevenueTotal string            `json:"revenue_total"`
	PendingTotal string            `json:"pending_total"`
}

type expenseResponse struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
}

func toExpenseResponse(e models.ExpenseRecord) expenseResponse {
	return expenseResponse{ID: e.ID, Date: e.Date, Description: e.Description, Amount: e.Amount.StringFixed(2)}
}

type summaryResponse struct {
	Revenue        string `json:"revenue"`
	Pending        string `json:"pending"`
	Expenses       string `json:"expenses"`
	Profit         string `json:"profit"`
	ScheduledCount int    `json:"scheduled_count"`
	WashingCount   int    `json:"washing_count"`
	DoneCount      int    `json:"done_count"`
}

func toSummaryResponse(s models.Summary) summaryResponse {
	return summaryResponse{
		Revenue:        s.Revenue.StringFixed(2),
		Pending:        s.Pending.StringFixed(2),
		Expenses:       s.Expenses.StringFixed(2),
		Profit:         s.Profit.StringFixed(2),
		ScheduledCount: s.ScheduledCount,
		WashingCount:   s.WashingCount,
		DoneCount:      s.DoneCount,
	}
}

type dailyReportResponse struct {
	Date              string    `json:"date"`
	ServicesScheduled int       `json:"services_scheduled"`
	ServicesDone      int       `json:"services_done"`
	Revenue           string    `json:"revenue"`
	Pending           string    `json:"pending"`
	Expenses          string    `json:"expenses"`
	Profit            string    `json:"profit"`
	CreatedAt         time.Time `json:"created_at"`
}

func toDailyReportResponse(r models.DailyReport) dailyReportResponse {
	return dailyReportResponse{
		Date:              r.Date.Format("2006-01-02"),
		ServicesScheduled: r.ServicesScheduled,
		ServicesDone:      r.ServicesDone,
		Revenue:           r.Revenue.StringFixed(2),
		Pending:           r.Pending.StringFixed(2),
		Expenses:          r.Expenses.StringFixed(2),
		Profit:            r.Profit.StringFixed(2),
		CreatedAt:         r.CreatedAt,
	}
}
