package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/apperrors"
	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/service/reporting"
)

// Notifier sends a WhatsApp text.
type Notifier interface {
	SendText(ctx context.Context, to, body string) error
}

// ReportHandler serves the daily close and manual messages.
type ReportHandler struct {
	reports  *reporting.Service
	notifier Notifier
	reportTo string
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportHandler constructs the reporting HTTP adapter. notifier may be nil.
func NewReportHandler(reports *reporting.Service, notifier Notifier, reportTo string, loc *time.Location, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{reports: reports, notifier: notifier, reportTo: reportTo, loc: loc, logger: logger, now: time.Now}
}

// CloseDay builds and archives the close for ?date= (today by default).
// With ?send=true the text is also delivered to the report recipient.
func (h *ReportHandler) CloseDay(c *gin.Context) {
	day, err := parseDate(c.Query("date"), h.loc)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	if day.IsZero() {
		day = h.now().In(h.loc)
	}

	report, text, err := h.reports.CloseDay(c.Request.Context(), day)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	sent := false
	if c.Query("send") == "true" {
		if err := h.send(c.Request.Context(), h.reportTo, text); err != nil {
			handleError(c, h.logger, err)
			return
		}
		sent = true
	}

	c.JSON(http.StatusOK, gin.H{
		"report":  toDailyReportResponse(report),
		"message": text,
		"sent":    sent,
	})
}

// History lists archived closes for ?from=&to=.
func (h *ReportHandler) History(c *gin.Context) {
	period, err := parsePeriod(c, h.loc)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	reports, err := h.reports.History(c.Request.Context(), period)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	out := make([]dailyReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, toDailyReportResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// SendMessage sends a manual text from the back office.
func (h *ReportHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid outbound payload", zap.Error(err))
		handleError(c, h.logger, bindError(err))
		return
	}

	to := strings.TrimSpace(req.To)
	if to == "" {
		to = h.reportTo
	}
	if err := h.send(c.Request.Context(), to, req.Message); err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *ReportHandler) send(ctx context.Context, to, body string) error {
	if h.notifier == nil {
		return fmt.Errorf("%w: whatsapp delivery is not configured", apperrors.ErrValidation)
	}
	if to == "" {
		return fmt.Errorf("%w: recipient is required", apperrors.ErrValidation)
	}
	if err := h.notifier.SendText(ctx, to, body); err != nil {
		h.logger.Error("failed sending outbound", zap.Error(err))
		return fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	return nil
}
