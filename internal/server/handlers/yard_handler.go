package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/export"
	"github.com/liancar/yard/internal/receipt"
	"github.com/liancar/yard/internal/service/yard"
)

// YardHandler serves the scheduling screen and the yard board.
type YardHandler struct {
	board    *yard.Service
	receipts *receipt.Generator
	loc      *time.Location
	logger   *zap.Logger
}

// NewYardHandler constructs the yard HTTP adapter. Dates in queries and exports are read in loc.
func NewYardHandler(board *yard.Service, receipts *receipt.Generator, loc *time.Location, logger *zap.Logger) *YardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &YardHandler{board: board, receipts: receipts, loc: loc, logger: logger}
}

// Catalog lists the named services with their default prices.
func (h *YardHandler) Catalog(c *gin.Context) {
	entries := models.Catalog()
	out := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		out = append(out, gin.H{"name": entry.Name, "price": entry.Price.StringFixed(2)})
	}
	c.JSON(http.StatusOK, out)
}

// Board returns the three lanes with the revenue and pending totals.
func (h *YardHandler) Board(c *gin.Context) {
	board, err := h.board.BoardView(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	all := append(append(append([]models.ServiceRecord{}, board.Scheduled...), board.Washing...), board.Done...)
	revenue, pending := yard.Totals(all)

	c.JSON(http.StatusOK, boardResponse{
		Scheduled:    toServiceResponses(board.Scheduled),
		Washing:      toServiceResponses(board.Washing),
		Done:         toServiceResponses(board.Done),
		RevenueTotal: revenue.StringFixed(2),
		PendingTotal: pending.StringFixed(2),
	})
}

// List filters records by ?status= and the ?from=&to= day range.
func (h *YardHandler) List(c *gin.Context) {
	records, err := h.filtered(c)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponses(records))
}

// Schedule creates a record in the Scheduled lane.
func (h *YardHandler) Schedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid schedule payload", zap.Error(err))
		handleError(c, h.logger, bindError(err))
		return
	}

	date, err := parseDate(req.Date, h.loc)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	record, err := h.board.Schedule(c.Request.Context(), yard.ScheduleInput{
		Client:      req.Client,
		Plate:       req.Plate,
		ServiceType: req.ServiceType,
		Amount:      req.Amount,
		Date:        date,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toServiceResponse(record))
}

// Get returns one record.
func (h *YardHandler) Get(c *gin.Context) {
	record, err := h.board.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(record))
}

// Advance moves a record to its next lane.
func (h *YardHandler) Advance(c *gin.Context) {
	record, err := h.board.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(record))
}

// SetStatus is the direct status edit.
func (h *YardHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, bindError(err))
		return
	}

	target, err := models.ParseStatus(req.Status)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	record, err := h.board.SetStatus(c.Request.Context(), c.Param("id"), target)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(record))
}

// Receipt renders the PDF receipt of a finished service.
func (h *YardHandler) Receipt(c *gin.Context) {
	record, err := h.board.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	data, err := h.receipts.Generate(record)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("recibo-%s.pdf", strings.ToLower(record.Plate))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// ExportCSV downloads the filtered records in the interchange CSV layout.
func (h *YardHandler) ExportCSV(c *gin.Context) {
	records, err := h.filtered(c)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="servicos.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := export.WriteServicesCSV(c.Writer, records, h.loc); err != nil {
		h.logger.Error("csv export failed", zap.Error(err))
	}
}

func (h *YardHandler) filtered(c *gin.Context) ([]models.ServiceRecord, error) {
	period, err := parsePeriod(c, h.loc)
	if err != nil {
		return nil, err
	}

	var status models.Status
	if raw := c.Query("status"); raw != "" {
		if status, err = models.ParseStatus(raw); err != nil {
			return nil, err
		}
	}
	return h.board.List(c.Request.Context(), yard.Filter{Status: status, Period: period})
}
