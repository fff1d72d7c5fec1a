// Package receipt renders the PDF handed to the client after a wash is finished.
package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/liancar/yard/internal/apperrors"
	"github.com/liancar/yard/internal/domain/models"
)

const fontName = "Helvetica"

// Generator renders PDF receipts for finished services.
type Generator struct {
	loc *time.Location
	now func() time.Time
}

// NewGenerator returns a generator printing dates in loc (UTC when nil).
func NewGenerator(loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{loc: loc, now: time.Now}
}

// Generate renders the receipt of a Done record.
func (g *Generator) Generate(record models.ServiceRecord) ([]byte, error) {
	if !record.IsDone() {
		return nil, fmt.Errorf("%w: receipt requires a finished service, %s is %s",
			apperrors.ErrIllegalTransition, record.ID, record.Status.Label())
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	// Core fonts are cp1252; accents in names and labels need translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontName, "B", 16)
	pdf.CellFormat(0, 10, "Lian Car", "", 1, "C", false, 0, "")
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, tr("Recibo de serviço"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	rows := [][2]string{
		{"Recibo", shortID(record.ID)},
		{"Data", record.CreatedAt.In(g.loc).Format("02/01/2006")},
		{"Cliente", record.Client},
		{"Placa", record.Plate},
		{tr("Serviço"), safeValue(record.ServiceType)},
		{"Status", record.Status.Label()},
	}
	for _, row := range rows {
		drawRow(pdf, tr(row[0]), tr(row[1]), false)
	}
	drawRow(pdf, "Total", tr(models.FormatBRL(record.Amount)), true)

	pdf.Ln(6)
	pdf.SetFont(fontName, "I", 9)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("Emitido em %s. Obrigado pela preferência!",
		g.now().In(g.loc).Format("02/01/2006 15:04"))), "", "C", false)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRow(pdf *gofpdf.Fpdf, label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont(fontName, "B", 10)
	pdf.CellFormat(35, 8, label, "1", 0, "L", false, 0, "")
	pdf.SetFont(fontName, style, 10)
	pdf.CellFormat(0, 8, value, "1", 1, "L", false, 0, "")
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
