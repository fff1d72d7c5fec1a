// Package export renders service records and period reports as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/liancar/yard/internal/domain/models"
)

// DateLayout is the DD/MM/YYYY form used in every export.
const DateLayout = "02/01/2006"

// ServicesCSVHeader is the column order of the service interchange CSV.
var ServicesCSVHeader = []string{"Data", "Cliente", "Placa", "Servico", "Valor", "Status"}

// WriteServicesCSV writes records in the given order. Dates are read in loc when
// it is non-nil; status is written as its display label.
func WriteServicesCSV(w io.Writer, records []models.ServiceRecord, loc *time.Location) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ServicesCSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, record := range records {
		createdAt := record.CreatedAt
		if loc != nil {
			createdAt = createdAt.In(loc)
		}
		row := []string{
			createdAt.Format(DateLayout),
			record.Client,
			record.Plate,
			record.ServiceType,
			record.Amount.StringFixed(2),
			record.Status.Label(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", record.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
