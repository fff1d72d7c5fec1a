package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogEntry is a named wash service with its default price.
type CatalogEntry struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

var catalog = []CatalogEntry{
	{Name: "Lavagem Simples", Price: decimal.RequireFromString("35.00")},
	{Name: "Lavagem Completa", Price: decimal.RequireFromString("60.00")},
	{Name: "Higienização Interna", Price: decimal.RequireFromString("150.00")},
	{Name: "Polimento", Price: decimal.RequireFromString("250.00")},
}

// Catalog returns a copy of the service catalog.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}

// CatalogPrice looks up the default price of a catalog service by name.
func CatalogPrice(serviceType string) (decimal.Decimal, bool) {
	name := strings.TrimSpace(serviceType)
	for _, entry := range catalog {
		if strings.EqualFold(entry.Name, name) {
			return entry.Price, true
		}
	}
	return decimal.Zero, false
}
