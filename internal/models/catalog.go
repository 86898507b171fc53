package models

import "time"

// CatalogReport is the result of one collection listing.
type CatalogReport struct {
	InvocationID string    `json:"invocation_id"`
	Driver       string    `json:"driver"`
	Database     string    `json:"database"`
	Collections  []string  `json:"collections"`
	CapturedAt   time.Time `json:"captured_at"`
}

// NewCatalogReport creates a report captured now. A nil collections slice is
// normalized to empty so the JSON form is always an array.
func NewCatalogReport(invocationID, driver, database string, collections []string) *CatalogReport {
	if collections == nil {
		collections = []string{}
	}
	return &CatalogReport{
		InvocationID: invocationID,
		Driver:       driver,
		Database:     database,
		Collections:  collections,
		CapturedAt:   time.Now().UTC(),
	}
}
