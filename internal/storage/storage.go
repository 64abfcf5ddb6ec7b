package storage

import (
	"context"

	"priceScope/internal/model"
)

// Storage defines a sink for generated report rows.
type Storage interface {
	PutReportRows(ctx context.Context, rows []model.ReportRow) error
}
