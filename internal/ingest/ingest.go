package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"priceScope/internal/tracker"
)

// Column layout of the NADAC comparison CSV.
const (
	descriptionColumn   = 0
	startPriceColumn    = 2
	endPriceColumn      = 3
	effectiveDateColumn = 9
)

const effectiveDateLayout = "01/02/2006"

// Config holds runtime settings for ingestion.
type Config struct {
	URL          string
	Year         int
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// Runner streams the price-change CSV and feeds matching rows to a tracker.
type Runner struct {
	cfg     Config
	client  *http.Client
	tracker *tracker.Tracker
	logger  *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg Config, tr *tracker.Tracker, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		tracker: tr,
		logger:  logger,
	}
}

// Run downloads the CSV and records every row in the configured year. A row
// that cannot be parsed aborts the run; a partial report would be
// misleading without knowing how much data was skipped.
func (r *Runner) Run(ctx context.Context) error {
	if r.tracker == nil {
		return fmt.Errorf("tracker is nil")
	}
	if r.cfg.URL == "" {
		return fmt.Errorf("source url is required")
	}

	body, err := r.fetchWithRetry(ctx)
	if err != nil {
		return fmt.Errorf("fetch source: %w", err)
	}
	defer body.Close()

	return r.Consume(ctx, body)
}

// Consume reads CSV rows from reader and records the ones matching the
// configured year.
func (r *Runner) Consume(ctx context.Context, reader io.Reader) error {
	csvReader := csv.NewReader(reader)

	// Header row sets the expected field count for the rest of the file.
	if _, err := csvReader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("source is empty")
		}
		return fmt.Errorf("read header: %w", err)
	}

	var total, matched, skipped int
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		total++

		if len(row) <= effectiveDateColumn {
			return fmt.Errorf("row %d: expected at least %d fields, got %d", total, effectiveDateColumn+1, len(row))
		}

		effectiveDate := row[effectiveDateColumn]
		if effectiveDate == "" {
			skipped++
			continue
		}

		date, err := time.Parse(effectiveDateLayout, effectiveDate)
		if err != nil {
			return fmt.Errorf("row %d: parse effective date %q: %w", total, effectiveDate, err)
		}
		if date.Year() != r.cfg.Year {
			skipped++
			continue
		}

		start, err := decimal.NewFromString(row[startPriceColumn])
		if err != nil {
			return fmt.Errorf("row %d: parse start price %q: %w", total, row[startPriceColumn], err)
		}
		end, err := decimal.NewFromString(row[endPriceColumn])
		if err != nil {
			return fmt.Errorf("row %d: parse end price %q: %w", total, row[endPriceColumn], err)
		}

		r.tracker.Record(row[descriptionColumn], start, end)
		matched++
	}

	r.logger.Info("ingest complete",
		zap.Int("total", total),
		zap.Int("matched", matched),
		zap.Int("skipped", skipped),
		zap.Int("year", r.cfg.Year),
	)

	return nil
}

func (r *Runner) fetchWithRetry(ctx context.Context) (io.ReadCloser, error) {
	var body io.ReadCloser
	logger := r.logger.With(zap.String("url", r.cfg.URL))
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, logger, func(ctx context.Context) error {
		var err error
		body, err = r.fetch(ctx)
		return err
	})
	return body, err
}

func (r *Runner) fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return resp.Body, nil
}
