package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"priceScope/internal/model"
)

// Store provides Postgres persistence for report history.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutReportRows inserts or updates report rows for a year.
func (s *Store) PutReportRows(ctx context.Context, rows []model.ReportRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO report_rows (
				year, direction, rank, change, description, generated_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			ON CONFLICT (year, direction, rank)
			DO UPDATE SET
				change = EXCLUDED.change,
				description = EXCLUDED.description,
				generated_at = EXCLUDED.generated_at,
				updated_at = now()
		`,
			row.Year,
			row.Direction,
			row.Rank,
			row.Change,
			row.Description,
			row.GeneratedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
