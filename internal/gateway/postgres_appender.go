package gateway

import (
	"context"
	"fmt"

	"github.com/Nidal-Bakir/zeau-landing/internal/feat/interest"
	"github.com/jackc/pgx/v5/pgconn"
)

// execer is the part of *pgxpool.Pool the appender needs.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type PostgresAppender struct {
	db execer
}

func NewPostgresAppender(db execer) *PostgresAppender {
	return &PostgresAppender{db: db}
}

func (a *PostgresAppender) AppendRecord(ctx context.Context, record interest.Record) error {
	tag, err := a.db.Exec(
		ctx,
		`INSERT INTO interest_submissions (name, email) VALUES ($1, $2)`,
		record.Name,
		record.Email,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert interest: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("postgres: insert interest: %d rows affected", tag.RowsAffected())
	}
	return nil
}
