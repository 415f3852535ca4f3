package gateway

import (
	"context"

	"github.com/Nidal-Bakir/zeau-landing/internal/feat/interest"
	"github.com/rs/zerolog"
)

// LogAppender only logs the record. Used for local development.
type LogAppender struct{}

func (LogAppender) AppendRecord(ctx context.Context, record interest.Record) error {
	zlog := zerolog.Ctx(ctx).With().Str("name", record.Name).Str("email", record.Email).Logger()
	zlog.Debug().Msg("Recording interest")
	return nil
}
