package interest

import (
	"context"

	"github.com/Nidal-Bakir/zeau-landing/internal/tokenlimiter"
)

const MaxNameLen = 50

// Record is what a visitor leaves behind when registering interest.
type Record struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Appender writes a record to the external sink (a spreadsheet in production).
// The call either fully succeeds or fails; there is no partial state.
type Appender interface {
	AppendRecord(ctx context.Context, record Record) error
}

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRateLimited
	OutcomeSubmitError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRateLimited:
		return "rate limited"
	case OutcomeSubmitError:
		return "submit error"
	default:
		return "unknown"
	}
}

type Result struct {
	Outcome Outcome
	Usage   tokenlimiter.Usage
}

func (r Result) IsSuccess() bool {
	return r.Outcome == OutcomeSuccess
}

// Response is the boundary shape of a submission:
// {"success": true} or {"success": false, "reason": "rate limited" | "submit error"}.
type Response struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

func (r Result) Response() Response {
	if r.IsSuccess() {
		return Response{Success: true}
	}
	return Response{Success: false, Reason: r.Outcome.String()}
}
