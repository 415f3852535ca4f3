package interest

import (
	"context"
	"fmt"

	"github.com/Nidal-Bakir/zeau-landing/internal/tracker"
)

// GlobalTokenValue is the single key every submission is counted under when the
// limit is shared by the whole process.
const GlobalTokenValue = "record_interest"

// TokenFn picks the key a submission is counted under.
type TokenFn func(ctx context.Context) string

// GlobalToken counts every caller against the same allowance.
func GlobalToken(_ context.Context) string {
	return GlobalTokenValue
}

// ClientToken gives every client IP its own allowance. Requests with no IP in the
// context fall back to the global token.
func ClientToken(ctx context.Context) string {
	ip, ok := tracker.ReqIPFromContext(ctx)
	if !ok || !ip.IsValid() {
		return GlobalTokenValue
	}
	return GlobalTokenValue + ":" + ip.String()
}

type LimitScope string

const (
	LimitScopeGlobal LimitScope = "global"
	LimitScopeClient LimitScope = "client"
)

func (s LimitScope) TokenFn() (TokenFn, error) {
	switch s {
	case LimitScopeGlobal, "":
		return GlobalToken, nil
	case LimitScopeClient:
		return ClientToken, nil
	default:
		return nil, fmt.Errorf("unsupported record interest limit scope: %q", string(s))
	}
}
