package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/Nidal-Bakir/zeau-landing/internal/feat/interest"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const DefaultSheetRange = "A:B"

// SheetsConfig holds the service account credentials and the target sheet.
// The sheet must be shared with ClientEmail.
type SheetsConfig struct {
	ClientEmail string
	// PEM private key, base64 encoded as it comes out of the env.
	// A raw PEM is accepted too.
	PrivateKey    string
	SpreadsheetID string
	// A1 notation. Without a sheet name the first sheet is used.
	Range string
}

type SheetsAppender struct {
	srv           *sheets.Service
	spreadsheetID string
	writeRange    string
}

// NewSheetsAppender builds an authenticated Sheets client. extraOpts are appended
// after the credentials, so a test can swap the http client and endpoint.
func NewSheetsAppender(ctx context.Context, conf SheetsConfig, extraOpts ...option.ClientOption) (*SheetsAppender, error) {
	if conf.ClientEmail == "" || conf.PrivateKey == "" || conf.SpreadsheetID == "" {
		return nil, errors.New("sheets: client email, private key and spreadsheet id are required")
	}

	privateKey, err := decodePrivateKey(conf.PrivateKey)
	if err != nil {
		return nil, err
	}

	jwtConf := &jwt.Config{
		Email:      conf.ClientEmail,
		PrivateKey: privateKey,
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	opts := append([]option.ClientOption{option.WithTokenSource(jwtConf.TokenSource(ctx))}, extraOpts...)
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: can not create the service: %w", err)
	}

	writeRange := conf.Range
	if writeRange == "" {
		writeRange = DefaultSheetRange
	}

	return &SheetsAppender{srv: srv, spreadsheetID: conf.SpreadsheetID, writeRange: writeRange}, nil
}

// AppendRecord adds one row [name, email] after the last row of the table in range.
func (a *SheetsAppender) AppendRecord(ctx context.Context, record interest.Record) error {
	zlog := zerolog.Ctx(ctx).With().Str("spreadsheet_id", a.spreadsheetID).Str("range", a.writeRange).Logger()

	values := &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]any{{record.Name, record.Email}},
	}

	res, err := a.srv.Spreadsheets.Values.
		Append(a.spreadsheetID, a.writeRange, values).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append: %w", err)
	}

	if res.Updates != nil {
		zlog.Debug().Str("updated_range", res.Updates.UpdatedRange).Int64("updated_rows", res.Updates.UpdatedRows).Msg("Appended interest row")
	}
	return nil
}

func decodePrivateKey(key string) ([]byte, error) {
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, "-----BEGIN") {
		decoded, err := base64.StdEncoding.DecodeString(key)
		if err != nil {
			return nil, fmt.Errorf("sheets: the private key is neither PEM nor base64: %w", err)
		}
		key = string(decoded)
	}
	// keys pasted into env files often carry literal \n sequences
	key = strings.ReplaceAll(key, `\n`, "\n")
	return []byte(key), nil
}
