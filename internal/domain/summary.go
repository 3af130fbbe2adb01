package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSummary is the derived state of a file on a given day.
type LedgerSummary struct {
	TotalReceived decimal.Decimal `json:"total_received"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	BounceCount   int             `json:"bounce_count"`
}

const (
	StatementStatusReceived = "RECEIVED"
	StatementStatusBounce   = "BOUNCE"
	StatementStatusPending  = "PENDING"
)

// StatementEntry is one calendar day of a file's collection history.
type StatementEntry struct {
	Date          string              `json:"date"`
	Status        string              `json:"status"`
	Amount        decimal.NullDecimal `json:"amount"`
	Mode          string              `json:"mode,omitempty"`
	TransactionID string              `json:"transaction_id,omitempty"`
}

type StatementResponse struct {
	FileID  string            `json:"file_id"`
	AsOf    string            `json:"as_of"`
	Summary LedgerSummary     `json:"summary"`
	Entries []*StatementEntry `json:"entries"`
}

// Dashboard aggregates the portfolio the way the overview screen shows it.
type Dashboard struct {
	ActiveCount  int             `json:"active_count"`
	ClosedCount  int             `json:"closed_count"`
	TotalPending decimal.Decimal `json:"total_pending"`
	TotalBounces int             `json:"total_bounces"`
	AsOf         string          `json:"as_of"`
}

// CachedSummary is what the summary cache stores for a file.
type CachedSummary struct {
	AsOf    string        `json:"as_of"`
	Version int64         `json:"version"`
	Summary LedgerSummary `json:"summary"`
}

// Matches reports whether the entry was computed on asOf from the file's
// ledger at version.
func (c CachedSummary) Matches(asOf Date, version int64) bool {
	return c.AsOf == asOf.String() && c.Version == version
}

// DailyReport is produced by the scheduled ledger report job.
type DailyReport struct {
	AsOf          string    `json:"as_of"`
	ActiveFiles   int       `json:"active_files"`
	FilesBounced  int       `json:"files_bounced"`
	OverdueFiles  []string  `json:"overdue_files"`
	TotalPending  string    `json:"total_pending"`
	GeneratedAt   time.Time `json:"generated_at"`
	CacheWarmErrs int       `json:"cache_warm_errors"`
}
