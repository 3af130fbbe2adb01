package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	FileStatusActive = "ACTIVE"
	FileStatusClosed = "CLOSED"

	InstallmentTypeDaily = "DAILY"
)

// File represents a collateral loan record
type File struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	PersonName      string          `json:"person_name" db:"person_name"`
	PersonMobile    string          `json:"person_mobile" db:"person_mobile"`
	ReferenceMobile string          `json:"reference_mobile" db:"reference_mobile"`
	Address         string          `json:"address" db:"address"`
	BusinessName    string          `json:"business_name" db:"business_name"`
	BusinessAddress string          `json:"business_address" db:"business_address"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" db:"principal_amount"`
	Installment     decimal.Decimal `json:"installment" db:"installment"`
	StartDate       Date            `json:"file_start_date" db:"start_date"`
	EndDate         Date            `json:"file_end_date" db:"end_date"`
	Status          string          `json:"status" db:"status"`
	InstallmentType string          `json:"installment_type" db:"installment_type"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
	// LedgerVersion goes up with every write that changes the file's summary.
	LedgerVersion int64 `json:"-" db:"ledger_version"`
}

// IsActive reports whether the file still accepts ledger mutations.
func (f *File) IsActive() bool {
	return f.Status == FileStatusActive
}

// DTOs for requests and responses

// CreateFileRequest carries the raw create-file input. Presence of every field
// is checked by the ledger engine so the first missing field can be reported.
type CreateFileRequest struct {
	PersonName      string              `json:"person_name"`
	PersonMobile    string              `json:"person_mobile"`
	ReferenceMobile string              `json:"reference_mobile"`
	Address         string              `json:"address"`
	BusinessName    string              `json:"business_name"`
	BusinessAddress string              `json:"business_address"`
	PrincipalAmount decimal.NullDecimal `json:"principal_amount"`
	Installment     decimal.NullDecimal `json:"installment"`
	FileStartDate   string              `json:"file_start_date"`
	FileEndDate     string              `json:"file_end_date"`
}

// FileView is the JSON shape of a file together with its derived ledger state.
type FileView struct {
	*File
	Summary LedgerSummary `json:"summary"`
}

type FileDetailResponse struct {
	File         FileView       `json:"file"`
	Transactions []*Transaction `json:"transactions"`
}
