package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionModeCash         = "CASH"
	TransactionModeUPI          = "UPI"
	TransactionModeBankTransfer = "BANK_TRANSFER"
	TransactionModeCheque       = "CHEQUE"

	// TransactionStatusReceived is the only status a transaction ever has.
	TransactionStatusReceived = "RECEIVED"
)

// TransactionModes lists the accepted collection modes.
var TransactionModes = []string{
	TransactionModeCash,
	TransactionModeUPI,
	TransactionModeBankTransfer,
	TransactionModeCheque,
}

// IsValidTransactionMode reports whether mode is one of TransactionModes.
func IsValidTransactionMode(mode string) bool {
	for _, m := range TransactionModes {
		if m == mode {
			return true
		}
	}
	return false
}

// Transaction is one cash collection against a file
type Transaction struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	FileID    uuid.UUID       `json:"file_id" db:"file_id"`
	Date      Date            `json:"date" db:"txn_date"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Mode      string          `json:"mode" db:"mode"`
	Status    string          `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateTransactionRequest struct {
	Date   string              `json:"date"`
	Amount decimal.NullDecimal `json:"amount"`
	Mode   string              `json:"mode"`
}

// UpdateTransactionRequest patches a transaction; absent fields keep their value.
type UpdateTransactionRequest struct {
	Date   *string             `json:"date,omitempty"`
	Amount decimal.NullDecimal `json:"amount"`
	Mode   *string             `json:"mode,omitempty"`
}
