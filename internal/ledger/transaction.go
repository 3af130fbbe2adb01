package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

const (
	FieldDate   = "date"
	FieldAmount = "amount"
	FieldMode   = "mode"
)

// transactionInput is a create request or a patched transaction reduced to the
// fields the rules look at.
type transactionInput struct {
	date   string
	amount decimal.NullDecimal
	mode   string
}

// checkTransaction runs the shared transaction rules in their fixed order and
// returns the parsed date alongside the collected failures.
func checkTransaction(file *domain.File, in transactionInput, today domain.Date) (domain.Date, *checklist) {
	checks := &checklist{}

	if blank(in.date) {
		checks.add(requiredError(FieldDate))
	}
	if !in.amount.Valid {
		checks.add(requiredError(FieldAmount))
	}
	if blank(in.mode) {
		checks.add(requiredError(FieldMode))
	}

	if in.amount.Valid && !positive(in.amount) {
		checks.add(customError.NewValidationError(FieldAmount, "Amount must be greater than 0"))
	}
	if in.amount.Valid && !wholeCents(in.amount.Decimal) {
		checks.add(customError.NewValidationError(FieldAmount, "Amount must have at most 2 decimal places"))
	}

	if !blank(in.mode) && !domain.IsValidTransactionMode(normalizeMode(in.mode)) {
		checks.add(customError.NewValidationError(FieldMode,
			fmt.Sprintf("Mode must be one of %s", strings.Join(domain.TransactionModes, ", "))))
	}

	if !file.IsActive() {
		checks.add(customError.WrapFileClosed(file.ID.String()))
	}

	var date domain.Date
	if !blank(in.date) {
		parsed, err := domain.ParseDate(in.date)
		switch {
		case err != nil:
			checks.add(customError.NewValidationError(FieldDate, "Date must be a valid YYYY-MM-DD date"))
		case parsed.After(today):
			checks.add(customError.NewValidationError(FieldDate, "Transaction date cannot be in the future"))
		case parsed.Before(file.StartDate):
			checks.add(customError.NewValidationError(FieldDate, "Transaction date cannot be before file start date"))
		}
		date = parsed
	}

	return date, checks
}

func normalizeMode(mode string) string {
	return strings.ToUpper(strings.TrimSpace(mode))
}

// ValidateTransactionCreation checks a new collection against its file.
//
// Dates after the file end date are accepted as long as they are not in the
// future, so late collections can still be recorded. Two transactions on the
// same day are rejected by the store's unique (file, date) index at commit
// time; this function does not look for them.
func ValidateTransactionCreation(file *domain.File, req domain.CreateTransactionRequest, today domain.Date) (*domain.Transaction, error) {
	date, checks := checkTransaction(file, transactionInput{
		date:   req.Date,
		amount: req.Amount,
		mode:   req.Mode,
	}, today)
	if err := checks.first(); err != nil {
		return nil, err
	}

	return &domain.Transaction{
		ID:     uuid.New(),
		FileID: file.ID,
		Date:   date,
		Amount: req.Amount.Decimal,
		Mode:   normalizeMode(req.Mode),
		Status: domain.TransactionStatusReceived,
	}, nil
}

// ValidateTransactionUpdate applies patch to txn and checks the result with the
// creation rules. A changed date must not land on a day already used by another
// transaction of the same file. The returned transaction is a copy; txn is not
// modified.
func ValidateTransactionUpdate(
	file *domain.File,
	existing []*domain.Transaction,
	txn *domain.Transaction,
	patch domain.UpdateTransactionRequest,
	today domain.Date,
) (*domain.Transaction, error) {
	in := transactionInput{
		date:   txn.Date.String(),
		amount: decimal.NewNullDecimal(txn.Amount),
		mode:   txn.Mode,
	}
	if patch.Date != nil {
		in.date = *patch.Date
	}
	if patch.Amount.Valid {
		in.amount = patch.Amount
	}
	if patch.Mode != nil {
		in.mode = *patch.Mode
	}

	date, checks := checkTransaction(file, in, today)

	if !date.IsZero() && !date.Equal(txn.Date) && dateTaken(existing, date, txn.ID) {
		checks.add(customError.WrapDuplicateTransactionDate(date.String()))
	}

	if err := checks.first(); err != nil {
		return nil, err
	}

	updated := *txn
	updated.Date = date
	updated.Amount = in.amount.Decimal
	updated.Mode = normalizeMode(in.mode)
	return &updated, nil
}

// dateTaken reports whether a transaction other than self is dated day.
func dateTaken(transactions []*domain.Transaction, day domain.Date, self uuid.UUID) bool {
	for _, t := range transactions {
		if t.ID != self && t.Date.Equal(day) {
			return true
		}
	}
	return false
}

// CanDeleteTransaction reports whether the file still allows removing collections.
func CanDeleteTransaction(file *domain.File) bool {
	return file.IsActive()
}

// ValidateTransactionDeletion is CanDeleteTransaction as an error.
func ValidateTransactionDeletion(file *domain.File) error {
	if !CanDeleteTransaction(file) {
		return customError.WrapFileClosed(file.ID.String())
	}
	return nil
}
