package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-tracker/internal/domain"
	customError "github.com/segyhp/loan-tracker/pkg/errors"
)

// Field names as they appear in requests and validation errors.
const (
	FieldPersonName      = "person_name"
	FieldPersonMobile    = "person_mobile"
	FieldReferenceMobile = "reference_mobile"
	FieldAddress         = "address"
	FieldBusinessName    = "business_name"
	FieldBusinessAddress = "business_address"
	FieldPrincipalAmount = "principal_amount"
	FieldInstallment     = "installment"
	FieldFileStartDate   = "file_start_date"
	FieldFileEndDate     = "file_end_date"
)

var fieldLabels = map[string]string{
	FieldPersonName:      "Person name",
	FieldPersonMobile:    "Person mobile",
	FieldReferenceMobile: "Reference mobile",
	FieldAddress:         "Address",
	FieldBusinessName:    "Business name",
	FieldBusinessAddress: "Business address",
	FieldPrincipalAmount: "Principal amount",
	FieldInstallment:     "Installment",
	FieldFileStartDate:   "File start date",
	FieldFileEndDate:     "File end date",
	FieldDate:            "Date",
	FieldAmount:          "Amount",
	FieldMode:            "Mode",
}

func requiredError(field string) error {
	return customError.NewValidationError(field, fmt.Sprintf("%s is required", fieldLabels[field]))
}

// ValidateFileCreation checks a create-file request and returns the new file
// in ACTIVE state. Timestamps are left for the caller to stamp.
func ValidateFileCreation(req domain.CreateFileRequest, maxPrincipal decimal.Decimal) (*domain.File, error) {
	var checks checklist

	required := []struct {
		field   string
		present bool
	}{
		{FieldPersonName, !blank(req.PersonName)},
		{FieldPersonMobile, !blank(req.PersonMobile)},
		{FieldReferenceMobile, !blank(req.ReferenceMobile)},
		{FieldAddress, !blank(req.Address)},
		{FieldBusinessName, !blank(req.BusinessName)},
		{FieldBusinessAddress, !blank(req.BusinessAddress)},
		{FieldPrincipalAmount, req.PrincipalAmount.Valid},
		{FieldInstallment, req.Installment.Valid},
		{FieldFileStartDate, !blank(req.FileStartDate)},
		{FieldFileEndDate, !blank(req.FileEndDate)},
	}
	for _, r := range required {
		if !r.present {
			checks.add(requiredError(r.field))
		}
	}

	if req.PrincipalAmount.Valid {
		p := req.PrincipalAmount.Decimal
		if !p.IsPositive() || p.GreaterThan(maxPrincipal) {
			checks.add(customError.NewValidationError(FieldPrincipalAmount,
				fmt.Sprintf("Principal amount must be greater than 0 and at most %s", maxPrincipal.String())))
		}
		if !wholeCents(p) {
			checks.add(customError.NewValidationError(FieldPrincipalAmount, "Principal amount must have at most 2 decimal places"))
		}
	}

	if req.Installment.Valid && !positive(req.Installment) {
		checks.add(customError.NewValidationError(FieldInstallment, "Installment must be greater than 0"))
	}
	if req.Installment.Valid && !wholeCents(req.Installment.Decimal) {
		checks.add(customError.NewValidationError(FieldInstallment, "Installment must have at most 2 decimal places"))
	}

	var start, end domain.Date
	var startErr, endErr error
	if !blank(req.FileStartDate) {
		if start, startErr = domain.ParseDate(req.FileStartDate); startErr != nil {
			checks.add(customError.NewValidationError(FieldFileStartDate, "File start date must be a valid YYYY-MM-DD date"))
		}
	}
	if !blank(req.FileEndDate) {
		if end, endErr = domain.ParseDate(req.FileEndDate); endErr != nil {
			checks.add(customError.NewValidationError(FieldFileEndDate, "File end date must be a valid YYYY-MM-DD date"))
		}
	}
	if !blank(req.FileStartDate) && !blank(req.FileEndDate) && startErr == nil && endErr == nil && !end.After(start) {
		checks.add(customError.NewValidationError(FieldFileEndDate, "File end date must be after start date"))
	}

	if err := checks.first(); err != nil {
		return nil, err
	}

	return &domain.File{
		ID:              uuid.New(),
		PersonName:      strings.TrimSpace(req.PersonName),
		PersonMobile:    strings.TrimSpace(req.PersonMobile),
		ReferenceMobile: strings.TrimSpace(req.ReferenceMobile),
		Address:         strings.TrimSpace(req.Address),
		BusinessName:    strings.TrimSpace(req.BusinessName),
		BusinessAddress: strings.TrimSpace(req.BusinessAddress),
		PrincipalAmount: req.PrincipalAmount.Decimal,
		Installment:     req.Installment.Decimal,
		StartDate:       start,
		EndDate:         end,
		Status:          domain.FileStatusActive,
		InstallmentType: domain.InstallmentTypeDaily,
	}, nil
}

// CanCloseFile reports whether the collections cover the principal.
// Overpayment still allows closure.
func CanCloseFile(file *domain.File, transactions []*domain.Transaction) bool {
	return TotalReceived(transactions).GreaterThanOrEqual(file.PrincipalAmount)
}

// ValidateFileClosure explains why a file cannot move to CLOSED, if it cannot.
func ValidateFileClosure(file *domain.File, transactions []*domain.Transaction) error {
	if !file.IsActive() {
		return customError.WrapFileClosed(file.ID.String())
	}
	if !CanCloseFile(file, transactions) {
		pending := file.PrincipalAmount.Sub(TotalReceived(transactions))
		return customError.WrapPendingAmount(file.ID.String(), pending)
	}
	return nil
}
