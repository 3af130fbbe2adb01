package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// checklist collects rule failures in evaluation order.
type checklist struct {
	errs []error
}

func (c *checklist) add(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

// first returns the earliest failure, or nil when every check passed.
func (c *checklist) first() error {
	if len(c.errs) > 0 {
		return c.errs[0]
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func positive(d decimal.NullDecimal) bool {
	return d.Valid && d.Decimal.IsPositive()
}

// wholeCents reports whether d is stored exactly with two decimal places.
func wholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}
