package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/pkg/utils"
)

// TotalReceived sums the transaction amounts exactly.
func TotalReceived(transactions []*domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount)
	}
	return total
}

// EffectiveEnd is the last day that can count as a bounce: today for an active
// file, the end date for a closed one, and never later than today.
func EffectiveEnd(file *domain.File, today domain.Date) domain.Date {
	if file.IsActive() {
		return today
	}
	return domain.Date{Time: utils.MinDate(file.EndDate.Time, today.Time)}
}

// collectedDays indexes transactions by calendar day.
func collectedDays(transactions []*domain.Transaction) map[string]*domain.Transaction {
	days := make(map[string]*domain.Transaction, len(transactions))
	for _, t := range transactions {
		days[t.Date.String()] = t
	}
	return days
}

// CountBounces counts the days from the file start through its effective end
// on which nothing was collected.
func CountBounces(file *domain.File, transactions []*domain.Transaction, today domain.Date) int {
	collected := collectedDays(transactions)
	bounces := 0
	utils.EachDay(file.StartDate.Time, EffectiveEnd(file, today).Time, func(day time.Time) {
		if _, ok := collected[utils.DateKey(day)]; !ok {
			bounces++
		}
	})
	return bounces
}

// ComputeLedgerSummary derives received, pending and bounce figures for a file.
// Pending goes negative on overpayment.
func ComputeLedgerSummary(file *domain.File, transactions []*domain.Transaction, today domain.Date) domain.LedgerSummary {
	total := TotalReceived(transactions)
	return domain.LedgerSummary{
		TotalReceived: total,
		PendingAmount: file.PrincipalAmount.Sub(total),
		BounceCount:   CountBounces(file, transactions, today),
	}
}

// BuildStatement lists the file day by day: RECEIVED for collected days, BOUNCE
// for missed days up to the effective end and PENDING for the remaining days up
// to the file end date. Collections dated outside that range are included as
// RECEIVED. Entries are in date order.
func BuildStatement(file *domain.File, transactions []*domain.Transaction, today domain.Date) []*domain.StatementEntry {
	collected := collectedDays(transactions)
	effectiveEnd := EffectiveEnd(file, today)
	last := utils.MaxDate(file.EndDate.Time, effectiveEnd.Time)

	entries := make([]*domain.StatementEntry, 0, utils.DaysInclusive(file.StartDate.Time, last))
	seen := make(map[uuid.UUID]bool, len(transactions))

	utils.EachDay(file.StartDate.Time, last, func(day time.Time) {
		key := utils.DateKey(day)
		if t, ok := collected[key]; ok {
			entries = append(entries, receivedEntry(t))
			seen[t.ID] = true
			return
		}
		status := domain.StatementStatusPending
		if !day.After(effectiveEnd.Time) {
			status = domain.StatementStatusBounce
		}
		entries = append(entries, &domain.StatementEntry{Date: key, Status: status})
	})

	for _, t := range transactions {
		if !seen[t.ID] {
			entries = append(entries, receivedEntry(t))
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
	return entries
}

func receivedEntry(t *domain.Transaction) *domain.StatementEntry {
	return &domain.StatementEntry{
		Date:          t.Date.String(),
		Status:        domain.StatementStatusReceived,
		Amount:        decimal.NewNullDecimal(t.Amount),
		Mode:          t.Mode,
		TransactionID: t.ID.String(),
	}
}

// BuildDashboard aggregates portfolio figures. Pending and bounces are totalled
// over active files only.
func BuildDashboard(files []*domain.File, summaries map[uuid.UUID]domain.LedgerSummary, today domain.Date) domain.Dashboard {
	dashboard := domain.Dashboard{
		TotalPending: decimal.Zero,
		AsOf:         today.String(),
	}
	for _, f := range files {
		if !f.IsActive() {
			dashboard.ClosedCount++
			continue
		}
		dashboard.ActiveCount++
		if s, ok := summaries[f.ID]; ok {
			dashboard.TotalPending = dashboard.TotalPending.Add(s.PendingAmount)
			dashboard.TotalBounces += s.BounceCount
		}
	}
	return dashboard
}
