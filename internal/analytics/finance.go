package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"brokerdash/server/internal/models"
)

var (
	payoutSlabHigh = decimal.NewFromInt(500000)
	payoutSlabMid  = decimal.NewFromInt(200000)
)

// BuildFinance produces the commission-spend series over the six months
// ending at now (zero-filled, oldest first) and the current month's upcoming
// payouts per agent. Deals are expected to already be the won subset for the
// window.
func BuildFinance(
	users []models.User,
	departments []models.Department,
	deals []models.Deal,
	netCommissionKey string,
	now time.Time,
) models.FinanceReport {
	deptNames := departmentIndex(departments)

	type window struct {
		year  int
		month time.Month
	}
	series := make([]models.PayoutPoint, 6)
	slots := make(map[window]int, 6)
	for i := 0; i < 6; i++ {
		m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, i-5, 0)
		series[i] = models.PayoutPoint{Month: shortMonthNames[int(m.Month())-1], Payout: decimal.Zero}
		slots[window{year: m.Year(), month: m.Month()}] = i
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	agentTotals := make(map[string]decimal.Decimal)

	for _, deal := range deals {
		closedAt, ok := parseTimestamp(deal.CloseDate)
		if !ok {
			continue
		}
		commission := ParseMoney(deal.Custom(netCommissionKey))

		if idx, ok := slots[window{year: closedAt.Year(), month: closedAt.Month()}]; ok {
			series[idx].Payout = series[idx].Payout.Add(commission)
		}

		if deal.AssignedByID != "" && !closedAt.Before(monthStart) {
			agentTotals[deal.AssignedByID] = agentTotals[deal.AssignedByID].Add(commission)
		}
	}

	userIndex := make(map[string]models.User, len(users))
	for _, user := range users {
		userIndex[user.ID] = user
	}

	payouts := make([]models.AgentPayout, 0, len(agentTotals))
	for agentID, commission := range agentTotals {
		user, ok := userIndex[agentID]
		if !ok {
			continue
		}
		payouts = append(payouts, models.AgentPayout{
			ID:            agentID,
			Name:          user.FullName(),
			Team:          teamNames(user.Departments, deptNames),
			Commission:    commission,
			CommissionPct: payoutSlab(commission),
		})
	}
	sort.Slice(payouts, func(i, j int) bool {
		if !payouts[i].Commission.Equal(payouts[j].Commission) {
			return payouts[i].Commission.GreaterThan(payouts[j].Commission)
		}
		return payouts[i].ID < payouts[j].ID
	})

	return models.FinanceReport{
		CommissionSpend: series,
		UpcomingPayouts: payouts,
	}
}

// payoutSlab is the commission percentage slab applied to an agent's
// current-month payout total.
func payoutSlab(commission decimal.Decimal) float64 {
	switch {
	case commission.GreaterThan(payoutSlabHigh):
		return 2.0
	case commission.GreaterThan(payoutSlabMid):
		return 1.5
	default:
		return 1.0
	}
}
