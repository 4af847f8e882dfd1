package analytics

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"brokerdash/server/internal/models"
)

// BuildAgentRankings folds one agent's won deals into monthly, quarterly and
// yearly gross commission history. With no other agents in scope every
// period with sales ranks first.
func BuildAgentRankings(deals []models.Deal, grossCommissionKey string) models.AgentRankings {
	type monthKey struct {
		year  int
		month int
	}
	type quarterKey struct {
		year    int
		quarter int
	}

	monthly := make(map[monthKey]decimal.Decimal)
	yearly := make(map[int]decimal.Decimal)

	for _, deal := range deals {
		t, ok := parseTimestamp(deal.CloseDate)
		if !ok {
			continue
		}
		gross := ParseMoney(deal.Custom(grossCommissionKey))
		mk := monthKey{year: t.Year(), month: int(t.Month()) - 1}
		monthly[mk] = monthly[mk].Add(gross)
		yearly[t.Year()] = yearly[t.Year()].Add(gross)
	}

	quarterly := make(map[quarterKey]decimal.Decimal)
	for mk, gross := range monthly {
		qk := quarterKey{year: mk.year, quarter: quarterOf(mk.month)}
		quarterly[qk] = quarterly[qk].Add(gross)
	}

	rankings := models.AgentRankings{
		Monthly:   make([]models.PeriodCommission, 0, len(monthly)),
		Quarterly: make([]models.PeriodCommission, 0, len(quarterly)),
		Yearly:    make([]models.PeriodCommission, 0, len(yearly)),
	}

	monthKeys := make([]monthKey, 0, len(monthly))
	for mk := range monthly {
		monthKeys = append(monthKeys, mk)
	}
	sort.Slice(monthKeys, func(i, j int) bool {
		if monthKeys[i].year != monthKeys[j].year {
			return monthKeys[i].year < monthKeys[j].year
		}
		return monthKeys[i].month < monthKeys[j].month
	})
	for _, mk := range monthKeys {
		rankings.Monthly = append(rankings.Monthly, models.PeriodCommission{
			Year:            mk.year,
			Month:           monthNames[mk.month],
			GrossCommission: monthly[mk],
			Rank:            1,
		})
	}

	quarterKeys := make([]quarterKey, 0, len(quarterly))
	for qk := range quarterly {
		quarterKeys = append(quarterKeys, qk)
	}
	sort.Slice(quarterKeys, func(i, j int) bool {
		if quarterKeys[i].year != quarterKeys[j].year {
			return quarterKeys[i].year < quarterKeys[j].year
		}
		return quarterKeys[i].quarter < quarterKeys[j].quarter
	})
	for _, qk := range quarterKeys {
		rankings.Quarterly = append(rankings.Quarterly, models.PeriodCommission{
			Year:            qk.year,
			Quarter:         fmt.Sprintf("Q%d", qk.quarter),
			GrossCommission: quarterly[qk],
			Rank:            1,
		})
	}

	years := make([]int, 0, len(yearly))
	for year := range yearly {
		years = append(years, year)
	}
	sort.Ints(years)
	for _, year := range years {
		rankings.Yearly = append(rankings.Yearly, models.PeriodCommission{
			Year:            year,
			GrossCommission: yearly[year],
			Rank:            1,
		})
	}

	return rankings
}

// BuildRankingSplit spreads every agent's won-deal commissions over the
// twelve months of a year and ranks agents within each month. Only agents
// with a positive commission are ranked; the rest keep the "-" placeholder.
// Ties sort by agent ID ascending so the output is stable; equal commissions
// still receive distinct consecutive ranks.
func BuildRankingSplit(agents []models.User, deals []models.Deal, grossCommissionKey string) []models.AgentSplit {
	splits := make(map[string]*models.AgentSplit, len(agents))
	order := make([]string, 0, len(agents))
	for _, agent := range agents {
		cells := make([]models.MonthCell, 12)
		for i := range cells {
			cells[i] = models.MonthCell{Month: shortMonthNames[i], Commission: decimal.Zero, Rank: "-"}
		}
		splits[agent.ID] = &models.AgentSplit{
			ID:              agent.ID,
			Name:            agent.FullName(),
			TotalCommission: decimal.Zero,
			Months:          cells,
		}
		order = append(order, agent.ID)
	}

	for _, deal := range deals {
		split, ok := splits[deal.AssignedByID]
		if !ok {
			continue
		}
		idx := monthIndex(deal.CloseDate)
		if idx < 0 {
			continue
		}
		commission := ParseMoney(deal.Custom(grossCommissionKey))
		split.Months[idx].Commission = split.Months[idx].Commission.Add(commission)
		split.TotalCommission = split.TotalCommission.Add(commission)
	}

	for idx := 0; idx < 12; idx++ {
		type ranked struct {
			id         string
			commission decimal.Decimal
		}
		var contenders []ranked
		for _, id := range order {
			if c := splits[id].Months[idx].Commission; c.IsPositive() {
				contenders = append(contenders, ranked{id: id, commission: c})
			}
		}
		sort.Slice(contenders, func(i, j int) bool {
			if !contenders[i].commission.Equal(contenders[j].commission) {
				return contenders[i].commission.GreaterThan(contenders[j].commission)
			}
			return contenders[i].id < contenders[j].id
		})
		for position, contender := range contenders {
			splits[contender.id].Months[idx].Rank = strconv.Itoa(position + 1)
		}
	}

	out := make([]models.AgentSplit, 0, len(order))
	for _, id := range order {
		out = append(out, *splits[id])
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalCommission.Equal(out[j].TotalCommission) {
			return out[i].TotalCommission.GreaterThan(out[j].TotalCommission)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
