package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"brokerdash/server/config"
	"brokerdash/server/internal/models"
)

// teamNames joins the display names of every department a user belongs to.
// Membership is many-to-many; unknown department IDs resolve to the fallback.
func teamNames(departmentIDs []string, departments map[string]string) string {
	names := make([]string, 0, len(departmentIDs))
	for _, id := range departmentIDs {
		name, ok := departments[id]
		if !ok {
			name = UnknownLabel
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func departmentIndex(departments []models.Department) map[string]string {
	m := make(map[string]string, len(departments))
	for _, dept := range departments {
		m[dept.ID] = dept.Name
	}
	return m
}

// BuildAgentTransactions finds, for each user, the most recent closed deal
// assigned to them. A strictly newer close date replaces the retained deal;
// on an exact tie the first deal scanned in fetch order is kept.
func BuildAgentTransactions(
	users []models.User,
	departments []models.Department,
	deals []models.Deal,
	keys config.FieldKeys,
) []models.AgentTransaction {
	deptNames := departmentIndex(departments)

	type lastDeal struct {
		closedAt        time.Time
		project         string
		amount          decimal.Decimal
		grossCommission decimal.Decimal
	}
	latest := make(map[string]lastDeal)

	for _, deal := range deals {
		if deal.AssignedByID == "" {
			continue
		}
		closedAt, ok := parseTimestamp(deal.CloseDate)
		if !ok {
			continue
		}
		if prev, seen := latest[deal.AssignedByID]; seen && !closedAt.After(prev.closedAt) {
			continue
		}
		project := deal.CustomString(keys.ProjectName)
		if project == "" {
			project = NotAvailable
		}
		latest[deal.AssignedByID] = lastDeal{
			closedAt:        closedAt,
			project:         project,
			amount:          ParseAmount(deal.Opportunity),
			grossCommission: ParseMoney(deal.Custom(keys.GrossCommission)),
		}
	}

	out := make([]models.AgentTransaction, 0, len(users))
	for _, user := range users {
		tx := models.AgentTransaction{
			ID:              user.ID,
			Name:            user.FullName(),
			Team:            teamNames(user.Departments, deptNames),
			Amount:          decimal.Zero,
			GrossCommission: decimal.Zero,
		}
		if last, ok := latest[user.ID]; ok {
			tx.LastDate = last.closedAt.Format("2006-01-02")
			tx.Project = last.project
			tx.Amount = last.amount
			tx.GrossCommission = last.grossCommission
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// BuildAgentProfiles assembles each user's activity summary for a year:
// lead and won-deal counts, conversion, commission and revenue, a 12-month
// lead/deal trend and a per-source lead breakdown.
func BuildAgentProfiles(
	users []models.User,
	departments []models.Department,
	leads []models.Lead,
	wonDeals []models.Deal,
	leadSources []models.StatusEntry,
	keys config.FieldKeys,
) []models.AgentProfile {
	deptNames := departmentIndex(departments)
	sourceNames := NewStatusMap(leadSources)

	type profileAcc struct {
		profile     models.AgentProfile
		sourceCount map[string]int
	}
	profiles := make(map[string]*profileAcc, len(users))
	order := make([]string, 0, len(users))

	for _, user := range users {
		trends := make([]models.MonthlyTrend, 12)
		for i := range trends {
			trends[i] = models.MonthlyTrend{Month: shortMonthNames[i]}
		}
		profiles[user.ID] = &profileAcc{
			profile: models.AgentProfile{
				ID:            user.ID,
				Name:          user.FullName(),
				Team:          teamNames(user.Departments, deptNames),
				Commission:    decimal.Zero,
				Revenue:       decimal.Zero,
				MonthlyTrends: trends,
			},
			sourceCount: make(map[string]int),
		}
		order = append(order, user.ID)
	}

	for _, lead := range leads {
		acc, ok := profiles[lead.AssignedByID]
		if !ok {
			continue
		}
		acc.profile.Leads++
		if idx := monthIndex(lead.DateCreate); idx >= 0 {
			acc.profile.MonthlyTrends[idx].Leads++
		}
		acc.sourceCount[sourceNames.Resolve(lead.SourceID)]++
	}

	for _, deal := range wonDeals {
		acc, ok := profiles[deal.AssignedByID]
		if !ok {
			continue
		}
		acc.profile.Deals++
		acc.profile.Commission = acc.profile.Commission.Add(ParseMoney(deal.Custom(keys.GrossCommission)))
		acc.profile.Revenue = acc.profile.Revenue.Add(ParseAmount(deal.Opportunity))
		if idx := monthIndex(deal.CloseDate); idx >= 0 {
			acc.profile.MonthlyTrends[idx].Deals++
		}
	}

	out := make([]models.AgentProfile, 0, len(order))
	for _, id := range order {
		acc := profiles[id]
		if acc.profile.Leads > 0 {
			acc.profile.Conversion = int(math.Round(float64(acc.profile.Deals) / float64(acc.profile.Leads) * 100))
		}
		acc.profile.LeadSources = countsToSorted(acc.sourceCount)
		out = append(out, acc.profile)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// BuildTeams groups users under every department they belong to. A user with
// memberships {1,3} appears in both team 1 and team 3 and nowhere else.
// Departments with no members are dropped.
func BuildTeams(users []models.User, departments []models.Department) []models.TeamSummary {
	teams := make(map[string]*models.TeamSummary, len(departments))
	for _, dept := range departments {
		teams[dept.ID] = &models.TeamSummary{ID: dept.ID, Name: dept.Name}
	}

	for _, user := range users {
		member := models.TeamMember{
			ID:   user.ID,
			Name: user.FullName(),
			Role: user.WorkPosition,
		}
		if member.Role == "" {
			member.Role = NotAvailable
		}
		for _, deptID := range user.Departments {
			if team, ok := teams[deptID]; ok {
				team.Members = append(team.Members, member)
			}
		}
	}

	out := make([]models.TeamSummary, 0, len(departments))
	for _, dept := range departments {
		team := teams[dept.ID]
		if len(team.Members) == 0 {
			continue
		}
		out = append(out, *team)
	}
	return out
}
