package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"brokerdash/server/internal/models"
)

const missedLeadLimit = 3

var payoutRate = decimal.NewFromFloat(0.02)

// BuildOverview folds a year of leads into the overview dashboard: lead KPIs
// for the given day, the sales funnel, source counts and region revenue.
// Region revenue only counts semantically successful leads.
func BuildOverview(
	leads []models.Lead,
	sources []models.StatusEntry,
	statuses []models.StatusEntry,
	leadFields map[string]models.FieldMeta,
	locationKey string,
	now time.Time,
) models.OverviewReport {
	sourceNames := NewStatusMap(sources)
	statusNames := NewStatusMap(statuses)
	locations := NewEnumMap(leadFields, locationKey)

	todayRevenue := decimal.Zero
	newLeads := 0
	activeListings := 0
	funnelCounts := make(map[string]int)
	sourceCounts := make(map[string]int)
	regionTotals := make(map[string]decimal.Decimal)

	for _, lead := range leads {
		funnelCounts[statusNames.ResolveOrID(lead.StatusID)]++
		sourceCounts[sourceNames.ResolveOrID(lead.SourceID)]++

		if sameDay(lead.DateCreate, now) {
			newLeads++
		}
		if IsOpen(lead.StatusSemanticID) {
			activeListings++
		}
		if IsSuccessful(lead.StatusSemanticID) {
			if sameDay(lead.DateModify, now) {
				todayRevenue = todayRevenue.Add(ParseAmount(lead.Opportunity))
			}
			region := locations.ResolveOr(lead.CustomString(locationKey), "Unknown Region")
			regionTotals[region] = regionTotals[region].Add(ParseAmount(lead.Opportunity))
		}
	}

	regions := make([]models.RegionRevenue, 0, len(regionTotals))
	for region, revenue := range regionTotals {
		regions = append(regions, models.RegionRevenue{Region: region, Revenue: revenue})
	}
	sort.Slice(regions, func(i, j int) bool {
		if !regions[i].Revenue.Equal(regions[j].Revenue) {
			return regions[i].Revenue.GreaterThan(regions[j].Revenue)
		}
		return regions[i].Region < regions[j].Region
	})

	return models.OverviewReport{
		KPIs: models.OverviewKPIs{
			TodayRevenue:     todayRevenue,
			ActiveListings:   activeListings,
			NewLeads:         newLeads,
			CommissionPayout: todayRevenue.Mul(payoutRate),
		},
		SalesFunnel: countsToFunnel(funnelCounts),
		LeadSources: countsToSorted(sourceCounts),
		Regions:     regions,
	}
}

// BuildStatusBoard assembles the pipeline-health and lead-source breakdowns
// plus the missed-leads card: leads still in the untouched sentinel status
// that were created more than 24 hours before now, oldest first, capped to
// the top three.
func BuildStatusBoard(
	leads []models.Lead,
	statuses []models.StatusEntry,
	sources []models.StatusEntry,
	users []models.User,
	now time.Time,
) models.StatusBoardReport {
	statusNames := NewStatusMap(statuses)
	sourceNames := NewStatusMap(sources)

	userNames := make(map[string]string, len(users))
	for _, user := range users {
		userNames[user.ID] = user.FullName()
	}

	pipelineCounts := make(map[string]int)
	sourceCounts := make(map[string]int)

	type missed struct {
		lead    models.Lead
		created time.Time
	}
	var overdue []missed

	cutoff := now.Add(-24 * time.Hour)
	for _, lead := range leads {
		pipelineCounts[statusNames.Resolve(lead.StatusID)]++
		sourceCounts[sourceNames.Resolve(lead.SourceID)]++

		if lead.StatusID != NewLeadStatus {
			continue
		}
		created, ok := parseTimestamp(lead.DateCreate)
		if !ok || !created.Before(cutoff) {
			continue
		}
		overdue = append(overdue, missed{lead: lead, created: created})
	}

	sort.Slice(overdue, func(i, j int) bool {
		if !overdue[i].created.Equal(overdue[j].created) {
			return overdue[i].created.Before(overdue[j].created)
		}
		return overdue[i].lead.ID < overdue[j].lead.ID
	})
	if len(overdue) > missedLeadLimit {
		overdue = overdue[:missedLeadLimit]
	}

	missedLeads := make([]models.MissedLead, 0, len(overdue))
	for _, m := range overdue {
		agent := userNames[m.lead.AssignedByID]
		if agent == "" {
			agent = "Unassigned"
		}
		missedLeads = append(missedLeads, models.MissedLead{
			ID:     m.lead.ID,
			Source: sourceNames.Resolve(m.lead.SourceID),
			Agent:  agent,
			Age:    leadAge(m.created, now),
		})
	}

	return models.StatusBoardReport{
		PipelineHealth: countsToFunnel(pipelineCounts),
		LeadSources:    countsToSorted(sourceCounts),
		MissedLeads:    missedLeads,
	}
}

// leadAge renders a lead's age as whole hours under a day, whole days after.
func leadAge(created, now time.Time) string {
	hours := int(now.Sub(created).Hours())
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dd", hours/24)
}

func countsToFunnel(counts map[string]int) []models.FunnelStage {
	out := make([]models.FunnelStage, 0, len(counts))
	for stage, count := range counts {
		out = append(out, models.FunnelStage{Stage: stage, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Stage < out[j].Stage
	})
	return out
}
