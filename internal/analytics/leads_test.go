package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"brokerdash/server/internal/models"
)

var boardNow = time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)

func leadCreatedHoursAgo(hours int) string {
	return boardNow.Add(-time.Duration(hours) * time.Hour).Format(time.RFC3339)
}

func TestBuildStatusBoard_MissedLeadsWindow(t *testing.T) {
	sources := []models.StatusEntry{{ID: "1", StatusID: "WEB", Name: "Website"}}
	statuses := []models.StatusEntry{
		{ID: "2", StatusID: "NEW", Name: "New Lead"},
		{ID: "3", StatusID: "IN_PROCESS", Name: "In Progress"},
	}
	users := []models.User{makeUser("10", "Ayesha", "Khan")}

	leads := []models.Lead{
		// 30 hours old and still NEW: missed.
		{ID: "L1", StatusID: "NEW", SourceID: "WEB", AssignedByID: "10",
			DateCreate: leadCreatedHoursAgo(30)},
		// 10 hours old: inside the grace window.
		{ID: "L2", StatusID: "NEW", SourceID: "WEB",
			DateCreate: leadCreatedHoursAgo(10)},
		// 30 hours old but already worked: not missed.
		{ID: "L3", StatusID: "IN_PROCESS", SourceID: "WEB",
			DateCreate: leadCreatedHoursAgo(30)},
	}

	report := BuildStatusBoard(leads, statuses, sources, users, boardNow)

	if assert.Len(t, report.MissedLeads, 1) {
		missed := report.MissedLeads[0]
		assert.Equal(t, "L1", missed.ID)
		assert.Equal(t, "Website", missed.Source)
		assert.Equal(t, "Ayesha Khan", missed.Agent)
		assert.Equal(t, "1d", missed.Age)
	}
}

func TestBuildStatusBoard_MissedLeadsOldestFirstCapped(t *testing.T) {
	leads := []models.Lead{
		{ID: "L1", StatusID: "NEW", DateCreate: leadCreatedHoursAgo(30)},
		{ID: "L2", StatusID: "NEW", DateCreate: leadCreatedHoursAgo(90)},
		{ID: "L3", StatusID: "NEW", DateCreate: leadCreatedHoursAgo(50)},
		{ID: "L4", StatusID: "NEW", DateCreate: leadCreatedHoursAgo(70)},
	}

	report := BuildStatusBoard(leads, nil, nil, nil, boardNow)

	ids := make([]string, 0, len(report.MissedLeads))
	for _, missed := range report.MissedLeads {
		ids = append(ids, missed.ID)
	}
	assert.Equal(t, []string{"L2", "L4", "L3"}, ids)

	// Unassigned and unmapped values degrade, never error.
	assert.Equal(t, "Unassigned", report.MissedLeads[0].Agent)
	assert.Equal(t, "Unknown", report.MissedLeads[0].Source)
}

func TestBuildStatusBoard_PipelineAndSourceCounts(t *testing.T) {
	statuses := []models.StatusEntry{{ID: "1", StatusID: "NEW", Name: "New Lead"}}
	leads := []models.Lead{
		{ID: "L1", StatusID: "NEW", SourceID: "WEB", DateCreate: leadCreatedHoursAgo(1)},
		{ID: "L2", StatusID: "NEW", SourceID: "WEB", DateCreate: leadCreatedHoursAgo(2)},
		{ID: "L3", StatusID: "CONVERTED", DateCreate: leadCreatedHoursAgo(3)},
	}

	report := BuildStatusBoard(leads, statuses, nil, nil, boardNow)

	assert.Equal(t, []models.FunnelStage{
		{Stage: "New Lead", Count: 2},
		{Stage: "Unknown", Count: 1},
	}, report.PipelineHealth)
	assert.Equal(t, []models.NameCount{
		{Name: "Unknown", Count: 3},
	}, report.LeadSources)
}

func TestBuildOverview(t *testing.T) {
	keys := testKeys()
	now := boardNow

	sources := []models.StatusEntry{{ID: "1", StatusID: "WEB", Name: "Website"}}
	statuses := []models.StatusEntry{
		{ID: "2", StatusID: "NEW", Name: "New Lead"},
		{ID: "3", StatusID: "CONVERTED", Name: "Converted"},
	}
	fields := map[string]models.FieldMeta{
		keys.LeadLocation: {Items: []models.EnumItem{
			{ID: "501", Value: "Dubai Marina"},
			{ID: "502", Value: "Downtown"},
		}},
	}

	converted := models.Lead{
		ID: "L1", StatusID: "CONVERTED", StatusSemanticID: "S", SourceID: "WEB",
		Opportunity: "2000000",
		DateCreate:  leadCreatedHoursAgo(300),
		DateModify:  now.Format(time.RFC3339),
	}
	converted.SetCustom(keys.LeadLocation, "501")

	failed := models.Lead{
		ID: "L2", StatusID: "JUNK", StatusSemanticID: "F",
		Opportunity: "500000",
		DateCreate:  leadCreatedHoursAgo(200),
		DateModify:  leadCreatedHoursAgo(100),
	}

	open := models.Lead{
		ID: "L3", StatusID: "NEW", StatusSemanticID: "P", SourceID: "WEB",
		Opportunity: "750000",
		DateCreate:  now.Format(time.RFC3339),
		DateModify:  now.Format(time.RFC3339),
	}

	oldSuccess := models.Lead{
		ID: "L4", StatusID: "CONVERTED", StatusSemanticID: "S",
		Opportunity: "1000000",
		DateCreate:  leadCreatedHoursAgo(400),
		DateModify:  leadCreatedHoursAgo(300),
	}
	oldSuccess.SetCustom(keys.LeadLocation, "999")

	leads := []models.Lead{converted, failed, open, oldSuccess}

	report := BuildOverview(leads, sources, statuses, fields, keys.LeadLocation, now)

	// Today revenue only counts successful leads modified today.
	assert.True(t, report.KPIs.TodayRevenue.Equal(decimal.NewFromInt(2000000)),
		"got %s", report.KPIs.TodayRevenue)
	assert.True(t, report.KPIs.CommissionPayout.Equal(decimal.NewFromInt(40000)))
	assert.Equal(t, 1, report.KPIs.NewLeads)
	assert.Equal(t, 1, report.KPIs.ActiveListings)

	// Region revenue covers every successful lead, with fallbacks for
	// unmapped locations.
	assert.Equal(t, "Dubai Marina", report.Regions[0].Region)
	assert.True(t, report.Regions[0].Revenue.Equal(decimal.NewFromInt(2000000)))
	assert.Equal(t, "Unknown Region", report.Regions[1].Region)

	// The funnel spans all leads regardless of semantics.
	total := 0
	for _, stage := range report.SalesFunnel {
		total += stage.Count
	}
	assert.Equal(t, 4, total)
}

func TestBuildOverview_EmptyInput(t *testing.T) {
	report := BuildOverview(nil, nil, nil, nil, "UF_LOC", boardNow)

	assert.True(t, report.KPIs.TodayRevenue.IsZero())
	assert.Equal(t, 0, report.KPIs.ActiveListings)
	assert.Empty(t, report.SalesFunnel)
	assert.Empty(t, report.LeadSources)
	assert.Empty(t, report.Regions)
}
