package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"brokerdash/server/internal/models"
)

func TestBuildManagement_WonVersusTotalDenominators(t *testing.T) {
	keys := testKeys()
	won := NewStageSet([]string{"WON"})

	deals := []models.Deal{
		makeDeal(dealInput{
			id: "1", stage: "WON", closeDate: "2024-03-05T10:00:00+04:00",
			opportunity: "1000000",
			custom:      map[string]any{keys.GrossCommission: "1000|AED"},
		}),
		makeDeal(dealInput{
			id: "2", stage: "LOST", closeDate: "2024-03-10T10:00:00+04:00",
			opportunity: "500000",
			custom:      map[string]any{keys.GrossCommission: "500|AED"},
		}),
		makeDeal(dealInput{
			id: "3", stage: "WON", closeDate: "2024-03-20T10:00:00+04:00",
			opportunity: "2000000",
			custom:      map[string]any{keys.GrossCommission: "2000|AED"},
		}),
	}

	report := BuildManagement(deals, nil, nil, keys, won)

	// Total counts every fetched deal; the commission KPIs and the monthly
	// breakdown only see the won subset.
	assert.Equal(t, 3, report.KPIs.TotalDeals)
	assert.Equal(t, 2, report.KPIs.DealsWon)
	assert.True(t, report.KPIs.GrossCommission.Equal(decimal.NewFromInt(3000)),
		"got %s", report.KPIs.GrossCommission)

	if assert.Len(t, report.Monthly, 1) {
		march := report.Monthly[0]
		assert.Equal(t, "March", march.Month)
		assert.Equal(t, 3, march.MonthNumber)
		assert.Equal(t, 2, march.DealsWon)
		assert.True(t, march.GrossCommission.Equal(decimal.NewFromInt(3000)))
		assert.True(t, march.PropertyPrice.Equal(decimal.NewFromInt(3000000)))
	}
}

func TestBuildManagement_DeveloperPercentagesSumToHundred(t *testing.T) {
	keys := testKeys()
	won := NewStageSet([]string{"WON"})

	deals := []models.Deal{
		makeDeal(dealInput{id: "1", stage: "WON", opportunity: "100",
			custom: map[string]any{keys.Developer: "Emaar"}}),
		makeDeal(dealInput{id: "2", stage: "LOST", opportunity: "200",
			custom: map[string]any{keys.Developer: "Damac"}}),
		makeDeal(dealInput{id: "3", stage: "OPEN", opportunity: "150"}),
		makeDeal(dealInput{id: "4", stage: "WON", opportunity: "250",
			custom: map[string]any{keys.Developer: "Emaar"}}),
		makeDeal(dealInput{id: "5", stage: "OPEN", opportunity: "300",
			custom: map[string]any{keys.Developer: "Sobha"}}),
	}

	report := BuildManagement(deals, nil, nil, keys, won)

	// The breakdown covers all deals, won or not, with a fallback bucket for
	// the deal missing a developer.
	assert.Len(t, report.Developers, 4)

	total := decimal.Zero
	for _, dev := range report.Developers {
		total = total.Add(dev.Percentage)
	}
	diff := total.Sub(decimal.NewFromInt(100)).Abs()
	assert.True(t, diff.LessThan(decimal.RequireFromString("0.01")),
		"percentages sum to %s", total)

	// Sorted by share, Emaar leads with 350 of 1000.
	assert.Equal(t, "Emaar", report.Developers[0].Developer)
	assert.True(t, report.Developers[0].TotalValue.Equal(decimal.NewFromInt(350)))

	// The distinct developer list never includes the fallback bucket.
	assert.Equal(t, []string{"Damac", "Emaar", "Sobha"}, report.AllDevelopers)
}

func TestBuildManagement_Deterministic(t *testing.T) {
	keys := testKeys()
	won := NewStageSet([]string{"WON", "C2:WON"})

	deals := []models.Deal{
		makeDeal(dealInput{id: "1", stage: "WON", source: "WEB", opportunity: "900000",
			closeDate: "2024-01-15T09:00:00+04:00",
			custom: map[string]any{
				keys.Developer:       "Emaar",
				keys.GrossCommission: "18000|AED",
				keys.NetCommission:   "15000|AED",
				keys.PropertyType:    "101",
			}}),
		makeDeal(dealInput{id: "2", stage: "C2:WON", source: "CALL", opportunity: "1200000",
			closeDate: "2024-06-02T14:30:00+04:00",
			custom: map[string]any{
				keys.Developer:       "Damac",
				keys.GrossCommission: "24000|AED",
				keys.PropertyType:    "102",
			}}),
		makeDeal(dealInput{id: "3", stage: "LOST", source: "WEB", opportunity: "700000",
			custom: map[string]any{keys.Developer: "Emaar"}}),
	}
	fields := map[string]models.FieldMeta{
		keys.PropertyType: {Type: "enumeration", Items: []models.EnumItem{
			{ID: "101", Value: "Apartment"},
			{ID: "102", Value: "Villa"},
		}},
	}
	sources := []models.StatusEntry{
		{ID: "1", StatusID: "WEB", Name: "Website"},
		{ID: "2", StatusID: "CALL", Name: "Phone Call"},
	}

	first := BuildManagement(deals, fields, sources, keys, won)
	second := BuildManagement(deals, fields, sources, keys, won)
	assert.Equal(t, first, second)

	assert.Equal(t, []models.NameCount{
		{Name: "Website", Count: 2},
		{Name: "Phone Call", Count: 1},
	}, first.LeadSources)
	assert.Equal(t, []models.NameCount{
		{Name: "Apartment", Count: 1},
		{Name: "Unknown", Count: 1},
		{Name: "Villa", Count: 1},
	}, first.PropertyTypes)
}

func TestBuildOverallDeals_RestrictsChartsToWon(t *testing.T) {
	keys := testKeys()
	won := NewStageSet([]string{"WON"})

	deals := []models.Deal{
		makeDeal(dealInput{id: "1", stage: "WON", opportunity: "100",
			closeDate: "2024-02-01T00:00:00+04:00",
			custom:    map[string]any{keys.Developer: "Emaar"}}),
		makeDeal(dealInput{id: "2", stage: "LOST", opportunity: "900",
			closeDate: "2024-02-10T00:00:00+04:00",
			custom:    map[string]any{keys.Developer: "Damac"}}),
	}

	report := BuildOverallDeals(deals, nil, keys, won)

	assert.Equal(t, 2, report.KPIs.TotalDeals)
	assert.Equal(t, 1, report.KPIs.DealsWon)
	if assert.Len(t, report.Developers, 1) {
		assert.Equal(t, "Emaar", report.Developers[0].Developer)
		assert.True(t, report.Developers[0].Percentage.Equal(decimal.NewFromInt(100)))
	}
}

func TestEnumMapFallbacks(t *testing.T) {
	fields := map[string]models.FieldMeta{
		"UF_TYPE": {Items: []models.EnumItem{{ID: "1", Value: "Apartment"}}},
	}

	m := NewEnumMap(fields, "UF_TYPE")
	assert.Equal(t, "Apartment", m.Resolve("1"))
	assert.Equal(t, "Unknown", m.Resolve("999"))
	assert.Equal(t, "N/A", m.ResolveOr("999", "N/A"))

	// A field key missing from the definitions yields an empty map, never a
	// panic.
	empty := NewEnumMap(fields, "UF_MISSING")
	assert.Equal(t, "Unknown", empty.Resolve("1"))
}

func TestStatusMapLookupOrder(t *testing.T) {
	m := NewStatusMap([]models.StatusEntry{
		{ID: "17", StatusID: "WEB", Name: "Website"},
	})

	assert.Equal(t, "Website", m.Resolve("WEB"))
	assert.Equal(t, "Website", m.Resolve("17"))
	assert.Equal(t, "Unknown", m.Resolve("18"))
	assert.Equal(t, "18", m.ResolveOrID("18"))
	assert.Equal(t, "Unknown", m.ResolveOrID(""))
}
