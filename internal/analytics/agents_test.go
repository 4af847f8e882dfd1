package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"brokerdash/server/internal/models"
)

func testDepartments() []models.Department {
	return []models.Department{
		{ID: "1", Name: "Downtown Sales"},
		{ID: "2", Name: "Marina Sales"},
		{ID: "3", Name: "Off-Plan"},
	}
}

func TestBuildTeams_MultiMembershipFanOut(t *testing.T) {
	users := []models.User{
		makeUser("10", "Ayesha", "Khan", "1", "3"),
		makeUser("11", "Omar", "Hadid", "2"),
		makeUser("12", "Lena", "Petrova"),
	}

	teams := BuildTeams(users, testDepartments())

	byName := make(map[string][]models.TeamMember)
	for _, team := range teams {
		byName[team.Name] = team.Members
	}

	// A user with memberships {1,3} shows up under both teams and not under
	// team 2; a user with no memberships shows up nowhere.
	if assert.Len(t, byName["Downtown Sales"], 1) {
		assert.Equal(t, "Ayesha Khan", byName["Downtown Sales"][0].Name)
	}
	if assert.Len(t, byName["Off-Plan"], 1) {
		assert.Equal(t, "10", byName["Off-Plan"][0].ID)
	}
	if assert.Len(t, byName["Marina Sales"], 1) {
		assert.Equal(t, "Omar Hadid", byName["Marina Sales"][0].Name)
	}
}

func TestBuildTeams_DropsEmptyTeams(t *testing.T) {
	users := []models.User{makeUser("10", "Ayesha", "Khan", "1")}

	teams := BuildTeams(users, testDepartments())

	assert.Len(t, teams, 1)
	assert.Equal(t, "Downtown Sales", teams[0].Name)
}

func TestBuildAgentTransactions_KeepsNewestDeal(t *testing.T) {
	keys := testKeys()
	users := []models.User{makeUser("10", "Ayesha", "Khan", "1")}

	deals := []models.Deal{
		makeDeal(dealInput{id: "1", agent: "10", closeDate: "2024-02-01T00:00:00+04:00",
			opportunity: "100",
			custom: map[string]any{
				keys.ProjectName:     "Old Project",
				keys.GrossCommission: "100|AED",
			}}),
		makeDeal(dealInput{id: "2", agent: "10", closeDate: "2024-07-10T00:00:00+04:00",
			opportunity: "900",
			custom: map[string]any{
				keys.ProjectName:     "Creek Harbour",
				keys.GrossCommission: "9000|AED",
			}}),
		// Tied close date: the first deal scanned is retained.
		makeDeal(dealInput{id: "3", agent: "10", closeDate: "2024-07-10T00:00:00+04:00",
			opportunity: "555",
			custom:      map[string]any{keys.ProjectName: "Late Duplicate"}}),
	}

	transactions := BuildAgentTransactions(users, testDepartments(), deals, keys)

	if assert.Len(t, transactions, 1) {
		tx := transactions[0]
		assert.Equal(t, "Ayesha Khan", tx.Name)
		assert.Equal(t, "Downtown Sales", tx.Team)
		assert.Equal(t, "2024-07-10", tx.LastDate)
		assert.Equal(t, "Creek Harbour", tx.Project)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(900)))
		assert.True(t, tx.GrossCommission.Equal(decimal.NewFromInt(9000)))
	}
}

func TestBuildAgentTransactions_NoDeals(t *testing.T) {
	keys := testKeys()
	users := []models.User{makeUser("10", "Ayesha", "Khan", "2")}

	transactions := BuildAgentTransactions(users, testDepartments(), nil, keys)

	if assert.Len(t, transactions, 1) {
		assert.Empty(t, transactions[0].LastDate)
		assert.True(t, transactions[0].Amount.IsZero())
	}
}

func TestBuildAgentProfiles(t *testing.T) {
	keys := testKeys()
	users := []models.User{
		makeUser("10", "Ayesha", "Khan", "1", "3"),
		makeUser("11", "Omar", "Hadid", "2"),
	}
	leads := []models.Lead{
		{ID: "L1", AssignedByID: "10", SourceID: "WEB", DateCreate: "2024-01-05T08:00:00+04:00"},
		{ID: "L2", AssignedByID: "10", SourceID: "WEB", DateCreate: "2024-02-11T08:00:00+04:00"},
		{ID: "L3", AssignedByID: "10", SourceID: "CALL", DateCreate: "2024-02-15T08:00:00+04:00"},
		{ID: "L4", AssignedByID: "11", SourceID: "WEB", DateCreate: "2024-03-01T08:00:00+04:00"},
	}
	deals := []models.Deal{
		makeDeal(dealInput{id: "1", agent: "10", closeDate: "2024-02-28T00:00:00+04:00",
			opportunity: "1000000",
			custom:      map[string]any{keys.GrossCommission: "20000|AED"}}),
	}
	sources := []models.StatusEntry{{ID: "1", StatusID: "WEB", Name: "Website"}}

	profiles := BuildAgentProfiles(users, testDepartments(), leads, deals, sources, keys)

	byID := make(map[string]models.AgentProfile)
	for _, profile := range profiles {
		byID[profile.ID] = profile
	}

	ayesha := byID["10"]
	assert.Equal(t, "Downtown Sales, Off-Plan", ayesha.Team)
	assert.Equal(t, 3, ayesha.Leads)
	assert.Equal(t, 1, ayesha.Deals)
	assert.Equal(t, 33, ayesha.Conversion)
	assert.True(t, ayesha.Commission.Equal(decimal.NewFromInt(20000)))
	assert.True(t, ayesha.Revenue.Equal(decimal.NewFromInt(1000000)))
	assert.Equal(t, 1, ayesha.MonthlyTrends[0].Leads)
	assert.Equal(t, 2, ayesha.MonthlyTrends[1].Leads)
	assert.Equal(t, 1, ayesha.MonthlyTrends[1].Deals)
	assert.Equal(t, []models.NameCount{
		{Name: "Website", Count: 2},
		{Name: "Unknown", Count: 1},
	}, ayesha.LeadSources)

	omar := byID["11"]
	assert.Equal(t, 1, omar.Leads)
	assert.Equal(t, 0, omar.Deals)
	assert.Equal(t, 0, omar.Conversion)
}
