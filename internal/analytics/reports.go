package analytics

import (
	"brokerdash/server/config"
	"brokerdash/server/internal/models"
)

// TeamMemberIDs returns the IDs of users who belong to the given department.
func TeamMemberIDs(users []models.User, departmentID string) map[string]bool {
	members := make(map[string]bool)
	for _, user := range users {
		for _, deptID := range user.Departments {
			if deptID == departmentID {
				members[user.ID] = true
				break
			}
		}
	}
	return members
}

// FilterDealsByAssignees keeps deals whose assignee is in the given set.
func FilterDealsByAssignees(deals []models.Deal, assignees map[string]bool) []models.Deal {
	out := make([]models.Deal, 0, len(deals))
	for _, deal := range deals {
		if assignees[deal.AssignedByID] {
			out = append(out, deal)
		}
	}
	return out
}

// FilterLeadsByAssignees keeps leads whose assignee is in the given set.
func FilterLeadsByAssignees(leads []models.Lead, assignees map[string]bool) []models.Lead {
	out := make([]models.Lead, 0, len(leads))
	for _, lead := range leads {
		if assignees[lead.AssignedByID] {
			out = append(out, lead)
		}
	}
	return out
}

// BuildDealReport renders won deals as tabular report rows.
func BuildDealReport(metric string, deals []models.Deal, users []models.User, keys config.FieldKeys) models.Report {
	names := userNameIndex(users)

	rows := make([][]string, 0, len(deals))
	for _, deal := range deals {
		rows = append(rows, []string{
			deal.ID,
			stringOr(names[deal.AssignedByID], deal.AssignedByID),
			deal.CloseDate,
			ParseMoney(deal.Custom(keys.NetCommission)).String(),
		})
	}
	return models.Report{
		Metric:  metric,
		Headers: []string{"DEAL_ID", "ASSIGNED_BY", "CLOSE_DATE", "NET_COMMISSION"},
		Rows:    rows,
	}
}

// BuildLeadReport renders leads as tabular report rows with resolved status
// and source labels.
func BuildLeadReport(
	leads []models.Lead,
	users []models.User,
	statuses []models.StatusEntry,
	sources []models.StatusEntry,
) models.Report {
	names := userNameIndex(users)
	statusNames := NewStatusMap(statuses)
	sourceNames := NewStatusMap(sources)

	rows := make([][]string, 0, len(leads))
	for _, lead := range leads {
		rows = append(rows, []string{
			lead.ID,
			lead.Title,
			stringOr(names[lead.AssignedByID], lead.AssignedByID),
			lead.DateCreate,
			statusNames.Resolve(lead.StatusID),
			sourceNames.Resolve(lead.SourceID),
		})
	}
	return models.Report{
		Metric:  "Leads",
		Headers: []string{"LEAD_ID", "TITLE", "ASSIGNED_BY", "DATE_CREATE", "STATUS", "SOURCE"},
		Rows:    rows,
	}
}

func userNameIndex(users []models.User) map[string]string {
	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.FullName()
	}
	return names
}
