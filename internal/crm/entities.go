package crm

import (
	"context"
	"encoding/json"
	"fmt"

	"brokerdash/server/internal/models"
)

// Entity fetchers. Each one retrieves a complete collection (or a single page
// for the monitoring view) and reports a descriptive purpose so a failed
// request names the operation it was serving.

const (
	methodDealList   = "crm.deal.list"
	methodDealFields = "crm.deal.fields"
	methodLeadList   = "crm.lead.list"
	methodLeadFields = "crm.lead.fields"
	methodStatusList = "crm.status.list"
	methodUserGet    = "user.get"
	methodDeptGet    = "department.get"
)

func yearBounds(year int) (string, string) {
	return fmt.Sprintf("%d-01-01T00:00:00", year), fmt.Sprintf("%d-01-01T00:00:00", year+1)
}

// DealsByYear fetches every deal created in the given calendar year.
func (c *Client) DealsByYear(ctx context.Context, year int) ([]models.Deal, error) {
	from, to := yearBounds(year)
	q := newQuery().
		selectAll(c.fields.SelectFields()...).
		filter(">=", "DATE_CREATE", from).
		filter("<", "DATE_CREATE", to)
	return fetchAll[models.Deal](ctx, c, methodDealList, q.values,
		fmt.Sprintf("failed to fetch deals for year %d", year))
}

// WonDealsByYear fetches deals in a won stage closed in the given year.
func (c *Client) WonDealsByYear(ctx context.Context, year int) ([]models.Deal, error) {
	from, to := yearBounds(year)
	q := newQuery().
		selectAll(c.fields.SelectFields()...).
		filterIn("STAGE_ID", c.wonStages).
		filter(">=", "CLOSEDATE", from).
		filter("<", "CLOSEDATE", to)
	return fetchAll[models.Deal](ctx, c, methodDealList, q.values,
		fmt.Sprintf("failed to fetch won deals for year %d", year))
}

// WonDealsByRange fetches won deals closed between two YYYY-MM-DD dates,
// inclusive.
func (c *Client) WonDealsByRange(ctx context.Context, startDate, endDate string) ([]models.Deal, error) {
	q := newQuery().
		selectAll(c.fields.SelectFields()...).
		filterIn("STAGE_ID", c.wonStages).
		filter(">=", "CLOSEDATE", startDate).
		filter("<=", "CLOSEDATE", endDate)
	return fetchAll[models.Deal](ctx, c, methodDealList, q.values,
		fmt.Sprintf("failed to fetch won deals between %s and %s", startDate, endDate))
}

// DealsByAgent fetches every won deal assigned to one agent, across all years.
func (c *Client) DealsByAgent(ctx context.Context, agentID string) ([]models.Deal, error) {
	q := newQuery().
		selectAll(c.fields.SelectFields()...).
		filterIn("STAGE_ID", c.wonStages).
		filter("", "ASSIGNED_BY_ID", agentID)
	return fetchAll[models.Deal](ctx, c, methodDealList, q.values,
		fmt.Sprintf("failed to fetch deals for agent %s", agentID))
}

// DealsPage fetches a single page of deals starting at the given offset and
// reports the endpoint's total, newest close date first.
func (c *Client) DealsPage(ctx context.Context, start int) ([]models.Deal, int, error) {
	q := newQuery().
		selectAll(c.fields.SelectFields()...).
		order("CLOSEDATE", "DESC")
	return fetchPage[models.Deal](ctx, c, methodDealList, q.values,
		"failed to fetch deals page", start)
}

// LeadsByYear fetches every lead created in the given calendar year.
func (c *Client) LeadsByYear(ctx context.Context, year int) ([]models.Lead, error) {
	from, to := yearBounds(year)
	q := newQuery().
		selectAll(c.fields.LeadSelectFields()...).
		filter(">=", "DATE_CREATE", from).
		filter("<", "DATE_CREATE", to)
	return fetchAll[models.Lead](ctx, c, methodLeadList, q.values,
		fmt.Sprintf("failed to fetch leads for year %d", year))
}

// LeadsByRange fetches leads created between two YYYY-MM-DD dates, inclusive.
func (c *Client) LeadsByRange(ctx context.Context, startDate, endDate string) ([]models.Lead, error) {
	q := newQuery().
		selectAll(c.fields.LeadSelectFields()...).
		filter(">=", "DATE_CREATE", startDate).
		filter("<=", "DATE_CREATE", endDate)
	return fetchAll[models.Lead](ctx, c, methodLeadList, q.values,
		fmt.Sprintf("failed to fetch leads between %s and %s", startDate, endDate))
}

// DealFields fetches the deal field definitions used to resolve enumeration
// IDs to labels. The endpoint returns everything in a single response.
func (c *Client) DealFields(ctx context.Context) (map[string]models.FieldMeta, error) {
	return c.fieldDefinitions(ctx, methodDealFields, "failed to fetch deal fields")
}

// LeadFields fetches the lead field definitions.
func (c *Client) LeadFields(ctx context.Context) (map[string]models.FieldMeta, error) {
	return c.fieldDefinitions(ctx, methodLeadFields, "failed to fetch lead fields")
}

func (c *Client) fieldDefinitions(ctx context.Context, method, purpose string) (map[string]models.FieldMeta, error) {
	env, err := c.get(ctx, method, nil, purpose)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]models.FieldMeta)
	if len(env.Result) > 0 && string(env.Result) != "null" {
		if err := json.Unmarshal(env.Result, &fields); err != nil {
			return nil, fmt.Errorf("%s: failed to decode field definitions: %w", purpose, err)
		}
	}
	return fields, nil
}

// Statuses fetches the status directory for one entity scope, e.g. "SOURCE"
// or "STATUS". The directory fits in one response.
func (c *Client) Statuses(ctx context.Context, entityID string) ([]models.StatusEntry, error) {
	q := newQuery().filter("", "ENTITY_ID", entityID)
	purpose := fmt.Sprintf("failed to fetch %s statuses", entityID)

	env, err := c.get(ctx, methodStatusList, q.values, purpose)
	if err != nil {
		return nil, err
	}
	var statuses []models.StatusEntry
	if len(env.Result) > 0 && string(env.Result) != "null" {
		if err := json.Unmarshal(env.Result, &statuses); err != nil {
			return nil, fmt.Errorf("%s: failed to decode statuses: %w", purpose, err)
		}
	}
	return statuses, nil
}

// ActiveUsers fetches the full active user directory, following pagination.
func (c *Client) ActiveUsers(ctx context.Context) ([]models.User, error) {
	q := newQuery().filter("", "ACTIVE", "true")
	return fetchAll[models.User](ctx, c, methodUserGet, q.values,
		"failed to fetch active users")
}

// Departments fetches the org-unit directory.
func (c *Client) Departments(ctx context.Context) ([]models.Department, error) {
	return fetchAll[models.Department](ctx, c, methodDeptGet, nil,
		"failed to fetch departments")
}
