package models

import "github.com/shopspring/decimal"

// Derived dashboard shapes. None of these are persisted; every query rebuilds
// them from a full re-fold of the fetched records.

type KPISet struct {
	TotalDeals      int             `json:"total_deals"`
	DealsWon        int             `json:"deals_won"`
	GrossCommission decimal.Decimal `json:"gross_commission"`
	NetCommission   decimal.Decimal `json:"net_commission"`
}

type MonthlySummary struct {
	Month            string          `json:"month"`
	MonthNumber      int             `json:"month_number"`
	DealsWon         int             `json:"deals_won"`
	PropertyPrice    decimal.Decimal `json:"property_price"`
	GrossCommission  decimal.Decimal `json:"gross_commission"`
	NetCommission    decimal.Decimal `json:"net_commission"`
	PaymentReceived  decimal.Decimal `json:"payment_received"`
	AmountReceivable decimal.Decimal `json:"amount_receivable"`
}

type DeveloperSummary struct {
	Developer  string          `json:"developer"`
	TotalValue decimal.Decimal `json:"total_value"`
	Percentage decimal.Decimal `json:"percentage"`
}

// NameCount is a generic label/occurrence pair used for property type,
// lead source and funnel breakdowns.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ManagementReport struct {
	KPIs          KPISet             `json:"kpis"`
	AllDevelopers []string           `json:"all_developers"`
	Monthly       []MonthlySummary   `json:"monthly"`
	PropertyTypes []NameCount        `json:"property_types"`
	Developers    []DeveloperSummary `json:"developers"`
	LeadSources   []NameCount        `json:"lead_sources"`
}

type OverallDealsReport struct {
	KPIs          KPISet             `json:"kpis"`
	Monthly       []MonthlySummary   `json:"monthly"`
	Developers    []DeveloperSummary `json:"developers"`
	PropertyTypes []NameCount        `json:"property_types"`
}

// PeriodCommission is one row of an agent's commission history at month,
// quarter or year granularity.
type PeriodCommission struct {
	Year            int             `json:"year"`
	Month           string          `json:"month,omitempty"`
	Quarter         string          `json:"quarter,omitempty"`
	GrossCommission decimal.Decimal `json:"gross_commission"`
	Rank            int             `json:"rank"`
}

type AgentRankings struct {
	Monthly   []PeriodCommission `json:"monthly"`
	Quarterly []PeriodCommission `json:"quarterly"`
	Yearly    []PeriodCommission `json:"yearly"`
}

// MonthCell is one month of an agent's ranking split row. Rank is the string
// position within that month, or "-" when the agent closed nothing.
type MonthCell struct {
	Month      string          `json:"month"`
	Commission decimal.Decimal `json:"commission"`
	Rank       string          `json:"rank"`
}

type AgentSplit struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	Months          []MonthCell     `json:"months"`
}

type AgentTransaction struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Team            string          `json:"team"`
	LastDate        string          `json:"last_transaction_date,omitempty"`
	Project         string          `json:"last_transaction_project,omitempty"`
	Amount          decimal.Decimal `json:"last_transaction_amount"`
	GrossCommission decimal.Decimal `json:"gross_commission"`
}

type MonthlyTrend struct {
	Month string `json:"month"`
	Leads int    `json:"leads"`
	Deals int    `json:"deals"`
}

type AgentProfile struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Team          string          `json:"team"`
	Leads         int             `json:"leads"`
	Deals         int             `json:"deals"`
	Conversion    int             `json:"conversion_pct"`
	Commission    decimal.Decimal `json:"commission"`
	Revenue       decimal.Decimal `json:"revenue"`
	MonthlyTrends []MonthlyTrend  `json:"monthly_trends"`
	LeadSources   []NameCount     `json:"lead_sources"`
}

type TeamMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type TeamSummary struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Members []TeamMember `json:"members"`
}

type FunnelStage struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

type RegionRevenue struct {
	Region  string          `json:"region"`
	Revenue decimal.Decimal `json:"revenue"`
}

type OverviewKPIs struct {
	TodayRevenue     decimal.Decimal `json:"today_revenue"`
	ActiveListings   int             `json:"active_listings"`
	NewLeads         int             `json:"new_leads"`
	CommissionPayout decimal.Decimal `json:"commission_payout"`
}

type OverviewReport struct {
	KPIs        OverviewKPIs    `json:"kpis"`
	SalesFunnel []FunnelStage   `json:"sales_funnel"`
	LeadSources []NameCount     `json:"lead_sources"`
	Regions     []RegionRevenue `json:"region_revenue"`
}

type MissedLead struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Agent  string `json:"agent"`
	Age    string `json:"age"`
}

type StatusBoardReport struct {
	PipelineHealth []FunnelStage `json:"pipeline_health"`
	LeadSources    []NameCount   `json:"lead_sources"`
	MissedLeads    []MissedLead  `json:"missed_leads"`
}

type PayoutPoint struct {
	Month  string          `json:"month"`
	Payout decimal.Decimal `json:"payout"`
}

type AgentPayout struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Team          string          `json:"team"`
	Commission    decimal.Decimal `json:"commission"`
	CommissionPct float64         `json:"commission_pct"`
}

type FinanceReport struct {
	CommissionSpend []PayoutPoint `json:"commission_spend"`
	UpcomingPayouts []AgentPayout `json:"upcoming_payouts"`
}

type MonitoringRow struct {
	TransactionDate string          `json:"transaction_date"`
	TransactionType string          `json:"transaction_type"`
	DealID          string          `json:"deal_id"`
	PropertyType    string          `json:"property_type"`
	ProjectName     string          `json:"project_name"`
	DeveloperName   string          `json:"developer_name"`
	AgentName       string          `json:"agent_name"`
	PropertyID      string          `json:"property_id"`
	PropertyPrice   decimal.Decimal `json:"property_price"`
	GrossCommission decimal.Decimal `json:"gross_commission"`
	NetCommission   decimal.Decimal `json:"net_commission"`
	PaymentReceived decimal.Decimal `json:"payment_received"`
	AmountReceived  decimal.Decimal `json:"total_amount_received"`
}

type MonitoringPage struct {
	Rows     []MonitoringRow `json:"rows"`
	Total    int             `json:"total"`
	PageSize int             `json:"page_size"`
}

type Report struct {
	Metric  string     `json:"metric"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type AgentOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
