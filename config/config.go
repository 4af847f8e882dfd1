package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// FieldKeys holds the per-deployment CRM custom field identifiers. The remote
// schema assigns these keys per portal, so they are never hard-coded anywhere
// in the aggregation code.
type FieldKeys struct {
	Developer         string `env:"FIELD_DEVELOPER_NAME,required"`
	GrossCommission   string `env:"FIELD_GROSS_COMMISSION,required"`
	NetCommission     string `env:"FIELD_NET_COMMISSION,required"`
	PaymentReceived   string `env:"FIELD_PAYMENT_RECEIVED,required"`
	AmountReceivable  string `env:"FIELD_AMOUNT_RECEIVABLE,required"`
	PropertyType      string `env:"FIELD_PROPERTY_TYPE,required"`
	ProjectName       string `env:"FIELD_PROJECT_NAME,required"`
	TransactionType   string `env:"FIELD_TRANSACTION_TYPE,required"`
	AgentName         string `env:"FIELD_AGENT_NAME,required"`
	PropertyReference string `env:"FIELD_PROPERTY_REFERENCE,required"`
	LeadLocation      string `env:"FIELD_LEAD_LOCATION,required"`
}

type Config struct {
	// Base URL of the CRM REST webhook, e.g. https://portal.example/rest/1/abc
	WebhookBaseURL string `env:"WEBHOOK_BASE_URL,required"`

	// Pipeline stage IDs that count as a won deal. Several pipeline
	// categories carry their own won stage, hence a list.
	DealStagesWon []string `env:"DEAL_STAGES_WON,required" envSeparator:","`

	Fields FieldKeys

	// HTTP tuning for the CRM client
	HTTPTimeoutSeconds int     `env:"HTTP_TIMEOUT_SECONDS" envDefault:"30"`
	RequestsPerSecond  float64 `env:"REQUESTS_PER_SECOND" envDefault:"2"`

	// Freshness window for the in-memory result cache
	CacheTTLSeconds int `env:"CACHE_TTL_SECONDS" envDefault:"300"`

	// Page size for the deals monitoring table
	DealsPageSize int `env:"DEALS_PAGE_SIZE" envDefault:"50"`

	Port int `env:"PORT" envDefault:"5260"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.DealStagesWon) == 0 {
		return fmt.Errorf("DEAL_STAGES_WON must list at least one stage ID")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("REQUESTS_PER_SECOND must be positive")
	}
	if c.DealsPageSize <= 0 {
		return fmt.Errorf("DEALS_PAGE_SIZE must be positive")
	}
	return nil
}

// SelectFields returns the custom deal field keys that every deal query must
// request in addition to the standard fields.
func (k FieldKeys) SelectFields() []string {
	return []string{
		k.Developer,
		k.GrossCommission,
		k.NetCommission,
		k.PaymentReceived,
		k.AmountReceivable,
		k.PropertyType,
		k.ProjectName,
		k.TransactionType,
		k.AgentName,
		k.PropertyReference,
	}
}

// LeadSelectFields returns the custom lead field keys requested on lead queries.
func (k FieldKeys) LeadSelectFields() []string {
	return []string{k.LeadLocation}
}
