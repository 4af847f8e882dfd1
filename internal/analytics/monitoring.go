package analytics

import (
	"brokerdash/server/config"
	"brokerdash/server/internal/models"
)

// BuildMonitoringRows maps one page of deals onto display rows for the deals
// monitoring table. Every missing or unmapped field degrades to "N/A" or
// zero, matching the rest of the aggregation layer.
func BuildMonitoringRows(
	deals []models.Deal,
	fields map[string]models.FieldMeta,
	keys config.FieldKeys,
) []models.MonitoringRow {
	propertyTypes := NewEnumMap(fields, keys.PropertyType)
	transactionTypes := NewEnumMap(fields, keys.TransactionType)

	rows := make([]models.MonitoringRow, 0, len(deals))
	for _, deal := range deals {
		rows = append(rows, models.MonitoringRow{
			TransactionDate: displayDate(deal.CloseDate),
			TransactionType: transactionTypes.ResolveOr(deal.CustomString(keys.TransactionType), NotAvailable),
			DealID:          deal.ID,
			PropertyType:    propertyTypes.ResolveOr(deal.CustomString(keys.PropertyType), NotAvailable),
			ProjectName:     stringOr(deal.CustomString(keys.ProjectName), NotAvailable),
			DeveloperName:   stringOr(deal.CustomString(keys.Developer), NotAvailable),
			AgentName:       stringOr(deal.CustomString(keys.AgentName), NotAvailable),
			PropertyID:      stringOr(deal.CustomString(keys.PropertyReference), NotAvailable),
			PropertyPrice:   ParseAmount(deal.Opportunity),
			GrossCommission: ParseMoney(deal.Custom(keys.GrossCommission)),
			NetCommission:   ParseMoney(deal.Custom(keys.NetCommission)),
			PaymentReceived: ParseMoney(deal.Custom(keys.PaymentReceived)),
			AmountReceived:  ParseAmount(deal.Custom(keys.AmountReceivable)),
		})
	}
	return rows
}

// displayDate renders a close date as dd/mm/yyyy for the table.
func displayDate(value string) string {
	t, ok := parseTimestamp(value)
	if !ok {
		return NotAvailable
	}
	return t.Format("02/01/2006")
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
