package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"brokerdash/server/config"
	"brokerdash/server/internal/models"
)

var hundred = decimal.NewFromInt(100)

type monthlyAccumulator struct {
	dealsWon         int
	propertyPrice    decimal.Decimal
	grossCommission  decimal.Decimal
	netCommission    decimal.Decimal
	paymentReceived  decimal.Decimal
	amountReceivable decimal.Decimal
}

// BuildManagement folds a full year of deals into the management dashboard
// shapes. Chart aggregations run over every fetched deal; the financial
// monthly breakdown and commission KPIs run over the won subset only, so
// total_deals and deals_won are intentionally different denominators.
func BuildManagement(
	deals []models.Deal,
	fields map[string]models.FieldMeta,
	sources []models.StatusEntry,
	keys config.FieldKeys,
	won StageSet,
) models.ManagementReport {
	propertyTypes := NewEnumMap(fields, keys.PropertyType)
	sourceNames := NewStatusMap(sources)

	var wonDeals []models.Deal
	for _, deal := range deals {
		if won.Won(deal.StageID) {
			wonDeals = append(wonDeals, deal)
		}
	}

	developerSeen := make(map[string]bool)
	developerTotals := make(map[string]decimal.Decimal)
	propertyTypeCounts := make(map[string]int)
	sourceCounts := make(map[string]int)

	for _, deal := range deals {
		price := ParseAmount(deal.Opportunity)

		developer := deal.CustomString(keys.Developer)
		if developer != "" {
			developerSeen[developer] = true
		} else {
			developer = UnknownLabel
		}
		developerTotals[developer] = developerTotals[developer].Add(price)

		typeName := propertyTypes.Resolve(deal.CustomString(keys.PropertyType))
		propertyTypeCounts[typeName]++

		source := deal.SourceID
		if source == "" {
			source = UnknownLabel
		}
		sourceCounts[source]++
	}

	monthly := make(map[int]*monthlyAccumulator)
	totalGross := decimal.Zero
	totalNet := decimal.Zero

	for _, deal := range wonDeals {
		gross := ParseMoney(deal.Custom(keys.GrossCommission))
		net := ParseMoney(deal.Custom(keys.NetCommission))
		totalGross = totalGross.Add(gross)
		totalNet = totalNet.Add(net)

		idx := monthIndex(deal.CloseDate)
		if idx < 0 {
			continue
		}
		acc := monthly[idx]
		if acc == nil {
			acc = &monthlyAccumulator{}
			monthly[idx] = acc
		}
		acc.dealsWon++
		acc.propertyPrice = acc.propertyPrice.Add(ParseAmount(deal.Opportunity))
		acc.grossCommission = acc.grossCommission.Add(gross)
		acc.netCommission = acc.netCommission.Add(net)
		acc.paymentReceived = acc.paymentReceived.Add(ParseMoney(deal.Custom(keys.PaymentReceived)))
		acc.amountReceivable = acc.amountReceivable.Add(ParseAmount(deal.Custom(keys.AmountReceivable)))
	}

	allDevelopers := make([]string, 0, len(developerSeen))
	for name := range developerSeen {
		allDevelopers = append(allDevelopers, name)
	}
	sort.Strings(allDevelopers)

	leadSources := make([]models.NameCount, 0, len(sourceCounts))
	for id, count := range sourceCounts {
		leadSources = append(leadSources, models.NameCount{
			Name:  sourceNames.ResolveOrID(id),
			Count: count,
		})
	}
	sortByCountDesc(leadSources)

	return models.ManagementReport{
		KPIs: models.KPISet{
			TotalDeals:      len(deals),
			DealsWon:        len(wonDeals),
			GrossCommission: totalGross,
			NetCommission:   totalNet,
		},
		AllDevelopers: allDevelopers,
		Monthly:       finalizeMonthly(monthly),
		PropertyTypes: countsToSorted(propertyTypeCounts),
		Developers:    finalizeDevelopers(developerTotals),
		LeadSources:   leadSources,
	}
}

// BuildOverallDeals is the variant the overall-deals view uses: every
// aggregation, developers and property types included, is restricted to the
// won subset.
func BuildOverallDeals(
	deals []models.Deal,
	fields map[string]models.FieldMeta,
	keys config.FieldKeys,
	won StageSet,
) models.OverallDealsReport {
	propertyTypes := NewEnumMap(fields, keys.PropertyType)

	var wonDeals []models.Deal
	for _, deal := range deals {
		if won.Won(deal.StageID) {
			wonDeals = append(wonDeals, deal)
		}
	}

	monthly := make(map[int]*monthlyAccumulator)
	developerTotals := make(map[string]decimal.Decimal)
	propertyTypeCounts := make(map[string]int)
	totalGross := decimal.Zero
	totalNet := decimal.Zero

	for _, deal := range wonDeals {
		gross := ParseMoney(deal.Custom(keys.GrossCommission))
		net := ParseMoney(deal.Custom(keys.NetCommission))
		totalGross = totalGross.Add(gross)
		totalNet = totalNet.Add(net)

		developer := deal.CustomString(keys.Developer)
		if developer == "" {
			developer = UnknownLabel
		}
		developerTotals[developer] = developerTotals[developer].Add(ParseAmount(deal.Opportunity))

		typeName := propertyTypes.Resolve(deal.CustomString(keys.PropertyType))
		propertyTypeCounts[typeName]++

		idx := monthIndex(deal.CloseDate)
		if idx < 0 {
			continue
		}
		acc := monthly[idx]
		if acc == nil {
			acc = &monthlyAccumulator{}
			monthly[idx] = acc
		}
		acc.dealsWon++
		acc.propertyPrice = acc.propertyPrice.Add(ParseAmount(deal.Opportunity))
		acc.grossCommission = acc.grossCommission.Add(gross)
		acc.netCommission = acc.netCommission.Add(net)
		acc.paymentReceived = acc.paymentReceived.Add(ParseMoney(deal.Custom(keys.PaymentReceived)))
		acc.amountReceivable = acc.amountReceivable.Add(ParseAmount(deal.Custom(keys.AmountReceivable)))
	}

	return models.OverallDealsReport{
		KPIs: models.KPISet{
			TotalDeals:      len(deals),
			DealsWon:        len(wonDeals),
			GrossCommission: totalGross,
			NetCommission:   totalNet,
		},
		Monthly:       finalizeMonthly(monthly),
		Developers:    finalizeDevelopers(developerTotals),
		PropertyTypes: countsToSorted(propertyTypeCounts),
	}
}

func finalizeMonthly(monthly map[int]*monthlyAccumulator) []models.MonthlySummary {
	out := make([]models.MonthlySummary, 0, len(monthly))
	for idx := 0; idx < 12; idx++ {
		acc, ok := monthly[idx]
		if !ok {
			continue
		}
		out = append(out, models.MonthlySummary{
			Month:            monthNames[idx],
			MonthNumber:      idx + 1,
			DealsWon:         acc.dealsWon,
			PropertyPrice:    acc.propertyPrice,
			GrossCommission:  acc.grossCommission,
			NetCommission:    acc.netCommission,
			PaymentReceived:  acc.paymentReceived,
			AmountReceivable: acc.amountReceivable,
		})
	}
	return out
}

// finalizeDevelopers computes each developer's share of the grand total.
// Shares are kept at full precision so they sum back to 100 exactly up to
// decimal division precision.
func finalizeDevelopers(totals map[string]decimal.Decimal) []models.DeveloperSummary {
	grand := decimal.Zero
	for _, value := range totals {
		grand = grand.Add(value)
	}

	out := make([]models.DeveloperSummary, 0, len(totals))
	for developer, value := range totals {
		pct := decimal.Zero
		if grand.IsPositive() {
			pct = value.Div(grand).Mul(hundred)
		}
		out = append(out, models.DeveloperSummary{
			Developer:  developer,
			TotalValue: value,
			Percentage: pct,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalValue.Equal(out[j].TotalValue) {
			return out[i].TotalValue.GreaterThan(out[j].TotalValue)
		}
		return out[i].Developer < out[j].Developer
	})
	return out
}

func countsToSorted(counts map[string]int) []models.NameCount {
	out := make([]models.NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, models.NameCount{Name: name, Count: count})
	}
	sortByCountDesc(out)
	return out
}

func sortByCountDesc(items []models.NameCount) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Name < items[j].Name
	})
}
