package analytics

import (
	"brokerdash/server/config"
	"brokerdash/server/internal/models"
)

func testKeys() config.FieldKeys {
	return config.FieldKeys{
		Developer:         "UF_CRM_DEVELOPER",
		GrossCommission:   "UF_CRM_GROSS",
		NetCommission:     "UF_CRM_NET",
		PaymentReceived:   "UF_CRM_PAYMENT",
		AmountReceivable:  "UF_CRM_RECEIVABLE",
		PropertyType:      "UF_CRM_PTYPE",
		ProjectName:       "UF_CRM_PROJECT",
		TransactionType:   "UF_CRM_TXTYPE",
		AgentName:         "UF_CRM_AGENT",
		PropertyReference: "UF_CRM_REF",
		LeadLocation:      "UF_CRM_LOCATION",
	}
}

type dealInput struct {
	id          string
	stage       string
	agent       string
	source      string
	opportunity string
	closeDate   string
	createDate  string
	custom      map[string]any
}

func makeDeal(in dealInput) models.Deal {
	deal := models.Deal{
		ID:           in.id,
		StageID:      in.stage,
		AssignedByID: in.agent,
		SourceID:     in.source,
		Opportunity:  in.opportunity,
		CloseDate:    in.closeDate,
		DateCreate:   in.createDate,
	}
	for key, value := range in.custom {
		deal.SetCustom(key, value)
	}
	return deal
}

func makeUser(id, name, lastName string, departments ...string) models.User {
	return models.User{
		ID:          id,
		Name:        name,
		LastName:    lastName,
		Departments: departments,
	}
}
