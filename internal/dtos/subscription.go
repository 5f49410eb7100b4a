package dtos

// CardInfoRequest fields are checked by the card package once the plan is
// known, so they carry no validate tags here.
type CardInfoRequest struct {
	CardNumber     string `json:"card_number"`
	ExpirationDate string `json:"expiration_date"`
	CVV            string `json:"cvv"`
	CardHolderName string `json:"card_holder_name"`
}

type SubscriptionRequest struct {
	PlanId    string          `json:"plan_id" validate:"required"`
	CompanyId string          `json:"company_id" validate:"required"`
	CardInfo  CardInfoRequest `json:"card_info"`
}

type SubscriptionResponse struct {
	SubscriptionId string `json:"subscription_id"`
	Status         string `json:"status"`
	Message        string `json:"message"`
	PlanId         string `json:"plan_id"`
	CompanyId      string `json:"company_id"`
}

// AssignCompanyPlanRequest is the body sent to the user management service.
type AssignCompanyPlanRequest struct {
	PlanId    string `json:"plan_id"`
	CompanyId string `json:"company_id"`
}
