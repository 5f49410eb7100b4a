package dtos

type PlanFeatureResponse struct {
	Description string `json:"description"`
}

type PlanResponse struct {
	Id       string                `json:"id"`
	Name     string                `json:"name"`
	Price    float64               `json:"price"`
	Currency string                `json:"currency"`
	Features []PlanFeatureResponse `json:"features"`
}

type PlansResponse struct {
	Plans []PlanResponse `json:"plans"`
}
