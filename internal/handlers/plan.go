package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mdayat/billing-gateway/configs"
	"github.com/mdayat/billing-gateway/internal/catalog"
	"github.com/mdayat/billing-gateway/internal/dtos"
	"github.com/mdayat/billing-gateway/internal/httputil"
	"github.com/mdayat/billing-gateway/internal/services"
	"github.com/rs/zerolog/log"
)

type PlanHandler interface {
	GetPlans(res http.ResponseWriter, req *http.Request)
	GetPlan(res http.ResponseWriter, req *http.Request)
}

type plan struct {
	configs configs.Configs
	service services.BillingServicer
}

func NewPlanHandler(configs configs.Configs, service services.BillingServicer) PlanHandler {
	return &plan{
		configs: configs,
		service: service,
	}
}

func (p plan) GetPlans(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	plans, err := p.service.ListPlans(ctx, callerFromContext(ctx))
	if err != nil {
		sendServiceError(res, logger, err, "failed to list plans")
		return
	}

	resBody := dtos.PlansResponse{Plans: make([]dtos.PlanResponse, 0, len(plans))}
	for _, plan := range plans {
		resBody.Plans = append(resBody.Plans, toPlanResponse(plan))
	}

	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody:    resBody,
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully got plans")
}

func (p plan) GetPlan(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	planId := chi.URLParam(req, "planId")
	plan, err := p.service.GetPlan(ctx, callerFromContext(ctx), planId)
	if err != nil {
		sendServiceError(res, logger, err, "failed to get plan by Id")
		return
	}

	params := httputil.SendSuccessResponseParams{
		StatusCode: http.StatusOK,
		ResBody:    toPlanResponse(plan),
	}

	if err := httputil.SendSuccessResponse(res, params); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusInternalServerError).Msg("failed to send success response")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().Int("status_code", http.StatusOK).Msg("successfully got plan by Id")
}

func toPlanResponse(plan catalog.Plan) dtos.PlanResponse {
	features := make([]dtos.PlanFeatureResponse, 0, len(plan.Features))
	for _, feature := range plan.Features {
		features = append(features, dtos.PlanFeatureResponse{Description: feature.Description})
	}

	return dtos.PlanResponse{
		Id:       plan.Id,
		Name:     plan.Name,
		Price:    plan.Price,
		Currency: plan.Currency,
		Features: features,
	}
}
