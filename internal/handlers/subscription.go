package handlers

import (
	"net/http"

	"github.com/mdayat/billing-gateway/configs"
	"github.com/mdayat/billing-gateway/internal/card"
	"github.com/mdayat/billing-gateway/internal/dtos"
	"github.com/mdayat/billing-gateway/internal/httputil"
	"github.com/mdayat/billing-gateway/internal/services"
	"github.com/rs/zerolog/log"
)

type SubscriptionHandler interface {
	AssignPlan(res http.ResponseWriter, req *http.Request)
}

type subscription struct {
	configs configs.Configs
	service services.BillingServicer
}

func NewSubscriptionHandler(configs configs.Configs, service services.BillingServicer) SubscriptionHandler {
	return &subscription{
		configs: configs,
		service: service,
	}
}

func (s subscription) AssignPlan(res http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := log.Ctx(ctx).With().Logger()

	caller := callerFromContext(ctx)
	if err := s.service.Authorize(caller); err != nil {
		sendServiceError(res, logger, err, "caller may not assign plans")
		return
	}

	var reqBody dtos.SubscriptionRequest
	if err := httputil.DecodeAndValidate(req, s.configs.Validate, &reqBody); err != nil {
		logger.Error().Err(err).Caller().Int("status_code", http.StatusBadRequest).Msg("invalid request body")
		httputil.SendErrorResponse(res, http.StatusBadRequest, "Invalid request body")
		return
	}

	logger = logger.With().Str("plan_id", reqBody.PlanId).Str("company_id", reqBody.CompanyId).Logger()

	subscription, err := s.service.AssignPlan(ctx, caller, services.AssignPlanParams{
		PlanId:    reqBody.PlanId,
		CompanyId: reqBody.CompanyId,
		Card: card.Info{
			Number:         reqBody.CardInfo.CardNumber,
			ExpirationDate: reqBody.CardInfo.ExpirationDate,
			CVV:            reqBody.CardInfo.CVV,
			HolderName:     reqBody.CardInfo.CardHolderName,
		},
		IdempotencyKey: req.Header.Get("Idempotency-Key"),
	})

	if err != nil {
		sendServiceError(res, logger, err, "failed to assign plan")
		return
	}

	resBody := dtos.SubscriptionResponse{
		SubscriptionId: subscription.Id,
		Status:         subscription.Status,
		Message:        subscription.Message,
		PlanId:         subscription.PlanId,
		CompanyId:      subscription.CompanyId,
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

	logger.Info().Int("status_code", http.StatusOK).Str("subscription_id", subscription.Id).Msg("successfully assigned plan")
}
