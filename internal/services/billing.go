package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mdayat/billing-gateway/configs"
	"github.com/mdayat/billing-gateway/internal/apperrors"
	"github.com/mdayat/billing-gateway/internal/card"
	"github.com/mdayat/billing-gateway/internal/catalog"
)

const (
	SubscriptionStatusActive = "active"

	subscriptionCreatedMessage = "Subscription created successfully"
	planNotFoundMessage        = "Plan not found"
)

type BillingServicer interface {
	Authorize(caller *CallerIdentity) error
	ListPlans(ctx context.Context, caller *CallerIdentity) ([]catalog.Plan, error)
	GetPlan(ctx context.Context, caller *CallerIdentity, planId string) (catalog.Plan, error)
	AssignPlan(ctx context.Context, caller *CallerIdentity, arg AssignPlanParams) (Subscription, error)
}

type billing struct {
	configs        configs.Configs
	authService    AuthServicer
	userManagement UserManagementServicer
}

func NewBillingService(configs configs.Configs, authService AuthServicer, userManagement UserManagementServicer) BillingServicer {
	return &billing{
		configs:        configs,
		authService:    authService,
		userManagement: userManagement,
	}
}

// Authorize admits only verified company callers. A nil caller is an
// authentication failure; any other user type is an authorization failure.
func (b billing) Authorize(caller *CallerIdentity) error {
	if caller == nil {
		return apperrors.NewAuthenticationError()
	}

	if caller.UserType != UserTypeCompany {
		return apperrors.NewAuthorizationError()
	}

	return nil
}

func (b billing) ListPlans(ctx context.Context, caller *CallerIdentity) ([]catalog.Plan, error) {
	if err := b.Authorize(caller); err != nil {
		return nil, err
	}

	return b.configs.Catalog.Plans(), nil
}

func (b billing) GetPlan(ctx context.Context, caller *CallerIdentity, planId string) (catalog.Plan, error) {
	if err := b.Authorize(caller); err != nil {
		return catalog.Plan{}, err
	}

	plan, ok := b.configs.Catalog.Get(planId)
	if !ok {
		return catalog.Plan{}, apperrors.NewNotFoundError(planNotFoundMessage)
	}

	return plan, nil
}

type AssignPlanParams struct {
	PlanId         string
	CompanyId      string
	Card           card.Info
	IdempotencyKey string
}

type Subscription struct {
	Id        string
	Status    string
	Message   string
	PlanId    string
	CompanyId string
}

// AssignPlan runs the subscription workflow. The plan is resolved before the
// card is checked, so an unknown plan is reported as not found whatever the
// card holds. Nothing is sent downstream unless the card is valid, and a
// Subscription exists only after the user management service accepted it.
func (b billing) AssignPlan(ctx context.Context, caller *CallerIdentity, arg AssignPlanParams) (_ Subscription, err error) {
	defer func() {
		b.configs.Metrics.AssignmentsTotal.WithLabelValues(assignmentOutcome(err)).Inc()
	}()

	if err := b.Authorize(caller); err != nil {
		return Subscription{}, err
	}

	if _, ok := b.configs.Catalog.Get(arg.PlanId); !ok {
		return Subscription{}, apperrors.NewNotFoundError(planNotFoundMessage)
	}

	if err := card.Validate(arg.Card, b.configs.Now()); err != nil {
		var validationErr *card.ValidationError
		if errors.As(err, &validationErr) {
			return Subscription{}, apperrors.NewValidationError(err, validationErr.Reason)
		}
		return Subscription{}, apperrors.NewValidationError(err, err.Error())
	}

	serviceToken, err := b.authService.CreateServiceToken(*caller)
	if err != nil {
		return Subscription{}, fmt.Errorf("failed to create service token: %w", err)
	}

	idempotencyKey := arg.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	err = b.userManagement.AssignCompanyPlan(ctx, AssignCompanyPlanParams{
		PlanId:         arg.PlanId,
		CompanyId:      arg.CompanyId,
		Token:          serviceToken,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return Subscription{}, err
	}

	subscription := Subscription{
		Id:        uuid.NewString(),
		Status:    SubscriptionStatusActive,
		Message:   subscriptionCreatedMessage,
		PlanId:    arg.PlanId,
		CompanyId: arg.CompanyId,
	}

	return subscription, nil
}

func assignmentOutcome(err error) string {
	if err == nil {
		return "success"
	}

	if appErr, ok := apperrors.From(err); ok {
		return string(appErr.Kind)
	}

	return "internal_error"
}
