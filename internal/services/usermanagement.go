package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"
	"github.com/mdayat/billing-gateway/configs"
	"github.com/mdayat/billing-gateway/internal/apperrors"
	"github.com/mdayat/billing-gateway/internal/dtos"
	"github.com/mdayat/billing-gateway/internal/retryutil"
)

const (
	assignPlanPath = "/company/assign-plan"

	defaultLinkageFailureMessage = "Failed to link subscription to user"
)

type UserManagementServicer interface {
	AssignCompanyPlan(ctx context.Context, arg AssignCompanyPlanParams) error
}

type userManagement struct {
	configs configs.Configs
}

func NewUserManagementService(configs configs.Configs) UserManagementServicer {
	return &userManagement{
		configs: configs,
	}
}

type AssignCompanyPlanParams struct {
	PlanId         string
	CompanyId      string
	Token          string
	IdempotencyKey string
}

// errUnreachable marks transport failures; only those are retried, since a
// non-200 answer means the request was delivered and handled.
var errUnreachable = errors.New("user management service unreachable")

// AssignCompanyPlan returns nil only when the user management service answers
// 200. Transport failures become a connectivity error after the configured
// attempts; any other status becomes a downstream error carrying the
// service's status code and detail message.
func (u userManagement) AssignCompanyPlan(ctx context.Context, arg AssignCompanyPlanParams) error {
	body, err := json.Marshal(dtos.AssignCompanyPlanRequest{
		PlanId:    arg.PlanId,
		CompanyId: arg.CompanyId,
	})
	if err != nil {
		return fmt.Errorf("failed to encode assign plan request to json: %w", err)
	}

	url := strings.TrimSuffix(u.configs.Env.UserServiceURL, "/") + assignPlanPath

	start := time.Now()
	defer func() {
		u.configs.Metrics.LinkageCallDuration.Observe(time.Since(start).Seconds())
	}()

	retryableFunc := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to new http post request with context: %w", err))
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("token", arg.Token)
		if arg.IdempotencyKey != "" {
			req.Header.Set("Idempotency-Key", arg.IdempotencyKey)
		}

		res, err := u.configs.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %w", errUnreachable, err)
		}
		defer res.Body.Close()

		if res.StatusCode == http.StatusOK {
			io.Copy(io.Discard, res.Body)
			return nil
		}

		return apperrors.NewDownstreamError(res.StatusCode, readDetail(res.Body))
	}

	err = retryutil.RetryWithoutData(
		retryableFunc,
		retry.Context(ctx),
		retry.Attempts(u.configs.Env.UserServiceRetryAttempts),
		retry.Delay(100*time.Millisecond),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errUnreachable)
		}),
	)

	switch {
	case err == nil:
		u.configs.Metrics.LinkageCallsTotal.WithLabelValues("success").Inc()
		return nil
	case errors.Is(err, apperrors.ErrDownstream):
		u.configs.Metrics.LinkageCallsTotal.WithLabelValues("downstream_error").Inc()
		return err
	case errors.Is(err, errUnreachable), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		u.configs.Metrics.LinkageCallsTotal.WithLabelValues("unreachable").Inc()
		return apperrors.NewConnectivityError(err)
	default:
		u.configs.Metrics.LinkageCallsTotal.WithLabelValues("error").Inc()
		return err
	}
}

// readDetail pulls the "detail" field out of an error body. A string detail is
// used as is; any other JSON value (such as a list of field errors) is passed
// on in its encoded form. Bodies that are not JSON, or carry no detail, get the
// default message.
func readDetail(body io.Reader) string {
	var resBody struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&resBody); err != nil {
		return defaultLinkageFailureMessage
	}

	raw := bytes.TrimSpace(resBody.Detail)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return defaultLinkageFailureMessage
	}

	var detail string
	if err := json.Unmarshal(raw, &detail); err != nil {
		return string(raw)
	}

	if detail == "" {
		return defaultLinkageFailureMessage
	}

	return detail
}
