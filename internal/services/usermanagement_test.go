package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/mdayat/billing-gateway/configs"
	"github.com/mdayat/billing-gateway/internal/apperrors"
	"github.com/mdayat/billing-gateway/internal/dtos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserManagementWithServer(t *testing.T, handler http.HandlerFunc) UserManagementServicer {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewUserManagementService(newTestConfigs(func(env *configs.Env) {
		env.UserServiceURL = server.URL + "/user"
	}))
}

func TestAssignCompanyPlanSuccess(t *testing.T) {
	var received dtos.AssignCompanyPlanRequest
	var headers http.Header

	userManagement := newUserManagementWithServer(t, func(res http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/user/company/assign-plan", req.URL.Path)

		headers = req.Header.Clone()
		body, _ := io.ReadAll(req.Body)
		assert.NoError(t, json.Unmarshal(body, &received))

		res.Header().Set("Content-Type", "application/json")
		res.Write([]byte(`{"message": "Plan assigned successfully"}`))
	})

	err := userManagement.AssignCompanyPlan(context.Background(), AssignCompanyPlanParams{
		PlanId:         testPlanId,
		CompanyId:      "company-1",
		Token:          "signed-token",
		IdempotencyKey: "key-1",
	})

	require.NoError(t, err)
	assert.Equal(t, dtos.AssignCompanyPlanRequest{PlanId: testPlanId, CompanyId: "company-1"}, received)
	assert.Equal(t, "signed-token", headers.Get("token"))
	assert.Equal(t, "key-1", headers.Get("Idempotency-Key"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
}

func TestAssignCompanyPlanDownstreamErrors(t *testing.T) {
	table := []struct {
		name            string
		status          int
		body            string
		expectedMessage string
	}{
		{name: "detail is propagated", status: http.StatusInternalServerError, body: `{"detail": "Error assigning plan"}`, expectedMessage: "Error assigning plan"},
		{name: "non 500 status kept", status: http.StatusConflict, body: `{"detail": "X"}`, expectedMessage: "X"},
		{name: "missing detail", status: http.StatusBadRequest, body: `{"error": "nope"}`, expectedMessage: defaultLinkageFailureMessage},
		{name: "non json body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, expectedMessage: defaultLinkageFailureMessage},
		{name: "list detail is encoded", status: http.StatusUnprocessableEntity, body: `{"detail":[{"loc":["body","plan_id"],"msg":"field required"}]}`, expectedMessage: `[{"loc":["body","plan_id"],"msg":"field required"}]`},
		{name: "null detail", status: http.StatusBadRequest, body: `{"detail": null}`, expectedMessage: defaultLinkageFailureMessage},
		{name: "created is not success", status: http.StatusCreated, body: `{}`, expectedMessage: defaultLinkageFailureMessage},
	}

	for _, v := range table {
		t.Run(v.name, func(t *testing.T) {
			var calls atomic.Int32
			userManagement := newUserManagementWithServer(t, func(res http.ResponseWriter, req *http.Request) {
				calls.Add(1)
				res.WriteHeader(v.status)
				res.Write([]byte(v.body))
			})

			err := userManagement.AssignCompanyPlan(context.Background(), AssignCompanyPlanParams{PlanId: testPlanId, CompanyId: "company-1"})

			appErr, ok := apperrors.From(err)
			require.True(t, ok, "expected *apperrors.Error, got %v", err)
			assert.Equal(t, apperrors.KindDownstream, appErr.Kind)
			assert.Equal(t, v.status, appErr.StatusCode)
			assert.Equal(t, v.expectedMessage, appErr.Message)
			assert.Equal(t, int32(1), calls.Load(), "application errors are not retried")
		})
	}
}

func TestAssignCompanyPlanUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	userManagement := NewUserManagementService(newTestConfigs(func(env *configs.Env) {
		env.UserServiceURL = url
		env.UserServiceRetryAttempts = 2
	}))

	err := userManagement.AssignCompanyPlan(context.Background(), AssignCompanyPlanParams{PlanId: testPlanId, CompanyId: "company-1"})

	assert.ErrorIs(t, err, apperrors.ErrConnectivity)
	assert.NotErrorIs(t, err, apperrors.ErrDownstream)

	appErr, ok := apperrors.From(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
}

func TestAssignCompanyPlanCanceledContext(t *testing.T) {
	var calls atomic.Int32
	userManagement := newUserManagementWithServer(t, func(res http.ResponseWriter, req *http.Request) {
		calls.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := userManagement.AssignCompanyPlan(ctx, AssignCompanyPlanParams{PlanId: testPlanId, CompanyId: "company-1"})

	assert.ErrorIs(t, err, apperrors.ErrConnectivity)
	assert.Zero(t, calls.Load())
}

// dropConnections answers the first failures requests by closing the
// connection without a response, then replies 200. It records the
// Idempotency-Key of every request it sees.
type dropConnections struct {
	mu       sync.Mutex
	failures int
	keys     []string
}

func (d *dropConnections) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	d.mu.Lock()
	d.keys = append(d.keys, req.Header.Get("Idempotency-Key"))
	drop := len(d.keys) <= d.failures
	d.mu.Unlock()

	if drop {
		conn, _, err := res.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
		return
	}

	res.Write([]byte(`{"message": "Plan assigned successfully"}`))
}

func (d *dropConnections) recordedKeys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.keys...)
}

func TestAssignCompanyPlanRetriesConnectivityFailures(t *testing.T) {
	table := []struct {
		name          string
		attempts      uint
		failures      int
		expectedCalls int
		expectSuccess bool
	}{
		{name: "recovers on last attempt", attempts: 3, failures: 2, expectedCalls: 3, expectSuccess: true},
		{name: "recovers on second attempt", attempts: 3, failures: 1, expectedCalls: 2, expectSuccess: true},
		{name: "every attempt fails", attempts: 3, failures: 100, expectedCalls: 3},
		{name: "single attempt", attempts: 1, failures: 100, expectedCalls: 1},
	}

	for _, v := range table {
		t.Run(v.name, func(t *testing.T) {
			handler := &dropConnections{failures: v.failures}
			server := httptest.NewServer(handler)
			t.Cleanup(server.Close)

			userManagement := NewUserManagementService(newTestConfigs(func(env *configs.Env) {
				env.UserServiceURL = server.URL + "/user"
				env.UserServiceRetryAttempts = v.attempts
			}))

			err := userManagement.AssignCompanyPlan(context.Background(), AssignCompanyPlanParams{
				PlanId:         testPlanId,
				CompanyId:      "company-1",
				Token:          "signed-token",
				IdempotencyKey: "k1",
			})

			keys := handler.recordedKeys()
			require.Len(t, keys, v.expectedCalls)
			for _, key := range keys {
				assert.Equal(t, "k1", key)
			}

			if v.expectSuccess {
				require.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, apperrors.ErrConnectivity)
			appErr, ok := apperrors.From(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
		})
	}
}
