package handlers

import (
	"net/http"

	"github.com/mdayat/billing-gateway/internal/apperrors"
	"github.com/mdayat/billing-gateway/internal/httputil"
	"github.com/rs/zerolog"
)

// sendServiceError maps a billing service error to its status and detail.
// Errors outside the taxonomy become a bare 500.
func sendServiceError(res http.ResponseWriter, logger zerolog.Logger, err error, msg string) {
	appErr, ok := apperrors.From(err)
	if !ok {
		logger.Error().Err(err).Caller(1).Int("status_code", http.StatusInternalServerError).Msg(msg)
		httputil.SendErrorResponse(res, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	logger.Error().Err(err).Caller(1).Str("error_kind", string(appErr.Kind)).Int("status_code", appErr.StatusCode).Msg(msg)
	httputil.SendErrorResponse(res, appErr.StatusCode, appErr.Message)
}
