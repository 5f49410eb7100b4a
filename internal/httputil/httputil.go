package httputil

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/go-playground/validator/v10"
	"github.com/mdayat/billing-gateway/internal/dtos"
)

func DecodeAndValidate(req *http.Request, validate *validator.Validate, v interface{}) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return err
	}

	if err := validate.Struct(v); err != nil {
		return err
	}

	return nil
}

type SendSuccessResponseParams struct {
	StatusCode int
	ResBody    interface{}
}

func SendSuccessResponse(res http.ResponseWriter, params SendSuccessResponseParams) error {
	if params.ResBody == nil {
		res.WriteHeader(params.StatusCode)
		return nil
	}

	body, err := json.Marshal(params.ResBody)
	if err != nil {
		return err
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(params.StatusCode)
	_, err = res.Write(body)
	return err
}

// SendErrorResponse writes {"detail": message}, the error shape shared with
// the user management service.
func SendErrorResponse(res http.ResponseWriter, statusCode int, message string) {
	body, err := json.Marshal(dtos.ErrorResponse{Detail: message})
	if err != nil {
		http.Error(res, http.StatusText(statusCode), statusCode)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	res.Write(body)
}
