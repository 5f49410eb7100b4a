package dtos

type ErrorResponse struct {
	Detail string `json:"detail"`
}
