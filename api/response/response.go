package response

import "tush00nka/archive_relay/internal/model"

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type FieldErrorResponse struct {
	Detail []model.FieldError `json:"detail"`
}
