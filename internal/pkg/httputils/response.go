package httputils

import (
	"encoding/json"
	"log"
	"net/http"
	"tush00nka/archive_relay/api/response"
	"tush00nka/archive_relay/internal/model"
)

func ResponseError(w http.ResponseWriter, errorCode int, detail string) {
	ResponseJSON(w, errorCode, response.ErrorResponse{
		Detail: detail,
	})
}

func ResponseFieldErrors(w http.ResponseWriter, fields []model.FieldError) {
	ResponseJSON(w, http.StatusUnprocessableEntity, response.FieldErrorResponse{
		Detail: fields,
	})
}

func ResponseJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}
