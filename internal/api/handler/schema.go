package handler

import "github.com/wilsy/service-tracker/internal/core/domain"

// errorBody documents the error envelope rendered by the central error
// handler. It is only referenced from swagger annotations.
type errorBody struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}
