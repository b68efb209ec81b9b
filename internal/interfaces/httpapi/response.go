package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/league-results/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "league-results"
)

type responseEnvelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, responseEnvelope{
		APIVersion: apiVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	message := err.Error()
	if mapError(err).HTTPStatus == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeErrorMessage(ctx, w, err, message)
}

// writeErrorMessage keeps the status derived from err but shows only message to the client.
func writeErrorMessage(ctx context.Context, w http.ResponseWriter, err error, message string) {
	mapped := mapError(err)
	writeJSON(ctx, w, mapped.HTTPStatus, responseEnvelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors: []errorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: message,
				},
			},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeError(ctx, w, errors.New("internal server error"))
}

// mapError translates usecase sentinels to HTTP status codes. Unknown errors become 500.
func mapError(err error) mappedError {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"}
	case errors.Is(err, usecase.ErrNotLoaded):
		return mappedError{HTTPStatus: http.StatusConflict, Reason: "notLoaded", Status: "ABORTED"}
	case errors.Is(err, usecase.ErrPrecondition):
		return mappedError{HTTPStatus: http.StatusPreconditionFailed, Reason: "preconditionFailed", Status: "FAILED_PRECONDITION"}
	case errors.Is(err, usecase.ErrMalformedResponse), errors.Is(err, usecase.ErrEmptyResult):
		return mappedError{HTTPStatus: http.StatusBadGateway, Reason: "badUpstreamResponse", Status: "UNKNOWN"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"}
	case errors.Is(err, context.DeadlineExceeded):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "timeout", Status: "DEADLINE_EXCEEDED"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}
	}
}
