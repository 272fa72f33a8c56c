package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rpupo63/portfolio-builder-backend/errs"
	"github.com/rs/zerolog"
)

const maxRequestBody = 1 << 20

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSONStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:   http.StatusText(http.StatusInternalServerError),
			Message: "An unexpected error occurred",
			Status:  http.StatusInternalServerError,
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Int("status", apiErr.StatusCode).Msg(apiErr.GetFullError())
	}

	response := ErrorResponse{
		Error:   http.StatusText(apiErr.StatusCode),
		Message: apiErr.Message(),
		Status:  apiErr.StatusCode,
		Field:   apiErr.Field,
	}
	if apiErr.Cause != nil && apiErr.StatusCode < http.StatusInternalServerError {
		response.Details = apiErr.Cause.Error()
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}

// readBody returns the request body, capped at maxRequestBody.
func readBody(w http.ResponseWriter, r *http.Request, payloadName string) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		return nil, errs.NewMalformedPayloadError(payloadName, err)
	}
	return body, nil
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, payloadName string, v any) error {
	body, err := readBody(w, r, payloadName)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errs.NewMalformedPayloadError(payloadName, err)
	}
	return nil
}
