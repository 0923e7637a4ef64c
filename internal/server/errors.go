package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/blockrender/pkg/errors"
)

type errorBody struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

// statusFor maps an error code to the HTTP status reported for it.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge
	}

	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidStyle,
		errs.ErrCodeInvalidPath, errs.ErrCodeConfiguration:
		return http.StatusBadRequest
	case errs.ErrCodeContractViolation, errs.ErrCodeInvalidState:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNotFound, errs.ErrCodeWorkspaceNotFound:
		return http.StatusNotFound
	case errs.ErrCodeDuplicateID:
		return http.StatusConflict
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errs.ErrCodeStorage:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := errs.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		if errs.GetCode(err) == "" {
			msg = http.StatusText(status)
		}
	}
	writeJSON(w, status, errorBody{Error: msg, Code: errs.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
