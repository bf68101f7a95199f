package server

import (
	"net/http"

	"github.com/matzehuels/wikicollage/pkg/errors"
	"github.com/matzehuels/wikicollage/pkg/integrations"
)

// upstreamSentinels maps client sentinel errors onto API error codes.
var upstreamSentinels = map[error]errors.Code{
	integrations.ErrNetwork:           errors.ErrCodeNetwork,
	integrations.ErrMalformedResponse: errors.ErrCodeMalformedResponse,
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNetwork, errors.ErrCodeMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.Classify(err, upstreamSentinels)
	status := statusFor(code)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
