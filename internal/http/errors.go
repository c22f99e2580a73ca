package httpapp

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/cesargomez89/watchlist/internal/domain"
	"github.com/cesargomez89/watchlist/internal/http/dto"
)

type errorResponse struct {
	Error      string            `json:"error"`
	StatusCode int               `json:"status_code,omitempty"`
	Detail     string            `json:"detail,omitempty"`
	Temporary  bool              `json:"temporary,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// statusFor maps the error taxonomy to a response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRemoteRejected):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrRemoteUnavailable):
		if isTimeout(err) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var remote *domain.RemoteError
	if errors.As(err, &remote) {
		resp.Error = domain.ErrRemoteRejected.Error()
		resp.StatusCode = remote.StatusCode
		resp.Detail = remote.Body
		resp.Temporary = remote.Temporary()
	}

	if status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		h.Logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	writeJSON(w, status, resp)
}

func (h *Handler) writeValidationError(w http.ResponseWriter, errs []dto.ValidationError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:  dto.AsError(errs).Error(),
		Fields: dto.ToMap(errs),
	})
}
