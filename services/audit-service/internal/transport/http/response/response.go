package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/recrutment/hireai/internal/logger"
	"github.com/recrutment/hireai/internal/pkg/reqctx"
	"github.com/recrutment/hireai/services/audit-service/internal/domain"
)

type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Data(w http.ResponseWriter, status int, data any) {
	JSON(w, status, map[string]any{"data": data})
}

func Err(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	payload := ErrorPayload{
		Code:      "internal_error",
		Message:   "internal error",
		RequestID: reqctx.RequestID(r.Context()),
	}

	var ae *domain.AppError
	if errors.As(err, &ae) {
		status = statusFromCode(ae.Code)
		payload.Code = string(ae.Code)
		payload.Message = ae.Message
		payload.Meta = ae.Meta
	} else {
		// keep details in logs only
		logger.WithCtx(r.Context()).Error().Err(err).Msg("unhandled error")
	}

	JSON(w, status, ErrorBody{Error: payload})
}

func statusFromCode(code domain.ErrCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
