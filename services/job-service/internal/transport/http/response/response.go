package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/recrutment/hireai/internal/logger"
	"github.com/recrutment/hireai/internal/pkg/reqctx"
	"github.com/recrutment/hireai/services/job-service/internal/domain"
	"github.com/recrutment/hireai/services/job-service/internal/transport/http/dto"
)

const maxBodyBytes = 1 << 20

type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// BadRequestError is a transport-level rejection (body or path parameter).
type BadRequestError struct {
	Code    string
	Message string
}

func (e *BadRequestError) Error() string { return e.Code + ": " + e.Message }

func BadRequest(code, msg string) error { return &BadRequestError{Code: code, Message: msg} }

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

	var (
		bre *BadRequestError
		fe  *dto.FieldError
	)
	switch {
	case errors.As(err, &bre):
		status, payload.Code, payload.Message = http.StatusBadRequest, bre.Code, bre.Message
	case errors.As(err, &fe):
		status, payload.Code, payload.Message = http.StatusBadRequest, "invalid_field", "invalid field"
		payload.Meta = map[string]string{"field": fe.Field, "rule": fe.Rule}
	case errors.Is(err, domain.ErrInvalidJob):
		status, payload.Code, payload.Message = http.StatusBadRequest, "invalid_job", err.Error()
	case errors.Is(err, domain.ErrJobNotFound):
		status, payload.Code, payload.Message = http.StatusNotFound, "job_not_found", "job not found"
	default:
		logger.WithCtx(r.Context()).Error().Err(err).Msg("unhandled error")
	}

	JSON(w, status, ErrorBody{Error: payload})
}

// DecodeJSON decodes one JSON value from the body and rejects trailing data.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return BadRequest("invalid_json", "empty body")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return BadRequest("invalid_json", err.Error())
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return BadRequest("invalid_json", "multiple JSON values")
	}
	return nil
}
