package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const contentTypeJSON = "application/json"

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

var validate = validator.New()

func writeSuccess(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(successResponse{Success: true, Message: message, Data: data})
}

// writeError maps domain errors onto status codes. Anything unrecognised is
// logged and reported as a 500 without detail.
func writeError(logger *zap.Logger, w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrValidation):
		code, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		code, message = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		code, message = http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		code, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		code, message = http.StatusConflict, err.Error()
	default:
		logger.Error("request failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Success: false, StatusCode: code, Message: message})
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed on %s", domain.ErrValidation, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be numeric, got %q", domain.ErrValidation, name, raw)
	}
	return id, nil
}
