package handler

import (
	"encoding/json"
	"net/http"

	"shopkart/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// validate checks struct tags on inbound request payloads.
var validate = validator.New()

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: http.StatusText(status), Message: message})
}

// writeServiceError maps a service error to an HTTP response. Not-found domain
// errors become 404, conflicts and business-rule violations 400, everything
// else a generic 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	if de, ok := model.AsDomainError(err); ok {
		status := http.StatusBadRequest
		if de.Kind == model.KindNotFound {
			status = http.StatusNotFound
		}
		logger.Warn().Str("code", de.Code).Str("error", de.Message).Int("status", status).Msg("domain error")
		writeJSON(w, status, model.ErrorResponse{Error: de.Code, Message: de.Message})
		return
	}

	logger.Error().Err(err).Msg("internal error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "internal server error",
	})
}

// decodeAndValidate decodes the request body into dst and validates it.
// Returns false after writing the error response when the payload is invalid.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", logger)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), logger)
		return false
	}
	return true
}
