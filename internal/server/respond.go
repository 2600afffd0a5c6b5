package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Tomlord1122/todoapp/internal/logger"
	"github.com/Tomlord1122/todoapp/internal/service"
)

const maxBodyBytes = 1 << 20

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", service.ErrValidation, msg)
}

// decodeJSON reads one JSON object into dst. Unknown fields are accepted and
// dropped, so a client-supplied owner_id never reaches the model.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return validationError(fmt.Sprintf("request body contains badly-formed JSON (at position %d)", syntaxError.Offset))
	case errors.Is(err, io.ErrUnexpectedEOF):
		return validationError("request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		return validationError(fmt.Sprintf("request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset))
	case errors.As(err, &maxBytesError):
		return validationError(fmt.Sprintf("request body must not be larger than %d bytes", maxBytesError.Limit))
	case errors.Is(err, io.EOF):
		return validationError("request body must not be empty")
	default:
		return validationError(err.Error())
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"detail": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
