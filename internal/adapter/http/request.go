package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type scopeRequest struct {
	Scope string `json:"scope" validate:"required,max=64"`
}

type metricRequest struct {
	Metric string `json:"metric" validate:"required,oneof=cases recovered deaths"`
}

// maxBodyBytes caps request bodies; selection payloads are a few bytes.
const maxBodyBytes = 1 << 12

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}
