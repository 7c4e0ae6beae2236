package types

import (
	pkgerrors "github.com/angelmondragon/footballzones-backend/pkg/errors"
	"github.com/angelmondragon/footballzones-backend/pkg/pagination"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Success    bool             `json:"success"`
	Data       any              `json:"data,omitempty"`
	Error      *APIError        `json:"error,omitempty"`
	Message    string           `json:"message,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
	Query      any              `json:"query,omitempty"`
}

type APIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Stack      string                 `json:"stack,omitempty"`
	Validation []pkgerrors.FieldError `json:"validation,omitempty"`
}
