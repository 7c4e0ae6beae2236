package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/footballzones-backend/pkg/errors"
	"github.com/angelmondragon/footballzones-backend/pkg/logger"
	"github.com/angelmondragon/footballzones-backend/pkg/pagination"
	"github.com/angelmondragon/footballzones-backend/pkg/types"
)

type errorDetailKey struct{}

// WithErrorDetail marks ctx so error responses carry the stack and validation details.
func WithErrorDetail(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, errorDetailKey{}, enabled)
}

func errorDetailEnabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	enabled, _ := ctx.Value(errorDetailKey{}).(bool)
	return enabled
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.Envelope{Success: true, Data: data})
}

// WriteMessage writes a success envelope with only a human readable message.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, types.Envelope{Success: true, Message: message})
}

// WriteDataMessage writes a success envelope carrying both data and a message.
func WriteDataMessage(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, types.Envelope{Success: true, Data: data, Message: message})
}

// WriteList writes a paginated collection. query echoes the applied filters and may be nil.
func WriteList(w http.ResponseWriter, data any, meta pagination.Meta, query any) {
	writeJSON(w, http.StatusOK, types.Envelope{
		Success:    true,
		Data:       data,
		Pagination: &meta,
		Query:      query,
	})
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if meta.HTTPStatus < http.StatusInternalServerError {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	apiErr := &types.APIError{
		Code:    string(typed.Code()),
		Message: msg,
	}

	dump := pkgerrors.Dump(err)
	if errorDetailEnabled(ctx) {
		apiErr.Stack = strings.Join(dump.Chain, "\n")
		if meta.DetailsAllowed {
			if fields, ok := typed.Details().([]pkgerrors.FieldError); ok {
				apiErr.Validation = fields
			}
		}
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, dump.Fields())
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, types.Envelope{Success: false, Error: apiErr})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
