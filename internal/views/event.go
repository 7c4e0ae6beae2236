package views

import (
	"strings"

	"github.com/angelmondragon/footballzones-backend/pkg/db/models"
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/google/uuid"
)

// TrackRequest is the body of POST /articles/{id}/track.
type TrackRequest struct {
	SessionID            string            `json:"sessionId" validate:"required,max=128"`
	ViewDuration         int               `json:"viewDuration" validate:"min=0"`
	CompletionPercentage int               `json:"completionPercent"`
	Referrer             string            `json:"referrer,omitempty" validate:"omitempty,max=2048"`
	DeviceType           *enums.DeviceType `json:"deviceType,omitempty"`
}

// Event is one view handed to the tracker.
type Event struct {
	ArticleID  uuid.UUID
	SessionID  string
	UserID     *uuid.UUID
	Duration   int
	Completion int
	Referrer   string
	DeviceType enums.DeviceType
	IPAddress  string
	UserAgent  string
}

// NewEvent combines the request body with transport metadata.
func NewEvent(articleID uuid.UUID, userID *uuid.UUID, req TrackRequest, ip, userAgent string) Event {
	ev := Event{
		ArticleID:  articleID,
		SessionID:  strings.TrimSpace(req.SessionID),
		UserID:     userID,
		Duration:   req.ViewDuration,
		Completion: req.CompletionPercentage,
		Referrer:   strings.TrimSpace(req.Referrer),
		IPAddress:  ip,
		UserAgent:  userAgent,
	}
	if req.DeviceType != nil && req.DeviceType.IsValid() {
		ev.DeviceType = *req.DeviceType
	}
	return ev
}

// ClampCompletion bounds a completion percentage to 0..100.
func ClampCompletion(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func (e Event) toModel() models.ViewEvent {
	device := e.DeviceType
	if !device.IsValid() {
		device = enums.DeviceTypeFromUserAgent(e.UserAgent)
	}
	duration := e.Duration
	if duration < 0 {
		duration = 0
	}
	return models.ViewEvent{
		ArticleID:         e.ArticleID,
		SessionID:         e.SessionID,
		UserID:            e.UserID,
		ViewDuration:      duration,
		CompletionPercent: ClampCompletion(e.Completion),
		Referrer:          optional(e.Referrer),
		DeviceType:        device,
		IPAddress:         optional(e.IPAddress),
		UserAgent:         optional(e.UserAgent),
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
