package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smallbiznis/cloudbill/internal/billing/domain"
)

type postEventRequest struct {
	ResourceID   string         `json:"resource_id"`
	ResourceType string         `json:"resource_type"`
	EventType    string         `json:"event_type"`
	EventTime    string         `json:"event_time"`
	Content      map[string]any `json:"content"`
}

// Accepted event_time layouts. Producers send RFC3339 or the bare
// microsecond form without a zone; the latter is read as UTC.
var eventTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (s *Server) PostEvent(c *gin.Context) {
	var req postEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	eventTime, err := parseEventTime(req.EventTime)
	if err != nil {
		AbortWithError(c, billingdomain.ErrEventTimeInvalid)
		return
	}

	outcome, err := s.billingSvc.ProcessEvent(c.Request.Context(), billingdomain.Event{
		ResourceID:   strings.TrimSpace(req.ResourceID),
		ResourceType: strings.TrimSpace(req.ResourceType),
		EventType:    billingdomain.EventType(strings.TrimSpace(req.EventType)),
		EventTime:    eventTime,
		Content:      req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": outcome})
}

func parseEventTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range eventTimeLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
