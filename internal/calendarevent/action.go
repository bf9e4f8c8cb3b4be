package calendarevent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/cxr0801/line-bot/internal/intent"
	"github.com/cxr0801/line-bot/pkg/logging"
)

// WriteResult is the terminal outcome of one calendar submission. A failed
// submission carries a human-readable cause; it is rendered into the reply
// and discarded.
type WriteResult struct {
	Success   bool
	EventID   string
	EventLink string
	Summary   string
	Start     string
	Err       string
}

// Action normalizes extracted events into Google Calendar inserts.
type Action struct {
	service    *calendar.Service
	calendarID string
	location   *time.Location
	tzName     string
	logger     *logging.Logger
}

// NewService builds a Calendar API service from a service-account
// credentials file.
func NewService(ctx context.Context, credentialsPath string) (*calendar.Service, error) {
	if strings.TrimSpace(credentialsPath) == "" {
		return nil, errors.New("calendarevent: credentials path is required")
	}
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendarevent: create service: %w", err)
	}
	return svc, nil
}

// NewAction creates an Action writing to calendarID. Naive timestamps are
// localized to timezone before submission.
func NewAction(service *calendar.Service, calendarID, timezone string, logger *logging.Logger) (*Action, error) {
	if service == nil {
		return nil, errors.New("calendarevent: service is required")
	}
	if strings.TrimSpace(calendarID) == "" {
		calendarID = "primary"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("calendarevent: load timezone %q: %w", timezone, err)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Action{
		service:    service,
		calendarID: calendarID,
		location:   loc,
		tzName:     timezone,
		logger:     logger,
	}, nil
}

// Commit submits the event and returns a terminal result. Every failure
// path resolves to WriteResult{Success: false}; no error escapes.
func (a *Action) Commit(ctx context.Context, ev *intent.ExtractedEvent) WriteResult {
	if ev == nil {
		return WriteResult{Err: "no event to submit"}
	}
	start, err := a.parseLocal(ev.StartTime)
	if err != nil {
		a.logger.Error("calendar start time unparseable", "value", ev.StartTime, "error", err)
		return WriteResult{Err: fmt.Sprintf("invalid start time %q", ev.StartTime)}
	}
	end, err := a.parseLocal(ev.EndTime)
	if err != nil {
		a.logger.Error("calendar end time unparseable", "value", ev.EndTime, "error", err)
		return WriteResult{Err: fmt.Sprintf("invalid end time %q", ev.EndTime)}
	}

	event := &calendar.Event{
		Summary: ev.Title,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: a.tzName,
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: a.tzName,
		},
		Reminders: &calendar.EventReminders{
			UseDefault:      true,
			ForceSendFields: []string{"UseDefault"},
		},
	}
	if strings.TrimSpace(ev.Location) != "" {
		event.Location = ev.Location
	}

	created, err := a.service.Events.Insert(a.calendarID, event).Context(ctx).Do()
	if err != nil {
		a.logger.Error("calendar insert failed", "calendar_id", a.calendarID, "error", err)
		return WriteResult{Err: err.Error()}
	}

	result := WriteResult{
		Success:   true,
		EventID:   created.Id,
		EventLink: created.HtmlLink,
		Summary:   created.Summary,
	}
	if created.Start != nil {
		result.Start = created.Start.DateTime
	}
	a.logger.Info("calendar event created", "event_id", created.Id, "summary", created.Summary)
	return result
}

// parseLocal interprets an ISO-8601 timestamp. Values without offset
// information are read in the configured timezone, never UTC.
func (a *Action) parseLocal(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, value, a.location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
