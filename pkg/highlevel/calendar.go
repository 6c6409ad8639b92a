package highlevel

import (
	"context"
	"time"
)

// Calendar is a bookable calendar of a location.
type Calendar struct {
	resource

	ID           string `json:"id,omitempty"`
	LocationID   string `json:"locationId,omitempty"`
	GroupID      string `json:"groupId,omitempty"`
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	Slug         string `json:"slug,omitempty"`
	WidgetSlug   string `json:"widgetSlug,omitempty"`
	CalendarType string `json:"calendarType,omitempty"`
	EventType    string `json:"eventType,omitempty"`
	EventTitle   string `json:"eventTitle,omitempty"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

var CalendarKind = Kind[*Calendar]{
	Name:     "Calendar",
	Singular: "calendar",
	Plural:   "calendars",
	New:      func() *Calendar { return &Calendar{} },
}

// NewCalendar binds a calendar with the given id to client.
func NewCalendar(client *Client, creds Credentials, id string) *Calendar {
	c := &Calendar{ID: id}
	c.bind(client, creds)
	return c
}

// ExportData returns the declared non-empty fields merged with Extra.
func (c *Calendar) ExportData() map[string]any {
	return exportObject(c, c.Extra)
}

// Endpoint returns the calendar path computed from its id.
func (c *Calendar) Endpoint() (string, error) {
	if err := requireID("Calendar", c.ID); err != nil {
		return "", err
	}
	return "/calendars/" + c.ID, nil
}

// Get fetches the calendar.
func (c *Calendar) Get(ctx context.Context) (*Calendar, error) {
	return fetch(ctx, c, CalendarKind)
}

// Events lists the calendar's events between start and end. The location is
// taken from the calendar, or from its credentials when the calendar has none.
func (c *Calendar) Events(ctx context.Context, start, end time.Time) (*Cursor[*CalendarEvent], error) {
	if err := requireID("Calendar", c.ID); err != nil {
		return nil, err
	}
	if start.IsZero() || end.IsZero() {
		return nil, &ConfigurationError{Resource: "Calendar", Reason: "events require a start and an end time"}
	}
	locationID := c.LocationID
	if locationID == "" {
		locationID = c.creds.LocationID
	}
	if locationID == "" {
		return nil, &ConfigurationError{Resource: "Calendar", Reason: "events require a location id"}
	}

	return edgeRequest(c, "/calendars/events/", CalendarEventKind).
		AddParams(map[string]any{
			"calendarId": c.ID,
			"locationId": locationID,
			"startTime":  start.UnixMilli(),
			"endTime":    end.UnixMilli(),
		}).
		executeCursor(ctx)
}
