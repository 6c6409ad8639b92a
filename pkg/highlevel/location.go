package highlevel

import (
	"context"
	"net/http"
)

// Location is a sub-account. Most CRM data is scoped to one.
type Location struct {
	resource

	ID         string `json:"id,omitempty"`
	CompanyID  string `json:"companyId,omitempty"`
	Name       string `json:"name,omitempty"`
	Domain     string `json:"domain,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Website    string `json:"website,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	LogoURL    string `json:"logoUrl,omitempty"`
}

var LocationKind = Kind[*Location]{
	Name:     "Location",
	Singular: "location",
	Plural:   "locations",
	New:      func() *Location { return &Location{} },
}

// NewLocation binds a location with the given id to client.
func NewLocation(client *Client, creds Credentials, id string) *Location {
	l := &Location{ID: id}
	l.bind(client, creds)
	return l
}

// ExportData returns the declared non-empty fields merged with Extra.
func (l *Location) ExportData() map[string]any {
	return exportObject(l, l.Extra)
}

// Endpoint returns the location path computed from its id.
func (l *Location) Endpoint() (string, error) {
	if err := requireID("Location", l.ID); err != nil {
		return "", err
	}
	return "/locations/" + l.ID, nil
}

// Get fetches the location.
func (l *Location) Get(ctx context.Context) (*Location, error) {
	return fetch(ctx, l, LocationKind)
}

// Contacts lists the location's contacts, 20 per page by default.
func (l *Location) Contacts(ctx context.Context, opts *ListOptions) (*Cursor[*Contact], error) {
	if err := requireID("Location", l.ID); err != nil {
		return nil, err
	}
	params := opts.apply(map[string]any{
		"locationId": l.ID,
		"limit":      opts.limit(20),
	})
	return edgeRequest(l, "/contacts/", ContactKind).AddParams(params).executeCursor(ctx)
}

// Contact fetches one contact by id.
func (l *Location) Contact(ctx context.Context, contactID string) (*Contact, error) {
	if err := requireID("Contact", contactID); err != nil {
		return nil, err
	}
	return nodeRequest(l, http.MethodGet, contactID, "/contacts", ContactKind).executeObject(ctx)
}

// CreateContact creates contact in the location and returns the stored
// contact.
func (l *Location) CreateContact(ctx context.Context, contact *Contact) (*Contact, error) {
	if err := requireID("Location", l.ID); err != nil {
		return nil, err
	}
	req := nodeRequest(l, http.MethodPost, "", "/contacts", ContactKind)
	if contact != nil {
		req.AddParams(contact.ExportData())
	}
	return req.AddParam("locationId", l.ID).executeObject(ctx)
}

// Calendars lists the location's calendars.
func (l *Location) Calendars(ctx context.Context) (*Cursor[*Calendar], error) {
	if err := requireID("Location", l.ID); err != nil {
		return nil, err
	}
	return edgeRequest(l, "/calendars/", CalendarKind).AddParam("locationId", l.ID).executeCursor(ctx)
}

// Users lists the location's users.
func (l *Location) Users(ctx context.Context) (*Cursor[*User], error) {
	if err := requireID("Location", l.ID); err != nil {
		return nil, err
	}
	return edgeRequest(l, "/users/", UserKind).AddParam("locationId", l.ID).executeCursor(ctx)
}

// ContactAppointments lists the appointments booked for a contact.
func (l *Location) ContactAppointments(ctx context.Context, contactID string) (*Cursor[*Appointment], error) {
	if err := requireID("Contact", contactID); err != nil {
		return nil, err
	}
	return edgeRequest(l, "/contacts/"+contactID+"/appointments/", AppointmentKind).executeCursor(ctx)
}

// Opportunities searches the location's opportunities, 20 per page by
// default.
func (l *Location) Opportunities(ctx context.Context, opts *ListOptions) (*Cursor[*Opportunity], error) {
	if err := requireID("Location", l.ID); err != nil {
		return nil, err
	}
	params := opts.apply(map[string]any{
		"location_id": l.ID,
		"limit":       opts.limit(20),
	})
	return edgeRequest(l, "/opportunities/search", OpportunityKind).AddParams(params).executeCursor(ctx)
}

// CalendarEvent fetches one appointment event by id.
func (l *Location) CalendarEvent(ctx context.Context, eventID string) (*CalendarEvent, error) {
	if err := requireID("CalendarEvent", eventID); err != nil {
		return nil, err
	}
	return nodeRequest(l, http.MethodGet, eventID, "/calendars/events/appointments", CalendarEventKind).executeObject(ctx)
}
