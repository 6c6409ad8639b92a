package highlevel

import "context"

// User is a member of a location's team.
type User struct {
	resource

	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name,omitempty"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Extension   string   `json:"extension,omitempty"`
	Role        string   `json:"role,omitempty"`
	LocationIDs []string `json:"locationIds,omitempty"`
}

var UserKind = Kind[*User]{
	Name:     "User",
	Singular: "user",
	Plural:   "users",
	New:      func() *User { return &User{} },
}

// ExportData returns the declared non-empty fields merged with Extra.
func (u *User) ExportData() map[string]any { return exportObject(u, u.Extra) }

// Endpoint returns the user path computed from its id.
func (u *User) Endpoint() (string, error) {
	if err := requireID("User", u.ID); err != nil {
		return "", err
	}
	return "/users/" + u.ID, nil
}

// Get fetches the user.
func (u *User) Get(ctx context.Context) (*User, error) {
	return fetch(ctx, u, UserKind)
}

// Appointment is a booking listed for a contact.
type Appointment struct {
	resource

	ID                string `json:"id,omitempty"`
	CalendarID        string `json:"calendarId,omitempty"`
	LocationID        string `json:"locationId,omitempty"`
	ContactID         string `json:"contactId,omitempty"`
	AssignedUserID    string `json:"assignedUserId,omitempty"`
	Title             string `json:"title,omitempty"`
	Status            string `json:"status,omitempty"`
	AppointmentStatus string `json:"appointmentStatus,omitempty"`
	StartTime         string `json:"startTime,omitempty"`
	EndTime           string `json:"endTime,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// The appointments endpoints nest their payload under "event(s)".
var AppointmentKind = Kind[*Appointment]{
	Name:     "Appointment",
	Singular: "event",
	Plural:   "events",
	New:      func() *Appointment { return &Appointment{} },
}

// ExportData returns the declared non-empty fields merged with Extra.
func (a *Appointment) ExportData() map[string]any { return exportObject(a, a.Extra) }

// Endpoint returns the appointment path computed from its id.
func (a *Appointment) Endpoint() (string, error) {
	if err := requireID("Appointment", a.ID); err != nil {
		return "", err
	}
	return "/appointments/" + a.ID, nil
}

// Get fetches the appointment.
func (a *Appointment) Get(ctx context.Context) (*Appointment, error) {
	return fetch(ctx, a, AppointmentKind)
}

// CalendarEvent is an event on a calendar.
type CalendarEvent struct {
	resource

	ID                string `json:"id,omitempty"`
	CalendarID        string `json:"calendarId,omitempty"`
	LocationID        string `json:"locationId,omitempty"`
	ContactID         string `json:"contactId,omitempty"`
	GroupID           string `json:"groupId,omitempty"`
	AssignedUserID    string `json:"assignedUserId,omitempty"`
	Title             string `json:"title,omitempty"`
	AppointmentStatus string `json:"appointmentStatus,omitempty"`
	Address           string `json:"address,omitempty"`
	Notes             string `json:"notes,omitempty"`
	StartTime         string `json:"startTime,omitempty"`
	EndTime           string `json:"endTime,omitempty"`
}

var CalendarEventKind = Kind[*CalendarEvent]{
	Name:     "CalendarEvent",
	Singular: "event",
	Plural:   "events",
	New:      func() *CalendarEvent { return &CalendarEvent{} },
}

// ExportData returns the declared non-empty fields merged with Extra.
func (e *CalendarEvent) ExportData() map[string]any { return exportObject(e, e.Extra) }

// Endpoint returns the calendar event path computed from its id.
func (e *CalendarEvent) Endpoint() (string, error) {
	if err := requireID("CalendarEvent", e.ID); err != nil {
		return "", err
	}
	return "/calendars/events/" + e.ID, nil
}

// Get fetches the calendar event.
func (e *CalendarEvent) Get(ctx context.Context) (*CalendarEvent, error) {
	return fetch(ctx, e, CalendarEventKind)
}

// Form is a lead capture form.
type Form struct {
	resource

	ID         string `json:"id,omitempty"`
	LocationID string `json:"locationId,omitempty"`
	Name       string `json:"name,omitempty"`
}

var FormKind = Kind[*Form]{
	Name:     "Form",
	Singular: "form",
	Plural:   "forms",
	New:      func() *Form { return &Form{} },
}

// ExportData returns the declared non-empty fields merged with Extra.
func (f *Form) ExportData() map[string]any { return exportObject(f, f.Extra) }

// Endpoint returns the form path computed from its id.
func (f *Form) Endpoint() (string, error) {
	if err := requireID("Form", f.ID); err != nil {
		return "", err
	}
	return "/forms/" + f.ID, nil
}

// Get fetches the form.
func (f *Form) Get(ctx context.Context) (*Form, error) {
	return fetch(ctx, f, FormKind)
}

// Opportunity is a deal in a pipeline.
type Opportunity struct {
	resource

	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name,omitempty"`
	LocationID      string   `json:"locationId,omitempty"`
	ContactID       string   `json:"contactId,omitempty"`
	PipelineID      string   `json:"pipelineId,omitempty"`
	PipelineStageID string   `json:"pipelineStageId,omitempty"`
	AssignedTo      string   `json:"assignedTo,omitempty"`
	Status          string   `json:"status,omitempty"`
	Source          string   `json:"source,omitempty"`
	MonetaryValue   *float64 `json:"monetaryValue,omitempty"`
}

var OpportunityKind = Kind[*Opportunity]{
	Name:     "Opportunity",
	Singular: "opportunity",
	Plural:   "opportunities",
	New:      func() *Opportunity { return &Opportunity{} },
}

// ExportData returns the declared non-empty fields merged with Extra.
func (o *Opportunity) ExportData() map[string]any { return exportObject(o, o.Extra) }

// Endpoint returns the opportunity path computed from its id.
func (o *Opportunity) Endpoint() (string, error) {
	if err := requireID("Opportunity", o.ID); err != nil {
		return "", err
	}
	return "/opportunities/" + o.ID, nil
}

// Get fetches the opportunity.
func (o *Opportunity) Get(ctx context.Context) (*Opportunity, error) {
	return fetch(ctx, o, OpportunityKind)
}
