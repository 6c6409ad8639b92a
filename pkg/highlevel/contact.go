package highlevel

import (
	"context"
	"net/http"
)

// Contact is a person in a location's CRM.
type Contact struct {
	resource

	ID           string        `json:"id,omitempty"`
	LocationID   string        `json:"locationId,omitempty"`
	Name         string        `json:"name,omitempty"`
	ContactName  string        `json:"contactName,omitempty"`
	FirstName    string        `json:"firstName,omitempty"`
	LastName     string        `json:"lastName,omitempty"`
	Email        string        `json:"email,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	CompanyName  string        `json:"companyName,omitempty"`
	Source       string        `json:"source,omitempty"`
	Type         string        `json:"type,omitempty"`
	AssignedTo   string        `json:"assignedTo,omitempty"`
	Timezone     string        `json:"timezone,omitempty"`
	DND          *bool         `json:"dnd,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
	DateAdded    string        `json:"dateAdded,omitempty"`
	DateUpdated  string        `json:"dateUpdated,omitempty"`
}

// CustomField is a location-defined contact attribute.
type CustomField struct {
	ID    string `json:"id"`
	Value any    `json:"value,omitempty"`
}

var ContactKind = Kind[*Contact]{
	Name:     "Contact",
	Singular: "contact",
	Plural:   "contacts",
	New:      func() *Contact { return &Contact{} },
}

// NewContact binds a contact with the given id to client.
func NewContact(client *Client, creds Credentials, id string) *Contact {
	c := &Contact{ID: id}
	c.bind(client, creds)
	return c
}

// ExportData returns the declared non-empty fields merged with Extra.
func (c *Contact) ExportData() map[string]any {
	return exportObject(c, c.Extra)
}

// Endpoint returns the contact path computed from its id.
func (c *Contact) Endpoint() (string, error) {
	if err := requireID("Contact", c.ID); err != nil {
		return "", err
	}
	return "/contacts/" + c.ID, nil
}

// Get fetches the contact.
func (c *Contact) Get(ctx context.Context) (*Contact, error) {
	return fetch(ctx, c, ContactKind)
}

// Update sends fields to the contact and returns the updated contact.
func (c *Contact) Update(ctx context.Context, fields map[string]any) (*Contact, error) {
	if err := requireID("Contact", c.ID); err != nil {
		return nil, err
	}
	return nodeRequest(c, http.MethodPut, c.ID, "/contacts", ContactKind).AddParams(fields).executeObject(ctx)
}

// Delete removes the contact.
func (c *Contact) Delete(ctx context.Context) (*Response, error) {
	if err := requireID("Contact", c.ID); err != nil {
		return nil, err
	}
	return rawRequest(c, http.MethodDelete, c.ID, "/contacts").executeRaw(ctx)
}

// Appointments lists the contact's appointments.
func (c *Contact) Appointments(ctx context.Context) (*Cursor[*Appointment], error) {
	if err := requireID("Contact", c.ID); err != nil {
		return nil, err
	}
	return edgeRequest(c, "/contacts/"+c.ID+"/appointments/", AppointmentKind).executeCursor(ctx)
}

// AddTags adds tags to the contact.
func (c *Contact) AddTags(ctx context.Context, tags ...string) (*Response, error) {
	if err := requireID("Contact", c.ID); err != nil {
		return nil, err
	}
	return rawRequest(c, http.MethodPost, "tags", "/contacts/"+c.ID).
		AddParam("tags", tags).
		executeRaw(ctx)
}
