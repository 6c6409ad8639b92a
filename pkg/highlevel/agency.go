package highlevel

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Agency is the company root of a HighLevel account. Its ID is the company
// id. It has no endpoint of its own.
type Agency struct {
	resource

	ID string `json:"id,omitempty"`
}

// NewAgency binds an agency to client. An empty companyID falls back to the
// company id carried by creds.
func NewAgency(client *Client, creds Credentials, companyID string) (*Agency, error) {
	if !creds.HasToken() {
		return nil, &AuthenticationError{Reason: "agency must have an access token"}
	}
	if companyID == "" {
		companyID = creds.CompanyID
	}
	a := &Agency{ID: companyID}
	a.bind(client, creds)
	return a, nil
}

// ExportData returns the declared non-empty fields merged with Extra.
func (a *Agency) ExportData() map[string]any {
	return exportObject(a, a.Extra)
}

// Endpoint always fails: the API exposes no agency resource.
func (a *Agency) Endpoint() (string, error) {
	return "", &ConfigurationError{Resource: "Agency", Reason: "does not have an endpoint"}
}

// GetLocations lists the company's sub-accounts.
func (a *Agency) GetLocations(ctx context.Context, opts *ListOptions) (*Cursor[*Location], error) {
	if a.ID == "" {
		return nil, &ConfigurationError{Resource: "Agency", Reason: "must have a company id to list locations"}
	}
	params := opts.apply(map[string]any{
		"companyId": a.ID,
		"limit":     opts.limit(1000),
	})
	return edgeRequest(a, "/locations/search", LocationKind).AddParams(params).executeCursor(ctx)
}

// LocationToken exchanges the agency token for a token scoped to locationID.
func (a *Agency) LocationToken(ctx context.Context, locationID string) (Credentials, error) {
	if a.ID == "" {
		return Credentials{}, &ConfigurationError{Resource: "Agency", Reason: "must have a company id to request a location token"}
	}
	if locationID == "" {
		return Credentials{}, &ConfigurationError{Resource: "Location", Reason: "id is required to request a location token"}
	}
	if a.client == nil {
		return Credentials{}, &ConfigurationError{Resource: "Agency", Reason: "is not bound to a client"}
	}

	resp, err := a.client.Call(ctx, http.MethodPost, "/oauth/locationToken", a.creds, map[string]any{
		"companyId":  a.ID,
		"locationId": locationID,
	})
	if err != nil {
		return Credentials{}, err
	}
	if err := resp.Err(); err != nil {
		return Credentials{}, err
	}

	var creds Credentials
	if err := resp.JSON(&creds); err != nil {
		return Credentials{}, err
	}
	if !creds.HasToken() {
		return Credentials{}, &ParseError{Key: "access_token", Err: fmt.Errorf("location token response has no access token")}
	}
	if creds.LocationID == "" {
		creds.LocationID = locationID
	}
	if creds.CompanyID == "" {
		creds.CompanyID = a.ID
	}
	creds.IssuedAt = time.Now()

	a.client.logger.Info("Obtained location token",
		zap.String("company_id", a.ID),
		zap.String("location_id", locationID),
		zap.Int("expires_in", creds.ExpiresIn))

	return creds, nil
}

// GetLocation obtains a location token and fetches the location with it. The
// returned Location carries the new credentials.
func (a *Agency) GetLocation(ctx context.Context, locationID string) (*Location, error) {
	creds, err := a.LocationToken(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return NewLocation(a.client, creds, locationID).Get(ctx)
}
