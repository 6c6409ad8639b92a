package highlevel

import "time"

// Credentials is the token payload returned by the OAuth exchange. It is a
// value type: every object reached from one authentication carries a copy.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
	UserType     string `json:"userType,omitempty"`
	CompanyID    string `json:"companyId,omitempty"`
	LocationID   string `json:"locationId,omitempty"`
	UserID       string `json:"userId,omitempty"`

	// IssuedAt is set locally when the token is received.
	IssuedAt time.Time `json:"-"`
}

// NewCredentials wraps a bare access token.
func NewCredentials(accessToken string) Credentials {
	return Credentials{AccessToken: accessToken, TokenType: "Bearer"}
}

// HasToken reports whether an access token is present.
func (c Credentials) HasToken() bool {
	return c.AccessToken != ""
}

// ExpiresAt returns the expiry instant, or the zero time when unknown.
func (c Credentials) ExpiresAt() time.Time {
	if c.IssuedAt.IsZero() || c.ExpiresIn <= 0 {
		return time.Time{}
	}
	return c.IssuedAt.Add(time.Duration(c.ExpiresIn) * time.Second)
}
