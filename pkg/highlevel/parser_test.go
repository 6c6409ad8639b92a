package highlevel_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/natserract/highlevel/pkg/config"
	"github.com/natserract/highlevel/pkg/highlevel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newParser() *highlevel.ObjectParser[*highlevel.Contact] {
	client := highlevel.NewClientWithLogger(config.Default(), zap.NewNop())
	return highlevel.NewObjectParser(client, highlevel.ContactKind)
}

func TestParseSingle(t *testing.T) {
	contact, err := newParser().ParseSingle([]byte(`{"contact": {"id": "1", "name": "x"}}`), testCreds)
	require.NoError(t, err)

	assert.Equal(t, "1", contact.ID)
	assert.Equal(t, "x", contact.Name)
	assert.Equal(t, testCreds, contact.Credentials())
	assert.Empty(t, contact.Extra)
	assert.Equal(t, map[string]any{"id": "1", "name": "x"}, contact.ExportData())
}

func TestParseSingleKeepsUndeclaredFields(t *testing.T) {
	body := `{"contact": {"id": "1", "tags": ["vip"], "score": 42, "attributionSource": {"medium": "form"}}}`

	contact, err := newParser().ParseSingle([]byte(body), testCreds)
	require.NoError(t, err)

	assert.Equal(t, []string{"vip"}, contact.Tags)
	assert.Equal(t, json.Number("42"), contact.Extra["score"])
	assert.Equal(t, map[string]any{"medium": "form"}, contact.Extra["attributionSource"])
	assert.NotContains(t, contact.Extra, "id")

	assert.Equal(t, map[string]any{
		"id":                "1",
		"tags":              []any{"vip"},
		"score":             json.Number("42"),
		"attributionSource": map[string]any{"medium": "form"},
	}, contact.ExportData())
}

func TestParseSingleMissingKey(t *testing.T) {
	for _, body := range []string{`{"location": {"id": "1"}}`, `{"contact": null}`, `{}`} {
		_, err := newParser().ParseSingle([]byte(body), testCreds)

		var parseErr *highlevel.ParseError
		require.True(t, errors.As(err, &parseErr), "body %s", body)
		assert.Equal(t, "contact", parseErr.Key)
	}
}

func TestParseSingleMalformedJSON(t *testing.T) {
	for _, body := range []string{`{"contact": {"id": "1"`, `[]`, `"contact"`, `{"contact": "1"}`} {
		_, err := newParser().ParseSingle([]byte(body), testCreds)

		var parseErr *highlevel.ParseError
		assert.True(t, errors.As(err, &parseErr), "body %s", body)
	}
}

func TestParseMultiplePreservesOrder(t *testing.T) {
	body := `{"contacts": [{"id": "3"}, {"id": "1"}, {"id": "2"}], "meta": {"nextPage": null}}`

	contacts, err := newParser().ParseMultiple([]byte(body), testCreds)
	require.NoError(t, err)
	require.Len(t, contacts, 3)

	for i, id := range []string{"3", "1", "2"} {
		assert.Equal(t, id, contacts[i].ID)
		assert.Equal(t, testCreds, contacts[i].Credentials())
	}
}

func TestParseMultipleKeepsMistypedFields(t *testing.T) {
	body := `{"contacts": [{"id": "1", "phone": 5551234, "firstName": "Ann"}, {"id": "2", "tags": "vip"}], "meta": {"nextPage": null}}`

	contacts, err := newParser().ParseMultiple([]byte(body), testCreds)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	assert.Equal(t, "1", contacts[0].ID)
	assert.Equal(t, "Ann", contacts[0].FirstName)
	assert.Empty(t, contacts[0].Phone)
	assert.Equal(t, json.Number("5551234"), contacts[0].Extra["phone"])
	assert.Equal(t, json.Number("5551234"), contacts[0].ExportData()["phone"])

	assert.Equal(t, "2", contacts[1].ID)
	assert.Nil(t, contacts[1].Tags)
	assert.Equal(t, "vip", contacts[1].Extra["tags"])
}

func TestParseMultipleEmpty(t *testing.T) {
	for _, body := range []string{
		`{"contacts": [], "meta": {"nextPage": true, "startAfter": "T1"}}`,
		`{"contacts": null}`,
		`{"meta": {}}`,
	} {
		contacts, err := newParser().ParseMultiple([]byte(body), testCreds)
		require.NoError(t, err, "body %s", body)
		assert.NotNil(t, contacts)
		assert.Empty(t, contacts)
	}
}

func TestParseMultipleRejectsBadStructure(t *testing.T) {
	for _, body := range []string{`{"contacts": {"id": "1"}}`, `{"contacts": [`, `{"contacts": ["x"]}`} {
		_, err := newParser().ParseMultiple([]byte(body), testCreds)

		var parseErr *highlevel.ParseError
		assert.True(t, errors.As(err, &parseErr), "body %s", body)
	}
}
