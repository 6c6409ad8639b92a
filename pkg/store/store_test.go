package store_test

import (
	"encoding/json"
	"testing"

	"github.com/natserract/highlevel/pkg/highlevel"
	"github.com/natserract/highlevel/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContactRecord(t *testing.T) {
	contact := &highlevel.Contact{
		ID:         "c1",
		LocationID: "loc1",
		FirstName:  "Ann",
		Email:      "ann@example.com",
		Tags:       []string{"lead"},
	}

	record, err := store.NewContactRecord(contact)
	require.NoError(t, err)
	assert.Equal(t, "c1", record.ID)
	assert.Equal(t, "loc1", record.LocationID)
	assert.Equal(t, "Ann", record.FirstName)
	assert.Equal(t, []string{"lead"}, record.Tags)
	assert.False(t, record.SyncedAt.IsZero())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(record.Raw, &raw))
	assert.Equal(t, "ann@example.com", raw["email"])

	contact.Tags[0] = "changed"
	assert.Equal(t, "lead", record.Tags[0])
}

func TestNewContactRecordFallsBackToCredentialsLocation(t *testing.T) {
	contact := highlevel.NewContact(nil, highlevel.Credentials{AccessToken: "t", LocationID: "loc9"}, "c1")

	record, err := store.NewContactRecord(contact)
	require.NoError(t, err)
	assert.Equal(t, "loc9", record.LocationID)
}

func TestNewContactRecordRequiresID(t *testing.T) {
	_, err := store.NewContactRecord(&highlevel.Contact{})
	assert.Error(t, err)
}
