package highlevel_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/natserract/highlevel/pkg/highlevel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactRequest(client *highlevel.Client, method, node, endpoint string, apiType highlevel.APIType) *highlevel.Request[*highlevel.Contact] {
	return highlevel.NewRequest[*highlevel.Contact](client, testCreds, method, node, endpoint, apiType,
		highlevel.NewObjectParser(client, highlevel.ContactKind))
}

func TestRequestPath(t *testing.T) {
	tests := []struct {
		node     string
		endpoint string
		want     string
	}{
		{"", "/contacts/", "/contacts/"},
		{"", "/locations/search", "/locations/search/"},
		{"abc", "/contacts", "/contacts/abc"},
		{"abc", "/contacts/", "/contacts/abc"},
	}

	for _, tt := range tests {
		req := contactRequest(nil, http.MethodGet, tt.node, tt.endpoint, highlevel.APITypeNode)
		assert.Equal(t, tt.want, req.Path())
	}
}

func TestAddParamUnwrapsResources(t *testing.T) {
	contact := &highlevel.Contact{ID: "1", Name: "x", Tags: []string{"a"}}
	exported := map[string]any{"id": "1", "name": "x", "tags": []any{"a"}}

	req := contactRequest(nil, http.MethodPost, "", "/contacts/", highlevel.APITypeNode).
		AddParam("contact", contact).
		AddParam("list", []*highlevel.Contact{contact, contact}).
		AddParam("nested", map[string]any{
			"inner": []any{contact, "plain", 3},
		}).
		AddParam("scalar", 7)

	params := req.Params()
	assert.Equal(t, exported, params["contact"])
	assert.Equal(t, []any{exported, exported}, params["list"])
	assert.Equal(t, map[string]any{"inner": []any{exported, "plain", 3}}, params["nested"])
	assert.Equal(t, 7, params["scalar"])
}

func TestAddParamsNilIsNoop(t *testing.T) {
	req := contactRequest(nil, http.MethodGet, "", "/contacts/", highlevel.APITypeEdge).
		AddParam("limit", 20).
		AddParams(nil)

	assert.Equal(t, map[string]any{"limit": 20}, req.Params())
}

func TestParamsReturnsCopy(t *testing.T) {
	req := contactRequest(nil, http.MethodGet, "", "/contacts/", highlevel.APITypeEdge).
		AddParam("filters", map[string]any{"tag": "vip"})

	params := req.Params()
	params["limit"] = 5
	params["filters"].(map[string]any)["tag"] = "changed"

	assert.Equal(t, map[string]any{"filters": map[string]any{"tag": "vip"}}, req.Params())
}

func TestExecuteNodeReturnsParsedObject(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts/c1", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"contact": {"id": "c1", "email": "a@example.com"}}`)
	}))

	res, err := contactRequest(client, http.MethodGet, "c1", "/contacts", highlevel.APITypeNode).Execute(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Object)
	assert.Nil(t, res.Cursor)
	assert.Equal(t, "c1", res.Object.ID)
	assert.Equal(t, "a@example.com", res.Object.Email)
	assert.Equal(t, testCreds, res.Object.Credentials())
	assert.Equal(t, http.StatusOK, res.Response.StatusCode())
}

func TestExecuteWithoutParserReturnsResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, http.StatusOK, `{"succeded": true}`)
	}))

	res, err := highlevel.NewRequest[*highlevel.Contact](client, testCreds, http.MethodDelete, "c1", "/contacts", highlevel.APITypeNode, nil).
		Execute(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res.Object)
	require.NotNil(t, res.Response)
	assert.JSONEq(t, `{"succeded": true}`, res.Response.Text())
}

func TestExecuteRaisesAPIRequestError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "vip", r.URL.Query().Get("tag"))
		writeJSON(w, http.StatusNotFound, `{"message":"Contact not found"}`)
	}))

	_, err := contactRequest(client, http.MethodGet, "missing", "/contacts", highlevel.APITypeNode).
		AddParam("tag", "vip").
		Execute(context.Background())

	var apiErr *highlevel.APIRequestError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/contacts/missing", apiErr.Call.Path)
	assert.Equal(t, map[string]any{"tag": "vip"}, apiErr.Call.Params)
	assert.True(t, highlevel.IsNotFound(err))
}

func TestExecuteRaisesParseErrorOnUnparsableBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `<html>oops</html>`)
	}))

	_, err := contactRequest(client, http.MethodGet, "c1", "/contacts", highlevel.APITypeNode).Execute(context.Background())

	var parseErr *highlevel.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestExecuteIsSingleUse(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `{"contact": {"id": "c1"}}`)
	}))

	req := contactRequest(client, http.MethodGet, "c1", "/contacts", highlevel.APITypeNode)
	_, err := req.Execute(context.Background())
	require.NoError(t, err)

	_, err = req.Execute(context.Background())
	assert.ErrorIs(t, err, highlevel.ErrRequestExecuted)
	assert.Equal(t, int32(1), calls.Load())
}

func TestExecuteEdgeGetReturnsCursorOverSnapshot(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"contacts":[{"id":"1"}],"meta":{"nextPage":true,"startAfter":"T1","startAfterId":"1"}}`)
	}))

	req := contactRequest(client, http.MethodGet, "", "/contacts/", highlevel.APITypeEdge).AddParam("limit", 1)
	res, err := req.Execute(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Cursor)
	assert.Nil(t, res.Response)

	assert.Equal(t, "T1", res.Cursor.Params()["startAfter"])
	assert.Equal(t, map[string]any{"limit": 1}, req.Params())
}

func TestExecuteEdgeRequiresParser(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	_, err := highlevel.NewRequest[*highlevel.Contact](client, testCreds, http.MethodGet, "", "/contacts/", highlevel.APITypeEdge, nil).
		Execute(context.Background())

	var cfgErr *highlevel.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestExecuteWithoutClient(t *testing.T) {
	_, err := contactRequest(nil, http.MethodGet, "c1", "/contacts", highlevel.APITypeNode).Execute(context.Background())

	var cfgErr *highlevel.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}
