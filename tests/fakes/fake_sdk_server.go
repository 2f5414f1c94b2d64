package fakes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/systmms/bwsconnect/internal/bws"
)

// FakeSDKServer emulates the bitwarden-sdk-server REST API on top of a
// FakeSecretStore.
type FakeSDKServer struct {
	*httptest.Server

	Store *FakeSecretStore

	// Token is the only accepted Warden-Access-Token; other tokens get 401
	Token string

	mu       sync.Mutex
	requests []FakeRequest
}

// FakeRequest is one request seen by the server
type FakeRequest struct {
	Method  string
	Path    string
	Header  http.Header
	Payload map[string]any
}

// NewFakeSDKServer starts a server that is closed when the test ends.
// BaseURL() returns the URL to pass as --base-url.
func NewFakeSDKServer(t *testing.T, token string) *FakeSDKServer {
	t.Helper()

	f := &FakeSDKServer{Store: NewFakeSecretStore(), Token: token}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

// BaseURL returns the REST API base URL
func (f *FakeSDKServer) BaseURL() string {
	return f.URL + "/rest/api/1"
}

// Requests returns a copy of the requests seen so far
func (f *FakeSDKServer) Requests() []FakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeRequest(nil), f.requests...)
}

func (f *FakeSDKServer) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	req := FakeRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
	_ = json.Unmarshal(raw, &req.Payload)

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if r.Header.Get(bws.HeaderAccessToken) != f.Token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid access token"})
		return
	}

	ctx := r.Context()
	switch r.Method + " " + r.URL.Path {
	case "GET /rest/api/1/secrets":
		org, _ := req.Payload["OrganizationID"].(string)
		items, err := f.Store.ListSecrets(ctx, org)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"message": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": items})

	case "GET /rest/api/1/secret":
		id, _ := req.Payload["ID"].(string)
		f.writeSecret(w, r, id)

	case "GET /rest/api/1/secrets-by-ids":
		var data []json.RawMessage
		for _, id := range stringList(req.Payload["IDS"]) {
			payload, err := f.Store.GetSecret(ctx, id)
			if err != nil {
				continue
			}
			data = append(data, payload)
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": data})

	case "POST /rest/api/1/secret":
		key, _ := req.Payload["key"].(string)
		value, _ := req.Payload["value"].(string)
		id := f.Store.AddSecret(key, value)
		f.writeSecret(w, r, id)

	case "PUT /rest/api/1/secret":
		id, _ := req.Payload["id"].(string)
		key, _ := req.Payload["key"].(string)
		value, _ := req.Payload["value"].(string)
		if !f.Store.replace(id, key, value) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "secret not found"})
			return
		}
		f.writeSecret(w, r, id)

	case "DELETE /rest/api/1/secret":
		ids := stringList(req.Payload["IDS"])
		var data []map[string]any
		for _, id := range ids {
			entry := map[string]any{"id": id, "error": nil}
			if !f.Store.remove(id) {
				entry["error"] = "secret not found"
			}
			data = append(data, entry)
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": data})

	default:
		http.NotFound(w, r)
	}
}

func (f *FakeSDKServer) writeSecret(w http.ResponseWriter, r *http.Request, id string) {
	payload, err := f.Store.GetSecret(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// replace overwrites the key and value of an existing secret
func (f *FakeSecretStore) replace(id, key, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, s := range f.Secrets {
		if s.ID != id {
			continue
		}
		payload, _ := json.Marshal(map[string]any{
			"id":             id,
			"organizationId": FakeOrganizationID,
			"key":            key,
			"value":          value,
			"note":           "",
		})
		f.Secrets[i] = FakeSecret{ID: id, Key: key, Payload: payload}
		return true
	}
	return false
}

// remove deletes a secret by id
func (f *FakeSecretStore) remove(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, s := range f.Secrets {
		if s.ID == id {
			f.Secrets = append(f.Secrets[:i], f.Secrets[i+1:]...)
			return true
		}
	}
	return false
}

// NewFakeID returns a fresh secret id
func NewFakeID() string {
	return uuid.NewString()
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
