// Package shopifytest provides an in-process fake of the Shopify Admin API surface the
// profile service uses: the GraphQL endpoint and a staged upload target.
package shopifytest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// AccessToken is the token the fake server accepts.
const AccessToken = "shpat_fake"

// APIVersion is the Admin API version the fake server routes.
const APIVersion = "2025-07"

// Call records one request the fake received.
type Call struct {
	Operation string
	Variables map[string]any
	// Upload fields, in the order they were received.
	UploadFields []string
	UploadBytes  []byte
}

// Server is a fake Shopify Admin API. Zero-valued hooks produce successful responses.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []Call
	nextID int

	// StagedUserErrors, FileUserErrors and MetaobjectUserErrors are returned as userErrors when set.
	StagedUserErrors     []map[string]any
	FileUserErrors       []map[string]any
	MetaobjectUserErrors []map[string]any
	// UploadStatus overrides the staged upload response status when non-zero.
	UploadStatus int
	UploadBody   string
	// RawGraphQLResponse replaces every GraphQL answer when non-empty.
	RawGraphQLResponse string
}

// NewServer starts a fake Shopify server. Call Close when done.
func NewServer() *Server {
	s := &Server{}
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/api/"+APIVersion+"/graphql.json", s.handleGraphQL)
	mux.HandleFunc("/upload", s.handleUpload)
	s.Server = httptest.NewServer(mux)
	return s
}

// Calls returns a copy of the recorded calls.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call{}, s.calls...)
}

// Operations returns the recorded operation names in order.
func (s *Server) Operations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ops := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		ops = append(ops, c.Operation)
	}
	return ops
}

// ResourceURL is the resource locator handed out by stagedUploadsCreate.
func (s *Server) ResourceURL() string {
	return s.URL + "/upload/tmp/pooch/image"
}

func (s *Server) record(c Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Shopify-Access-Token") != AccessToken {
		writeJSON(w, http.StatusUnauthorized, `{"errors":"[API] Invalid API key or access token (unrecognized login or wrong password)"}`)
		return
	}
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, `{"errors":[{"message":"invalid json"}]}`)
		return
	}
	op := operationName(req.Query)
	s.record(Call{Operation: op, Variables: req.Variables})
	if s.RawGraphQLResponse != "" {
		writeJSON(w, http.StatusOK, s.RawGraphQLResponse)
		return
	}

	var data map[string]any
	switch op {
	case "stagedUploadsCreate":
		payload := map[string]any{"stagedTargets": []any{}, "userErrors": nonNil(s.StagedUserErrors)}
		if len(s.StagedUserErrors) == 0 {
			payload["stagedTargets"] = []any{map[string]any{
				"url":         s.URL + "/upload",
				"resourceUrl": s.ResourceURL(),
				"parameters": []any{
					map[string]any{"name": "Content-Type", "value": "image/png"},
					map[string]any{"name": "key", "value": "tmp/pooch/image"},
					map[string]any{"name": "policy", "value": "signed-policy"},
				},
			}}
		}
		data = map[string]any{"stagedUploadsCreate": payload}
	case "fileCreate":
		payload := map[string]any{"files": []any{}, "userErrors": nonNil(s.FileUserErrors)}
		if len(s.FileUserErrors) == 0 {
			payload["files"] = []any{map[string]any{"id": "gid://shopify/MediaImage/" + s.newID(), "fileStatus": "UPLOADED"}}
		}
		data = map[string]any{"fileCreate": payload}
	case "metaobjectCreate":
		payload := map[string]any{"metaobject": nil, "userErrors": nonNil(s.MetaobjectUserErrors)}
		if len(s.MetaobjectUserErrors) == 0 {
			input, _ := req.Variables["metaobject"].(map[string]any)
			payload["metaobject"] = map[string]any{
				"id":     "gid://shopify/Metaobject/" + s.newID(),
				"type":   input["type"],
				"fields": input["fields"],
			}
		}
		data = map[string]any{"metaobjectCreate": payload}
	default:
		writeJSON(w, http.StatusOK, `{"errors":[{"message":"unknown operation"}]}`)
		return
	}
	body, _ := json.Marshal(map[string]any{"data": data})
	writeJSON(w, http.StatusOK, string(body))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	call := Call{Operation: "stagedUpload"}
	reader, err := r.MultipartReader()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(part)
		call.UploadFields = append(call.UploadFields, part.FormName())
		if part.FormName() == "file" {
			call.UploadBytes = data
		}
	}
	s.record(call)
	if s.UploadStatus != 0 {
		w.WriteHeader(s.UploadStatus)
		_, _ = io.WriteString(w, s.UploadBody)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return fmt.Sprintf("%d", 1000+s.nextID)
}

func operationName(query string) string {
	for _, op := range []string{"stagedUploadsCreate", "fileCreate", "metaobjectCreate"} {
		if strings.Contains(query, op+"(") {
			return op
		}
	}
	return "unknown"
}

func nonNil(v []map[string]any) []map[string]any {
	if v == nil {
		return []map[string]any{}
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
