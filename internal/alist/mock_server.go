// SPDX-License-Identifier: MIT
package alist

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// MockServer provides a configurable AList mock server for testing.
type MockServer struct {
	*httptest.Server
	mu      sync.RWMutex
	entries map[string][]Entry // directory path -> children
	objects map[string][]byte  // object path -> content
	failOp  map[string]int     // op name -> AList failure code to return
}

// NewMockServer creates an AList mock backed by in-memory state.
func NewMockServer() *MockServer {
	mock := &MockServer{
		entries: make(map[string][]Entry),
		objects: make(map[string][]byte),
		failOp:  make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/fs/list", mock.handleList)
	mux.HandleFunc("/api/fs/get", mock.handleGet)
	mux.HandleFunc("/api/fs/put", mock.handlePut)
	mux.HandleFunc("/api/fs/remove", mock.handleRemove)
	mux.HandleFunc("/d/", mock.handleDownload)

	mock.Server = httptest.NewServer(mux)
	return mock
}

// SetEntries replaces the listing for a directory.
func (m *MockServer) SetEntries(dir string, entries []Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[dir] = entries
}

// SetObject stores object content served through /d/<path>.
func (m *MockServer) SetObject(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = content
}

// Object returns the stored content for an object path.
func (m *MockServer) Object(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[path]
	return b, ok
}

// FailOp makes the named operation ("list", "get", "put", "remove") return
// the given AList failure code.
func (m *MockServer) FailOp(op string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOp[op] = code
}

func (m *MockServer) failure(op string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.failOp[op]
	return code, ok
}

func writeEnvelope(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": message,
		"data":    data,
	})
}

func (m *MockServer) handleList(w http.ResponseWriter, r *http.Request) {
	if code, ok := m.failure("list"); ok {
		writeEnvelope(w, code, "simulated failure", nil)
		return
	}
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, 400, "bad request", nil)
		return
	}
	m.mu.RLock()
	entries := m.entries[req.Path]
	m.mu.RUnlock()
	writeEnvelope(w, 200, "success", map[string]any{
		"content": entries,
		"total":   len(entries),
	})
}

func (m *MockServer) handleGet(w http.ResponseWriter, r *http.Request) {
	if code, ok := m.failure("get"); ok {
		writeEnvelope(w, code, "simulated failure", nil)
		return
	}
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, 400, "bad request", nil)
		return
	}
	m.mu.RLock()
	content, ok := m.objects[req.Path]
	m.mu.RUnlock()
	if !ok {
		writeEnvelope(w, 500, "object not found", nil)
		return
	}
	writeEnvelope(w, 200, "success", map[string]any{
		"name":    req.Path,
		"size":    len(content),
		"raw_url": m.URL + "/d" + req.Path,
		"sign":    "",
	})
}

func (m *MockServer) handlePut(w http.ResponseWriter, r *http.Request) {
	if code, ok := m.failure("put"); ok {
		writeEnvelope(w, code, "simulated failure", nil)
		return
	}
	escaped := r.Header.Get("File-Path")
	path, err := url.PathUnescape(escaped)
	if err != nil || path == "" {
		writeEnvelope(w, 400, "missing file path", nil)
		return
	}
	content, err := io.ReadAll(r.Body)
	if err != nil {
		writeEnvelope(w, 500, "read failed", nil)
		return
	}
	m.mu.Lock()
	m.objects[path] = content
	m.mu.Unlock()
	writeEnvelope(w, 200, "success", nil)
}

func (m *MockServer) handleRemove(w http.ResponseWriter, r *http.Request) {
	if code, ok := m.failure("remove"); ok {
		writeEnvelope(w, code, "simulated failure", nil)
		return
	}
	var req struct {
		Dir   string   `json:"dir"`
		Names []string `json:"names"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, 400, "bad request", nil)
		return
	}
	m.mu.Lock()
	for _, name := range req.Names {
		delete(m.objects, req.Dir+"/"+name)
	}
	m.mu.Unlock()
	writeEnvelope(w, 200, "success", nil)
}

func (m *MockServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path[len("/d"):]
	m.mu.RLock()
	content, ok := m.objects[path]
	m.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write(content)
}
