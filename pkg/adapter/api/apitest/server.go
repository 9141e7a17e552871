// Package apitest is an in-memory implementation of the backend REST API for
// tests. Data is partitioned by bearer token.
package apitest

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/merge"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model/wire"
)

// Hook runs before a request is handled. A non-zero status aborts the request
// with that status.
type Hook func(r *http.Request) int

type collection struct {
	records map[string]merge.Fields
	order   []string
}

// Server is the fake backend
type Server struct {
	router chi.Router
	now    func() time.Time

	mu       sync.Mutex
	data     map[string]map[string]*collection
	hooks    []Hook
	requests []string
}

// New creates an empty fake backend
func New() *Server {
	s := &Server{
		now:  time.Now,
		data: make(map[string]map[string]*collection),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.intercept)
	r.Use(s.authenticate)
	r.Route("/{collection}", func(r chi.Router) {
		r.Post("/", s.create)
		r.Get("/", s.list)
		r.Get("/{id}", s.get)
		r.Put("/{id}", s.update)
		r.Delete("/{id}", s.delete)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Intercept registers a hook for all following requests
func (s *Server) Intercept(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// FailNext makes the next request with the given method fail with status
func (s *Server) FailNext(method string, status int) {
	var once sync.Once
	s.Intercept(func(r *http.Request) int {
		if r.Method != method {
			return 0
		}
		code := 0
		once.Do(func() { code = status })
		return code
	})
}

// Requests returns "METHOD /path" of every request received so far
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Records returns the stored records of one collection for one token
func (s *Server) Records(token, name string) []merge.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collectionLocked(token, name)
	out := make([]merge.Fields, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, merge.Shallow(c.records[id], nil))
	}
	return out
}

// Seed stores record as is. The record must carry an id.
func (s *Server) Seed(token, name string, record any) error {
	fields, err := merge.ToFields(record)
	if err != nil {
		return err
	}
	var id string
	if err := json.Unmarshal(fields["id"], &id); err != nil || id == "" {
		return goerr.New("seed record has no id", goerr.V("collection", name))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collectionLocked(token, name).put(id, fields)
	return nil
}

func (s *Server) collectionLocked(token, name string) *collection {
	byName, ok := s.data[token]
	if !ok {
		byName = make(map[string]*collection)
		s.data[token] = byName
	}
	c, ok := byName[name]
	if !ok {
		c = &collection{records: make(map[string]merge.Fields)}
		byName[name] = c
	}
	return c
}

func (c *collection) put(id string, f merge.Fields) {
	if _, ok := c.records[id]; !ok {
		c.order = append(c.order, id)
	}
	c.records[id] = f
}

func (c *collection) remove(id string) {
	delete(c.records, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

type tokenKey struct{}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		hooks := append([]Hook(nil), s.hooks...)
		s.mu.Unlock()

		for _, h := range hooks {
			if status := h(r); status != 0 {
				writeError(w, status, "injected failure")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withToken(r.Context(), token)))
	})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	fields, ok := readFields(w, r)
	if !ok {
		return
	}
	now := wire.FormatTime(s.now())
	id := uuid.NewString()
	_ = fields.Set("id", id)
	_ = fields.Set("created_at", now)
	_ = fields.Set("updated_at", now)

	s.mu.Lock()
	s.collectionLocked(tokenOf(r), chi.URLParam(r, "collection")).put(id, fields)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, fields)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	f, ok := s.collectionLocked(tokenOf(r), chi.URLParam(r, "collection")).records[chi.URLParam(r, "id")]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	fields, ok := readFields(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	c := s.collectionLocked(tokenOf(r), chi.URLParam(r, "collection"))
	stored, found := c.records[id]
	if found {
		_ = fields.Set("id", id)
		if created, ok := stored["created_at"]; ok {
			fields["created_at"] = created
		}
		_ = fields.Set("updated_at", wire.FormatTime(s.now()))
		c.put(id, fields)
	}
	s.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	c := s.collectionLocked(tokenOf(r), chi.URLParam(r, "collection"))
	_, found := c.records[id]
	c.remove(id)
	s.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	filters := map[string]string{}
	for k, v := range r.URL.Query() {
		if strings.HasSuffix(k, "_id") && len(v) > 0 {
			filters[k] = v[0]
		}
	}

	s.mu.Lock()
	c := s.collectionLocked(tokenOf(r), chi.URLParam(r, "collection"))
	out := []merge.Fields{}
	for _, id := range c.order {
		if matches(c.records[id], filters) {
			out = append(out, c.records[id])
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func matches(f merge.Fields, filters map[string]string) bool {
	for k, want := range filters {
		var got string
		if err := json.Unmarshal(f[k], &got); err != nil || got != want {
			return false
		}
	}
	return true
}

func readFields(w http.ResponseWriter, r *http.Request) (merge.Fields, bool) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return nil, false
	}
	fields, err := merge.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "body must be an object")
		return nil, false
	}
	return fields, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
