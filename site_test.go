package plugdj_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hilthontt/plugdj"
	"github.com/hilthontt/plugdj/option"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// site fakes the plug.dj REST endpoints. Responses default to an empty ok
// envelope; routes overrides them per "METHOD /path".
type site struct {
	srv *httptest.Server

	mu       sync.Mutex
	requests []recorded
	routes   map[string]http.HandlerFunc
}

func newSite(t *testing.T) *site {
	t.Helper()
	s := &site{routes: map[string]http.HandlerFunc{}}
	s.srv = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *site) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(strings.NewReader(string(body)))

	s.mu.Lock()
	s.requests = append(s.requests, recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   string(body),
	})
	h, ok := s.routes[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if ok {
		h(w, r)
		return
	}
	writeEnvelope(w, http.StatusOK, "ok", []any{})
}

func (s *site) handle(route string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[route] = h
}

func (s *site) recorded() []recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recorded(nil), s.requests...)
}

func (s *site) last() recorded {
	reqs := s.recorded()
	if len(reqs) == 0 {
		return recorded{}
	}
	return reqs[len(reqs)-1]
}

func (s *site) client(opts ...option.RequestOption) *plugdj.Client {
	base := []option.RequestOption{
		option.WithBaseURL(s.srv.URL + "/_/"),
		option.WithSocketURL("ws" + strings.TrimPrefix(s.srv.URL, "http") + "/socket"),
		option.WithRetryDelay(time.Millisecond),
	}
	return plugdj.NewClient(append(base, opts...)...)
}

func writeEnvelope(w http.ResponseWriter, code int, status string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": status, "data": data, "meta": map[string]any{}})
}

func okWith(data any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, "ok", data)
	}
}

func page(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, body)
	}
}
