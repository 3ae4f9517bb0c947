package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/integrada/portal/store"
)

const (
	SearchEndpoint = "/search"
	BearerToken    = "sheetdb-token"
)

// SheetDBServer emulates the SheetDB search endpoint over in-memory sheets.
type SheetDBServer struct {
	*httptest.Server

	mu       sync.Mutex
	sheets   map[string][]store.Row
	failing  map[string]bool
	requests atomic.Int64
	lastAuth atomic.Value
}

func (s *SheetDBServer) SetRows(sheet string, rows ...store.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheet] = rows
}

func (s *SheetDBServer) AddRows(sheet string, rows ...store.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheet] = append(s.sheets[sheet], rows...)
}

// SetFailing makes every search of the sheet respond with an internal server error.
func (s *SheetDBServer) SetFailing(sheet string, failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[sheet] = failing
}

func (s *SheetDBServer) Requests() int64 {
	return s.requests.Load()
}

// LastAuthorization returns the authorization header of the most recent request.
func (s *SheetDBServer) LastAuthorization() string {
	v, _ := s.lastAuth.Load().(string)
	return v
}

func (s *SheetDBServer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets = make(map[string][]store.Row)
	s.failing = make(map[string]bool)
	s.requests.Store(0)
}

func ServerStub() *SheetDBServer {
	stub := &SheetDBServer{}
	stub.Reset()
	stub.Server = httptest.NewServer(http.HandlerFunc(stub.handle))
	return stub
}

func (s *SheetDBServer) handle(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)
	s.lastAuth.Store(r.Header.Get("Authorization"))
	if r.Method != http.MethodGet || r.URL.Path != SearchEndpoint {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	query := r.URL.Query()
	sheet := query.Get("sheet")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing[sheet] {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	result := make([]map[string]string, 0)
	for _, row := range s.sheets[sheet] {
		matched := true
		for key := range query {
			if key == "sheet" {
				continue
			}
			if !strings.EqualFold(row[key], query.Get(key)) {
				matched = false
				break
			}
		}
		if matched {
			result = append(result, row)
		}
	}

	body, err := json.Marshal(result)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
