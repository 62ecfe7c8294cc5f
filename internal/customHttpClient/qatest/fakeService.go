// Package qatest runs an in-process stand-in for the QA service.
package qatest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/api"
)

// Upload is one file the fake service received.
type Upload struct {
	Filename string
	Content  string
	TraceId  string
}

// Service keeps documents in memory and answers every question with Answers.
type Service struct {
	*httptest.Server

	mu        sync.Mutex
	hits      map[string]int
	documents []api.DocumentSummary
	uploads   []Upload
	lastAsk   map[string]any

	Answers []api.AnswerResult
	// FailWith makes the route keyed "METHOD /path" answer with the status and detail.
	FailWith map[string]Failure
	// Delay holds the route back until the duration passes or the caller gives up.
	Delay map[string]time.Duration
}

type Failure struct {
	Status int
	Detail string
	Raw    string
}

func NewService() *Service {
	s := &Service{
		hits:     map[string]int{},
		FailWith: map[string]Failure{},
		Delay:    map[string]time.Duration{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// BaseURL is the API root to hand to the client.
func (s *Service) BaseURL() string {
	return s.URL + "/api"
}

func (s *Service) AddDocument(doc api.DocumentSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, doc)
}

func (s *Service) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

func (s *Service) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

func (s *Service) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

func (s *Service) LastAsk() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAsk
}

func (s *Service) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	route := r.Method + " " + path
	if r.Method == http.MethodDelete && strings.HasPrefix(path, "/documents/") {
		route = "DELETE /documents/{id}"
	}

	s.mu.Lock()
	s.hits[route]++
	failure, failing := s.FailWith[route]
	delay := s.Delay[route]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if failing {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(failure.Status)
		if failure.Raw != "" {
			_, _ = io.WriteString(w, failure.Raw)
			return
		}
		if failure.Detail != "" {
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": failure.Detail})
		}
		return
	}

	switch route {
	case "POST /documents/upload":
		s.upload(w, r)
	case "GET /documents/list":
		s.mu.Lock()
		docs := append([]api.DocumentSummary{}, s.documents...)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, api.DocumentListResponse{Documents: docs, TotalCount: len(docs)})
	case "DELETE /documents/{id}":
		s.delete(w, strings.TrimPrefix(path, "/documents/"))
	case "GET /documents/stats":
		s.mu.Lock()
		n := len(s.documents)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"total_documents": n})
	case "POST /documents/clear":
		s.mu.Lock()
		s.documents = nil
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, api.MessageResponse{Message: "All documents cleared"})
	case "POST /qa/ask", "POST /qa/ask-direct":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.mu.Lock()
		s.lastAsk = body
		answers := append([]api.AnswerResult{}, s.Answers...)
		s.mu.Unlock()
		question, _ := body["question"].(string)
		writeJSON(w, http.StatusOK, api.QAResponse{Question: question, Answers: answers, ProcessingTime: 0.042})
	case "GET /qa/health":
		writeJSON(w, http.StatusOK, api.HealthResponse{Status: "healthy", QAEngine: "ready", Model: "fake-model"})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

func (s *Service) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "file field missing"})
		return
	}
	defer file.Close()
	content, _ := io.ReadAll(file)

	s.mu.Lock()
	id := "doc-" + header.Filename
	s.uploads = append(s.uploads, Upload{Filename: header.Filename, Content: string(content), TraceId: r.Header.Get("X-Trace-Id")})
	s.documents = append(s.documents, api.DocumentSummary{
		DocId:        id,
		Filename:     header.Filename,
		UploadTime:   "2024-03-05T14:07:00.123456",
		TextLength:   len(content),
		NumSentences: 1,
	})
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, api.UploadResponse{Message: "Document uploaded and processed successfully", DocId: id, Filename: header.Filename})
}

func (s *Service) delete(w http.ResponseWriter, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, doc := range s.documents {
		if doc.DocId == id {
			s.documents = append(s.documents[:i], s.documents[i+1:]...)
			writeJSON(w, http.StatusOK, api.MessageResponse{Message: "Document deleted successfully", DocId: id})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Document not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
