package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/customHttpClient"
	"github.com/akolanti/DocQA/internal/customHttpClient/qatest"
	"github.com/akolanti/DocQA/internal/data/store"
	"github.com/akolanti/DocQA/internal/notify"
	"github.com/akolanti/DocQA/internal/render"
	"github.com/go-chi/chi/v5"
)

const testSession = "session-under-test"

type fixture struct {
	fake     *qatest.Service
	sessions *notify.Registry
	router   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := qatest.NewService()
	t.Cleanup(fake.Close)

	cfg := config.Default()
	cfg.Service.BaseURL = fake.BaseURL()
	client, err := customHttpClient.NewClient(cfg.Service)
	if err != nil {
		t.Fatal(err)
	}
	renderer, err := render.New()
	if err != nil {
		t.Fatal(err)
	}
	sessions := notify.NewRegistry(time.Minute)
	h := NewHandler(client, store.InitInMemoryViewStore(time.Hour), sessions, renderer, cfg.UI)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), config.SESSION_ID_KEY, testSession)
			ctx = context.WithValue(ctx, config.TRACE_ID_KEY, "trace-test")
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/", h.Index)
	r.Get("/documents/list", h.DocumentsFragment)
	r.Post("/documents/upload", h.Upload)
	r.Get("/documents/{id}/delete", h.ConfirmDelete)
	r.Post("/documents/{id}/delete", h.Delete)
	r.Post("/qa/ask", h.Ask)
	r.Post("/qa/ask-direct", h.AskDirect)
	r.Get("/status", h.Status)
	r.Post("/notifications/dismiss", h.DismissError)

	return &fixture{fake: fake, sessions: sessions, router: r}
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (f *fixture) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) postFiles(t *testing.T, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = io.WriteString(part, content)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/documents/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) banner() string {
	msg, _ := f.sessions.For(testSession).Banner.Current()
	return msg
}

func expectRedirectHome(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("got %d to %q; want 303 to /", rec.Code, rec.Header().Get("Location"))
	}
}

func TestIndex_EmptyList(t *testing.T) {
	f := newFixture(t)
	rec := f.get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "No documents uploaded yet") || strings.Contains(body, `class="document-item"`) {
		t.Error("empty list should render only the placeholder")
	}
	if !strings.Contains(body, "healthy (fake-model)") {
		t.Error("health line missing")
	}
}

func TestIndex_ListFailureIsNotABanner(t *testing.T) {
	f := newFixture(t)
	f.fake.FailWith["GET /documents/list"] = qatest.Failure{Status: http.StatusInternalServerError}

	body := f.get("/").Body.String()
	if !strings.Contains(body, "Documents could not be loaded") {
		t.Error("load failure placeholder missing")
	}
	if f.banner() != "" || strings.Contains(body, `id="errorMessage"`) {
		t.Error("a failed list load must not raise the banner")
	}
}

func TestAsk_EmptyQuestionNeverCallsService(t *testing.T) {
	f := newFixture(t)
	rec := f.postForm("/qa/ask", url.Values{"question": {"   \t "}, "top_k": {"3"}})

	expectRedirectHome(t, rec)
	if f.fake.TotalHits() != 0 {
		t.Errorf("service was called %d times", f.fake.TotalHits())
	}
	if f.banner() != "Please enter a question" {
		t.Errorf("banner = %q", f.banner())
	}
}

func TestIndex_BannerCarriesRemainingTime(t *testing.T) {
	f := newFixture(t)
	expectRedirectHome(t, f.postForm("/qa/ask", url.Values{"question": {"  "}}))

	body := f.get("/").Body.String()
	m := regexp.MustCompile(`id="errorMessage"[^>]*data-hide-after="(\d+)"`).FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("banner has no hide delay: %s", body)
	}
	ms, _ := strconv.Atoi(m[1])
	if ms <= 0 || ms > int(time.Minute/time.Millisecond) {
		t.Errorf("hide delay = %dms, want within the banner duration", ms)
	}
	if !strings.Contains(body, `<div id="loadingIndicator" class="loading" hidden>`) {
		t.Error("idle loading indicator should be hidden")
	}
}

func TestIndex_SlowHealthDoesNotHoldPage(t *testing.T) {
	f := newFixture(t)
	f.fake.Delay["GET /qa/health"] = 10 * time.Second

	start := time.Now()
	rec := f.get("/")
	if took := time.Since(start); took > 5*time.Second {
		t.Errorf("page took %v behind a stuck health route", took)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "unreachable") {
		t.Errorf("status = %d; health should read unreachable", rec.Code)
	}
}

func TestAsk_MalformedFormShowsFallback(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/qa/ask", strings.NewReader("question=%zz&top_k=3"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	expectRedirectHome(t, rec)
	if f.fake.TotalHits() != 0 {
		t.Errorf("service was called %d times", f.fake.TotalHits())
	}
	if f.banner() != "Failed to get answer" {
		t.Errorf("banner = %q, want the generic fallback", f.banner())
	}
}

func TestAskDirect_OversizedFormShowsFallback(t *testing.T) {
	f := newFixture(t)
	text := strings.Repeat("a", 11<<20)
	rec := f.postForm("/qa/ask-direct", url.Values{"text": {text}, "question": {"why?"}})

	expectRedirectHome(t, rec)
	if f.fake.TotalHits() != 0 {
		t.Errorf("service was called %d times", f.fake.TotalHits())
	}
	if f.banner() != "Failed to get answer" {
		t.Errorf("banner = %q", f.banner())
	}
}

func TestAskDirect_RequiresTextAndQuestion(t *testing.T) {
	f := newFixture(t)
	expectRedirectHome(t, f.postForm("/qa/ask-direct", url.Values{"text": {"  "}, "question": {"why?"}}))

	if f.fake.TotalHits() != 0 {
		t.Errorf("service was called %d times", f.fake.TotalHits())
	}
	if f.banner() != "Please enter both text and question" {
		t.Errorf("banner = %q", f.banner())
	}
	if !strings.Contains(f.get("/").Body.String(), ">  </textarea>") {
		t.Error("form input should survive the redirect")
	}
}

func TestAsk_RendersAnswers(t *testing.T) {
	f := newFixture(t)
	f.fake.Answers = []api.AnswerResult{
		{Answer: "Gophers", ConfidenceScore: 0.75, SourceDocument: "go.pdf", SourceText: strings.Repeat("x", 250)},
		{Answer: "Maybe", ConfidenceScore: 0.4, SourceDocument: "b.txt", SourceText: "short"},
	}

	expectRedirectHome(t, f.postForm("/qa/ask", url.Values{"question": {"  Who? "}, "top_k": {"abc"}}))

	sent := f.fake.LastAsk()
	if sent["question"] != "Who?" || sent["top_k"] != float64(3) {
		t.Errorf("request body = %v", sent)
	}

	body := f.get("/").Body.String()
	for _, want := range []string{
		"<strong>Answer 1:</strong> Gophers",
		`class="answer-card high-confidence"`,
		"Confidence: 75.0%",
		`class="answer-card low-confidence"`,
		strings.Repeat("x", 200) + `..."`,
		"Processing time: 0.042s",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if f.sessions.For(testSession).Loading.Visible() {
		t.Error("loading indicator left on")
	}
}

func TestAsk_ZeroAnswers(t *testing.T) {
	f := newFixture(t)
	f.postForm("/qa/ask-direct", url.Values{"text": {"Go is fun."}, "question": {"What?"}, "top_k": {"2"}})

	if f.fake.LastAsk()["text"] != "Go is fun." || f.fake.LastAsk()["top_k"] != float64(2) {
		t.Errorf("request body = %v", f.fake.LastAsk())
	}
	body := f.get("/").Body.String()
	if !strings.Contains(body, "No answers found. Try different question or documents.") || strings.Contains(body, "answer-card") {
		t.Error("zero answers should render only the warning")
	}
}

func TestAsk_ServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		failure qatest.Failure
		want    string
	}{
		{"detail", qatest.Failure{Status: http.StatusBadRequest, Detail: "No documents uploaded. Please upload documents first."}, "No documents uploaded. Please upload documents first."},
		{"no body", qatest.Failure{Status: http.StatusInternalServerError}, "Failed to get answer"},
		{"array detail", qatest.Failure{Status: http.StatusUnprocessableEntity, Raw: `{"detail":[{"msg":"field required"}]}`}, "Failed to get answer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.fake.FailWith["POST /qa/ask"] = tt.failure
			f.postForm("/qa/ask", url.Values{"question": {"q"}})
			if f.banner() != tt.want {
				t.Errorf("banner = %q; want %q", f.banner(), tt.want)
			}
			if f.sessions.For(testSession).Loading.Visible() {
				t.Error("loading indicator left on after failure")
			}
		})
	}
}

func TestUpload(t *testing.T) {
	t.Run("Unsupported batch is rejected locally", func(t *testing.T) {
		f := newFixture(t)
		expectRedirectHome(t, f.postFiles(t, map[string]string{"notes.md": "# hi"}))
		if len(f.fake.Uploads()) != 0 {
			t.Error("nothing should have been uploaded")
		}
		if f.banner() != "Please upload PDF, DOCX, or TXT files only" {
			t.Errorf("banner = %q", f.banner())
		}
	})

	t.Run("Supported files are forwarded", func(t *testing.T) {
		f := newFixture(t)
		expectRedirectHome(t, f.postFiles(t, map[string]string{"Report.PDF": "pdf", "skip.md": "md"}))
		uploads := f.fake.Uploads()
		if len(uploads) != 1 || uploads[0].Filename != "Report.PDF" || uploads[0].Content != "pdf" {
			t.Fatalf("uploads = %+v", uploads)
		}
		if uploads[0].TraceId != "trace-test" {
			t.Errorf("trace id not forwarded: %q", uploads[0].TraceId)
		}
		body := f.get("/").Body.String()
		if !strings.Contains(body, "📄 Report.PDF") || !strings.Contains(body, "Mar 5, 02:07 PM • 1 sentences") {
			t.Error("uploaded document not listed")
		}
	})

	t.Run("Service failure raises the banner", func(t *testing.T) {
		f := newFixture(t)
		f.fake.FailWith["POST /documents/upload"] = qatest.Failure{Status: http.StatusBadRequest, Detail: "Unsupported file type"}
		f.postFiles(t, map[string]string{"a.txt": "a"})
		if f.banner() != "Upload failed: Unsupported file type" {
			t.Errorf("banner = %q", f.banner())
		}
	})

	t.Run("Not multipart", func(t *testing.T) {
		f := newFixture(t)
		f.postForm("/documents/upload", url.Values{"file": {"x"}})
		if f.banner() != "Upload failed: File too large or bad request" {
			t.Errorf("banner = %q", f.banner())
		}
	})
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	f.fake.AddDocument(api.DocumentSummary{DocId: "d1", Filename: "a <b>.txt", UploadTime: "2024-03-05T14:07:00", NumSentences: 2})

	confirm := f.get("/documents/d1/delete?name=" + url.QueryEscape("a <b>.txt")).Body.String()
	if !strings.Contains(confirm, `Are you sure you want to delete "a &lt;b&gt;.txt"?`) {
		t.Errorf("confirm page: %s", confirm)
	}
	if f.fake.Hits("DELETE /documents/{id}") != 0 {
		t.Fatal("showing the confirmation must not delete")
	}

	expectRedirectHome(t, f.postForm("/documents/d1/delete", url.Values{}))
	if f.fake.Hits("DELETE /documents/{id}") != 0 {
		t.Fatal("unconfirmed delete reached the service")
	}

	expectRedirectHome(t, f.postForm("/documents/d1/delete", url.Values{"confirm": {"yes"}}))
	if f.fake.Hits("DELETE /documents/{id}") != 1 {
		t.Fatal("confirmed delete did not reach the service")
	}
	if !strings.Contains(f.get("/documents/list").Body.String(), "No documents uploaded yet") {
		t.Error("list not refreshed after delete")
	}

	f.postForm("/documents/d1/delete", url.Values{"confirm": {"yes"}})
	if f.banner() != "Delete failed: Document not found" {
		t.Errorf("banner = %q", f.banner())
	}
}

func TestStatusAndDismiss(t *testing.T) {
	f := newFixture(t)
	session := f.sessions.For(testSession)
	token := session.BeginLoading()
	session.ShowError("boom")

	var status api.StatusResponse
	if err := json.NewDecoder(f.get("/status").Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if !status.Loading || status.InFlight != 1 || status.Error != "boom" {
		t.Errorf("status = %+v", status)
	}

	session.EndLoading(token)
	expectRedirectHome(t, f.postForm("/notifications/dismiss", url.Values{}))
	if f.banner() != "" {
		t.Error("banner still shown after dismiss")
	}
}
