package customHttpClient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

// maximum error body we bother to read
const maxErrorBody = 64 << 10

// Client talks to the QA service. It holds no state besides the pooled
// connections, so one instance is shared by every handler.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger_i.Logger
}

func NewClient(cfg config.ServiceConfig) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q needs a scheme and host", cfg.BaseURL)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: newHttpClient(cfg),
		logger:     logger_i.NewLogger("QAClient"),
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// UploadDocument sends one file as multipart field "file".
func (c *Client) UploadDocument(ctx context.Context, filename string, content io.Reader) (api.UploadResponse, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return api.UploadResponse{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err = io.Copy(part, content); err != nil {
		return api.UploadResponse{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if err = form.Close(); err != nil {
		return api.UploadResponse{}, fmt.Errorf("close multipart form: %w", err)
	}

	var res api.UploadResponse
	err = c.do(ctx, "upload", http.MethodPost, "/documents/upload", &body, form.FormDataContentType(), &res)
	return res, err
}

func (c *Client) ListDocuments(ctx context.Context) (api.DocumentListResponse, error) {
	var res api.DocumentListResponse
	err := c.do(ctx, "list", http.MethodGet, "/documents/list", nil, "", &res)
	if res.Documents == nil {
		res.Documents = []api.DocumentSummary{}
	}
	return res, err
}

func (c *Client) DeleteDocument(ctx context.Context, docId string) error {
	if docId == "" {
		return api.NewValidationError("document id is required")
	}
	return c.do(ctx, "delete", http.MethodDelete, "/documents/"+url.PathEscape(docId), nil, "", nil)
}

// Ask answers a question against the stored documents.
func (c *Client) Ask(ctx context.Context, req api.QuestionRequest) (api.QAResponse, error) {
	return c.askJSON(ctx, "ask", "/qa/ask", req)
}

// AskDirect answers a question against text that is not stored.
func (c *Client) AskDirect(ctx context.Context, req api.DirectTextRequest) (api.QAResponse, error) {
	return c.askJSON(ctx, "ask_direct", "/qa/ask-direct", req)
}

func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	res := map[string]any{}
	err := c.do(ctx, "stats", http.MethodGet, "/documents/stats", nil, "", &res)
	return res, err
}

func (c *Client) ClearDocuments(ctx context.Context) (api.MessageResponse, error) {
	var res api.MessageResponse
	err := c.do(ctx, "clear", http.MethodPost, "/documents/clear", nil, "", &res)
	return res, err
}

func (c *Client) Health(ctx context.Context) (api.HealthResponse, error) {
	var res api.HealthResponse
	err := c.do(ctx, "health", http.MethodGet, "/qa/health", nil, "", &res)
	return res, err
}

func (c *Client) askJSON(ctx context.Context, op string, path string, payload any) (api.QAResponse, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return api.QAResponse{}, fmt.Errorf("marshal %s request: %w", op, err)
	}
	var res api.QAResponse
	err = c.do(ctx, op, http.MethodPost, path, bytes.NewReader(data), "application/json", &res)
	if res.Answers == nil {
		res.Answers = []api.AnswerResult{}
	}
	return res, err
}

func (c *Client) do(ctx context.Context, op string, method string, path string, body io.Reader, contentType string, out any) (err error) {
	log := c.logger.WithContext(ctx).With("operation", op)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics(op, err, time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if trace := config.TraceID(ctx); trace != "" {
		req.Header.Set(config.TraceHeader, trace)
	}

	log.Debug("calling QA service", "method", method, "path", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("QA service unreachable", "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serviceErr := &api.ServiceError{Operation: op, StatusCode: resp.StatusCode}
		var errBody api.ErrorResponse
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&errBody); decodeErr == nil {
			serviceErr.Detail = errBody.Message()
		}
		log.Warn("QA service returned an error", "status", resp.StatusCode, "detail", serviceErr.Detail)
		return serviceErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
