package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/common"
	"github.com/dmitrijs2005/meetscribe/internal/logging"
	"github.com/dmitrijs2005/meetscribe/internal/netx"
)

// Backend paths, relative to the configured base URL.
const (
	pathRegister        = "auth/register"
	pathLogin           = "auth/login"
	pathMe              = "auth/me"
	pathUsage           = "auth/usage"
	pathMigrateMeetings = "auth/migrate-meetings"
	pathLogout          = "auth/logout"
	pathProcessMeeting  = "process-meeting"
	pathExportDOCX      = "process-meeting/export-docx"
	pathExportPDF       = "process-meeting/export-pdf"
)

const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL    string
	http       *http.Client
	tokens     TokenStore
	logger     logging.Logger
	maxTries   uint
	newBackOff func() backoff.BackOff
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithRetry sets how often idempotent GETs are attempted and the backoff
// between attempts.
func WithRetry(maxTries uint, newBackOff func() backoff.BackOff) Option {
	return func(c *HTTPClient) {
		c.maxTries = maxTries
		c.newBackOff = newBackOff
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}

// NewHTTPClient returns a client for the backend at baseURL. tokens holds the
// bearer token between calls.
func NewHTTPClient(baseURL string, tokens TokenStore, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", baseURL)
	}

	c := &HTTPClient{
		baseURL:    u.String(),
		http:       &http.Client{Timeout: 60 * time.Second},
		tokens:     tokens,
		logger:     logging.Nop(),
		maxTries:   3,
		newBackOff: defaultBackOff,
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With("component", "backend")
	return c, nil
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	// token overrides the stored bearer token when set.
	token string
	auth  bool
	// unauthorized is the sentinel a 401 maps to.
	unauthorized error
}

func jsonRequest(method, path string, payload any) (request, error) {
	r := request{method: method, path: path, unauthorized: common.ErrUnauthorized}
	if payload == nil {
		return r, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return r, fmt.Errorf("encode %s request: %w", path, err)
	}
	r.body = bytes.NewReader(b)
	r.contentType = "application/json"
	return r, nil
}

// do sends r and returns the response of a 2xx answer. The caller closes the
// body.
func (c *HTTPClient) do(ctx context.Context, r request) (*http.Response, error) {
	endpoint, err := url.JoinPath(c.baseURL, r.path)
	if err != nil {
		return nil, fmt.Errorf("build %s url: %w", r.path, err)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, r.body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	token := r.token
	if token == "" && r.auth {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
		}
		c.logger.Debug(ctx, "backend unreachable", "path", r.path, "reason", netx.Reason(err), "error", err)
		return nil, fmt.Errorf("%w: %s %s: %s: %w", ErrUnavailable, r.method, r.path, netx.Reason(err), err)
	}
	c.logger.Debug(ctx, "backend request", "method", r.method, "path", r.path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, &APIError{
		StatusCode: resp.StatusCode,
		Message:    parseErrorMessage(body),
		Err:        statusError(resp.StatusCode, r.unauthorized),
	}
}

func (c *HTTPClient) doJSON(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrServer, r.path, err)
	}
	return nil
}

func transient(err error) bool {
	return (errors.Is(err, ErrUnavailable) || errors.Is(err, ErrServer)) && netx.Retryable(err)
}

// retry repeats an idempotent call while it fails transiently.
func retry[T any](ctx context.Context, c *HTTPClient, op func() (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !transient(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(c.newBackOff()), backoff.WithMaxTries(c.maxTries))
}

func (c *HTTPClient) authenticate(ctx context.Context, r request) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, r, &out); err != nil {
		return nil, err
	}
	if out.Token != "" {
		c.tokens.SetToken(out.Token)
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error) {
	r, err := jsonRequest(http.MethodPost, pathRegister, in)
	if err != nil {
		return nil, err
	}
	return c.authenticate(ctx, r)
}

func (c *HTTPClient) Login(ctx context.Context, in LoginRequest) (*AuthResponse, error) {
	r, err := jsonRequest(http.MethodPost, pathLogin, in)
	if err != nil {
		return nil, err
	}
	r.unauthorized = common.ErrInvalidCredentials
	return c.authenticate(ctx, r)
}

// Me restores the session of the stored token and stores the rotated token
// from the response.
func (c *HTTPClient) Me(ctx context.Context) (*AuthResponse, error) {
	if c.tokens.Token() == "" {
		return nil, common.ErrUnauthorized
	}
	return retry(ctx, c, func() (*AuthResponse, error) {
		r, _ := jsonRequest(http.MethodGet, pathMe, nil)
		r.auth = true
		return c.authenticate(ctx, r)
	})
}

func (c *HTTPClient) Usage(ctx context.Context) (*models.RemoteUsage, error) {
	return retry(ctx, c, func() (*models.RemoteUsage, error) {
		r, _ := jsonRequest(http.MethodGet, pathUsage, nil)
		r.auth = true

		var out models.RemoteUsage
		if err := c.doJSON(ctx, r, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func (c *HTTPClient) MigrateMeetings(ctx context.Context, meetings []models.HistoryItem) (int, error) {
	payload := struct {
		Meetings []MigratedMeeting `json:"meetings"`
	}{Meetings: make([]MigratedMeeting, 0, len(meetings))}
	for _, m := range meetings {
		payload.Meetings = append(payload.Meetings, NewMigratedMeeting(m))
	}

	r, err := jsonRequest(http.MethodPost, pathMigrateMeetings, payload)
	if err != nil {
		return 0, err
	}
	r.auth = true

	var out struct {
		Migrated int `json:"migrated"`
	}
	if err := c.doJSON(ctx, r, &out); err != nil {
		return 0, err
	}
	return out.Migrated, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	r, _ := jsonRequest(http.MethodPost, pathLogout, nil)
	r.token = token
	return c.doJSON(ctx, r, nil)
}

func (c *HTTPClient) ProcessMeeting(ctx context.Context, upload Upload) (*models.Analysis, error) {
	body, contentType, err := multipartUpload(upload)
	if err != nil {
		return nil, err
	}

	var out models.Analysis
	err = c.doJSON(ctx, request{
		method:       http.MethodPost,
		path:         pathProcessMeeting,
		body:         body,
		contentType:  contentType,
		auth:         upload.Authenticated,
		unauthorized: common.ErrUnauthorized,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Export(ctx context.Context, upload Upload, format models.ExportFormat) ([]byte, error) {
	path := pathExportDOCX
	if format == models.ExportPDF {
		path = pathExportPDF
	}

	body, contentType, err := multipartUpload(upload)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, request{
		method:       http.MethodPost,
		path:         path,
		body:         body,
		contentType:  contentType,
		auth:         upload.Authenticated,
		unauthorized: common.ErrUnauthorized,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s document: %w", ErrUnavailable, format, err)
	}
	return data, nil
}

// multipartUpload streams the audio file and language as multipart form
// fields "audio" and "language".
func multipartUpload(upload Upload) (io.Reader, string, error) {
	f, err := os.Open(upload.AudioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer f.Close()
		err := writeUpload(mw, f, filepath.Base(upload.AudioPath), upload.Language)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType(), nil
}

func writeUpload(mw *multipart.Writer, audio io.Reader, fileName, language string) error {
	ct := mime.TypeByExtension(filepath.Ext(fileName))
	if ct == "" {
		ct = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename=%q`, fileName))
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return err
	}
	return mw.WriteField("language", language)
}
