// Package api is the console's gateway to the log-management REST backend.
//
// Every request goes out through the authorizing transport, so callers never
// deal with credentials here; they only see typed payloads and errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"logdeck/internal/common"
	"logdeck/internal/console/models"
	"logdeck/internal/logging"
)

// maxUploadSize is the client-side cap on log-file uploads (100 MB), matching
// the backend's limit so oversized files fail before any bytes move.
const maxUploadSize = 100 << 20

// Client issues requests against the backend. A single instance is shared by
// the auth gateway and all views.
type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// NewClient builds a Client over the given round tripper (normally the
// authorizing transport).
func NewClient(baseURL string, rt http.RoundTripper, timeout time.Duration, log logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: rt, Timeout: timeout},
		log:     log,
	}
}

// AuthResponse is the payload of the login and register endpoints.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

type registerRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account and returns the issued credential and profile.
func (c *Client) Register(ctx context.Context, username, email, password string, role models.Role) (*AuthResponse, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register",
		registerRequest{Username: username, Email: email, Password: password, Role: role}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns the issued credential and profile.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login",
		loginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the profile belonging to the current credential.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// DashboardStats fetches the aggregation payload feeding the dashboard view.
func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var out models.DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SystemStats fetches the health/status of the backend's storage systems.
func (c *Client) SystemStats(ctx context.Context) (*models.SystemStats, error) {
	var out models.SystemStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type searchRequest struct {
	Query     string `json:"query"`
	Level     string `json:"level"`
	Service   string `json:"service"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Size      int    `json:"size"`
	From      int    `json:"from"`
}

// SearchLogs runs one page of a filtered search against the log index.
func (c *Client) SearchLogs(ctx context.Context, f models.SearchFilters, size, from int) (*models.SearchResult, error) {
	req := searchRequest{
		Query:   f.Query,
		Level:   f.Level,
		Service: f.Service,
		Size:    size,
		From:    from,
	}
	if f.StartDate != nil {
		req.StartDate = f.StartDate.UTC().Format(time.RFC3339)
	}
	if f.EndDate != nil {
		req.EndDate = f.EndDate.UTC().Format(time.RFC3339)
	}

	var out models.SearchResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/search", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LogDetails fetches a single log document by id.
func (c *Client) LogDetails(ctx context.Context, id string) (*models.LogEntry, error) {
	var out models.LogEntry
	if err := c.doJSON(ctx, http.MethodGet, "/api/logs/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Files lists previously uploaded log files.
func (c *Client) Files(ctx context.Context) ([]models.FileInfo, error) {
	var out []models.FileInfo
	if err := c.doJSON(ctx, http.MethodGet, "/api/files", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadFile streams the log file at path to the backend as a multipart
// request. Files over the upload cap are rejected locally.
func (c *Client) UploadFile(ctx context.Context, path string) (*models.UploadResponse, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > maxUploadSize {
		return nil, fmt.Errorf("%s is %d bytes, exceeding the %d byte upload limit", path, info.Size(), int64(maxUploadSize))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var out models.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &out, nil
}

// ExportCSV streams a CSV export of the filtered search into w, returning
// the number of bytes written.
func (c *Client) ExportCSV(ctx context.Context, f models.SearchFilters, w io.Writer) (int64, error) {
	params := url.Values{}
	if f.Query != "" {
		params.Set("q", f.Query)
	}
	if f.Level != "" {
		params.Set("level", f.Level)
	}
	if f.Service != "" {
		params.Set("service", f.Service)
	}
	if f.StartDate != nil {
		params.Set("start_date", f.StartDate.UTC().Format(time.RFC3339))
	}
	if f.EndDate != nil {
		params.Set("end_date", f.EndDate.UTC().Format(time.RFC3339))
	}

	endpoint := c.baseURL + "/api/export/csv"
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, decodeError(resp)
	}
	return io.Copy(w, resp.Body)
}

// SaveSearch records the filters in the backend's search history.
func (c *Client) SaveSearch(ctx context.Context, f models.SearchFilters) error {
	return c.doJSON(ctx, http.MethodPost, "/api/searches/save", f, nil)
}

// RecentSearches returns the backend's recent search history.
func (c *Client) RecentSearches(ctx context.Context, limit int) ([]models.SearchFilters, error) {
	var out []models.SearchFilters
	path := "/api/searches/recent?limit=" + strconv.Itoa(limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health probes the backend's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/health", nil, nil)
}

// doJSON performs one JSON request/response cycle. A nil out discards the
// response body; non-2xx statuses become an *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
