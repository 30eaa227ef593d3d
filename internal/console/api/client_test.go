package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logdeck/internal/common"
	"logdeck/internal/console/models"
	"logdeck/internal/logging"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, nil, 5*time.Second, logging.NewNopLogger())
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "pw", body["password"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"message": "ok",
			"token":   "T1",
			"user":    map[string]any{"id": "u-1", "username": "alice", "role": "ANALYST"},
		})
	}))

	resp, err := c.Login(context.Background(), "alice", "pw")

	require.NoError(t, err)
	assert.Equal(t, "T1", resp.Token)
	assert.Equal(t, models.RoleAnalyst, resp.User.Role)
}

func TestLogin_BadCredentialsSurfacesBackendMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{
			"error":   "Invalid credentials",
			"message": "Username or password is incorrect",
		})
	}))

	_, err := c.Login(context.Background(), "alice", "wrong")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Username or password is incorrect", apiErr.Message)
	assert.True(t, IsAuthError(err))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRegister_SendsRole(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/register", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ANALYST", body["role"])

		writeJSON(t, w, http.StatusCreated, map[string]any{
			"token": "T2",
			"user":  map[string]any{"id": "u-2", "username": body["username"], "role": body["role"]},
		})
	}))

	resp, err := c.Register(context.Background(), "bob", "bob@example.org", "pw", models.RoleAnalyst)

	require.NoError(t, err)
	assert.Equal(t, "T2", resp.Token)
	assert.Equal(t, "bob", resp.User.Username)
}

func TestMe_UnwrapsUserEnvelope(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/me", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"user": map[string]any{"id": "u-1", "username": "alice", "role": "ADMIN"},
		})
	}))

	user, err := c.Me(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestSearchLogs_FormatsDatesAndPaging(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/search", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "timeout", body["query"])
		assert.Equal(t, "ERROR", body["level"])
		assert.Equal(t, "2026-02-01T00:00:00Z", body["start_date"])
		assert.Equal(t, "", body["end_date"])
		assert.EqualValues(t, 50, body["size"])
		assert.EqualValues(t, 100, body["from"])

		writeJSON(t, w, http.StatusOK, models.SearchResult{
			Total: 1,
			Hits:  []models.LogEntry{{ID: "1", Level: "ERROR", Message: "timeout talking to db"}},
			Took:  3,
		})
	}))

	res, err := c.SearchLogs(context.Background(),
		models.SearchFilters{Query: "timeout", Level: "ERROR", StartDate: &start}, 50, 100)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "timeout talking to db", res.Hits[0].Message)
}

func TestUploadFile_SendsMultipart(t *testing.T) {
	var gotName string
	var gotContent []byte
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/upload", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotName = header.Filename
		gotContent, _ = io.ReadAll(file)

		writeJSON(t, w, http.StatusOK, models.UploadResponse{
			Filename:         header.Filename,
			DocumentsIndexed: 2,
		})
	}))

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("line1\nline2\n"), 0o600))

	resp, err := c.UploadFile(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "app.log", gotName)
	assert.Equal(t, "line1\nline2\n", string(gotContent))
	assert.Equal(t, 2, resp.DocumentsIndexed)
}

func TestUploadFile_MissingFile(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := c.UploadFile(context.Background(), filepath.Join(t.TempDir(), "absent.log"))
	require.Error(t, err)
}

func TestExportCSV_StreamsBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/export/csv", r.URL.Path)
		assert.Equal(t, "ERROR", r.URL.Query().Get("level"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("timestamp,level,message\n"))
	}))

	var buf bytes.Buffer
	n, err := c.ExportCSV(context.Background(), models.SearchFilters{Level: "ERROR"}, &buf)

	require.NoError(t, err)
	assert.EqualValues(t, buf.Len(), n)
	assert.Contains(t, buf.String(), "timestamp,level,message")
}

func TestFilesAndRecentSearches(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/files":
			writeJSON(t, w, http.StatusOK, []models.FileInfo{{Filename: "a.log", Size: 10}})
		case "/api/searches/recent":
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			writeJSON(t, w, http.StatusOK, []models.SearchFilters{{Query: "q1"}})
		default:
			http.NotFound(w, r)
		}
	}))

	files, err := c.Files(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.log", files[0].Filename)

	recent, err := c.RecentSearches(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "q1", recent[0].Query)
}

func TestDoJSON_UnreachableBackendWrapsErrUnavailable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil, 500*time.Millisecond, logging.NewNopLogger())

	err := c.Health(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestDecodeError_FallsBackToStatusText(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain text failure", http.StatusInternalServerError)
	}))

	err := c.Health(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Internal Server Error", apiErr.Message)
	assert.False(t, IsAuthError(err))
}
