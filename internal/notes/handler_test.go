package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"autonote-backend/internal/quota"
	"autonote-backend/internal/shared/server/middleware"
	local "autonote-backend/internal/shared/storage/object/local"
	"autonote-backend/internal/summarize"
)

type countingClient struct {
	calls int
}

func (c *countingClient) Summarize(_ context.Context, _ string) ([]string, error) {
	c.calls++
	return []string{"- a summarized point", "- another summarized point", "- a third point"}, nil
}

func (c *countingClient) Name() string { return "counting" }

func setupNotesRouter(t *testing.T, maxUploadBytes int64) (*gin.Engine, *countingClient) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client := &countingClient{}
	svc := NewService(
		NewMemoryRepo(),
		local.New(t.TempDir()),
		&summarize.Service{Client: client},
		quota.NewService(100),
		time.Hour,
	)
	handler := NewHandler(svc, maxUploadBytes)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ClientID())
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router, client
}

func multipartBody(t *testing.T, text string, fileName string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if text != "" {
		if err := w.WriteField("text", text); err != nil {
			t.Fatalf("write text field: %v", err)
		}
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(fileData); err != nil {
			t.Fatalf("write file data: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestCreateNoteFromText(t *testing.T) {
	router, client := setupNotesRouter(t, 10<<20)

	body, contentType := multipartBody(t, "A document about Go services. The main point is simplicity wins.", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if client.calls == 0 {
		t.Fatal("summarizer was not invoked")
	}

	var created struct {
		NoteID    string    `json:"noteId"`
		Status    string    `json:"status"`
		Bullets   []string  `json:"bullets"`
		Degraded  bool      `json:"degraded"`
		Formats   []string  `json:"formats"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.NoteID == "" {
		t.Fatal("expected noteId")
	}
	if created.Status != StatusReady {
		t.Fatalf("status = %q, want %q", created.Status, StatusReady)
	}
	if created.Degraded {
		t.Fatal("provider succeeded, note should not be degraded")
	}
	if len(created.Bullets) != 3 {
		t.Fatalf("bullets = %v", created.Bullets)
	}
	if len(created.Formats) != 4 {
		t.Fatalf("formats = %v", created.Formats)
	}
	if created.ExpiresAt.IsZero() {
		t.Fatal("expected expiresAt")
	}
}

func TestCreateNoteEmptyInput(t *testing.T) {
	router, _ := setupNotesRouter(t, 10<<20)

	body, contentType := multipartBody(t, "   ", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "empty_input") {
		t.Fatalf("expected empty_input code, got %s", resp.Body.String())
	}
}

func TestCreateNoteTooLarge(t *testing.T) {
	router, client := setupNotesRouter(t, 1<<10) // 1 KiB cap for the test

	big := bytes.Repeat([]byte("x"), 4<<10)
	body, contentType := multipartBody(t, "", "big.txt", big)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "payload_too_large") {
		t.Fatalf("expected payload_too_large code, got %s", resp.Body.String())
	}
	if client.calls != 0 {
		t.Fatalf("summarizer invoked %d times on oversize upload", client.calls)
	}
}

func TestCreateNoteUnsupportedFormat(t *testing.T) {
	router, _ := setupNotesRouter(t, 10<<20)

	body, contentType := multipartBody(t, "", "binary.bin", []byte{0x00, 0x01, 0x02, 0x03})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetNoteAndDownload(t *testing.T) {
	router, _ := setupNotesRouter(t, 10<<20)

	body, contentType := multipartBody(t, "The important part is the download flow works end to end.", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: %d", resp.Code)
	}

	var created struct {
		NoteID string `json:"noteId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, httptest.NewRequest(http.MethodGet, "/api/v1/notes/"+created.NoteID, nil))
	if getResp.Code != http.StatusOK {
		t.Fatalf("get: %d", getResp.Code)
	}

	dlResp := httptest.NewRecorder()
	router.ServeHTTP(dlResp, httptest.NewRequest(http.MethodGet, "/api/v1/notes/"+created.NoteID+"/download?format=md", nil))
	if dlResp.Code != http.StatusOK {
		t.Fatalf("download: %d: %s", dlResp.Code, dlResp.Body.String())
	}
	if got := dlResp.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/markdown") {
		t.Fatalf("content type = %q", got)
	}
	if cd := dlResp.Header().Get("Content-Disposition"); !strings.Contains(cd, ".md") {
		t.Fatalf("content disposition = %q", cd)
	}
	data, err := io.ReadAll(dlResp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Notes") {
		t.Fatalf("markdown body malformed:\n%s", data)
	}
}

func TestDownloadInvalidFormat(t *testing.T) {
	router, _ := setupNotesRouter(t, 10<<20)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/notes/some-id/download?format=exe", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetUnknownNote(t *testing.T) {
	router, _ := setupNotesRouter(t, 10<<20)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/notes/does-not-exist", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
