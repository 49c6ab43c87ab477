package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"songshelf/internal/app/songs"
	"songshelf/internal/models"
)

type stubSongService struct {
	uploadResponse []models.Song
	uploadErr      error
	lastUpload     songs.Upload
	lastContent    string
	uploadCalled   bool

	listResponse []models.Song
	listErr      error
	lastOrder    models.SortOrder

	deleteCount int64
	deleteErr   error
}

func (s *stubSongService) Upload(ctx context.Context, upload songs.Upload) ([]models.Song, error) {
	s.uploadCalled = true
	s.lastUpload = upload
	if upload.Content != nil {
		b, _ := io.ReadAll(upload.Content)
		s.lastContent = string(b)
	}
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	return s.uploadResponse, nil
}

func (s *stubSongService) List(ctx context.Context, order models.SortOrder) ([]models.Song, error) {
	s.lastOrder = order
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listResponse, nil
}

func (s *stubSongService) DeleteAll(ctx context.Context) (int64, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	return s.deleteCount, nil
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestHandleUploadSuccess(t *testing.T) {
	stub := &stubSongService{
		uploadResponse: []models.Song{{SongName: "imagine", Band: "john lennon", Year: 1971}},
	}
	server := New(stub)

	csv := "Song Name;Band;Year\nImagine;John Lennon;1971\n"
	body, contentType := multipartBody(t, "file", "songs.csv", csv)
	req := httptest.NewRequest(http.MethodPost, "/api/songs/upload", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if stub.lastUpload.Filename != "songs.csv" || stub.lastContent != csv {
		t.Fatalf("unexpected upload: name=%q content=%q", stub.lastUpload.Filename, stub.lastContent)
	}
	if stub.lastUpload.Size != int64(len(csv)) {
		t.Fatalf("expected size %d, got %d", len(csv), stub.lastUpload.Size)
	}

	var payload struct {
		Message string        `json:"message"`
		Count   int           `json:"count"`
		Data    []models.Song `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Count != 1 || len(payload.Data) != 1 || payload.Data[0].Band != "john lennon" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestHandleUploadMissingFile(t *testing.T) {
	stub := &stubSongService{uploadErr: songs.ErrNoFile}
	server := New(stub)

	body, contentType := multipartBody(t, "other", "songs.csv", "x")
	req := httptest.NewRequest(http.MethodPost, "/songs/upload", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if !stub.uploadCalled || stub.lastUpload.Content != nil {
		t.Fatalf("expected service call without content, got %#v", stub.lastUpload)
	}
}

func TestHandleUploadNotMultipart(t *testing.T) {
	stub := &stubSongService{uploadErr: songs.ErrNoFile}
	server := New(stub)

	req := httptest.NewRequest(http.MethodPost, "/songs/upload", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	var payload errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error != songs.ErrNoFile.Message {
		t.Fatalf("unexpected error message %q", payload.Error)
	}
}

func TestHandleUploadRequestTooLarge(t *testing.T) {
	stub := &stubSongService{}
	server := New(stub)

	body, contentType := multipartBody(t, "file", "songs.csv", strings.Repeat("a", maxUploadRequestBytes))
	req := httptest.NewRequest(http.MethodPost, "/songs/upload", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if stub.uploadCalled {
		t.Fatalf("service should not be called for oversized request")
	}
}

func TestHandleUploadErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantRow    int
		wantError  string
	}{
		{
			name:       "row error",
			err:        &songs.InputError{Message: "Invalid year at row 2.", Row: 2},
			wantStatus: http.StatusBadRequest,
			wantRow:    2,
			wantError:  "Invalid year at row 2.",
		},
		{
			name:       "file type",
			err:        songs.ErrFileType,
			wantStatus: http.StatusBadRequest,
			wantError:  songs.ErrFileType.Message,
		},
		{
			name:       "storage",
			err:        fmt.Errorf("replace songs: %w: %w", songs.ErrStorage, errors.New("pq: password authentication failed")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to save songs",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			server := New(&stubSongService{uploadErr: tc.err})

			body, contentType := multipartBody(t, "file", "songs.csv", "Song Name;Band;Year\n")
			req := httptest.NewRequest(http.MethodPost, "/api/songs/upload", body)
			req.Header.Set("Content-Type", contentType)

			rr := httptest.NewRecorder()
			server.Routes().ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rr.Code)
			}
			var payload errorResponse
			if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if payload.Error != tc.wantError || payload.Row != tc.wantRow {
				t.Fatalf("unexpected error payload: %#v", payload)
			}
		})
	}
}

func TestHandleListSongs(t *testing.T) {
	stub := &stubSongService{
		listResponse: []models.Song{
			{SongName: "roygbiv", Band: "boards of canada", Year: 1998},
			{SongName: "teardrop", Band: "massive attack", Year: 1998},
		},
	}
	server := New(stub)

	req := httptest.NewRequest(http.MethodGet, "/songs", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if stub.lastOrder != models.SortAscending {
		t.Fatalf("expected default ascending order, got %q", stub.lastOrder)
	}

	var payload struct {
		Data  []models.Song `json:"data"`
		Count int           `json:"count"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Count != 2 || payload.Data[1].SongName != "teardrop" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestHandleListSongsDescending(t *testing.T) {
	stub := &stubSongService{listResponse: []models.Song{}}
	server := New(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/songs?order=desc", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if stub.lastOrder != models.SortDescending {
		t.Fatalf("expected descending order, got %q", stub.lastOrder)
	}
	if !strings.Contains(rr.Body.String(), `"data":[]`) {
		t.Fatalf("expected empty data array, got %s", rr.Body.String())
	}
}

func TestHandleListSongsBadOrder(t *testing.T) {
	server := New(&stubSongService{})

	req := httptest.NewRequest(http.MethodGet, "/songs?order=sideways", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleListSongsStorageError(t *testing.T) {
	server := New(&stubSongService{listErr: songs.ErrStorage})

	req := httptest.NewRequest(http.MethodGet, "/songs", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), songs.ErrStorage.Error()) {
		t.Fatalf("storage details leaked: %s", rr.Body.String())
	}
}

func TestHandleDeleteSongs(t *testing.T) {
	server := New(&stubSongService{deleteCount: 3})

	req := httptest.NewRequest(http.MethodDelete, "/api/songs", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var payload deleteSongsResponse
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Count != 3 {
		t.Fatalf("expected count 3, got %d", payload.Count)
	}
}

func TestHandleDeleteSongsStorageError(t *testing.T) {
	server := New(&stubSongService{deleteErr: songs.ErrStorage})

	req := httptest.NewRequest(http.MethodDelete, "/songs", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server := New(&stubSongService{})

	req := httptest.NewRequest(http.MethodPut, "/songs", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	server := New(&stubSongService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || rr.Body.String() != "OK" {
		t.Fatalf("unexpected health response: %d %q", rr.Code, rr.Body.String())
	}
}
