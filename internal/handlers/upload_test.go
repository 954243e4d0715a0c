package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	storage_mocks "chunklab/internal/storage/mocks"
	"chunklab/internal/upload"
)

// multipartBody builds a multipart form with a single "file" field.
func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name          string
		method        string
		filename      string
		content       string
		rawBody       string
		mockSetup     func(*storage_mocks.MockDocumentStore)
		wantStatus    int
		checkResponse func(*httptest.ResponseRecorder) bool
	}{
		{
			name:     "successful upload",
			method:   http.MethodPost,
			filename: "report.md",
			content:  "# Quarterly revenue",
			mockSetup: func(m *storage_mocks.MockDocumentStore) {
				m.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(w *httptest.ResponseRecorder) bool {
				var resp UploadResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					return false
				}
				return resp.Filename == "report.md" &&
					strings.HasSuffix(resp.Path, "report.md") &&
					resp.Size == int64(len("# Quarterly revenue"))
			},
		},
		{
			name:     "registry failure is advisory",
			method:   http.MethodPost,
			filename: "notes.md",
			content:  "# Notes",
			mockSetup: func(m *storage_mocks.MockDocumentStore) {
				m.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("db locked"))
			},
			wantStatus: http.StatusOK,
		},
		{
			name:     "unsupported file type",
			method:   http.MethodPost,
			filename: "malware.exe",
			content:  "MZ",
			mockSetup: func(m *storage_mocks.MockDocumentStore) {
				// No calls expected
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:    "missing file field",
			method:  http.MethodPost,
			rawBody: "not multipart",
			mockSetup: func(m *storage_mocks.MockDocumentStore) {
				// No calls expected
			},
			wantStatus: http.StatusBadRequest,
			checkResponse: func(w *httptest.ResponseRecorder) bool {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					return false
				}
				return resp.Error == "A file form field is required"
			},
		},
		{
			name:   "method not allowed",
			method: http.MethodGet,
			mockSetup: func(m *storage_mocks.MockDocumentStore) {
				// No calls expected
			},
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDocs := storage_mocks.NewMockDocumentStore(ctrl)
			tt.mockSetup(mockDocs)

			store, err := upload.NewStore(t.TempDir(), 0)
			if err != nil {
				t.Fatalf("upload.NewStore() error = %v", err)
			}
			handler := NewUploadHandler(store, mockDocs)

			var req *http.Request
			switch {
			case tt.filename != "":
				body, contentType := multipartBody(t, tt.filename, tt.content)
				req = httptest.NewRequest(tt.method, "/api/v1/upload", body)
				req.Header.Set("Content-Type", contentType)
			case tt.rawBody != "":
				req = httptest.NewRequest(tt.method, "/api/v1/upload", strings.NewReader(tt.rawBody))
			default:
				req = httptest.NewRequest(tt.method, "/api/v1/upload", nil)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}

			if tt.checkResponse != nil && !tt.checkResponse(w) {
				t.Error("ServeHTTP() response validation failed")
			}
		})
	}
}

func TestUploadHandler_RejectsOversize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDocs := storage_mocks.NewMockDocumentStore(ctrl)

	store, err := upload.NewStore(t.TempDir(), 10)
	if err != nil {
		t.Fatalf("upload.NewStore() error = %v", err)
	}
	handler := NewUploadHandler(store, mockDocs)

	body, contentType := multipartBody(t, "big.md", strings.Repeat("a", 64))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("ServeHTTP() status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}
