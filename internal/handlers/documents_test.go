package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"chunklab/internal/storage"
	storage_mocks "chunklab/internal/storage/mocks"
)

func TestDocumentsHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uploadedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	ranAt := time.Date(2026, 3, 14, 9, 45, 0, 0, time.UTC)

	mockDocs := storage_mocks.NewMockDocumentStore(ctrl)
	mockRuns := storage_mocks.NewMockRunStore(ctrl)

	mockDocs.EXPECT().List(gomock.Any()).Return([]storage.DocumentRecord{
		{
			ID:          "doc-1",
			Name:        "report.pdf",
			Path:        "/uploads/report.pdf",
			ContentHash: "abc123",
			SizeBytes:   2048,
			UploadedAt:  uploadedAt,
		},
	}, nil)
	mockRuns.EXPECT().ListByDocument(gomock.Any(), "doc-1").Return([]storage.RunRecord{
		{
			ID:         "run-1",
			DocumentID: "doc-1",
			Strategy:   "semantic",
			Collection: "semantic_report_pdf",
			ChunkCount: 42,
			Extractor:  "pdf",
			DurationMS: 1300,
			CreatedAt:  ranAt,
		},
	}, nil)

	handler := NewDocumentsHandler(mockDocs, mockRuns)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, http.StatusOK)
	}

	var resp DocumentsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Documents) != 1 {
		t.Fatalf("ServeHTTP() returned %d documents, want 1", len(resp.Documents))
	}

	doc := resp.Documents[0]
	if doc.ID != "doc-1" || doc.Name != "report.pdf" || doc.SizeBytes != 2048 {
		t.Errorf("document = %+v", doc)
	}
	if doc.UploadedAt != "2026-03-14T09:30:00Z" {
		t.Errorf("UploadedAt = %q, want RFC 3339 UTC", doc.UploadedAt)
	}
	if len(doc.Runs) != 1 {
		t.Fatalf("document has %d runs, want 1", len(doc.Runs))
	}
	run := doc.Runs[0]
	if run.Strategy != "semantic" || run.ChunkCount != 42 || run.Collection != "semantic_report_pdf" {
		t.Errorf("run = %+v", run)
	}
	if run.CreatedAt != "2026-03-14T09:45:00Z" {
		t.Errorf("run CreatedAt = %q, want RFC 3339 UTC", run.CreatedAt)
	}
}

func TestDocumentsHandler_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name       string
		method     string
		mockSetup  func(*storage_mocks.MockDocumentStore, *storage_mocks.MockRunStore)
		wantStatus int
	}{
		{
			name:   "method not allowed",
			method: http.MethodPost,
			mockSetup: func(d *storage_mocks.MockDocumentStore, r *storage_mocks.MockRunStore) {
				// No calls expected
			},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:   "document listing fails",
			method: http.MethodGet,
			mockSetup: func(d *storage_mocks.MockDocumentStore, r *storage_mocks.MockRunStore) {
				d.EXPECT().List(gomock.Any()).Return(nil, errors.New("db locked"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:   "run listing fails",
			method: http.MethodGet,
			mockSetup: func(d *storage_mocks.MockDocumentStore, r *storage_mocks.MockRunStore) {
				d.EXPECT().List(gomock.Any()).Return([]storage.DocumentRecord{{ID: "doc-1"}}, nil)
				r.EXPECT().ListByDocument(gomock.Any(), "doc-1").Return(nil, errors.New("db locked"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDocs := storage_mocks.NewMockDocumentStore(ctrl)
			mockRuns := storage_mocks.NewMockRunStore(ctrl)
			tt.mockSetup(mockDocs, mockRuns)

			handler := NewDocumentsHandler(mockDocs, mockRuns)

			req := httptest.NewRequest(tt.method, "/api/v1/documents", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
		})
	}
}
