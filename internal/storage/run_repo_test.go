package storage

import (
	"context"
	"testing"
	"time"
)

func TestNewRunRepo(t *testing.T) {
	db := migratedTestDB(t)

	repo := NewRunRepo(db)
	if repo == nil {
		t.Fatal("NewRunRepo() returned nil")
	}
}

func TestRunRepo_Insert(t *testing.T) {
	db := migratedTestDB(t)

	docRepo := NewDocumentRepo(db)
	doc := &DocumentRecord{
		Name:        "report.pdf",
		Path:        "/tmp/uploads/report.pdf",
		ContentHash: "abc",
		SizeBytes:   100,
	}
	if err := docRepo.Upsert(context.Background(), doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	repo := NewRunRepo(db)

	run := &RunRecord{
		DocumentID: doc.ID,
		Strategy:   "semantic",
		Collection: "semantic_report_pdf",
		ChunkCount: 17,
		Extractor:  "pdf",
		DurationMS: 420,
	}
	if err := repo.Insert(context.Background(), run); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if run.ID == "" {
		t.Error("Insert() should generate UUID for run")
	}
	if len(run.ID) != 36 {
		t.Errorf("Insert() generated ID length = %d, want 36", len(run.ID))
	}

	runs, err := repo.ListByDocument(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("ListByDocument() = %d runs, want 1", len(runs))
	}

	got := runs[0]
	if got.ID != run.ID || got.Strategy != "semantic" || got.Collection != "semantic_report_pdf" {
		t.Errorf("ListByDocument() run = %+v", got)
	}
	if got.ChunkCount != 17 || got.Extractor != "pdf" || got.DurationMS != 420 {
		t.Errorf("ListByDocument() run fields = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if time.Since(got.CreatedAt) > time.Minute {
		t.Error("CreatedAt should be recent")
	}
}

func TestRunRepo_Insert_PreservesID(t *testing.T) {
	db := migratedTestDB(t)

	docRepo := NewDocumentRepo(db)
	doc := &DocumentRecord{Name: "a.md", Path: "/tmp/a.md", ContentHash: "h", SizeBytes: 1}
	if err := docRepo.Upsert(context.Background(), doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	repo := NewRunRepo(db)

	run := &RunRecord{
		ID:         "fixed-run-id",
		DocumentID: doc.ID,
		Strategy:   "recursive",
		Collection: "recursive_a_md",
		ChunkCount: 3,
		Extractor:  "markdown",
		DurationMS: 5,
	}
	if err := repo.Insert(context.Background(), run); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if run.ID != "fixed-run-id" {
		t.Errorf("Insert() ID = %s, want fixed-run-id", run.ID)
	}
}

func TestRunRepo_ListByDocument(t *testing.T) {
	db := migratedTestDB(t)

	docRepo := NewDocumentRepo(db)
	doc1 := &DocumentRecord{Name: "one.pdf", Path: "/tmp/one.pdf", ContentHash: "h1", SizeBytes: 1}
	doc2 := &DocumentRecord{Name: "two.pdf", Path: "/tmp/two.pdf", ContentHash: "h2", SizeBytes: 2}
	if err := docRepo.Upsert(context.Background(), doc1); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := docRepo.Upsert(context.Background(), doc2); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	repo := NewRunRepo(db)

	runs := []*RunRecord{
		{DocumentID: doc1.ID, Strategy: "recursive", Collection: "recursive_one_pdf", ChunkCount: 4, Extractor: "pdf", DurationMS: 10},
		{DocumentID: doc1.ID, Strategy: "semantic", Collection: "semantic_one_pdf", ChunkCount: 9, Extractor: "pdf", DurationMS: 20},
		{DocumentID: doc2.ID, Strategy: "semantic", Collection: "semantic_two_pdf", ChunkCount: 2, Extractor: "pdf", DurationMS: 30},
	}
	for _, run := range runs {
		if err := repo.Insert(context.Background(), run); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := repo.ListByDocument(context.Background(), doc1.ID)
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByDocument(doc1) = %d runs, want 2", len(got))
	}
	for _, run := range got {
		if run.DocumentID != doc1.ID {
			t.Errorf("ListByDocument(doc1) returned run for document %s", run.DocumentID)
		}
	}

	// Newest first: the semantic run was inserted after the recursive one
	if got[0].Strategy != "semantic" || got[1].Strategy != "recursive" {
		t.Errorf("ListByDocument() order = [%s, %s], want [semantic, recursive]", got[0].Strategy, got[1].Strategy)
	}

	empty, err := repo.ListByDocument(context.Background(), "no-such-doc")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("ListByDocument(unknown) = %d runs, want 0", len(empty))
	}
}

func TestRunRepo_List(t *testing.T) {
	db := migratedTestDB(t)

	repo := NewRunRepo(db)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() on empty table = %d runs, want 0", len(got))
	}

	docRepo := NewDocumentRepo(db)
	doc := &DocumentRecord{Name: "doc.html", Path: "/tmp/doc.html", ContentHash: "h", SizeBytes: 1}
	if err := docRepo.Upsert(context.Background(), doc); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	for i, strategy := range []string{"recursive", "semantic"} {
		run := &RunRecord{
			DocumentID: doc.ID,
			Strategy:   strategy,
			Collection: strategy + "_doc_html",
			ChunkCount: i + 1,
			Extractor:  "html",
			DurationMS: int64(i),
		}
		if err := repo.Insert(context.Background(), run); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err = repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() = %d runs, want 2", len(got))
	}
}
