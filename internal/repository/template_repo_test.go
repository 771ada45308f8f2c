package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smedocgen/backend/internal/model"
	"gorm.io/gorm"
)

func setupTemplateDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&model.PromptTemplate{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestTemplateRepository_CRUD(t *testing.T) {
	db := setupTemplateDB(t)
	repo := NewTemplateRepository(db)
	ctx := context.Background()

	tpl := &model.PromptTemplate{
		Name:            "Standard Quote",
		DocumentType:    model.DocumentTypeQuote,
		TemplateContent: "Prepare a quote for {client_name} worth {amount}",
		IsActive:        true,
	}
	if err := repo.Create(ctx, tpl); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if tpl.ID == "" {
		t.Fatal("Create should assign a UUID")
	}

	got, err := repo.Get(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Standard Quote" || got.DocumentType != model.DocumentTypeQuote {
		t.Errorf("unexpected template: %+v", got)
	}

	got.TemplateContent = "Quote for {client_name}"
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	updated, err := repo.Get(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("Get after save failed: %v", err)
	}
	if updated.TemplateContent != "Quote for {client_name}" {
		t.Errorf("content not updated: %s", updated.TemplateContent)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 template, got %d", len(list))
	}

	if err := repo.Delete(ctx, tpl.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, tpl.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTemplateRepository_DuplicateName(t *testing.T) {
	db := setupTemplateDB(t)
	repo := NewTemplateRepository(db)
	ctx := context.Background()

	first := &model.PromptTemplate{Name: "T1", DocumentType: model.DocumentTypeQuote, TemplateContent: "Hi {name}", IsActive: true}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	dup := &model.PromptTemplate{Name: "T1", DocumentType: model.DocumentTypeInvoice, TemplateContent: "x", IsActive: true}
	if err := repo.Create(ctx, dup); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestTemplateRepository_GetMissing(t *testing.T) {
	db := setupTemplateDB(t)
	repo := NewTemplateRepository(db)

	if _, err := repo.Get(context.Background(), "no-such-id"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), "no-such-id"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestTemplateRepository_GetByIDs(t *testing.T) {
	db := setupTemplateDB(t)
	repo := NewTemplateRepository(db)
	ctx := context.Background()

	a := &model.PromptTemplate{Name: "A", DocumentType: model.DocumentTypeQuote, TemplateContent: "a", IsActive: true}
	b := &model.PromptTemplate{Name: "B", DocumentType: model.DocumentTypeInvoice, TemplateContent: "b", IsActive: true}
	for _, tpl := range []*model.PromptTemplate{a, b} {
		if err := repo.Create(ctx, tpl); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := repo.GetByIDs(ctx, []string{a.ID, "missing-id"})
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("unexpected result: %+v", got)
	}

	empty, err := repo.GetByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("GetByIDs with empty ids failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty result, got %d", len(empty))
	}
}
