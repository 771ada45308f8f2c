package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/smedocgen/backend/internal/model"
	"github.com/smedocgen/backend/internal/service"
)

func (ts *testServer) mustCreateHistory(t *testing.T, templateID, content string) *model.DocumentHistory {
	t.Helper()
	record := &model.DocumentHistory{
		TemplateID:       templateID,
		InputData:        `{"client_name":"Acme"}`,
		GeneratedContent: content,
		DocumentFormat:   "pdf",
	}
	if err := ts.historyRepo.Create(context.Background(), record); err != nil {
		t.Fatalf("failed to create history record: %v", err)
	}
	return record
}

func TestHistoryHandlerList(t *testing.T) {
	ts := newTestServer(t)
	tpl := ts.mustCreateTemplate(t, "Standard Quote", model.DocumentTypeQuote, "Hi {name}")
	ts.mustCreateHistory(t, tpl.ID, "doc one")

	w := ts.do(t, http.MethodGet, "/api/history/docs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Data []service.HistoryItem `json:"data"`
	}
	decodeJSON(t, w, &resp)
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 record, got %d", len(resp.Data))
	}
	if resp.Data[0].TemplateName != "Standard Quote" || resp.Data[0].DocumentType != model.DocumentTypeQuote {
		t.Fatalf("unexpected item: %+v", resp.Data[0])
	}
}

func TestHistoryHandlerListFilterAndPagination(t *testing.T) {
	ts := newTestServer(t)
	quote := ts.mustCreateTemplate(t, "Q", model.DocumentTypeQuote, "Hi {name}")
	invoice := ts.mustCreateTemplate(t, "I", model.DocumentTypeInvoice, "Inv {no}")
	ts.mustCreateHistory(t, quote.ID, "quote doc")
	ts.mustCreateHistory(t, invoice.ID, "invoice doc")

	w := ts.do(t, http.MethodGet, "/api/history/docs?document_type=Invoice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Data []service.HistoryItem `json:"data"`
	}
	decodeJSON(t, w, &resp)
	if len(resp.Data) != 1 || resp.Data[0].GeneratedContent != "invoice doc" {
		t.Fatalf("unexpected filter result: %+v", resp.Data)
	}

	w = ts.do(t, http.MethodGet, "/api/history/docs?skip=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad skip, got %d", w.Code)
	}
}

func TestHistoryHandlerUnknownTemplateFallback(t *testing.T) {
	ts := newTestServer(t)
	tpl := ts.mustCreateTemplate(t, "Standard Quote", model.DocumentTypeQuote, "Hi {name}")
	ts.mustCreateHistory(t, tpl.ID, "doc one")
	if err := ts.templateRepo.Delete(context.Background(), tpl.ID); err != nil {
		t.Fatalf("delete template error: %v", err)
	}

	w := ts.do(t, http.MethodGet, "/api/history/docs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Data []service.HistoryItem `json:"data"`
	}
	decodeJSON(t, w, &resp)
	if len(resp.Data) != 1 || resp.Data[0].TemplateName != service.UnknownTemplateLabel {
		t.Fatalf("expected Unknown fallback, got %+v", resp.Data)
	}
}

func TestHistoryHandlerDisabled(t *testing.T) {
	ts := newTestServer(t)
	tpl := ts.mustCreateTemplate(t, "Standard Quote", model.DocumentTypeQuote, "Hi {name}")
	record := ts.mustCreateHistory(t, tpl.ID, "doc one")

	if _, err := ts.settings.Update(context.Background(), map[string]string{
		service.KeyEnableHistory: "false",
	}); err != nil {
		t.Fatalf("disable history error: %v", err)
	}

	w := ts.do(t, http.MethodGet, "/api/history/docs", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}

	w = ts.do(t, http.MethodGet, "/api/history/docs/"+record.ID, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestHistoryHandlerGetAndDownload(t *testing.T) {
	ts := newTestServer(t)
	tpl := ts.mustCreateTemplate(t, "Standard Quote", model.DocumentTypeQuote, "Hi {name}")
	record := ts.mustCreateHistory(t, tpl.ID, "full document body")

	w := ts.do(t, http.MethodGet, "/api/history/docs/"+record.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp struct {
		Data service.HistoryItem `json:"data"`
	}
	decodeJSON(t, w, &resp)
	if resp.Data.GeneratedContent != "full document body" {
		t.Fatalf("unexpected item: %+v", resp.Data)
	}

	w = ts.do(t, http.MethodGet, "/api/history/docs/"+record.ID+"/download", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	disposition := w.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, ".pdf") {
		t.Fatalf("expected pdf attachment disposition, got %q", disposition)
	}
	if w.Body.String() != "full document body" {
		t.Fatalf("unexpected download body: %s", w.Body.String())
	}

	w = ts.do(t, http.MethodGet, "/api/history/docs/no-such-id", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
