package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chatlet/chatlet/internal/api"
	"github.com/chatlet/chatlet/internal/data/store"
	"github.com/chatlet/chatlet/internal/domain/apperrors"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/internal/handlers"
	"github.com/chatlet/chatlet/internal/rag"
	"github.com/chatlet/chatlet/internal/rag/vectorDB"
)

const testTenantId = "7b4a9c1e-0d2f-4f7a-9c3e-5b6d8e0f1a2b"

// mockService implements rag.Service for handler tests.
type mockService struct {
	OnIngestFile func(ctx context.Context, apiKey string, upload rag.FileUpload) (rag.IngestResult, error)
	OnIngestURL  func(ctx context.Context, apiKey, pageURL string) (rag.IngestResult, error)
	OnRespond    func(ctx context.Context, input rag.ChatInput) (rag.Answer, error)
}

func (m *mockService) IngestFile(ctx context.Context, apiKey string, upload rag.FileUpload) (rag.IngestResult, error) {
	if m.OnIngestFile != nil {
		return m.OnIngestFile(ctx, apiKey, upload)
	}
	return rag.IngestResult{DocumentId: 1, SectionsCount: 3}, nil
}

func (m *mockService) IngestURL(ctx context.Context, apiKey, pageURL string) (rag.IngestResult, error) {
	if m.OnIngestURL != nil {
		return m.OnIngestURL(ctx, apiKey, pageURL)
	}
	return rag.IngestResult{DocumentId: 2, SectionsCount: 1}, nil
}

func (m *mockService) Search(ctx context.Context, tenantId, query string) ([]vectorDB.Match, error) {
	return nil, nil
}

func (m *mockService) Respond(ctx context.Context, input rag.ChatInput) (rag.Answer, error) {
	if m.OnRespond != nil {
		return m.OnRespond(ctx, input)
	}
	return rag.Complete{Text: "fine"}, nil
}

type runnerSpy struct {
	names []string
}

func (r *runnerSpy) Submit(name string, task func(ctx context.Context)) {
	r.names = append(r.names, name)
	task(context.Background())
}

func setup(t *testing.T, svc *mockService) (*store.InMemoryTenantStore, *store.InMemorySessionStore, *store.InMemoryUsageStore) {
	t.Helper()
	tenants := store.InitInMemoryTenantStore()
	sessions := store.InitInMemorySessionStore()
	usage := store.InitInMemoryUsageStore()

	tenants.Register(commonModels.Tenant{
		Id:       testTenantId,
		APIKey:   "key-abc",
		Name:     "Acme",
		Settings: commonModels.NormalizeWidgetSettings(map[string]any{"primaryColor": "#123456"}),
	})
	sessions.Register("tok-1", commonModels.Session{UserId: "user-1", TenantId: testTenantId})

	handlers.Init(svc, tenants, sessions, usage, &runnerSpy{})
	return tenants, sessions, usage
}

func multipartBody(t *testing.T, field, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, fileName)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = io.WriteString(fw, content)
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotKey string
		var gotUpload rag.FileUpload
		svc := &mockService{
			OnIngestFile: func(ctx context.Context, apiKey string, upload rag.FileUpload) (rag.IngestResult, error) {
				gotKey = apiKey
				gotUpload = upload
				return rag.IngestResult{DocumentId: 9, SectionsCount: 2}, nil
			},
		}
		setup(t, svc)

		body, contentType := multipartBody(t, "file", "notes.txt", "uploaded text")
		req := httptest.NewRequest(http.MethodPost, "/ingest/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("X-API-Key", "key-abc")
		rec := httptest.NewRecorder()

		handlers.UploadHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status got %d, body %s", rec.Code, rec.Body.String())
		}
		if gotKey != "key-abc" {
			t.Errorf("api key got %q", gotKey)
		}
		if gotUpload.Name != "notes.txt" || string(gotUpload.Data) != "uploaded text" {
			t.Errorf("upload wiring wrong: %+v", gotUpload)
		}
		var resp api.IngestResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
		if !resp.Success || resp.DocumentId != 9 || resp.SectionsCount != 2 {
			t.Errorf("response got %+v", resp)
		}
	})

	t.Run("Missing_File_Field", func(t *testing.T) {
		setup(t, &mockService{})

		body, contentType := multipartBody(t, "attachment", "notes.txt", "text")
		req := httptest.NewRequest(http.MethodPost, "/ingest/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handlers.UploadHandler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status got %d, want 400", rec.Code)
		}
	})

	t.Run("Auth_Error_Maps_To_401", func(t *testing.T) {
		svc := &mockService{
			OnIngestFile: func(ctx context.Context, apiKey string, upload rag.FileUpload) (rag.IngestResult, error) {
				return rag.IngestResult{}, apperrors.ErrAuthentication
			},
		}
		setup(t, svc)

		body, contentType := multipartBody(t, "file", "notes.txt", "text")
		req := httptest.NewRequest(http.MethodPost, "/ingest/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handlers.UploadHandler(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status got %d, want 401", rec.Code)
		}
	})
}

func TestIngestURLHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		setup(t, &mockService{})

		req := httptest.NewRequest(http.MethodPost, "/ingest/url", strings.NewReader(`{"url":"https://example.com/docs"}`))
		req.Header.Set("Authorization", "Bearer key-abc")
		rec := httptest.NewRecorder()

		handlers.IngestURLHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status got %d, body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("Missing_URL", func(t *testing.T) {
		setup(t, &mockService{})

		req := httptest.NewRequest(http.MethodPost, "/ingest/url", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		handlers.IngestURLHandler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status got %d, want 400", rec.Code)
		}
	})
}

func TestChatHandler(t *testing.T) {
	chatBody := `{"messages":[{"role":"user","content":"hello"}]}`

	t.Run("Unauthenticated", func(t *testing.T) {
		setup(t, &mockService{})

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(chatBody))
		rec := httptest.NewRecorder()

		handlers.ChatHandler(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status got %d, want 401", rec.Code)
		}
	})

	t.Run("Grounded_Whole_Body", func(t *testing.T) {
		var gotInput rag.ChatInput
		svc := &mockService{
			OnRespond: func(ctx context.Context, input rag.ChatInput) (rag.Answer, error) {
				gotInput = input
				return rag.Complete{Text: "the whole answer"}, nil
			},
		}
		setup(t, svc)

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(chatBody))
		req.AddCookie(&http.Cookie{Name: "session", Value: "tok-1"})
		rec := httptest.NewRecorder()

		handlers.ChatHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status got %d, body %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("content type got %q", ct)
		}
		if rec.Body.String() != "the whole answer" {
			t.Errorf("body got %q", rec.Body.String())
		}
		if gotInput.TenantId != testTenantId || gotInput.UserId != "user-1" {
			t.Errorf("session identity not forwarded: %+v", gotInput)
		}
	})

	t.Run("Streaming_Fragments", func(t *testing.T) {
		svc := &mockService{
			OnRespond: func(ctx context.Context, input rag.ChatInput) (rag.Answer, error) {
				fragments := func(yield func(string, error) bool) {
					for _, f := range []string{"one ", "two ", "three"} {
						if !yield(f, nil) {
							return
						}
					}
				}
				return rag.Stream{Fragments: iter.Seq2[string, error](fragments)}, nil
			},
		}
		setup(t, svc)

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(chatBody))
		req.AddCookie(&http.Cookie{Name: "session", Value: "tok-1"})
		rec := httptest.NewRecorder()

		handlers.ChatHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status got %d", rec.Code)
		}
		if rec.Body.String() != "one two three" {
			t.Errorf("streamed body got %q", rec.Body.String())
		}
		if !rec.Flushed {
			t.Error("fragments were never flushed to the client")
		}
	})

	t.Run("Upstream_Failure_Maps_To_500", func(t *testing.T) {
		svc := &mockService{
			OnRespond: func(ctx context.Context, input rag.ChatInput) (rag.Answer, error) {
				return nil, apperrors.Generation(io.ErrUnexpectedEOF)
			},
		}
		setup(t, svc)

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(chatBody))
		req.AddCookie(&http.Cookie{Name: "session", Value: "tok-1"})
		rec := httptest.NewRecorder()

		handlers.ChatHandler(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status got %d, want 500", rec.Code)
		}
		var resp api.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("error body is not JSON: %v", err)
		}
	})
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

func widgetRequest(tenantId string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/tenant/"+tenantId, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("tenantId", tenantId)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestWidgetConfigHandler(t *testing.T) {
	t.Run("Success_With_Normalized_Settings", func(t *testing.T) {
		_, _, usage := setup(t, &mockService{})

		rec := httptest.NewRecorder()
		handlers.WidgetConfigHandler(rec, widgetRequest(testTenantId))

		if rec.Code != http.StatusOK {
			t.Fatalf("status got %d, body %s", rec.Code, rec.Body.String())
		}
		if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "max-age=300") {
			t.Errorf("cache control got %q", cc)
		}

		var resp api.WidgetConfigResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
		if resp.TenantId != testTenantId || resp.Name != "Acme" {
			t.Errorf("response got %+v", resp)
		}
		if resp.Settings.Color != "#123456" {
			t.Errorf("normalized color got %q", resp.Settings.Color)
		}
		if resp.Settings.GreetingMessage != commonModels.DefaultGreeting {
			t.Errorf("default greeting missing, got %q", resp.Settings.GreetingMessage)
		}

		count, _ := usage.Count(context.Background(), testTenantId, "widget", today())
		if count != 1 {
			t.Errorf("widget load was not counted, got %d", count)
		}
	})

	t.Run("Invalid_Tenant_Id", func(t *testing.T) {
		setup(t, &mockService{})

		rec := httptest.NewRecorder()
		handlers.WidgetConfigHandler(rec, widgetRequest("not-a-uuid"))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status got %d, want 400", rec.Code)
		}
	})

	t.Run("Unknown_Tenant", func(t *testing.T) {
		setup(t, &mockService{})

		rec := httptest.NewRecorder()
		handlers.WidgetConfigHandler(rec, widgetRequest("0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status got %d, want 404", rec.Code)
		}
	})
}
