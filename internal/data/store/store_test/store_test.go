package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/chatlet/chatlet/internal/data/redisStore"
	"github.com/chatlet/chatlet/internal/data/store"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
)

func newTestStore(t *testing.T) *redisStore.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return redisStore.NewTestStore(client)
}

func TestRedisTenantStore_Lookup(t *testing.T) {
	inner := newTestStore(t)
	tenants := store.TestTenantStore(inner)
	ctx := context.Background()

	// record written the way the signup flow writes it, alias keys included
	record := `{"id":"t-1","api_key":"key-abc","name":"Acme","settings":{"primaryColor":"#123456","greeting":"Hi there"}}`
	if err := inner.Set(ctx, "tenant:t-1", record, 0); err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	if err := inner.Set(ctx, "apikey:key-abc", "t-1", 0); err != nil {
		t.Fatalf("seed api key index: %v", err)
	}

	t.Run("ByAPIKey_Normalizes_Settings", func(t *testing.T) {
		tenant, found, err := tenants.ByAPIKey(ctx, "key-abc")
		if err != nil || !found {
			t.Fatalf("lookup failed: found=%v err=%v", found, err)
		}
		if tenant.Name != "Acme" {
			t.Errorf("name got %q", tenant.Name)
		}
		if tenant.Settings.Color != "#123456" {
			t.Errorf("alias primaryColor not folded, got %q", tenant.Settings.Color)
		}
		if tenant.Settings.GreetingMessage != "Hi there" {
			t.Errorf("alias greeting not folded, got %q", tenant.Settings.GreetingMessage)
		}
		if tenant.Settings.Position != commonModels.DefaultWidgetPosition {
			t.Errorf("missing position should default, got %q", tenant.Settings.Position)
		}
	})

	t.Run("Unknown_Key_Is_Not_Found", func(t *testing.T) {
		_, found, err := tenants.ByAPIKey(ctx, "nope")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found {
			t.Error("unknown api key reported as found")
		}
	})
}

func TestRedisDocumentStore_SequentialIds(t *testing.T) {
	inner := newTestStore(t)
	documents := store.TestDocumentStore(inner)
	ctx := context.Background()

	first, err := documents.Create(ctx, commonModels.Document{TenantId: "t-1", Name: "a.txt", Origin: "file:a.txt", IngestedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := documents.Create(ctx, commonModels.Document{TenantId: "t-1", Name: "b.txt", Origin: "file:b.txt", IngestedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if second != first+1 {
		t.Errorf("ids not sequential: %d then %d", first, second)
	}

	doc, found, err := documents.ById(ctx, "t-1", first)
	if err != nil || !found {
		t.Fatalf("lookup failed: found=%v err=%v", found, err)
	}
	if doc.Name != "a.txt" || doc.Id != first {
		t.Errorf("roundtrip mismatch: %+v", doc)
	}

	// documents are tenant scoped, the wrong tenant must not see them
	_, found, err = documents.ById(ctx, "t-2", first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("document visible to a different tenant")
	}
}

func TestRedisUsageStore_CollapsesSameDay(t *testing.T) {
	inner := newTestStore(t)
	usage := store.TestUsageStore(inner)
	ctx := context.Background()
	day := "2024-03-01"

	if err := usage.Increment(ctx, "t-1", "chat", day); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if err := usage.Increment(ctx, "t-1", "chat", day); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	count, err := usage.Count(ctx, "t-1", "chat", day)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("same day increments should land on one counter, got %d", count)
	}

	otherDay, err := usage.Count(ctx, "t-1", "chat", "2024-03-02")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if otherDay != 0 {
		t.Errorf("other day should be empty, got %d", otherDay)
	}
}

func TestRedisChatStore_Roundtrip(t *testing.T) {
	inner := newTestStore(t)
	chats := store.TestChatStore(inner)
	ctx := context.Background()

	conv := commonModels.Conversation{
		Id:     "conv-1",
		UserId: "user-1",
		Title:  "What is the refund policy?",
		Messages: []commonModels.Message{
			{Role: "user", Content: "What is the refund policy?"},
			{Role: "assistant", Content: "30 days."},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	if err := chats.Save(ctx, conv); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, found, err := chats.ById(ctx, "conv-1")
	if err != nil || !found {
		t.Fatalf("lookup failed: found=%v err=%v", found, err)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "30 days." {
		t.Errorf("messages mismatch: %+v", got.Messages)
	}
	if got.Title != conv.Title {
		t.Errorf("title got %q", got.Title)
	}
}

func TestRedisSessionStore_Resolve(t *testing.T) {
	inner := newTestStore(t)
	sessions := store.TestSessionStore(inner)
	ctx := context.Background()

	if err := inner.Set(ctx, "session:tok-1", `{"user_id":"user-1","tenant_id":"t-1"}`, 0); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	session, found, err := sessions.Resolve(ctx, "tok-1")
	if err != nil || !found {
		t.Fatalf("resolve failed: found=%v err=%v", found, err)
	}
	if session.UserId != "user-1" || session.TenantId != "t-1" {
		t.Errorf("session mismatch: %+v", session)
	}

	_, found, err = sessions.Resolve(ctx, "expired")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("unknown token reported as found")
	}
}
