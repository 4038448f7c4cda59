package commonModels

import "time"

// Tenant is the isolation boundary. Every stored artifact carries exactly one
// tenant id; lookups happen by API key (machine ingestion) or session (chat).
type Tenant struct {
	Id       string         `json:"id"`
	APIKey   string         `json:"api_key"`
	Name     string         `json:"name"`
	Settings WidgetSettings `json:"settings"`
}

// WidgetSettings is the canonical form of the tenant settings blob. The stored
// JSON historically used several alias keys for the same concept
// (color/primaryColor, logo/logoUrl, greeting/greetingMessage); Normalize maps
// them once at the read boundary so call sites never see the aliases.
type WidgetSettings struct {
	Color           string `json:"color"`
	Position        string `json:"position"`
	LogoURL         string `json:"logoUrl,omitempty"`
	ButtonText      string `json:"buttonText"`
	GreetingMessage string `json:"greetingMessage"`
}

const (
	DefaultWidgetColor    = "#4F46E5"
	DefaultWidgetPosition = "bottom-right"
	DefaultButtonText     = "\U0001F4AC"
	DefaultGreeting       = "Hello! How can I help you today?"
)

// NormalizeWidgetSettings folds every known alias key into the canonical field
// and fills defaults for anything missing.
func NormalizeWidgetSettings(raw map[string]any) WidgetSettings {
	s := WidgetSettings{
		Color:           firstString(raw, "primaryColor", "color"),
		Position:        firstString(raw, "position"),
		LogoURL:         firstString(raw, "logo", "logoUrl"),
		ButtonText:      firstString(raw, "buttonText"),
		GreetingMessage: firstString(raw, "greeting", "greetingMessage"),
	}
	if s.Color == "" {
		s.Color = DefaultWidgetColor
	}
	if s.Position == "" {
		s.Position = DefaultWidgetPosition
	}
	if s.ButtonText == "" {
		s.ButtonText = DefaultButtonText
	}
	if s.GreetingMessage == "" {
		s.GreetingMessage = DefaultGreeting
	}
	return s
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Document is one ingested source, a file or a crawled page. Immutable after
// creation; deletion is a dashboard concern handled elsewhere.
type Document struct {
	Id         int64     `json:"id"`
	TenantId   string    `json:"tenant_id"`
	Name       string    `json:"name"`
	Origin     string    `json:"storage_object_id"` //storage ref or source URL
	IngestedAt time.Time `json:"ingested_at"`
}

// DocumentSection is the unit of retrieval: one chunk of extracted text with
// its embedding. TenantId is denormalized from the parent document so the
// vector search can filter without a join; the ingestion coordinator is the
// only writer and always copies it from the Document.
type DocumentSection struct {
	Id         string    `json:"section_id"`
	DocumentId int64     `json:"document_id"`
	TenantId   string    `json:"tenant_id"`
	Content    string    `json:"content"`
	Position   int       `json:"position"`
	Embedding  []float32 `json:"-"`
}

// Message is one turn of a conversation. Role is "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the append-only chat payload keyed by conversation id.
// Mutated only by appending the new assistant turn after generation completes.
type Conversation struct {
	Id        string    `json:"id"`
	UserId    string    `json:"userId"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is the resolved identity behind a chat request. Session creation
// lives in the signup/login flow, not here.
type Session struct {
	UserId   string `json:"user_id"`
	TenantId string `json:"tenant_id"`
}

// ExtractedContent is the output of the text extractor.
type ExtractedContent struct {
	Text     string
	Metadata ContentMetadata
}

type ContentMetadata struct {
	Source      string //filename or URL
	Title       string
	PublishedAt string //raw meta tag value, not parsed
	ContentType string
	WordCount   int
}
