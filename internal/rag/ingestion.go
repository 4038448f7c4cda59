package rag

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/domain/apperrors"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/internal/metrics"
	"github.com/chatlet/chatlet/internal/rag/chunker"
	"github.com/chatlet/chatlet/internal/rag/extract"
)

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"text/plain":      true,
}

var allowedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
}

func (s *service) IngestFile(ctx context.Context, apiKey string, upload FileUpload) (IngestResult, error) {
	log := traceLogger(ctx, s.logger)

	tenant, err := s.authenticate(ctx, apiKey)
	if err != nil {
		return IngestResult{}, err
	}

	if err := validateUpload(upload); err != nil {
		return IngestResult{}, err
	}

	content, err := extract.FromFile(upload.Name, upload.MimeType, upload.Data)
	if err != nil {
		return IngestResult{}, err
	}

	result, err := s.ingest(ctx, tenant.Id, "file", upload.Name, "file:"+upload.Name, content.Text)
	if err != nil {
		return IngestResult{}, err
	}

	log.Info("file ingested", "tenantId", tenant.Id, "documentId", result.DocumentId, "sections", result.SectionsCount)
	s.trackUsage(tenant.Id, "ingest")
	return result, nil
}

func (s *service) IngestURL(ctx context.Context, apiKey, pageURL string) (IngestResult, error) {
	log := traceLogger(ctx, s.logger)

	tenant, err := s.authenticate(ctx, apiKey)
	if err != nil {
		return IngestResult{}, err
	}

	if err := validateURL(pageURL); err != nil {
		return IngestResult{}, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, config.ExtractionFetchTimeout)
	defer cancel()

	content, err := extract.FromURL(fetchCtx, s.webClient, pageURL)
	if err != nil {
		return IngestResult{}, err
	}

	name := content.Metadata.Title
	if name == "" {
		name = pageURL
	}

	result, err := s.ingest(ctx, tenant.Id, "url", name, "url:"+pageURL, content.Text)
	if err != nil {
		return IngestResult{}, err
	}

	log.Info("url ingested", "tenantId", tenant.Id, "documentId", result.DocumentId, "sections", result.SectionsCount)
	s.trackUsage(tenant.Id, "ingest")
	return result, nil
}

// ingest runs the shared tail of both ingestion paths: register the document,
// chunk, embed every chunk, then store all sections in one upsert so a failed
// embedding never leaves a partially indexed document behind.
func (s *service) ingest(ctx context.Context, tenantId, kind, name, origin, text string) (IngestResult, error) {
	documentId, err := s.documents.Create(ctx, commonModels.Document{
		TenantId:   tenantId,
		Name:       name,
		Origin:     origin,
		IngestedAt: time.Now().UTC(),
	})
	if err != nil {
		return IngestResult{}, apperrors.Persistence("failed to register document", err)
	}

	chunks := chunker.Chunks(text, config.ChunkSize, config.ChunkOverlap)

	embedCtx, cancel := context.WithTimeout(ctx, config.EmbeddingTimeout)
	defer cancel()

	vectors, err := s.embedder.BatchEmbedding(embedCtx, chunks)
	if err != nil {
		return IngestResult{}, err
	}

	sections := make([]commonModels.DocumentSection, len(chunks))
	for i, chunk := range chunks {
		sections[i] = commonModels.DocumentSection{
			Id:         uuid.NewString(),
			DocumentId: documentId,
			TenantId:   tenantId,
			Content:    chunk,
			Position:   i,
			Embedding:  vectors[i],
		}
	}

	if len(sections) > 0 {
		if err := s.vector.UpsertSections(ctx, sections); err != nil {
			return IngestResult{}, apperrors.Persistence("failed to store document sections", err)
		}
	}

	metrics.CountIngestedSections(kind, len(sections))
	return IngestResult{DocumentId: documentId, SectionsCount: len(sections)}, nil
}

func (s *service) authenticate(ctx context.Context, apiKey string) (commonModels.Tenant, error) {
	if apiKey == "" {
		return commonModels.Tenant{}, apperrors.ErrAuthentication
	}
	tenant, found, err := s.tenants.ByAPIKey(ctx, apiKey)
	if err != nil {
		return commonModels.Tenant{}, apperrors.Persistence("tenant lookup failed", err)
	}
	if !found {
		return commonModels.Tenant{}, apperrors.ErrAuthentication
	}
	return tenant, nil
}

func validateUpload(upload FileUpload) error {
	if len(upload.Data) == 0 {
		return apperrors.Validation("no file provided")
	}
	if upload.Size > config.MaxUploadSizeBytes {
		return apperrors.Validation("file too large. Maximum size is %dMB", config.MaxUploadSizeBytes>>20)
	}
	ext := strings.ToLower(filepath.Ext(upload.Name))
	if !allowedMimeTypes[upload.MimeType] && !allowedExtensions[ext] {
		return apperrors.Validation("invalid file type. Only PDF and TXT files are allowed")
	}
	return nil
}

func validateURL(pageURL string) error {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return apperrors.Validation("a valid http(s) URL is required")
	}
	return nil
}
