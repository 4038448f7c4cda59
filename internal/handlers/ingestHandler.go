package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chatlet/chatlet/internal/api"
	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/rag"
)

// apiKeyFrom accepts either header form the dashboard and the CLI use.
func apiKeyFrom(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// UploadHandler ingests one multipart file (field "file", PDF or TXT, 10MB
// max) into the caller's tenant.
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	// one extra MB for the multipart framing itself
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSizeBytes+1<<20)
	if err := r.ParseMultipartForm(config.MaxUploadSizeBytes); err != nil {
		logRH.Warn("Bad upload request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", fmt.Sprintf("file too large. Maximum size is %dMB", config.MaxUploadSizeBytes>>20))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "no file provided")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			logRH.Error("Couldn't close the upload reader :", "error", err)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "failed to read uploaded file")
		return
	}

	result, err := svc.IngestFile(r.Context(), apiKeyFrom(r), rag.FileUpload{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Data:     data,
	})
	if err != nil {
		logRH.Warn("File ingestion failed", "fileName", header.Filename, "error", err)
		writePipelineError(w, err)
		return
	}

	writeJsonResponse(w, http.StatusOK, api.IngestResponse{
		Success:       true,
		DocumentId:    result.DocumentId,
		SectionsCount: result.SectionsCount,
		FileName:      header.Filename,
		FileSize:      header.Size,
		Message:       fmt.Sprintf("Document processed into %d sections", result.SectionsCount),
	})
}

// IngestURLHandler crawls a single page and ingests its main content.
func IngestURLHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.IngestURLRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the URL ingest reader :", "error", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.URL == "" {
		logRH.Warn("Bad URL ingest request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "a valid http(s) URL is required")
		return
	}

	result, err := svc.IngestURL(r.Context(), apiKeyFrom(r), requestData.URL)
	if err != nil {
		logRH.Warn("URL ingestion failed", "url", requestData.URL, "error", err)
		writePipelineError(w, err)
		return
	}

	writeJsonResponse(w, http.StatusOK, api.IngestResponse{
		Success:       true,
		DocumentId:    result.DocumentId,
		SectionsCount: result.SectionsCount,
		Message:       fmt.Sprintf("Page processed into %d sections", result.SectionsCount),
	})
}
