package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chatlet/chatlet/internal/api"
	"github.com/chatlet/chatlet/internal/domain/apperrors"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/internal/rag"
	"github.com/chatlet/chatlet/internal/tasks"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

var logRH = logger_i.NewLogger("handlers")

// package level collaborators, wired once from main
var (
	svc      rag.Service
	tenants  commonModels.TenantStore
	sessions commonModels.SessionStore
	usage    commonModels.UsageStore
	runner   tasks.Runner
)

// Init wires the handler package. Must run before the router is mounted.
func Init(service rag.Service, tenantStore commonModels.TenantStore, sessionStore commonModels.SessionStore, usageStore commonModels.UsageStore, taskRunner tasks.Runner) {
	svc = service
	tenants = tenantStore
	sessions = sessionStore
	usage = usageStore
	runner = taskRunner
}

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, details string, error string) {
	writeJsonResponse(w, httpCode, api.ErrorResponse{Error: error, Details: details})
}

// writePipelineError translates a pipeline error into the taxonomy's status
// code. Internal errors keep their detail out of the body.
func writePipelineError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	WriteErrorResponse(w, status, "", message)
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}
