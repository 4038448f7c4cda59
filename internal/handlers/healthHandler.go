package handlers

import (
	"net/http"

	"github.com/chatlet/chatlet/internal/api"
)

func GetHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}
