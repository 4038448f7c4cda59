package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/chatlet/chatlet/internal/api"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
	"github.com/chatlet/chatlet/internal/rag"
)

// sessionFrom resolves the caller's identity from the session cookie or, for
// the widget script which cannot set cookies cross-site, a bearer token.
func sessionFrom(r *http.Request) (commonModels.Session, bool) {
	token := ""
	if cookie, err := r.Cookie("session"); err == nil {
		token = cookie.Value
	}
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		return commonModels.Session{}, false
	}

	session, found, err := sessions.Resolve(r.Context(), token)
	if err != nil {
		logRH.Error("session lookup failed", "error", err)
		return commonModels.Session{}, false
	}
	return session, found
}

// ChatHandler answers the newest turn of a conversation. Grounded answers
// come back as one text/plain body, ungrounded ones stream as chunks with a
// flush after each fragment.
func ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	session, ok := sessionFrom(r)
	if !ok {
		WriteErrorResponse(w, http.StatusUnauthorized, "", "Unauthorized")
		return
	}

	var requestData api.ChatRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the Chat handler reader :", "error", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || len(requestData.Messages) == 0 {
		logRH.Warn("Bad Chat Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "messages must not be empty")
		return
	}

	answer, err := svc.Respond(r.Context(), rag.ChatInput{
		TenantId:       session.TenantId,
		UserId:         session.UserId,
		ConversationId: requestData.Id,
		Messages:       requestData.Messages,
	})
	if err != nil {
		logRH.Warn("Chat request failed", "error", err)
		writePipelineError(w, err)
		return
	}

	switch a := answer.(type) {
	case rag.Complete:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, a.Text); err != nil {
			logRH.Error("failed writing chat response", "error", err)
		}
	case rag.Stream:
		writeStream(w, a)
	default:
		WriteErrorResponse(w, http.StatusInternalServerError, "", "internal server error")
	}
}

func writeStream(w http.ResponseWriter, stream rag.Stream) {
	flusher, _ := w.(http.Flusher)
	started := false

	for fragment, err := range stream.Fragments {
		if err != nil {
			// headers already sent once the first fragment went out, so a
			// mid-stream failure can only cut the stream short
			if !started {
				writePipelineError(w, err)
			} else {
				logRH.Error("generation stream failed mid-response", "error", err)
			}
			return
		}
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := io.WriteString(w, fragment); err != nil {
			logRH.Warn("client went away mid-stream", "error", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	if !started {
		// model produced nothing at all; still a successful empty answer
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
	}
}
