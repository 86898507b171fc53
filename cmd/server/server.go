package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"collections-probe/internal/services/database"
)

// maxEventBytes caps the request body accepted as an invocation event.
const maxEventBytes = 1 << 20

// Invoker runs one invocation of the collections handler.
type Invoker interface {
	Handle(ctx context.Context, event json.RawMessage) (string, error)
	State() database.State
}

// Server holds all dependencies
type Server struct {
	invoker Invoker
	stage   string
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewServer creates a server around invoker.
func NewServer(invoker Invoker, stage string) *Server {
	return &Server{invoker: invoker, stage: stage}
}

// Routes returns the server's request multiplexer.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.healthHandler)

	// Run the handler as the Lambda runtime would
	mux.HandleFunc("/invoke", s.invokeHandler)

	return mux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, Response{Success: false, Error: "Method not allowed"})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Collections probe is running",
		Data: map[string]interface{}{
			"status":     "healthy",
			"connection": string(s.invoker.State()),
			"stage":      s.stage,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) invokeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, Response{Success: false, Error: "Method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Failed to read request body"})
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid JSON in request body"})
		return
	}

	result, err := s.invoker.Handle(r.Context(), json.RawMessage(body))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, Response{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
