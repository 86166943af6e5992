package main

import (
	"net/http"

	"github.com/patrickward/markpad"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("GET /static/", http.FileServer(http.FS(markpad.StaticFS)))

	// Documents
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /documents", s.handleCreateDocument)
	mux.HandleFunc("GET /edit/{id...}", s.handleEdit)

	// Find and replace
	mux.HandleFunc("POST /find/{id...}", s.handleFind)
	mux.HandleFunc("POST /find-next/{id...}", s.handleFindNext)
	mux.HandleFunc("POST /find-prev/{id...}", s.handleFindPrevious)
	mux.HandleFunc("POST /replace/{id...}", s.handleReplace)
	mux.HandleFunc("POST /replace-all/{id...}", s.handleReplaceAll)

	mux.HandleFunc("POST /{id...}", s.handleSave)

	// Handles page views
	mux.HandleFunc("GET /{id...}", s.handleView)

	return mux
}
