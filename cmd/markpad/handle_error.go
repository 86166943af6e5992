package main

import (
	"net/http"
)

// redirectTo redirects the request to the given URL based on the request headers.
// If the request header for HX-Request is true, then send a 204 with a HX-Redirect header.
// Otherwise, send a 303 redirect.
func (s *Server) redirectTo(w http.ResponseWriter, r *http.Request, url string) {
	if isHXRequest(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Redirect(w, r, url, http.StatusSeeOther)
}

// showPageNotFound shows a 404 page.
func (s *Server) showPageNotFound(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := s.executePage(w, "404.html", PageData{
		Title: "Page Not Found",
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// isHXRequest returns true if the request header for HX-Request is true.
func isHXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// isHxSubmission returns true if the request is an HX-Request and is a POST, PUT, PATCH, or DELETE.
func isHxSubmission(r *http.Request) bool {
	if isHXRequest(r) {
		return r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch || r.Method == http.MethodDelete
	}

	return false
}

// showServerError shows a 500 page response.
// If the request is an HX-Request, then send a 500 snippet response with the error message.
// Otherwise, show the 500 system error page.
func (s *Server) showServerError(w http.ResponseWriter, r *http.Request, err error) {
	if isHxSubmission(r) {
		w.WriteHeader(http.StatusInternalServerError)
		if err := s.executeSnippet(w, "system_error.html", PageData{
			ErrorMessage: err.Error(),
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	if err := s.executePage(w, "500.html", PageData{
		Title:        "Server Error",
		ErrorMessage: err.Error(),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// addFlash moves a pending flash message into the page data.
func (s *Server) addFlash(w http.ResponseWriter, r *http.Request, data *PageData) {
	if f := s.flashManager.Get(w, r); f != nil {
		data.FlashMessage = f.Message
		data.FlashMessageType = string(f.Kind)
	}
}
