package flash

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// Kind is the style of a flash message. The values double as CSS classes.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindDanger  Kind = "danger"
)

// Flash represents a single flash message
type Flash struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Manager carries one message across a redirect in a short-lived cookie.
type Manager struct {
	cookieName string
	maxAge     int
	path       string
}

// NewManager creates a new Manager with sensible defaults
func NewManager() *Manager {
	return &Manager{
		cookieName: "markpad_flash",
		maxAge:     60,
		path:       "/",
	}
}

// Set stores a flash message in a cookie
func (fm *Manager) Set(w http.ResponseWriter, kind Kind, message string) {
	data, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		data = []byte(message)
	}

	http.SetCookie(w, fm.cookie(url.QueryEscape(string(data)), fm.maxAge))
}

// SetSuccess is a convenience method for success messages
func (fm *Manager) SetSuccess(w http.ResponseWriter, message string) {
	fm.Set(w, KindSuccess, message)
}

// SetInfo is a convenience method for find/replace status lines
func (fm *Manager) SetInfo(w http.ResponseWriter, message string) {
	fm.Set(w, KindInfo, message)
}

// SetError is a convenience method for error messages
func (fm *Manager) SetError(w http.ResponseWriter, message string) {
	fm.Set(w, KindDanger, message)
}

// Get retrieves and clears a flash message from cookies
func (fm *Manager) Get(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(fm.cookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, fm.cookie("", -1))

	decoded, err := url.QueryUnescape(cookie.Value)
	if err != nil || decoded == "" {
		return nil
	}

	var flash Flash
	if err := json.Unmarshal([]byte(decoded), &flash); err == nil {
		return &flash
	}

	// Plain values are treated as info lines
	return &Flash{Kind: KindInfo, Message: decoded}
}

func (fm *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     fm.cookieName,
		Value:    value,
		Path:     fm.path,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
