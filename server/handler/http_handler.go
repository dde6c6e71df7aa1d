// Package handler provides the HTTP handlers served by the redirector:
// - HTTPHandler answers every request with an HTTPS redirect or a 400
// - LogRequests emits one structured log entry per request
package handler

import (
	"net/http"

	"github.com/flrossetto/httpsredirect/redirect"
)

// HTTPHandler redirects every request to its HTTPS equivalent.
type HTTPHandler struct {
	status int
}

// NewHTTPHandler creates a new instance of HTTPHandler.
// Parameters:
// - status: redirect status code applied to every redirect
// Returns:
// - *HTTPHandler: ready-to-use HTTP handler instance
func NewHTTPHandler(status int) *HTTPHandler {
	return &HTTPHandler{status: status}
}

// ServeHTTP answers r based on its request target and host.
// Behavior:
// - Path is the escaped path plus raw query of the request target
// - Authority is r.Host (Host header, or the absolute-form target's host)
// - Missing or unusable authority yields 400 with a plain-text message
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	redirect.Decide(r.URL.RequestURI(), r.Host).Render(w, r, h.status)
}
