// Package redirect decides how a plaintext HTTP request is answered.
//
// Decide is a pure function of the request path and authority: it performs
// no I/O and keeps no state, so it is safe to call from any number of
// connection handlers at once.
package redirect

import (
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Kind tags the variant held by a Decision.
type Kind int

const (
	// KindBadRequest answers 400 with a plain-text message.
	KindBadRequest Kind = iota
	// KindRedirect answers with a redirect to Target.
	KindRedirect
)

// Messages used for BadRequest decisions.
const (
	MsgMissingAuthority = "Missing Host or Authority header"
	MsgInvalidAuthority = "Invalid Host or Authority header"
	MsgInvalidTarget    = "Invalid request target"
)

// Decision is the outcome for a single request. Exactly one of Target or
// Message is meaningful, selected by Kind.
type Decision struct {
	Kind    Kind
	Target  string
	Message string
}

// Redirect builds a redirect decision.
func Redirect(target string) Decision {
	return Decision{Kind: KindRedirect, Target: target}
}

// BadRequest builds a 400 decision.
func BadRequest(message string) Decision {
	return Decision{Kind: KindBadRequest, Message: message}
}

// IsRedirect reports whether d is a redirect.
func (d Decision) IsRedirect() bool {
	return d.Kind == KindRedirect
}

// Decide returns the decision for a request with the given path (path plus
// raw query) and authority. An empty authority means the client sent none.
//
// A redirect is produced only when "https://" + authority + path is made of
// visible ASCII and parses back into the same authority with no userinfo;
// anything else is a bad request.
func Decide(path, authority string) Decision {
	if authority == "" {
		return BadRequest(MsgMissingAuthority)
	}

	if !strings.HasPrefix(path, "/") || !visibleASCII(path) {
		return BadRequest(MsgInvalidTarget)
	}

	if !visibleASCII(authority) {
		return BadRequest(MsgInvalidAuthority)
	}

	target := "https://" + authority + path

	u, err := url.Parse(target)
	if err != nil || u.Scheme != "https" || u.Opaque != "" || u.User != nil || u.Host != authority {
		return BadRequest(MsgInvalidAuthority)
	}

	return Redirect(target)
}

// visibleASCII reports whether s holds only bytes allowed unescaped in a URI
// (no controls, spaces or non-ASCII).
func visibleASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] <= ' ' || s[i] >= 0x7f {
			return false
		}
	}

	return true
}

// Render writes d to w. Redirects use status, which must be a 3xx code;
// bad requests are always 400 with the message as a plain-text body.
func (d Decision) Render(w http.ResponseWriter, r *http.Request, status int) {
	if d.IsRedirect() {
		http.Redirect(w, r, d.Target, status)

		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = io.WriteString(w, d.Message)
}
