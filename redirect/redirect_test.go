package redirect_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/flrossetto/httpsredirect/redirect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideRedirects(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		authority string
		want      string
	}{
		{"root", "/", "example.com", "https://example.com/"},
		{"port and query", "/a/b?c=d", "example.com:8080", "https://example.com:8080/a/b?c=d"},
		{"simple path", "/foo", "example.com", "https://example.com/foo"},
		{"ipv4", "/x", "10.0.0.1", "https://10.0.0.1/x"},
		{"ipv6 with port", "/x", "[::1]:8443", "https://[::1]:8443/x"},
		{"escaped path", "/a%20b/c", "example.com", "https://example.com/a%20b/c"},
		{"double slash path", "//other.example/x", "example.com", "https://example.com//other.example/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := redirect.Decide(tt.path, tt.authority)

			require.True(t, d.IsRedirect(), "got %+v", d)
			assert.Equal(t, tt.want, d.Target)
			assert.Equal(t, "https://"+tt.authority+tt.path, d.Target)
		})
	}
}

func TestDecideMissingAuthority(t *testing.T) {
	for _, path := range []string{"/", "/foo", "/a/b?c=d"} {
		d := redirect.Decide(path, "")

		assert.Equal(t, redirect.BadRequest(redirect.MsgMissingAuthority), d)
		assert.Equal(t, "Missing Host or Authority header", d.Message)
	}
}

func TestDecideInvalidAuthority(t *testing.T) {
	for _, authority := range []string{
		"exa mple.com",
		"example.com:abc",
		"user@example.com",
		"example.com/evil",
		"example.com?x=1",
		"example.com#frag",
		"exa\x00mple.com",
	} {
		t.Run(authority, func(t *testing.T) {
			d := redirect.Decide("/foo", authority)

			assert.False(t, d.IsRedirect())
			assert.Equal(t, redirect.MsgInvalidAuthority, d.Message)
		})
	}
}

func TestDecideInvalidTarget(t *testing.T) {
	d := redirect.Decide("*", "example.com")

	assert.Equal(t, redirect.BadRequest(redirect.MsgInvalidTarget), d)
}

func TestDecideRejectsNonASCIITarget(t *testing.T) {
	for _, path := range []string{"/%C3%A4?q=\u00e4", "/a b", "/tab\there", "/del\x7f"} {
		d := redirect.Decide(path, "example.com")

		assert.Equal(t, redirect.BadRequest(redirect.MsgInvalidTarget), d, "path %q", path)
	}

	d := redirect.Decide("/", "\u00e4.example")
	assert.Equal(t, redirect.BadRequest(redirect.MsgInvalidAuthority), d)
}

func TestDecideTargetIsVisibleASCII(t *testing.T) {
	d := redirect.Decide("/%C3%A4?q=%C3%A4", "example.com")
	require.True(t, d.IsRedirect())

	for i := 0; i < len(d.Target); i++ {
		assert.True(t, d.Target[i] > ' ' && d.Target[i] < 0x7f, "byte %d of %q", i, d.Target)
	}
}

func TestDecideIsIdempotent(t *testing.T) {
	inputs := [][2]string{
		{"/", "example.com"},
		{"/foo", ""},
		{"/bar", "bad host"},
	}

	for _, in := range inputs {
		assert.Equal(t, redirect.Decide(in[0], in[1]), redirect.Decide(in[0], in[1]))
	}
}

func TestDecideTargetRoundTrips(t *testing.T) {
	tests := [][2]string{
		{"/", "example.com"},
		{"/a/b?c=d", "example.com:8080"},
		{"/search?q=go&page=2", "sub.example.org"},
	}

	for _, tt := range tests {
		path, authority := tt[0], tt[1]
		d := redirect.Decide(path, authority)
		require.True(t, d.IsRedirect())

		u, err := url.Parse(d.Target)
		require.NoError(t, err)
		assert.Equal(t, "https", u.Scheme)
		assert.Equal(t, authority, u.Host)
		assert.Equal(t, path, u.RequestURI())
	}
}

func TestRenderRedirect(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/foo", nil)

	redirect.Redirect("https://example.com/foo").Render(rr, req, http.StatusTemporaryRedirect)

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "https://example.com/foo", rr.Header().Get("Location"))
}

func TestRenderRedirectHonoursStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/foo", nil)

	redirect.Redirect("https://example.com/foo").Render(rr, req, http.StatusPermanentRedirect)

	assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
	assert.Equal(t, "https://example.com/foo", rr.Header().Get("Location"))
}

func TestRenderBadRequest(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/foo", nil)

	redirect.BadRequest(redirect.MsgMissingAuthority).Render(rr, req, http.StatusTemporaryRedirect)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing Host or Authority header", rr.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Empty(t, rr.Header().Get("Location"))
}
