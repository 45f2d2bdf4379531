package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/yamusic/internal/shared"
	tu "github.com/desertthunder/yamusic/internal/testing"
)

func newTestTransport(srv *httptest.Server, rateLimit float64) *HTTPTransport {
	return NewHTTPTransport(TransportOpts{
		Scheme:    "http",
		RateLimit: rateLimit,
		Client:    srv.Client(),
		Logger:    shared.NewLogger(io.Discard),
	})
}

func hostOf(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestHTTPTransport(t *testing.T) {
	t.Run("NewHTTPTransport", func(t *testing.T) {
		t.Run("defaults scheme and client", func(t *testing.T) {
			tr := NewHTTPTransport(TransportOpts{Timeout: 5 * time.Second})

			if tr.scheme != "https" {
				t.Errorf("expected https scheme, got %s", tr.scheme)
			}
			if tr.Client().Timeout != 5*time.Second {
				t.Errorf("expected 5s client timeout, got %v", tr.Client().Timeout)
			}
			if tr.limiter != nil {
				t.Error("expected no limiter without a rate limit")
			}
		})

		t.Run("with rate limit", func(t *testing.T) {
			tr := NewHTTPTransport(TransportOpts{RateLimit: 2})
			if tr.limiter == nil {
				t.Fatal("expected limiter to be set")
			}
		})
	})

	t.Run("URL", func(t *testing.T) {
		tr := NewHTTPTransport(TransportOpts{})
		if got := tr.URL("api.music.yandex.net", "/genres"); got != "https://api.music.yandex.net/genres" {
			t.Errorf("unexpected URL %s", got)
		}
	})

	t.Run("Do", func(t *testing.T) {
		t.Run("sends params, headers and form", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/users/1/playlists/create" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("page") != "2" {
					t.Errorf("expected page param, got %q", r.URL.RawQuery)
				}
				if r.Header.Get("Authorization") != "OAuth secret" {
					t.Errorf("expected authorization header, got %q", r.Header.Get("Authorization"))
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}
				if r.PostForm.Get("title") != "Funk" {
					t.Errorf("expected title form value, got %q", r.PostForm.Get("title"))
				}
				w.Write([]byte(`{"result":{}}`))
			}))
			defer srv.Close()

			tr := newTestTransport(srv, 0)
			body, err := tr.Do(context.Background(), Request{
				Method:  http.MethodPost,
				Host:    hostOf(srv),
				Path:    "users/1/playlists/create",
				Params:  url.Values{"page": {"2"}},
				Headers: http.Header{"Authorization": {"OAuth secret"}},
				Form:    url.Values{"title": {"Funk"}},
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if string(body) != `{"result":{}}` {
				t.Errorf("unexpected body %s", body)
			}
		})

		t.Run("non-2xx response is an HTTPError", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"bad"}`))
			}))
			defer srv.Close()

			tr := newTestTransport(srv, 0)
			_, err := tr.Do(context.Background(), Request{Method: http.MethodGet, Host: hostOf(srv), Path: "genres"})

			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected HTTPError, got %v", err)
			}
			if httpErr.StatusCode != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", httpErr.StatusCode)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Error("expected error to wrap ErrAPIRequest")
			}
			if !strings.Contains(err.Error(), "genres") || !strings.Contains(err.Error(), "bad") {
				t.Errorf("expected path and body in message, got %v", err)
			}
		})

		t.Run("connection failure wraps ErrAPIRequest", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			tr := NewHTTPTransport(TransportOpts{Client: client, Logger: shared.NewLogger(io.Discard)})

			_, err := tr.Do(context.Background(), Request{Method: http.MethodGet, Host: "example.test", Path: "genres"})
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("unreadable body", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
			client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
			tr := NewHTTPTransport(TransportOpts{Client: client, Logger: shared.NewLogger(io.Discard)})

			_, err := tr.Do(context.Background(), Request{Method: http.MethodGet, Host: "example.test", Path: "genres"})
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected read failure, got %v", err)
			}
		})

		t.Run("cancelled context stops at the limiter", func(t *testing.T) {
			hits := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits++
			}))
			defer srv.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			tr := newTestTransport(srv, 1)
			if _, err := tr.Do(ctx, Request{Method: http.MethodGet, Host: hostOf(srv), Path: "genres"}); err == nil {
				t.Error("expected error for cancelled context")
			}
			if hits != 0 {
				t.Errorf("expected no request, got %d", hits)
			}
		})
	})
}
