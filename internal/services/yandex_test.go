package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/desertthunder/yamusic/internal/diff"
	"github.com/desertthunder/yamusic/internal/models"
	"github.com/desertthunder/yamusic/internal/shared"
)

const testUID = 503646255

// fakeAPI records every request it serves.
type fakeAPI struct {
	mu       sync.Mutex
	mux      *http.ServeMux
	requests []string
	forms    []map[string]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{mux: http.NewServeMux()}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	form := map[string]string{}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}

	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.forms = append(f.forms, form)
	f.mu.Unlock()

	f.mux.ServeHTTP(w, r)
}

func (f *fakeAPI) handle(pattern string, body []byte) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	})
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "models", "testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return data
}

// listOf wraps the single "result" object of a fixture in a one-element list, the shape of the playlist endpoint.
func listOf(t *testing.T, name string) []byte {
	t.Helper()
	var env struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(fixture(t, name), &env); err != nil {
		t.Fatalf("failed to parse fixture %s: %v", name, err)
	}
	return []byte(fmt.Sprintf(`{"result":[%s]}`, env.Result))
}

func newTestService(t *testing.T, api http.Handler, authenticated bool) *YandexService {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	config := shared.DefaultConfig()
	config.API.Host = hostOf(srv)
	config.API.OAuthHost = hostOf(srv)
	config.API.Scheme = "http"
	config.API.RateLimit = 0
	if authenticated {
		config.Credentials.AccessToken = "test-token"
		config.Credentials.UserID = testUID
	}

	svc, err := NewYandexService(YandexOpts{
		Config: config,
		Client: srv.Client(),
		Logger: shared.NewLogger(io.Discard),
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestYandexService(t *testing.T) {
	ctx := context.Background()

	t.Run("NewYandexService", func(t *testing.T) {
		t.Run("restores credentials and generates device ids", func(t *testing.T) {
			svc := newTestService(t, newFakeAPI(), true)

			if !svc.IsAuthenticated() {
				t.Error("expected restored token to authenticate the service")
			}
			if svc.UserID() != testUID {
				t.Errorf("expected uid %d, got %d", testUID, svc.UserID())
			}
			creds := svc.Credentials()
			if len(creds.DeviceID) != 32 || len(creds.UUID) != 32 {
				t.Errorf("expected generated dash-free ids, got %q and %q", creds.DeviceID, creds.UUID)
			}
			if svc.Name() != "Yandex Music" {
				t.Errorf("unexpected name %s", svc.Name())
			}
		})

		t.Run("rejects invalid config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.API.Host = ""
			if _, err := NewYandexService(YandexOpts{Config: config}); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("Authenticate", func(t *testing.T) {
		t.Run("password grant stores token and uid", func(t *testing.T) {
			api := newFakeAPI()
			api.mux.HandleFunc("/1/token", func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("package_name") != "ru.yandex.music" || q.Get("device_id") == "" || q.Get("uuid") == "" {
					t.Errorf("expected device params, got %q", r.URL.RawQuery)
				}
				if r.PostForm.Get("grant_type") != "password" {
					t.Errorf("expected password grant, got %q", r.PostForm.Get("grant_type"))
				}
				if r.PostForm.Get("username") != "tester" || r.PostForm.Get("password") != "secret" {
					t.Errorf("unexpected credentials %v", r.PostForm)
				}
				if r.PostForm.Get("client_id") != "23cabbbdc6cd418abb4b39c32c41195d" {
					t.Errorf("expected client id in params, got %q", r.PostForm.Get("client_id"))
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"access_token":"fresh","token_type":"bearer","expires_in":31536000,"uid":503646255}`))
			})
			svc := newTestService(t, api, false)

			if err := svc.Authenticate(ctx, "tester", "secret"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !svc.IsAuthenticated() {
				t.Error("expected service to be authenticated")
			}
			creds := svc.Credentials()
			if creds.AccessToken != "fresh" || creds.UserID != testUID || creds.Login != "tester" {
				t.Errorf("unexpected credentials %+v", creds)
			}
		})

		t.Run("rejected credentials", func(t *testing.T) {
			api := newFakeAPI()
			api.mux.HandleFunc("/1/token", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid_grant","error_description":"login or password is not valid"}`))
			})
			svc := newTestService(t, api, false)

			err := svc.Authenticate(ctx, "tester", "wrong")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
			if svc.IsAuthenticated() {
				t.Error("expected service to stay unauthenticated")
			}
		})

		t.Run("token without uid is a format error", func(t *testing.T) {
			api := newFakeAPI()
			api.mux.HandleFunc("/1/token", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"access_token":"fresh","token_type":"bearer"}`))
			})
			svc := newTestService(t, api, false)

			err := svc.Authenticate(ctx, "tester", "secret")
			if !errors.Is(err, shared.ErrResponseFormat) {
				t.Errorf("expected ErrResponseFormat, got %v", err)
			}
		})

		t.Run("token response without access token is a format error", func(t *testing.T) {
			api := newFakeAPI()
			api.mux.HandleFunc("/1/token", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"uid":503646255}`))
			})
			svc := newTestService(t, api, false)

			if err := svc.Authenticate(ctx, "tester", "secret"); !errors.Is(err, shared.ErrResponseFormat) {
				t.Errorf("expected ErrResponseFormat, got %v", err)
			}
		})

		t.Run("missing credentials", func(t *testing.T) {
			api := newFakeAPI()
			svc := newTestService(t, api, false)

			if err := svc.Authenticate(ctx, "", ""); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
			if api.count() != 0 {
				t.Errorf("expected no request, got %d", api.count())
			}
		})
	})

	t.Run("Genres", func(t *testing.T) {
		api := newFakeAPI()
		api.mux.HandleFunc("/genres", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "OAuth test-token" {
				t.Errorf("expected OAuth header, got %q", r.Header.Get("Authorization"))
			}
			w.Write(fixture(t, "genres.json"))
		})
		svc := newTestService(t, api, true)

		genres, err := svc.Genres(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(genres) != 27 {
			t.Errorf("expected 27 genres, got %d", len(genres))
		}
	})

	t.Run("anonymous requests carry no authorization", func(t *testing.T) {
		api := newFakeAPI()
		api.mux.HandleFunc("/genres", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "" {
				t.Errorf("expected no authorization header, got %q", r.Header.Get("Authorization"))
			}
			w.Write(fixture(t, "genres.json"))
		})
		svc := newTestService(t, api, false)

		if _, err := svc.Genres(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Album", func(t *testing.T) {
		api := newFakeAPI()
		api.handle("/albums/3190526", []byte(`{"result":{"id":3190526,"title":"The Studio Album Collection 1991-2011","year":2014,"trackCount":128,"genre":"rock"}}`))
		svc := newTestService(t, api, false)

		album, err := svc.Album(ctx, 3190526)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if album.Title != "The Studio Album Collection 1991-2011" || album.Year == nil || *album.Year != 2014 {
			t.Errorf("unexpected album %+v", album)
		}
	})

	t.Run("Album with malformed payload", func(t *testing.T) {
		api := newFakeAPI()
		api.handle("/albums/1", []byte(`{"result":{"id":"abc","title":"x"}}`))
		svc := newTestService(t, api, false)

		_, err := svc.Album(ctx, 1)
		var fe *shared.FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FormatError, got %v", err)
		}
		if fe.Entity != "Album" || fe.Path != "id" {
			t.Errorf("expected Album id to be named, got %+v", fe)
		}
	})

	t.Run("SimilarTracks", func(t *testing.T) {
		api := newFakeAPI()
		api.handle("/tracks/30000101/similar", fixture(t, "similar.json"))
		svc := newTestService(t, api, false)

		similar, err := svc.SimilarTracks(ctx, 30000101)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if similar.Track.Title != "Californication" {
			t.Errorf("unexpected track %s", similar.Track.Title)
		}
	})

	t.Run("Playlists", func(t *testing.T) {
		t.Run("list view has no tracks", func(t *testing.T) {
			api := newFakeAPI()
			api.handle(fmt.Sprintf("/users/%d/playlists/list", testUID), fixture(t, "playlists.json"))
			svc := newTestService(t, api, true)

			playlists, err := svc.Playlists(ctx, 0)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(playlists) == 0 {
				t.Fatal("expected playlists")
			}
			for _, p := range playlists {
				if p.HasTracks() {
					t.Errorf("expected playlist %d to have no track list", p.Kind)
				}
			}
		})

		t.Run("requires a user id when anonymous", func(t *testing.T) {
			api := newFakeAPI()
			svc := newTestService(t, api, false)

			if _, err := svc.Playlists(ctx, 0); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if api.count() != 0 {
				t.Errorf("expected no request, got %d", api.count())
			}
		})
	})

	t.Run("Playlist", func(t *testing.T) {
		t.Run("rich detail view", func(t *testing.T) {
			api := newFakeAPI()
			api.mux.HandleFunc(fmt.Sprintf("/users/%d/playlists", testUID), func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("kinds") != "1084" || r.URL.Query().Get("rich-tracks") != "true" {
					t.Errorf("unexpected query %q", r.URL.RawQuery)
				}
				w.Write(listOf(t, "playlist.json"))
			})
			svc := newTestService(t, api, false)

			p, err := svc.Playlist(ctx, 1084, testUID, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if p.Kind != 1084 || p.Title != "Funk" {
				t.Errorf("unexpected playlist %d %s", p.Kind, p.Title)
			}
			if len(p.Tracks) != 11 {
				t.Fatalf("expected 11 tracks, got %d", len(p.Tracks))
			}
			for i, ref := range p.Tracks {
				if !ref.IsRich() {
					t.Errorf("expected slot %d to embed its track", i)
				}
			}
		})

		t.Run("detail decoded as tracks", func(t *testing.T) {
			api := newFakeAPI()
			api.handle(fmt.Sprintf("/users/%d/playlists", testUID), listOf(t, "playlist.json"))
			svc := newTestService(t, api, true)

			p, err := svc.PlaylistDetail(ctx, 1084, 0)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(p.Tracks) != 11 || p.Tracks[0].Title != "Snow (Hey Oh)" {
				t.Errorf("unexpected tracks %v", p.Tracks)
			}
		})

		t.Run("empty playlist still has a track list", func(t *testing.T) {
			api := newFakeAPI()
			api.handle(fmt.Sprintf("/users/%d/playlists", testUID),
				[]byte(`{"result":[{"kind":3,"title":"Empty","owner":{"uid":503646255,"login":"yamusic-tester"},"trackCount":0,"revision":1}]}`))
			svc := newTestService(t, api, true)

			p, err := svc.Playlist(ctx, 3, 0, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !p.HasTracks() || len(p.Tracks) != 0 {
				t.Errorf("expected an empty track list, got %v", p.Tracks)
			}
		})

		t.Run("unknown kind", func(t *testing.T) {
			api := newFakeAPI()
			api.handle(fmt.Sprintf("/users/%d/playlists", testUID), []byte(`{"result":[]}`))
			svc := newTestService(t, api, true)

			if _, err := svc.Playlist(ctx, 99, 0, true); !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("by title", func(t *testing.T) {
			api := newFakeAPI()
			api.handle(fmt.Sprintf("/users/%d/playlists/list", testUID), fixture(t, "playlists.json"))
			api.handle(fmt.Sprintf("/users/%d/playlists", testUID), listOf(t, "playlist.json"))
			svc := newTestService(t, api, true)

			p, err := svc.PlaylistByTitle(ctx, "Funk", 0)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if p.Kind != 1084 || !p.HasTracks() {
				t.Errorf("expected the Funk detail view, got %d", p.Kind)
			}

			_, err = svc.PlaylistByTitle(ctx, "Nowhere", 0)
			if !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			if errors.Is(err, shared.ErrResponseFormat) {
				t.Error("a missing title must not be a format error")
			}
		})
	})

	t.Run("mutations require authentication", func(t *testing.T) {
		api := newFakeAPI()
		svc := newTestService(t, api, false)

		calls := map[string]func() error{
			"create": func() error { _, err := svc.CreatePlaylist(ctx, "x", models.VisibilityPublic); return err },
			"rename": func() error { return svc.RenamePlaylist(ctx, 1, "x") },
			"delete": func() error { return svc.DeletePlaylist(ctx, 1) },
			"insert": func() error {
				_, err := svc.InsertTracks(ctx, 1, []models.TrackKey{{ID: 1, AlbumID: 2}}, 0, false)
				return err
			},
			"add":    func() error { _, err := svc.AddTracks(ctx, 1, nil, 0, false); return err },
			"remove": func() error { _, err := svc.DeleteTracks(ctx, 1, 0, diff.ToEnd); return err },
		}
		for name, call := range calls {
			t.Run(name, func(t *testing.T) {
				if err := call(); !errors.Is(err, shared.ErrNotAuthenticated) {
					t.Errorf("expected ErrNotAuthenticated, got %v", err)
				}
			})
		}
		if api.count() != 0 {
			t.Errorf("expected no request before the auth check, got %d", api.count())
		}
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		api := newFakeAPI()
		api.handle(fmt.Sprintf("/users/%d/playlists/create", testUID), fixture(t, "playlist.json"))
		svc := newTestService(t, api, true)

		p, err := svc.CreatePlaylist(ctx, "Funk", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p.Kind != 1084 {
			t.Errorf("expected kind 1084, got %d", p.Kind)
		}
		if got := api.forms[0]; got["title"] != "Funk" || got["visibility"] != "private" {
			t.Errorf("unexpected form %v", got)
		}
	})

	t.Run("RenamePlaylist", func(t *testing.T) {
		api := newFakeAPI()
		api.handle(fmt.Sprintf("/users/%d/playlists/1084/name", testUID), []byte(`{"result":"ok"}`))
		svc := newTestService(t, api, true)

		if err := svc.RenamePlaylist(ctx, 1084, "Funk II"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if api.forms[0]["value"] != "Funk II" {
			t.Errorf("unexpected form %v", api.forms[0])
		}
		if err := svc.RenamePlaylist(ctx, 1084, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("DeletePlaylist", func(t *testing.T) {
		api := newFakeAPI()
		api.handle(fmt.Sprintf("/users/%d/playlists/1084/delete", testUID), []byte(`{"result":"ok"}`))
		svc := newTestService(t, api, true)

		if err := svc.DeletePlaylist(ctx, 1084); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if api.requests[0] != fmt.Sprintf("POST /users/%d/playlists/1084/delete", testUID) {
			t.Errorf("unexpected request %s", api.requests[0])
		}
	})

	t.Run("InsertTracks", func(t *testing.T) {
		changePath := fmt.Sprintf("/users/%d/playlists/1084/change-relative", testUID)

		t.Run("fetches the revision before submitting", func(t *testing.T) {
			api := newFakeAPI()
			api.mux.HandleFunc(fmt.Sprintf("/users/%d/playlists", testUID), func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("rich-tracks") != "false" {
					t.Errorf("expected lazy fetch, got %q", r.URL.RawQuery)
				}
				w.Write(listOf(t, "playlist.json"))
			})
			api.handle(changePath, fixture(t, "playlist.json"))
			svc := newTestService(t, api, true)

			keys := []models.TrackKey{{ID: 1, AlbumID: 2}, {ID: 3, AlbumID: 4}}
			p, err := svc.InsertTracks(ctx, 1084, keys, 0, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if p.Kind != 1084 {
				t.Errorf("expected returned playlist, got %d", p.Kind)
			}

			if len(api.requests) != 2 || api.requests[0] != fmt.Sprintf("GET /users/%d/playlists", testUID) || api.requests[1] != "POST "+changePath {
				t.Fatalf("expected fetch then submit, got %v", api.requests)
			}
			form := api.forms[1]
			if form["kind"] != "1084" || form["revision"] != "14" {
				t.Errorf("expected kind and captured revision, got %v", form)
			}
			if want := `[{"op":"insert","at":0,"tracks":[{"id":1,"albumId":2},{"id":3,"albumId":4}]}]`; form["diff"] != want {
				t.Errorf("expected diff %s, got %s", want, form["diff"])
			}
		})

		t.Run("duplicates only submits nothing", func(t *testing.T) {
			api := newFakeAPI()
			api.handle(fmt.Sprintf("/users/%d/playlists", testUID), listOf(t, "playlist.json"))
			api.handle(changePath, fixture(t, "playlist.json"))
			svc := newTestService(t, api, true)

			keys := []models.TrackKey{{ID: 30000000, AlbumID: 3190526}}
			p, err := svc.InsertTracks(ctx, 1084, keys, 0, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if p.Kind != 1084 {
				t.Errorf("expected the fetched playlist, got %d", p.Kind)
			}
			if api.count() != 1 {
				t.Errorf("expected only the fetch, got %v", api.requests)
			}
		})

		t.Run("drops present tracks before submitting", func(t *testing.T) {
			api := newFakeAPI()
			api.handle(fmt.Sprintf("/users/%d/playlists", testUID), listOf(t, "playlist.json"))
			api.handle(changePath, fixture(t, "playlist.json"))
			svc := newTestService(t, api, true)

			keys := []models.TrackKey{{ID: 30000000, AlbumID: 3190526}, {ID: 7, AlbumID: 8}}
			if _, err := svc.InsertTracks(ctx, 1084, keys, 11, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if want := `[{"op":"insert","at":11,"tracks":[{"id":7,"albumId":8}]}]`; api.forms[1]["diff"] != want {
				t.Errorf("expected diff %s, got %s", want, api.forms[1]["diff"])
			}
		})

		t.Run("stale revision is surfaced without retry", func(t *testing.T) {
			api := newFakeAPI()
			api.handle(fmt.Sprintf("/users/%d/playlists", testUID), listOf(t, "playlist.json"))
			api.mux.HandleFunc(changePath, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusPreconditionFailed)
				w.Write([]byte(`{"error":{"name":"wrong-revision"}}`))
			})
			svc := newTestService(t, api, true)

			_, err := svc.InsertTracks(ctx, 1084, []models.TrackKey{{ID: 1, AlbumID: 2}}, 0, false)
			if !errors.Is(err, shared.ErrStaleRevision) {
				t.Errorf("expected ErrStaleRevision, got %v", err)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected the request failure to be kept, got %v", err)
			}
			if api.count() != 2 {
				t.Errorf("expected a single fetch and submit, got %v", api.requests)
			}
		})

		t.Run("other rejections are plain request failures", func(t *testing.T) {
			api := newFakeAPI()
			api.handle(fmt.Sprintf("/users/%d/playlists", testUID), listOf(t, "playlist.json"))
			api.mux.HandleFunc(changePath, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			})
			svc := newTestService(t, api, true)

			_, err := svc.InsertTracks(ctx, 1084, []models.TrackKey{{ID: 1, AlbumID: 2}}, 0, false)
			if !errors.Is(err, shared.ErrAPIRequest) || errors.Is(err, shared.ErrStaleRevision) {
				t.Errorf("expected a plain request failure, got %v", err)
			}
		})
	})

	t.Run("AddTracks", func(t *testing.T) {
		t.Run("keys tracks by their first album", func(t *testing.T) {
			api := newFakeAPI()
			api.handle(fmt.Sprintf("/users/%d/playlists", testUID), listOf(t, "playlist.json"))
			api.handle(fmt.Sprintf("/users/%d/playlists/1084/change-relative", testUID), fixture(t, "playlist.json"))
			svc := newTestService(t, api, true)

			tracks := []models.Track{{ID: 5, Albums: []models.Album{{ID: 50}, {ID: 51}}}}
			if _, err := svc.AddTracks(ctx, 1084, tracks, 0, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if want := `[{"op":"insert","at":0,"tracks":[{"id":5,"albumId":50}]}]`; api.forms[1]["diff"] != want {
				t.Errorf("expected diff %s, got %s", want, api.forms[1]["diff"])
			}
		})

		t.Run("track without albums fails before any request", func(t *testing.T) {
			api := newFakeAPI()
			svc := newTestService(t, api, true)

			_, err := svc.AddTracks(ctx, 1084, []models.Track{{ID: 5}}, 0, false)
			if !errors.Is(err, shared.ErrResponseFormat) {
				t.Errorf("expected ErrResponseFormat, got %v", err)
			}
			if api.count() != 0 {
				t.Errorf("expected no request, got %v", api.requests)
			}
		})
	})

	t.Run("DeleteTracks", func(t *testing.T) {
		t.Run("through the end", func(t *testing.T) {
			api := newFakeAPI()
			api.handle(fmt.Sprintf("/users/%d/playlists", testUID), listOf(t, "playlist.json"))
			api.handle(fmt.Sprintf("/users/%d/playlists/1084/change-relative", testUID), fixture(t, "playlist.json"))
			svc := newTestService(t, api, true)

			if _, err := svc.DeleteTracks(ctx, 1084, 3, diff.ToEnd); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			form := api.forms[1]
			if form["diff"] != `[{"op":"delete","from":3,"to":10}]` || form["revision"] != "14" {
				t.Errorf("unexpected form %v", form)
			}
		})

		t.Run("range outside the playlist is not submitted", func(t *testing.T) {
			api := newFakeAPI()
			api.handle(fmt.Sprintf("/users/%d/playlists", testUID), listOf(t, "playlist.json"))
			svc := newTestService(t, api, true)

			if _, err := svc.DeleteTracks(ctx, 1084, 5, 11); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if api.count() != 1 {
				t.Errorf("expected only the fetch, got %v", api.requests)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("tracks in order", func(t *testing.T) {
			api := newFakeAPI()
			api.mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("type") != "track" || q.Get("text") != "clocks" || q.Get("page") != "0" {
					t.Errorf("unexpected query %q", r.URL.RawQuery)
				}
				w.Write(fixture(t, "search_result_tracks.json"))
			})
			svc := newTestService(t, api, false)

			tracks, err := svc.SearchTracks(ctx, "clocks", 0)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 20 {
				t.Errorf("expected 20 tracks, got %d", len(tracks))
			}
		})

		t.Run("all sections", func(t *testing.T) {
			api := newFakeAPI()
			api.handle("/search", fixture(t, "search_result.json"))
			svc := newTestService(t, api, false)

			result, err := svc.Search(ctx, "red hot", "", 0)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.Text != "red hot" {
				t.Errorf("unexpected text %q", result.Text)
			}

			artists, err := svc.SearchArtists(ctx, "red hot", 0)
			if err != nil || len(artists) != len(result.Artists) {
				t.Errorf("expected artists section, got %v (%v)", artists, err)
			}
			albums, err := svc.SearchAlbums(ctx, "red hot", 0)
			if err != nil || len(albums) != len(result.Albums) {
				t.Errorf("expected albums section, got %v (%v)", albums, err)
			}
		})

		t.Run("empty query", func(t *testing.T) {
			svc := newTestService(t, newFakeAPI(), false)
			if _, err := svc.Search(ctx, "", models.SearchAll, 0); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})
}
