// Yandex Music API implementation of [Service]
//
// Endpoints follow the mobile client: catalog and playlist reads under api.music.yandex.net,
// password grant tokens from oauth.mobile.yandex.net.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/yamusic/internal/diff"
	"github.com/desertthunder/yamusic/internal/models"
	"github.com/desertthunder/yamusic/internal/shared"
	"golang.org/x/oauth2"
)

const tokenPath = "1/token"

// YandexOpts contains the dependencies of a [YandexService].
type YandexOpts struct {
	Config    *shared.Config
	Transport Transport    // defaults to an [HTTPTransport] built from Config.API
	Client    *http.Client // used for the token exchange, defaults to the transport's client
	Logger    *log.Logger
}

// YandexService implements [Service] against the Yandex Music API.
//
// It owns the authentication state (access token and user id); decoding and diff construction are delegated to the
// models and diff packages.
type YandexService struct {
	transport  Transport
	httpClient *http.Client
	api        shared.APIConfig
	oauth      shared.OAuthConfig
	deviceID   string
	uuid       string
	login      string
	token      string
	userID     int64
	logger     *log.Logger
}

// NewYandexService creates a service from the configuration, restoring a persisted token when present.
func NewYandexService(opts YandexOpts) (*YandexService, error) {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	if opts.Transport == nil {
		t := NewHTTPTransport(TransportOpts{
			Scheme:    opts.Config.API.Scheme,
			Timeout:   opts.Config.API.Timeout(),
			RateLimit: opts.Config.API.RateLimit,
			Client:    opts.Client,
			Logger:    opts.Logger,
		})
		opts.Transport = t
		if opts.Client == nil {
			opts.Client = t.Client()
		}
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	creds := opts.Config.Credentials
	creds.EnsureDevice()

	return &YandexService{
		transport:  opts.Transport,
		httpClient: opts.Client,
		api:        opts.Config.API,
		oauth:      opts.Config.OAuth,
		deviceID:   creds.DeviceID,
		uuid:       creds.UUID,
		login:      creds.Login,
		token:      creds.AccessToken,
		userID:     creds.UserID,
		logger:     shared.WithLogger(opts.Logger, "service", "yandex"),
	}, nil
}

func (y *YandexService) Name() string {
	return "Yandex Music"
}

// Authenticate requests a token with the OAuth2 password grant.
//
// Rejected credentials fail with [shared.ErrAuthFailed]; a token response without a uid is a format error.
func (y *YandexService) Authenticate(ctx context.Context, login, password string) error {
	if login == "" || password == "" {
		return fmt.Errorf("%w: login and password are required", shared.ErrMissingCredentials)
	}

	params := url.Values{
		"device_id":    {y.deviceID},
		"uuid":         {y.uuid},
		"package_name": {y.oauth.PackageName},
	}
	config := &oauth2.Config{
		ClientID:     y.oauth.ClientID,
		ClientSecret: y.oauth.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  y.endpoint(y.api.OAuthHost, tokenPath) + "?" + params.Encode(),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	y.logger.Debug("requesting token", "login", login, "host", y.api.OAuthHost)

	ctx = context.WithValue(ctx, oauth2.HTTPClient, y.httpClient)
	token, err := config.PasswordCredentialsToken(ctx, login, password)
	if err != nil {
		return tokenError(err)
	}

	uid, ok := extraInt(token.Extra("uid"))
	if !ok {
		return &shared.FormatError{Entity: "Token", Path: "uid", Reason: "required field missing"}
	}

	y.login = login
	y.token = token.AccessToken
	y.userID = uid
	y.logger.Info("authenticated", "login", login, "uid", uid)
	return nil
}

// Credentials returns the authentication state for persisting.
func (y *YandexService) Credentials() shared.CredentialsConfig {
	return shared.CredentialsConfig{
		Login:       y.login,
		AccessToken: y.token,
		UserID:      y.userID,
		DeviceID:    y.deviceID,
		UUID:        y.uuid,
	}
}

func (y *YandexService) IsAuthenticated() bool {
	return y.token != "" && y.userID != 0
}

func (y *YandexService) UserID() int64 {
	return y.userID
}

func (y *YandexService) Genres(ctx context.Context) ([]models.Genre, error) {
	data, err := y.get(ctx, "genres", nil)
	if err != nil {
		return nil, err
	}
	return models.Genres.UnmarshalMany(data, models.InResultList)
}

func (y *YandexService) Album(ctx context.Context, albumID int64) (*models.Album, error) {
	data, err := y.get(ctx, fmt.Sprintf("albums/%d", albumID), nil)
	if err != nil {
		return nil, err
	}
	album, err := models.Albums.Unmarshal(data, models.InResult)
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (y *YandexService) SimilarTracks(ctx context.Context, trackID int64) (*models.Similar, error) {
	data, err := y.get(ctx, fmt.Sprintf("tracks/%d/similar", trackID), nil)
	if err != nil {
		return nil, err
	}
	similar, err := models.SimilarTracks.Unmarshal(data, models.InResult)
	if err != nil {
		return nil, err
	}
	return &similar, nil
}

func (y *YandexService) Playlists(ctx context.Context, userID int64) ([]models.Playlist[models.TrackReference], error) {
	owner, err := y.owner(userID)
	if err != nil {
		return nil, err
	}

	data, err := y.get(ctx, fmt.Sprintf("users/%d/playlists/list", owner), nil)
	if err != nil {
		return nil, err
	}
	return models.PlaylistRefs.UnmarshalMany(data, models.InResultList)
}

func (y *YandexService) Playlist(ctx context.Context, kind, userID int64, rich bool) (*models.Playlist[models.TrackReference], error) {
	data, owner, err := y.fetchPlaylist(ctx, kind, userID, rich)
	if err != nil {
		return nil, err
	}

	playlists, err := models.PlaylistRefs.UnmarshalMany(data, models.InResultList)
	if err != nil {
		return nil, err
	}
	if len(playlists) == 0 {
		return nil, fmt.Errorf("%w: playlist %d of user %d", shared.ErrNotFound, kind, owner)
	}

	p := playlists[0]
	if p.Tracks == nil {
		p.Tracks = []models.TrackReference{}
	}
	return &p, nil
}

func (y *YandexService) PlaylistDetail(ctx context.Context, kind, userID int64) (*models.Playlist[models.Track], error) {
	data, owner, err := y.fetchPlaylist(ctx, kind, userID, true)
	if err != nil {
		return nil, err
	}

	playlists, err := models.PlaylistTracks.UnmarshalMany(data, models.InResultList)
	if err != nil {
		return nil, err
	}
	if len(playlists) == 0 {
		return nil, fmt.Errorf("%w: playlist %d of user %d", shared.ErrNotFound, kind, owner)
	}

	p := playlists[0]
	if p.Tracks == nil {
		p.Tracks = []models.Track{}
	}
	return &p, nil
}

func (y *YandexService) PlaylistByTitle(ctx context.Context, title string, userID int64) (*models.Playlist[models.TrackReference], error) {
	playlists, err := y.Playlists(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, p := range playlists {
		if p.Title == title {
			return y.Playlist(ctx, p.Kind, p.Owner.UID, true)
		}
	}
	return nil, fmt.Errorf("%w: playlist %q", shared.ErrNotFound, title)
}

func (y *YandexService) CreatePlaylist(ctx context.Context, title string, visibility models.Visibility) (*models.Playlist[models.TrackReference], error) {
	if err := y.requireAuth(); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, fmt.Errorf("%w: playlist title", shared.ErrMissingArgument)
	}
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}

	form := url.Values{"title": {title}, "visibility": {string(visibility)}}
	data, err := y.post(ctx, fmt.Sprintf("users/%d/playlists/create", y.userID), form)
	if err != nil {
		return nil, err
	}

	p, err := models.PlaylistRefs.Unmarshal(data, models.InResult)
	if err != nil {
		return nil, err
	}
	y.logger.Info("created playlist", "kind", p.Kind, "title", p.Title)
	return &p, nil
}

func (y *YandexService) RenamePlaylist(ctx context.Context, kind int64, title string) error {
	if err := y.requireAuth(); err != nil {
		return err
	}
	if title == "" {
		return fmt.Errorf("%w: playlist title", shared.ErrMissingArgument)
	}

	path := fmt.Sprintf("users/%d/playlists/%d/name", y.userID, kind)
	if _, err := y.post(ctx, path, url.Values{"value": {title}}); err != nil {
		return err
	}
	y.logger.Info("renamed playlist", "kind", kind, "title", title)
	return nil
}

func (y *YandexService) DeletePlaylist(ctx context.Context, kind int64) error {
	if err := y.requireAuth(); err != nil {
		return err
	}

	path := fmt.Sprintf("users/%d/playlists/%d/delete", y.userID, kind)
	if _, err := y.post(ctx, path, url.Values{}); err != nil {
		return err
	}
	y.logger.Info("deleted playlist", "kind", kind)
	return nil
}

// InsertTracks fetches the playlist, builds an insert against its current revision and submits it.
//
// When duplicate filtering leaves nothing to insert, no change is submitted and the fetched playlist is returned.
func (y *YandexService) InsertTracks(ctx context.Context, kind int64, keys []models.TrackKey, at int, ignoreDuplicates bool) (*models.Playlist[models.TrackReference], error) {
	if err := y.requireAuth(); err != nil {
		return nil, err
	}

	current, err := y.Playlist(ctx, kind, 0, false)
	if err != nil {
		return nil, err
	}

	op, err := diff.BuildInsert(*current, keys, at, ignoreDuplicates)
	if err != nil {
		return nil, err
	}
	if op.Empty() {
		y.logger.Info("every track is already in the playlist", "kind", kind)
		return current, nil
	}

	return y.submit(ctx, *current, op)
}

func (y *YandexService) AddTracks(ctx context.Context, kind int64, tracks []models.Track, at int, ignoreDuplicates bool) (*models.Playlist[models.TrackReference], error) {
	if err := y.requireAuth(); err != nil {
		return nil, err
	}

	keys := make([]models.TrackKey, 0, len(tracks))
	for _, t := range tracks {
		k, err := t.Key()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return y.InsertTracks(ctx, kind, keys, at, ignoreDuplicates)
}

func (y *YandexService) DeleteTracks(ctx context.Context, kind int64, from, to int) (*models.Playlist[models.TrackReference], error) {
	if err := y.requireAuth(); err != nil {
		return nil, err
	}

	current, err := y.Playlist(ctx, kind, 0, false)
	if err != nil {
		return nil, err
	}

	op, err := diff.BuildDelete(*current, from, to)
	if err != nil {
		return nil, err
	}
	return y.submit(ctx, *current, op)
}

func (y *YandexService) Search(ctx context.Context, query string, searchType models.SearchType, page int) (*models.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	if searchType == "" {
		searchType = models.SearchAll
	}

	params := url.Values{
		"type": {string(searchType)},
		"text": {query},
		"page": {strconv.Itoa(page)},
	}
	data, err := y.get(ctx, "search", params)
	if err != nil {
		return nil, err
	}

	result, err := models.SearchResults.Unmarshal(data, models.InResult)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (y *YandexService) SearchArtists(ctx context.Context, name string, page int) ([]models.Artist, error) {
	result, err := y.Search(ctx, name, models.SearchArtist, page)
	if err != nil {
		return nil, err
	}
	return result.Artists, nil
}

func (y *YandexService) SearchAlbums(ctx context.Context, title string, page int) ([]models.Album, error) {
	result, err := y.Search(ctx, title, models.SearchAlbum, page)
	if err != nil {
		return nil, err
	}
	return result.Albums, nil
}

func (y *YandexService) SearchTracks(ctx context.Context, title string, page int) ([]models.Track, error) {
	result, err := y.Search(ctx, title, models.SearchTrack, page)
	if err != nil {
		return nil, err
	}
	return result.Tracks, nil
}

// submit sends a single operation with the revision captured from current.
//
// A stale revision is reported with [shared.ErrStaleRevision]; the change is never retried.
func (y *YandexService) submit(ctx context.Context, current models.Playlist[models.TrackReference], op diff.Op) (*models.Playlist[models.TrackReference], error) {
	sub, err := diff.NewSubmission(current, op)
	if err != nil {
		return nil, err
	}
	form, err := sub.Form()
	if err != nil {
		return nil, err
	}

	y.logger.Info("submitting change", "kind", sub.Kind, "revision", sub.Revision, "op", op.String())

	path := fmt.Sprintf("users/%d/playlists/%d/change-relative", y.userID, sub.Kind)
	data, err := y.post(ctx, path, form)
	if err != nil {
		if isStaleRevision(err) {
			return nil, fmt.Errorf("%w: playlist %d at revision %d: %w", shared.ErrStaleRevision, sub.Kind, sub.Revision, err)
		}
		return nil, err
	}

	p, err := models.PlaylistRefs.Unmarshal(data, models.InResult)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (y *YandexService) fetchPlaylist(ctx context.Context, kind, userID int64, rich bool) ([]byte, int64, error) {
	owner, err := y.owner(userID)
	if err != nil {
		return nil, 0, err
	}

	params := url.Values{
		"kinds":       {strconv.FormatInt(kind, 10)},
		"rich-tracks": {strconv.FormatBool(rich)},
	}
	data, err := y.get(ctx, fmt.Sprintf("users/%d/playlists", owner), params)
	return data, owner, err
}

// requireAuth is checked before any network or diff work of a mutating operation.
func (y *YandexService) requireAuth() error {
	if !y.IsAuthenticated() {
		return fmt.Errorf("%w: run auth login first", shared.ErrNotAuthenticated)
	}
	return nil
}

// owner resolves a zero user id to the authenticated user.
func (y *YandexService) owner(userID int64) (int64, error) {
	if userID != 0 {
		return userID, nil
	}
	if y.userID == 0 {
		return 0, fmt.Errorf("%w: user id required when not signed in", shared.ErrNotAuthenticated)
	}
	return y.userID, nil
}

func (y *YandexService) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return y.transport.Do(ctx, Request{
		Method:  http.MethodGet,
		Host:    y.api.Host,
		Path:    path,
		Params:  params,
		Headers: y.headers(),
	})
}

func (y *YandexService) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	return y.transport.Do(ctx, Request{
		Method:  http.MethodPost,
		Host:    y.api.Host,
		Path:    path,
		Headers: y.headers(),
		Form:    form,
	})
}

func (y *YandexService) headers() http.Header {
	h := http.Header{}
	if y.token != "" {
		h.Set("Authorization", "OAuth "+y.token)
	}
	return h
}

func (y *YandexService) endpoint(host, path string) string {
	scheme := y.api.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, host, path)
}

func isStaleRevision(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.StatusCode == http.StatusPreconditionFailed || strings.Contains(string(httpErr.Body), "wrong-revision")
}

func tokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: token request rejected: %v", shared.ErrAuthFailed, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: token request: %v", shared.ErrAPIRequest, err)
	}

	return &shared.FormatError{Entity: "Token", Reason: err.Error()}
}

func extraInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), n != 0
	case int64:
		return n, n != 0
	case string:
		uid, err := strconv.ParseInt(n, 10, 64)
		return uid, err == nil && uid != 0
	default:
		return 0, false
	}
}
