package web

import (
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/justestif/vofo-music/internal/library"
	"github.com/justestif/vofo-music/internal/ytmusic"
)

// TrendingLimit is the maximum number of chart entries returned by /api/trending.
const TrendingLimit = 15

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	library Library
	catalog Catalog
	region  string
	static  fs.FS
	logger  *log.Logger
}

// NewHandlers creates a new Handlers instance. catalog and static may be nil.
func NewHandlers(lib Library, catalog Catalog, region string, static fs.FS, logger *log.Logger) *Handlers {
	return &Handlers{
		library: lib,
		catalog: catalog,
		region:  region,
		static:  static,
		logger:  logger,
	}
}

// song is the JSON shape shared by likes, trending and search results.
type song struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Thumbnail string `json:"thumbnail"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type likeRequest struct {
	UserID    accountID `json:"user_id"`
	SongID    string    `json:"song_id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Thumbnail string    `json:"thumbnail"`
}

// accountID accepts a JSON number or a numeric string.
type accountID int64

// UnmarshalJSON implements json.Unmarshaler.
func (id *accountID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errors.New("user_id must be an integer")
	}
	*id = accountID(n)
	return nil
}

// Register creates an account (POST /api/register).
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.library.Register(r.Context(), req.Username, req.Password); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Login checks credentials and returns the account identity (POST /api/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	identity, err := h.library.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success:  true,
		UserID:   identity.AccountID,
		Username: identity.Username,
	})
}

// ToggleLike likes or unlikes a song for a user (POST /api/like).
func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	state, err := h.library.ToggleLike(r.Context(), library.Like{
		AccountID:    int64(req.UserID),
		TrackID:      req.SongID,
		Title:        req.Title,
		Artist:       req.Artist,
		ThumbnailURL: req.Thumbnail,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(state)})
}

// Liked lists a user's liked songs (GET /api/liked/{userID}).
func (h *Handlers) Liked(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	likes, err := h.library.ListLikes(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	songs := make([]song, len(likes))
	for i, l := range likes {
		songs[i] = song{
			ID:        l.TrackID,
			Title:     l.Title,
			Artist:    l.Artist,
			Thumbnail: l.ThumbnailURL,
		}
	}
	writeJSON(w, http.StatusOK, songs)
}

// Trending returns the top of the song chart (GET /api/trending).
// The region defaults to the configured one and can be overridden with ?country=.
func (h *Handlers) Trending(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeCatalogUnavailable(w)
		return
	}

	region := r.URL.Query().Get("country")
	if region == "" {
		region = h.region
	}

	tracks, err := h.catalog.Trending(r.Context(), region)
	if err != nil {
		h.logger.Warn("trending request failed", "region", region, "err", err)
		writeJSON(w, http.StatusOK, []song{})
		return
	}

	if len(tracks) > TrendingLimit {
		tracks = tracks[:TrendingLimit]
	}
	writeJSON(w, http.StatusOK, toSongs(tracks))
}

// Search looks up songs in the catalog (GET /api/search?q=).
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeDetail(w, http.StatusBadRequest, "Query parameter q required")
		return
	}

	if h.catalog == nil {
		writeCatalogUnavailable(w)
		return
	}

	tracks, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		h.logger.Warn("search request failed", "query", query, "err", err)
		writeJSON(w, http.StatusOK, []song{})
		return
	}
	writeJSON(w, http.StatusOK, toSongs(tracks))
}

// writeError maps library errors to HTTP responses.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, library.ErrInvalidInput):
		writeDetail(w, http.StatusBadRequest, inputMessage(err))
	case errors.Is(err, library.ErrDuplicateUsername):
		writeDetail(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, library.ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, library.ErrAccountNotFound):
		writeDetail(w, http.StatusNotFound, "User not found")
	case errors.Is(err, library.ErrUnavailable):
		writeDetail(w, http.StatusServiceUnavailable, "Database service unavailable")
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// inputMessage turns "invalid input: username and password required" into
// "Username and password required".
func inputMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), library.ErrInvalidInput.Error()+": ")
	if msg == "" || msg == library.ErrInvalidInput.Error() {
		return "Invalid input"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func toSongs(tracks []ytmusic.Track) []song {
	songs := make([]song, len(tracks))
	for i, t := range tracks {
		songs[i] = song{
			ID:        t.ID,
			Title:     t.Title,
			Artist:    t.Artist,
			Thumbnail: t.Thumbnail,
		}
	}
	return songs
}
