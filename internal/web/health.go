package web

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/justestif/vofo-music/internal/library"
)

const indexFile = "index.html"

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	YTMusic  string `json:"ytmusic"`
}

// Health reports the state of the database and the catalog (GET /health).
// Status is "degraded" when a configured dependency fails its check.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "healthy",
		Database: "connected",
		YTMusic:  "initialized",
	}

	if err := h.library.Check(r.Context()); err != nil {
		if errors.Is(err, library.ErrNotConfigured) {
			resp.Database = "disconnected"
		} else {
			resp.Database = "error: " + err.Error()
			resp.Status = "degraded"
		}
	}

	if h.catalog == nil {
		resp.YTMusic = "unavailable"
	} else if _, err := h.catalog.Trending(r.Context(), h.region); err != nil {
		resp.YTMusic = "error: " + err.Error()
		resp.Status = "degraded"
	}

	writeJSON(w, http.StatusOK, resp)
}

// Ping is a liveness probe (GET /ping).
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "alive",
		"message": "VoFo Music API is running",
	})
}

// Home serves the frontend (GET and HEAD /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	if h.static == nil {
		writeIndexNotFound(w)
		return
	}
	if _, err := fs.Stat(h.static, indexFile); err != nil {
		writeIndexNotFound(w)
		return
	}
	http.ServeFileFS(w, r, h.static, indexFile)
}

func writeIndexNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("<h1>index.html not found</h1>"))
}
