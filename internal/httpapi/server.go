package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"songshelf/internal/app/songs"
	"songshelf/internal/models"
)

// SongService captures the song list operations needed by the HTTP handlers.
type SongService interface {
	Upload(ctx context.Context, upload songs.Upload) ([]models.Song, error)
	List(ctx context.Context, order models.SortOrder) ([]models.Song, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	songs SongService
}

// New configures a Server with the given song service.
func New(songs SongService) *Server {
	return &Server{songs: songs}
}

// Routes exposes the HTTP handlers. Song routes are served both at the root
// and under the /api prefix the web client uses.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	s.mountSongs(router.PathPrefix("/api").Subrouter())
	s.mountSongs(router)

	return router
}

func (s *Server) mountSongs(r *mux.Router) {
	r.HandleFunc("/songs/upload", s.handleUploadSongs).Methods(http.MethodPost)
	r.HandleFunc("/songs", s.handleListSongs).Methods(http.MethodGet)
	r.HandleFunc("/songs", s.handleDeleteSongs).Methods(http.MethodDelete)
}

type errorResponse struct {
	Error string `json:"error"`
	Row   int    `json:"row,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
