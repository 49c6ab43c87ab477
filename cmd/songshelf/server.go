package main

import (
	"net/http"

	"songshelf/internal/app/songs"
	"songshelf/internal/config"
	"songshelf/internal/http/middleware"
	"songshelf/internal/httpapi"
	"songshelf/internal/store"
)

func newSongService(dataStore *store.Store) songs.Service {
	return songs.New(dataStore)
}

func newHTTPHandler(cfg *config.Config, songSvc songs.Service) http.Handler {
	return middleware.Chain(
		httpapi.New(songSvc).Routes(),
		middleware.Recovery(),
		middleware.RequestLogging(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
}
