package main

import (
	"net/http"

	homefeature "github.com/dalemusser/doubtspanel/internal/app/features/home"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// maxJSONBody bounds request bodies the stub accepts.
const maxJSONBody = 1 << 20

func newHandler(logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.AllowAll().Handler)
	// Bodies, when present, must be JSON.
	r.Use(middleware.RequestSize(maxJSONBody))
	r.Use(middleware.AllowContentType("application/json"))
	r.Mount("/", homefeature.Routes(homefeature.NewHandler(logger)))
	return r
}
