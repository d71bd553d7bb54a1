package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS returns a permissive CORS handler. The API serves a first-party
// web client from a different origin, so credentials stay enabled.
func CORS() func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return c.Handler
}
