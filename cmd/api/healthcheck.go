// cmd/api/healthcheck.go
// Informational endpoints: API index, process status and database health.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/aoideee/books-api/internal/jsend"
)

// homeHandler handles GET / with a short description of the API.
func (app *applicationDependencies) homeHandler(w http.ResponseWriter, r *http.Request) {
	app.writeResponse(w, r, http.StatusOK, jsend.Success(envelope{
		"nombre":      "API de Gestión de Libros",
		"version":     appVersion,
		"descripcion": "API REST para gestionar libros con respuestas en formato JSend",
		"endpoints": envelope{
			"status":          "/status",
			"healthCheck":     "/health",
			"metrics":         "/metrics",
			"libros":          "/api/books",
			"ejemploLibro":    "/api/books/1",
			"librosPaginados": "/api/books?page=1&pageSize=10",
		},
	}), nil)
}

// statusHandler handles GET /status.
func (app *applicationDependencies) statusHandler(w http.ResponseWriter, r *http.Request) {
	hostname, _ := os.Hostname()

	app.writeResponse(w, r, http.StatusOK, jsend.Success(envelope{
		"estado":    "Activa",
		"timestamp": app.clock().UTC(),
		"version":   appVersion,
		"entorno":   app.config.Environment,
		"servidor":  hostname,
		"uptime":    int64(time.Since(app.startedAt).Seconds()),
	}), nil)
}

// healthcheckHandler handles GET /health. The database must answer a ping
// within three seconds for the service to report healthy.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := app.models.Books.Ping(ctx); err != nil {
		app.logError(r, err)
		app.writeResponse(w, r, http.StatusServiceUnavailable,
			jsend.Error("La base de datos no responde.", jsend.Code(http.StatusServiceUnavailable)), nil)
		return
	}

	app.writeResponse(w, r, http.StatusOK, jsend.Success(envelope{
		"status": "Healthy",
		"checks": envelope{"database": "Healthy"},
	}), nil)
}
