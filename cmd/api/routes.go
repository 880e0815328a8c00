// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router
// wrapped in the middleware chain.
//
// Middleware chain (outermost → innermost):
//
//	requestID → logRequest → recoverPanic → enableCORS → rateLimit → router
//
// Current endpoints:
//
//	GET    /                - API information
//	GET    /status          - process status
//	GET    /health          - database health check
//	GET    /metrics         - Prometheus metrics
//	GET    /api/books       - list books (paginated, newest first)
//	POST   /api/books       - create a new book
//	GET    /api/books/:id   - retrieve a single book by ID
//	PUT    /api/books/:id   - replace an existing book
//	DELETE /api/books/:id   - delete a book by ID
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	handle := func(method, path string, h http.HandlerFunc) {
		router.Handler(method, path, app.metrics.instrument(path, h))
	}

	handle(http.MethodGet, "/", app.homeHandler)
	handle(http.MethodGet, "/status", app.statusHandler)
	handle(http.MethodGet, "/health", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/metrics", app.metrics.handler)

	// Book CRUD routes
	handle(http.MethodGet, "/api/books", app.listBooksHandler)
	handle(http.MethodPost, "/api/books", app.createBookHandler)
	handle(http.MethodGet, "/api/books/:id", app.showBookHandler)
	handle(http.MethodPut, "/api/books/:id", app.updateBookHandler)
	handle(http.MethodDelete, "/api/books/:id", app.deleteBookHandler)

	// logRequest sits outside recoverPanic so recovered panics are logged
	// with their final 500 status.
	return app.requestID(app.logRequest(app.recoverPanic(app.enableCORS(app.rateLimit(router)))))
}
