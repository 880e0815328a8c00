// cmd/api/errors.go
// This file contains the error mapper and the remaining error-response helpers.
// handleError is the only place where a failure is turned into an HTTP status
// and a response body.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aoideee/books-api/internal/books"
	"github.com/aoideee/books-api/internal/jsend"
)

// User-facing texts of the error mapper.
const (
	msgNotFound         = "Recurso no encontrado"
	msgInvalidOperation = "Operación inválida"
	msgServerError      = "Ocurrió un error inesperado en el servidor. Contacte al administrador."
)

// panicError carries a recovered panic value and the goroutine stack at the
// point of the panic.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// logError logs a failure at ERROR level with its classification and the
// request it belongs to. Recovered panics also log their stack.
func (app *applicationDependencies) logError(r *http.Request, err error) {
	attrs := []any{
		slog.String("kind", books.KindOf(err).String()),
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
		slog.String("request_id", requestIDFromContext(r.Context())),
	}

	var pe *panicError
	if errors.As(err, &pe) {
		attrs = append(attrs, slog.String("stack", string(pe.stack)))
	}

	app.logger.Error(err.Error(), attrs...)
}

// handleError maps any failure raised while handling a request to a status
// code and a jsend body, logs it, and writes the response. It never fails:
// the event is always considered handled.
//
//	InvalidArgument -> 400 fail  {validationError}
//	NotFound        -> 404 fail  {error, detail}
//	Conflict        -> 409 fail  {error, detail}
//	anything else   -> 500 error (generic message, code 500)
func (app *applicationDependencies) handleError(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	status, body := mapError(err)
	app.writeResponse(w, r, status, body, nil)
}

// mapError classifies err by kind, never by message text.
func mapError(err error) (int, jsend.Response) {
	switch books.KindOf(err) {
	case books.KindInvalidArgument:
		return http.StatusBadRequest, jsend.Fail(envelope{
			"validationError": books.MessageOf(err),
		})
	case books.KindNotFound:
		return http.StatusNotFound, jsend.Fail(envelope{
			"error":  msgNotFound,
			"detail": books.MessageOf(err),
		})
	case books.KindConflict:
		return http.StatusConflict, jsend.Fail(envelope{
			"error":  msgInvalidOperation,
			"detail": books.MessageOf(err),
		})
	default:
		return http.StatusInternalServerError, jsend.Error(msgServerError, jsend.Code(http.StatusInternalServerError))
	}
}

// writeResponse writes body and falls back to a bare 500 if encoding fails.
func (app *applicationDependencies) writeResponse(w http.ResponseWriter, r *http.Request, status int, body jsend.Response, headers http.Header) {
	err := app.writeJSON(w, status, body, headers)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// invalidBody classifies a request body decoding problem as an invalid argument.
func invalidBody(err error) error {
	return &books.Error{Kind: books.KindInvalidArgument, Message: err.Error(), Err: err}
}

// failedValidationResponse sends a 400 fail response listing every field
// that did not pass validation.
func (app *applicationDependencies) failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	app.writeResponse(w, r, http.StatusBadRequest, jsend.Fail(errors), nil)
}

// notFoundResponse answers requests for routes that do not exist.
func (app *applicationDependencies) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.writeResponse(w, r, http.StatusNotFound, jsend.Fail(envelope{
		"error":  msgNotFound,
		"detail": "La ruta " + r.URL.Path + " no existe.",
	}), nil)
}

// methodNotAllowedResponse sends a 405 Method Not Allowed fail response.
func (app *applicationDependencies) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.writeResponse(w, r, http.StatusMethodNotAllowed, jsend.Fail(envelope{
		"error":  msgInvalidOperation,
		"detail": "El método " + r.Method + " no está soportado para este recurso.",
	}), nil)
}

// rateLimitExceededResponse sends a 429 Too Many Requests fail response.
func (app *applicationDependencies) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	headers := http.Header{}
	headers.Set("Retry-After", "60")

	message := fmt.Sprintf("Has excedido el límite de %d requests por minuto. Intenta más tarde.", app.config.Limiter.RequestsPerMinute)
	app.writeResponse(w, r, http.StatusTooManyRequests, jsend.Fail(envelope{
		"error":      "Demasiadas solicitudes",
		"mensaje":    message,
		"retryAfter": "60 segundos",
	}), headers)
}
