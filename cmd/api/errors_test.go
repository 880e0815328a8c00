package main

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aoideee/books-api/internal/books"
	"github.com/aoideee/books-api/internal/data"
	"github.com/aoideee/books-api/internal/jsend"
)

func Test_mapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantData   any
	}{
		{
			name:       "invalid argument",
			err:        books.Invalidf("El Id debe ser mayor a cero."),
			wantStatus: http.StatusBadRequest,
			wantData:   envelope{"validationError": "El Id debe ser mayor a cero."},
		},
		{
			name:       "not found",
			err:        books.NotFoundf("No se encontró un libro con Id %d.", 3),
			wantStatus: http.StatusNotFound,
			wantData:   envelope{"error": msgNotFound, "detail": "No se encontró un libro con Id 3."},
		},
		{
			name:       "conflict wrapped",
			err:        fmt.Errorf("create: %w", books.Conflictf("Ya existe un libro con el mismo título y autor.")),
			wantStatus: http.StatusConflict,
			wantData:   envelope{"error": msgInvalidOperation, "detail": "Ya existe un libro con el mismo título y autor."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := mapError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, jsend.Fail(tt.wantData), body)
		})
	}
}

func Test_mapError_Unclassified(t *testing.T) {
	for _, err := range []error{
		errors.New("pq: password authentication failed for user books"),
		data.ErrRecordNotFound,
		&panicError{value: "nil map"},
	} {
		status, body := mapError(err)

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, jsend.StatusError, body.Status)
		assert.Equal(t, msgServerError, body.Message)
		assert.Nil(t, body.Data)
		if assert.NotNil(t, body.Code) {
			assert.Equal(t, http.StatusInternalServerError, *body.Code)
		}
	}
}

func Test_handleError_WritesEnvelope(t *testing.T) {
	app := newTestApplication(t)

	res := do(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.handleError(w, r, books.Conflictf("Ya existe otro libro con el mismo título y autor."))
	}), newRequest(http.MethodPut, "/api/books/2", ""))

	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, "application/json", res.header.Get("Content-Type"))
	assert.Equal(t, "fail", res.body["status"])
	assert.Equal(t, msgInvalidOperation, res.data(t)["error"])
}
