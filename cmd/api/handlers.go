// cmd/api/handlers.go
// Handlers for the /api/books resource. Failures go through handleError;
// the only bodies written here on failure are field validation and the
// update id mismatch.
package main

import (
	"fmt"
	"net/http"

	"github.com/aoideee/books-api/internal/data"
	"github.com/aoideee/books-api/internal/jsend"
	"github.com/aoideee/books-api/internal/validator"
)

// listBooksHandler handles GET /api/books?page=&pageSize=.
// Out-of-range paging values are clamped before the list is paginated.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	filters := data.Filters{
		Page:     app.readInt(qs, "page", 1),
		PageSize: app.readInt(qs, "pageSize", data.DefaultPageSize),
	}.Normalize()

	app.logger.Debug("listing books", "page", filters.Page, "page_size", filters.PageSize)

	all, err := app.books.ListAll(r.Context())
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, jsend.Success(data.Paginate(all, filters)), nil)
}

// showBookHandler handles GET /api/books/:id.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	book, err := app.books.Get(r.Context(), id)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, jsend.Success(book), nil)
}

// createBookHandler handles POST /api/books.
// It responds 201 with the stored book and a Location header pointing at it.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CreateBookInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.handleError(w, r, invalidBody(err))
		return
	}

	v := validator.New()
	if data.ValidateCreateBook(v, input, app.clock().Year()); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	book, err := app.books.Create(r.Context(), input.Book())
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/books/%d", book.ID))

	app.writeResponse(w, r, http.StatusCreated, jsend.Success(book), headers)
}

// updateBookHandler handles PUT /api/books/:id.
// The body replaces every field of the book; its id must equal the one in
// the URL or the request is rejected before any rule or store call.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	var input data.UpdateBookInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.handleError(w, r, invalidBody(err))
		return
	}

	if input.ID != id {
		app.logger.Warn("route id does not match body id", "route_id", id, "body_id", input.ID)
		app.writeResponse(w, r, http.StatusBadRequest, jsend.Fail(envelope{
			"id": "El Id de la ruta no coincide con el Id del libro.",
		}), nil)
		return
	}

	v := validator.New()
	if data.ValidateUpdateBook(v, input, app.clock().Year()); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.books.Update(r.Context(), input.Book())
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, jsend.Success(envelope{
		"mensaje": fmt.Sprintf("Libro con Id %d actualizado exitosamente.", id),
	}), nil)
}

// deleteBookHandler handles DELETE /api/books/:id.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	err = app.books.Delete(r.Context(), id)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.writeResponse(w, r, http.StatusOK, jsend.Success(envelope{
		"mensaje": fmt.Sprintf("Libro con Id %d eliminado exitosamente.", id),
	}), nil)
}
