// cmd/api/helpers.go
// Request decoding and response encoding shared by all handlers.
package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"

	"github.com/aoideee/books-api/internal/books"
	"github.com/aoideee/books-api/internal/jsend"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes caps request bodies at 1 MB.
const maxBodyBytes = 1_048_576

// envelope is a small JSON object placed inside a jsend response's data,
// e.g. {"mensaje": "..."} or {"error": "...", "detail": "..."}.
type envelope map[string]any

// readIDParam extracts the ":id" URL parameter added by httprouter.
// A value that is not an integer is an invalid argument; range checks are
// left to the business rules.
func (app *applicationDependencies) readIDParam(r *http.Request) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil {
		return 0, books.Invalidf("El Id debe ser un número entero.")
	}
	return id, nil
}

// readInt returns the integer value of qs[key], or defaultValue when it is
// missing or not a number.
func (app *applicationDependencies) readInt(qs url.Values, key string, defaultValue int) int {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}

// writeJSON encodes body compactly and writes it with status and any extra
// headers.
func (app *applicationDependencies) writeJSON(w http.ResponseWriter, status int, body jsend.Response, headers http.Header) error {
	js, err := json.Marshal(body)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// readJSON decodes exactly one JSON object from the body into dst. Unknown
// fields, bodies over maxBodyBytes and trailing values are errors; the
// returned messages are safe to show to the client.
func (app *applicationDependencies) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("el cuerpo de la solicitud no puede estar vacío")
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("el cuerpo de la solicitud no puede superar %d bytes", maxBytesError.Limit)
		default:
			return fmt.Errorf("el cuerpo de la solicitud no es un JSON válido: %w", err)
		}
	}

	if dec.More() {
		return errors.New("el cuerpo de la solicitud debe contener un único valor JSON")
	}

	return nil
}
