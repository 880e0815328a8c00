// Package jsend provides the three-state response envelope written for every
// API response: success, fail and error.
//
//	{"status": "success", "data": {...}}
//	{"status": "fail",    "data": {"title": "..."}}
//	{"status": "error",   "message": "...", "code": 500}
package jsend

import (
	jsoniter "github.com/json-iterator/go"
)

// Status values used as the envelope discriminator.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response is a single envelope. Build it with Success, Fail or Error; the
// zero value is not a valid response.
type Response struct {
	Status  string
	Data    any
	Message string
	Code    *int
}

// Success wraps data (which may be nil) in a success envelope.
func Success(data any) Response {
	return Response{Status: StatusSuccess, Data: data}
}

// Fail wraps client-correctable detail, usually a field->message map or a
// small descriptive object, in a fail envelope.
func Fail(data any) Response {
	return Response{Status: StatusFail, Data: data}
}

// Error builds a server-side failure envelope. code is optional and
// conventionally carries the HTTP status.
func Error(message string, code *int) Response {
	return Response{Status: StatusError, Message: message, Code: code}
}

// Code is a convenience for passing a literal status to Error.
func Code(c int) *int {
	return &c
}

type dataBody struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    *int   `json:"code,omitempty"`
}

// MarshalJSON emits only the fields that belong to the variant: status and
// data for success and fail, status, message and optional code for error.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Status == StatusError {
		return json.Marshal(errorBody{Status: r.Status, Message: r.Message, Code: r.Code})
	}
	return json.Marshal(dataBody{Status: r.Status, Data: r.Data})
}
