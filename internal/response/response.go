// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package response writes JSON bodies and maps domain errors to HTTP
// responses for the API.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"folio/internal/apperr"
)

// ErrorBody is the JSON shape of every API error.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error kind, a message and optional field details.
type ErrorDetail struct {
	Code    apperr.Kind `json:"code"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// Raw writes an already encoded JSON body.
func Raw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// Created writes a 201 response.
func Created(w http.ResponseWriter, v any) {
	JSON(w, http.StatusCreated, v)
}

// NoContent writes a 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes err as a JSON error body. Domain errors keep their kind and
// message; anything else is logged and reported as an opaque store error.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperr.KindStore {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSON(w, http.StatusInternalServerError, ErrorBody{Error: ErrorDetail{
			Code:    apperr.KindStore,
			Message: "internal server error",
		}})
		return
	}

	if appErr.Kind == apperr.KindUnauthorized {
		w.Header().Set("WWW-Authenticate", `Basic realm="folio", charset="UTF-8"`)
	}
	JSON(w, appErr.HTTPStatus(), ErrorBody{Error: ErrorDetail{
		Code:    appErr.Kind,
		Message: appErr.Message,
		Details: appErr.Details,
	}})
}

// Decode reads a JSON request body into v. An empty or malformed body is a
// Validation error.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return apperr.Validation("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("invalid JSON body").WithCause(err)
	}
	return nil
}
