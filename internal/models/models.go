// Package models defines the request/response types of the HTTP API and the
// error taxonomy shared by the service and router layers.
package models

import "errors"

// ErrValidation marks malformed or out-of-range input; the router maps it to 400.
var ErrValidation = errors.New("validation failed")

// ErrUnauthorized marks a missing/invalid session or bad credentials; mapped to 401.
// The message is deliberately uninformative so that "no such user" and
// "wrong password" are indistinguishable from outside.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound marks a missing resource; mapped to 404. An entry owned by another
// user yields the same error as an absent one.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when registration hits an already registered email; mapped to 400.
var ErrEmailTaken = errors.New("email already registered")

// ErrUpstream marks a mood-prediction service failure; mapped to 500 with the
// upstream detail preserved in the wrapped message.
var ErrUpstream = errors.New("prediction service error")

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type CreateJournalRequest struct {
	Catatan         string            `json:"catatan"`
	Mood            string            `json:"mood"`
	Aktivitas       []string          `json:"aktivitas"`
	DetailAktivitas map[string]string `json:"detailAktivitas"`
}

// UpdateJournalRequest is a patch: nil fields are left untouched.
type UpdateJournalRequest struct {
	Catatan         *string            `json:"catatan"`
	Mood            *string            `json:"mood"`
	Aktivitas       *[]string          `json:"aktivitas"`
	DetailAktivitas *map[string]string `json:"detailAktivitas"`
}

type PredictMoodRequest struct {
	Text string `json:"text" validate:"required"`
}

type HealthStats struct {
	Users    int `json:"users"`
	Journals int `json:"journals"`
	Sessions int `json:"sessions"`
}

type HealthResponse struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Timestamp string      `json:"timestamp"`
	Stats     HealthStats `json:"stats"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
