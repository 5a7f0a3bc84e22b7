package model

import (
	"errors"
	"net/http"
)

var (
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStaffInactive      = errors.New("staff account is deactivated")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrStaffNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrStaffInactive):
		return http.StatusForbidden
	case errors.Is(err, ErrWrongPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func GetErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrStaffNotFound):
		return "STAFF_NOT_FOUND"
	case errors.Is(err, ErrEmailAlreadyExists):
		return "EMAIL_ALREADY_EXISTS"
	case errors.Is(err, ErrInvalidCredentials):
		return "INVALID_CREDENTIALS"
	case errors.Is(err, ErrStaffInactive):
		return "STAFF_INACTIVE"
	case errors.Is(err, ErrInvalidToken):
		return "INVALID_TOKEN"
	case errors.Is(err, ErrWrongPassword):
		return "WRONG_PASSWORD"
	default:
		return "INTERNAL_ERROR"
	}
}
