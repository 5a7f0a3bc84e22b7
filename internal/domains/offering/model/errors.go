package model

import (
	"errors"
	"net/http"
)

var (
	ErrOfferingNotFound = errors.New("offering not found")
	ErrImageNotFound    = errors.New("offering image not found")
	ErrDuplicateSlug    = errors.New("offering slug already exists")
)

func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrOfferingNotFound),
		errors.Is(err, ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateSlug):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func GetErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrOfferingNotFound):
		return "OFFERING_NOT_FOUND"
	case errors.Is(err, ErrImageNotFound):
		return "IMAGE_NOT_FOUND"
	case errors.Is(err, ErrDuplicateSlug):
		return "DUPLICATE_SLUG"
	default:
		return "INTERNAL_ERROR"
	}
}
