// Package apitypes holds the JSON payloads exchanged with HID hosts.
package apitypes

import "fmt"

// ApiError represents an RFC 7807 (problem+json) error.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 401, 409, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

func ErrBadRequest(detail string) ApiError {
	return ApiError{Status: 400, Title: "Bad Request", Detail: detail}
}

func ErrUnauthorized(detail string) ApiError {
	return ApiError{Status: 401, Title: "Unauthorized", Detail: detail}
}

func ErrConflict(detail string) ApiError {
	return ApiError{Status: 409, Title: "Conflict", Detail: detail}
}

func ErrServiceUnavailable(detail string) ApiError {
	return ApiError{Status: 503, Title: "Service Unavailable", Detail: detail}
}

func ErrInternal(detail string) ApiError {
	return ApiError{Status: 500, Title: "Internal Server Error", Detail: detail}
}

// WrapError normalizes any error into ApiError.
func WrapError(err error) ApiError {
	if ae, ok := err.(*ApiError); ok {
		return *ae
	}
	if ae, ok := err.(ApiError); ok {
		return ae
	}
	return ErrInternal(err.Error())
}

// DeviceInfo is the service record a host receives before the descriptor.
type DeviceInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Provider    string `json:"provider"`
	Subclass    uint8  `json:"subclass"`
	ReportID    uint8  `json:"reportId"`
}
