// Package apperror defines the typed errors the auth flows produce. Every
// error carries a stable code and the HTTP status it maps to, so handlers can
// hand failures to a single boundary middleware instead of rendering
// responses ad hoc.
package apperror

import "net/http"

type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// MissingCredentials: login called without email or password.
func MissingCredentials() *Error {
	return New("MISSING_CREDENTIALS", http.StatusBadRequest, "please provide email and password")
}

// InvalidCredentials is deliberately identical for unknown email and wrong
// password so callers cannot enumerate accounts.
func InvalidCredentials() *Error {
	return New("INVALID_CREDENTIALS", http.StatusUnauthorized, "incorrect email or password")
}

func AccountBlocked() *Error {
	return New("ACCOUNT_BLOCKED", http.StatusForbidden, "your account has been blocked, please contact support")
}

// Unauthenticated covers the four Protect failure causes; the message names
// the cause, the code and status stay the same.
func Unauthenticated(message string) *Error {
	return New("UNAUTHENTICATED", http.StatusUnauthorized, message)
}

func Forbidden() *Error {
	return New("FORBIDDEN", http.StatusForbidden, "you do not have permission to perform this action")
}

func NotFound(message string) *Error {
	return New("NOT_FOUND", http.StatusNotFound, message)
}

// EmailDelivery signals a failed send after reset-token state was rolled back.
func EmailDelivery() *Error {
	return New("EMAIL_DELIVERY", http.StatusInternalServerError, "there was an error sending the email, try again later")
}

// Validation covers store-level validation failures such as a password
// confirmation mismatch or a duplicate email.
func Validation(message string) *Error {
	return New("VALIDATION", http.StatusBadRequest, message)
}

func Internal(message string) *Error {
	return New("INTERNAL", http.StatusInternalServerError, message)
}
