package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound         = errors.New("resource not found") // General not found
	ErrAccountNotFound  = errors.New("account not found")
	ErrMissionNotFound  = errors.New("mission not found")
	ErrOpponentNotFound = errors.New("opponent not found or expired")
	ErrFacilityNotFound = errors.New("facility not found")

	// Конфликт версий при коммите (CAS по колонке version).
	// Сервисный слой обязан перечитать состояние и повторить попытку.
	ErrConflict = errors.New("concurrent account modification detected")

	// User & Authentication Errors
	ErrUnauthorized = errors.New("unauthorized") // Authentication required or failed
	ErrForbidden    = errors.New("forbidden")    // Authenticated, but lacks permission

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)
