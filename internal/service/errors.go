package service

import "errors"

// Lifecycle errors. Every operation fails fast with exactly one of these;
// the API layer maps them to HTTP statuses.
var (
	ErrBoardNotFound          = errors.New("board not found")
	ErrBoardNotAtLocation     = errors.New("board not at user's location")
	ErrBoardNotAvailable      = errors.New("board is not available")
	ErrBoardAlreadyCheckedOut = errors.New("board is already checked out")

	ErrCheckoutNotFound      = errors.New("checkout not found")
	ErrCheckoutNotActive     = errors.New("checkout is not active")
	ErrCheckoutNotOwned      = errors.New("checkout does not belong to user")
	ErrCheckoutBoardMismatch = errors.New("checkout does not match board")

	ErrReservationNotFound     = errors.New("reservation not found")
	ErrReservationNotOwned     = errors.New("reservation does not belong to user")
	ErrReservationExists       = errors.New("reservation already exists for this checkout")
	ErrReservationNotAvailable = errors.New("reservation is not available")
	ErrReservationCannotCancel = errors.New("reservation cannot be cancelled")

	ErrReturnTimePassed = errors.New("return time has already passed")
	ErrUserNotFound     = errors.New("user not found")
	ErrLocationNotFound = errors.New("location not found")
)
