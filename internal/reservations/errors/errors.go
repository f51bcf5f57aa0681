package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	ErrSlotContended = errors.New("slot lock held by another request")

	ErrStateChanged = errors.New("reservation state changed concurrently")
)
