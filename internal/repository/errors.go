package repository

import "errors"

var (
	// ErrNotFound means the referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyBooked means a conditional booking update lost the race:
	// the slot was taken before this caller got to it.
	ErrAlreadyBooked = errors.New("slot already booked")
	// ErrDuplicate means a uniqueness constraint was violated.
	ErrDuplicate = errors.New("already exists")
)
