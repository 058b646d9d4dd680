package repository

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyInTeam        = errors.New("user already in a team")
	ErrInvitationNotPending = errors.New("invitation not pending")
	ErrDuplicateEmail       = errors.New("email already registered")
)
