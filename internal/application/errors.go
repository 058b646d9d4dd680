package application

import "errors"

var (
	ErrInvalidAssertion  = errors.New("invalid identity assertion")
	ErrValidation        = errors.New("validation failed")
	ErrUserNotFound      = errors.New("user not found")
	ErrTeamNotFound      = errors.New("no team found")
	ErrNotInTeam         = errors.New("you are not in a team")
	ErrNotOwner          = errors.New("only the team owner can do this")
	ErrOwnerCannotLeave  = errors.New("team owner cannot leave, delete the team instead")
	ErrAlreadyInTeam     = errors.New("you are already in a team")
	ErrInvalidInvitation = errors.New("invalid or expired invitation")
	ErrDeployFailed      = errors.New("deployment failed")
	ErrDeployUnavailable = errors.New("deploy agent not configured")
)

// ValidationError carries a field-level reason and matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + " " + e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
