package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingID           = errors.New("record id is required")
	ErrRecordNotFound      = errors.New("incident record not found")
	ErrInvalidStatus       = errors.New("invalid incident status")
	ErrForbiddenTransition = errors.New("role is not allowed to set this status")
	ErrSequenceUnavailable = errors.New("sequence counter unavailable")

	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountInactive  = errors.New("account is deactivated, contact the administrator")
	ErrRoleMismatch     = errors.New("account role does not match the selected portal")
	ErrInvalidRole      = errors.New("invalid role")
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTaken    = errors.New("username already belongs to another account")
	ErrProtectedAccount = errors.New("the central administrator account cannot be deleted")
	ErrBaselineRename   = errors.New("built-in account usernames cannot be changed")
	ErrNoSession        = errors.New("no active session")

	// ErrPersistence matches every *PersistenceError.
	ErrPersistence = errors.New("local persistence failed")
)

// PersistenceError reports that the local medium rejected a write. The data
// was NOT saved.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: data was not saved: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// DeserializationError reports unparseable stored data. It is logged and the
// collection is treated as empty; callers never receive it.
type DeserializationError struct {
	Key string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// SyncError describes a failed remote push, delete or probe.
type SyncError struct {
	Op   string
	Kind string
	ID   string
	Err  error
}

func (e *SyncError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("sync %s %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("sync %s %s %s: %v", e.Op, e.Kind, e.ID, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
