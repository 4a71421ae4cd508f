// Package common defines shared constants, sentinel errors and small helpers
// used across CloudVault components. Callers should use errors.Is to match
// the sentinel values.
package common

import "errors"

var (
	// Validation errors: bad input shape, no state change.
	ErrInvalidUsername  = errors.New("invalid username")
	ErrWeakPassword     = errors.New("password too weak")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidAge       = errors.New("invalid age")
	ErrInvalidGender    = errors.New("invalid gender")
	ErrInvalidInput     = errors.New("invalid input")

	// Policy errors.
	ErrDuplicateUsername = errors.New("username already exists")
	ErrBadCredentials    = errors.New("invalid credentials")
	ErrAccountLocked     = errors.New("account is locked")
	ErrAccountInactive   = errors.New("account is deactivated")
	ErrMfaRequired       = errors.New("one-time code required")
	ErrMfaFailed         = errors.New("invalid one-time code")
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrQuotaExceeded     = errors.New("storage limit exceeded")
	ErrAlreadyMaxTier    = errors.New("already premium")
	ErrNotEligible       = errors.New("not eligible for upgrade")
	ErrPermissionDenied  = errors.New("permission denied")

	// Not-found errors.
	ErrAccountNotFound = errors.New("account not found")
	ErrRecordNotFound  = errors.New("file record not found")
	ErrIndexOutOfRange = errors.New("index out of range")

	// Storage errors. Backends wrap the underlying cause with ErrStorage.
	ErrStorage = errors.New("storage error")
	ErrCorrupt = errors.New("corrupt record")
)

// Kind groups errors by how a caller is expected to react to them.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindPolicy
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPolicy:
		return "policy"
	case KindNotFound:
		return "not-found"
	case KindStorage:
		return "storage"
	}
	return "unknown"
}

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindStorage, []error{ErrStorage, ErrCorrupt}},
	{KindValidation, []error{ErrInvalidUsername, ErrWeakPassword, ErrPasswordMismatch,
		ErrInvalidAge, ErrInvalidGender, ErrInvalidInput}},
	{KindPolicy, []error{ErrDuplicateUsername, ErrBadCredentials, ErrAccountLocked,
		ErrAccountInactive, ErrMfaRequired, ErrMfaFailed, ErrNotLoggedIn, ErrQuotaExceeded,
		ErrAlreadyMaxTier, ErrNotEligible, ErrPermissionDenied}},
	{KindNotFound, []error{ErrAccountNotFound, ErrRecordNotFound, ErrIndexOutOfRange}},
}

// KindOf classifies err. Storage wins over everything else, so a storage
// failure wrapped together with another sentinel is still reported as one.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		for _, target := range k.errs {
			if errors.Is(err, target) {
				return k.kind
			}
		}
	}
	return KindUnknown
}
