package repositories

import "errors"

// Typed repository failures. The GORM implementations translate the store's
// unique-constraint violations into the duplicate errors, making the database
// the authoritative uniqueness check rather than any application pre-check.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateCode = errors.New("an NFD with that code already exists")
	ErrDuplicateName = errors.New("an NFD with that name already exists")
)
