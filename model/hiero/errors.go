package hiero

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned when an entity ID, transaction ID or ledger
// name cannot be parsed.
var ErrInvalidFormat = errors.New("invalid format")

// BadChecksumError indicates that the checksum carried by an entity ID does not
// match the checksum computed for the ledger the ID is used on.
type BadChecksumError struct {
	Entity   string
	Expected string
	Present  string
}

var _ error = (*BadChecksumError)(nil)

func NewBadChecksumError(entity, expected, present string) BadChecksumError {
	return BadChecksumError{
		Entity:   entity,
		Expected: expected,
		Present:  present,
	}
}

func (e BadChecksumError) Error() string {
	return fmt.Sprintf("entity ID %s-%s has an invalid checksum, expected %s", e.Entity, e.Present, e.Expected)
}

// IsBadChecksumError returns whether the given error is a BadChecksumError.
func IsBadChecksumError(err error) bool {
	var checksumErr BadChecksumError
	return errors.As(err, &checksumErr)
}
