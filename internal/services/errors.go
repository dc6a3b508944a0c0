package services

import (
	"errors"
	"fmt"
	"time"
)

// Typed domain failures. Handlers map these onto status codes; the services
// themselves never format platform-facing messages.
var (
	ErrExhaustedAttempts = errors.New("could not generate a unique NFD")
	ErrNotOwner          = errors.New("caller does not own this NFD")
	ErrSelfGift          = errors.New("cannot gift an NFD to yourself")
	ErrInvalidName       = errors.New("names must be 6-15 alphanumeric characters")
)

// CooldownError reports an action attempted before its cooldown elapsed.
type CooldownError struct {
	Action      string // "mint", "gift" or "rename"
	AvailableAt time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s cooldown active until %s", e.Action, e.AvailableAt.Format(time.RFC3339))
}

// MintRollError reports a failed mint roll. Attempt counts consecutive
// failures starting at 1; the cooldown was consumed by the failed roll.
type MintRollError struct {
	Attempt    int
	NextMintAt time.Time
}

func (e *MintRollError) Error() string {
	return fmt.Sprintf("mint roll failed for the %s time", e.Ordinal())
}

// Ordinal renders the failure count for presentation ("1st".."4th"). The
// escalating threshold guarantees success before a 4th consecutive failure
// can occur.
func (e *MintRollError) Ordinal() string {
	ordinals := []string{"1st", "2nd", "3rd", "4th"}
	if e.Attempt >= 1 && e.Attempt <= len(ordinals) {
		return ordinals[e.Attempt-1]
	}
	return fmt.Sprintf("%dth", e.Attempt)
}
