package services

import "time"

// Config carries the economy tunables. It is assembled once at startup and
// injected into the services instead of living as scattered constants.
type Config struct {
	MintCooldown   time.Duration
	GiftCooldown   time.Duration
	RenameCooldown time.Duration

	MaxMintAttempts int

	MinNameLength int
	MaxNameLength int

	MaxPriceExponent int

	// MaxListed caps how many NFDs a collection reply names outright.
	MaxListed int

	// OutputPath is where rendered NFD images are written.
	OutputPath string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MintCooldown:     time.Minute,
		GiftCooldown:     time.Minute,
		RenameCooldown:   time.Minute,
		MaxMintAttempts:  10,
		MinNameLength:    6,
		MaxNameLength:    15,
		MaxPriceExponent: 30,
		MaxListed:        10,
		OutputPath:       "./images",
	}
}
