package models

import "time"

// Cooldown identifies which collector cooldown an administrative reset targets.
type Cooldown string

const (
	CooldownMint   Cooldown = "MINT"
	CooldownRename Cooldown = "RENAME"
	CooldownGift   Cooldown = "GIFT"
	CooldownAll    Cooldown = "ALL"
)

// Valid reports whether c is one of the known cooldown choices.
func (c Cooldown) Valid() bool {
	switch c {
	case CooldownMint, CooldownRename, CooldownGift, CooldownAll:
		return true
	}
	return false
}

// Collector is the per-user economy record: cooldown stamps and mint
// statistics. Rows are created lazily on first interaction and never deleted.
// The zero time value means the cooldown has never been started.
type Collector struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(100)"`
	LastMint         time.Time `json:"last_mint"`
	LastGiftGiven    time.Time `json:"last_gift_given"`
	LastRename       time.Time `json:"last_rename"`
	ConsecutiveFails int       `json:"consecutive_fails"`
	MintCount        int       `json:"mint_count"`
	SuccessfulMints  int       `json:"successful_mints"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
