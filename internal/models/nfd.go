package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// HistoryDelimiter separates entries in an NFD's stored ownership history.
const HistoryDelimiter = ","

// NFD represents a minted collectible. Code is the content identity derived
// from the three fragment filenames; Name is the unique display identity.
// Both carry unique indexes so the database is the enforcement point for
// uniqueness, not the application-level pre-checks.
type NFD struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Code           string    `json:"code" gorm:"uniqueIndex;type:varchar(255)" validate:"required"`
	Name           string    `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required"`
	Filename       string    `json:"filename"` // rendered image; recreatable from Code
	Owner          string    `json:"owner" gorm:"index;type:varchar(100)" validate:"required"`
	PreviousOwners string    `json:"previous_owners"` // comma-joined, first entry is the minting owner
	MintedAt       time.Time `json:"minted_at"`
	gorm.Model               // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// History returns the ordered ownership history, oldest first.
func (n *NFD) History() []string {
	if n.PreviousOwners == "" {
		return nil
	}
	return strings.Split(n.PreviousOwners, HistoryDelimiter)
}

// TransferCount is the number of completed ownership changes.
func (n *NFD) TransferCount() int {
	h := n.History()
	if len(h) == 0 {
		return 0
	}
	return len(h) - 1
}

// AppendOwner records a transfer, keeping Owner equal to the last
// history entry.
func (n *NFD) AppendOwner(userID string) {
	if n.PreviousOwners == "" {
		n.PreviousOwners = userID
	} else {
		n.PreviousOwners += HistoryDelimiter + userID
	}
	n.Owner = userID
}
