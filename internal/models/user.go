package models

import "gorm.io/gorm"

// User represents an API user. IsSuperUser feeds the JWT claim that gates
// the moderator endpoints; the services trust that flag verbatim.
type User struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username    string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email       string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	IsSuperUser bool   `json:"is_super_user"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
