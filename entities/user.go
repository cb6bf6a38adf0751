package entities

import "time"

const (
	RoleAdmin      = "admin"
	RoleTranslator = "translator"
)

type User struct {
	UserID    uint     `gorm:"primaryKey" json:"user_id"`
	Username  string   `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Roles     []string `gorm:"serializer:json" json:"roles"`
	CreatedAt time.Time
}
