package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	Username     string    `gorm:"column:username;uniqueIndex:uq_users_username;not null"`
	Email        string    `gorm:"column:email;uniqueIndex:uq_users_email;not null"`
	Phone        string    `gorm:"column:phone"`
	FullName     string    `gorm:"column:full_name;not null"`
	Role         string    `gorm:"column:role;not null"`
	Status       string    `gorm:"column:status;not null;default:ACTIVE"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
