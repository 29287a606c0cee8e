// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username     string        `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string        `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string        `json:"-" gorm:"size:255;not null"`
	Phone        string        `json:"phone" gorm:"size:20"`
	Address      string        `json:"address" gorm:"type:text"`
	AvatarURL    string        `json:"avatar_url" gorm:"size:512"`
	Status       AccountStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	ProfileData  JSONB         `json:"profile_data" gorm:"type:jsonb"`
	LastLoginAt  *time.Time    `json:"last_login_at"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

type Seller struct {
	BaseModel
	Username        string        `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email           string        `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string        `json:"-" gorm:"size:255;not null"`
	Phone           string        `json:"phone" gorm:"size:20"`
	ShopName        string        `json:"shop_name" gorm:"size:255;not null"`
	ShopDescription string        `json:"shop_description" gorm:"type:text"`
	LogoURL         string        `json:"logo_url" gorm:"size:512"`
	IsVerified      bool          `json:"is_verified" gorm:"default:false"`
	Status          AccountStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
}

func (s *Seller) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hashedPassword)
	return nil
}

func (s *Seller) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password))
}
