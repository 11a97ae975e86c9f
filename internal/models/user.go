package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeFarmer      UserType = "farmer"
	UserTypeTransporter UserType = "transporter"
)

type User struct {
	gorm.Model
	Username     string `gorm:"column:username;unique;not null" json:"username"`
	PhoneNumber  string `gorm:"column:phone_number;unique;not null" json:"phone_number"`
	Password     string `gorm:"-:migration" json:"-"` // Temporary field for password handling
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	UserType     string `gorm:"column:user_type;not null" json:"user_type"`
	Village      string `gorm:"column:village" json:"village"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
