package model

import "time"

type User struct {
	UserID       int       `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Username     string    `gorm:"column:username;type:varchar(191);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"column:email;type:varchar(191);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"column:role;type:varchar(32);not null" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Version      int       `gorm:"column:version;not null" json:"version"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) GetVersion() int  { return u.Version }
func (u *User) SetVersion(v int) { u.Version = v }

func (User) IDColumn() string { return "user_id" }
func (u User) ID() int        { return u.UserID }
