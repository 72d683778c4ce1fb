package models

import "time"

// User: legacy Users table. The password column holds a bcrypt hash; the
// historic plain-text rows must be re-hashed during migration. Soft delete
// via the deleted marker.
type User struct {
	Username    string     `gorm:"column:username;primaryKey;size:50" json:"username"`
	Password    string     `gorm:"column:password;size:255" json:"-"`
	Role        string     `gorm:"column:role;size:20" json:"role"`
	Adress      *string    `gorm:"column:Adress;size:255" json:"Adress,omitempty"`
	Telephone   *string    `gorm:"column:telephone;size:50" json:"telephone,omitempty"`
	Deleted     *int       `gorm:"column:deleted" json:"-"`
	DateDeleted *time.Time `gorm:"column:date_deleted" json:"-"`
}

func (User) TableName() string { return "Users" }
