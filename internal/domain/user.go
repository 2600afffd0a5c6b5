package domain

type User struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Email          string  `gorm:"uniqueIndex;not null" json:"email"`
	Username       string  `gorm:"uniqueIndex;not null" json:"username"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	HashedPassword string  `gorm:"not null" json:"-"`
	IsActive       bool    `gorm:"not null;default:true" json:"is_active"`
	Role           string  `json:"role"`
	PhoneNumber    *string `json:"phone_number"`
}

func (User) TableName() string { return "users" }
