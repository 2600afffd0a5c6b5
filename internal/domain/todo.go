package domain

// Todo is a task owned by exactly one user.
type Todo struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	Priority    int    `gorm:"not null" json:"priority"`
	Complete    bool   `gorm:"not null;default:false" json:"complete"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
}

func (Todo) TableName() string { return "todos" }
