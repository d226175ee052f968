package models

// Todo is a task owned by exactly one user.
type Todo struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Complete    bool   `json:"complete" gorm:"not null;default:false"`
	UserID      uint   `json:"user_id" gorm:"not null;index"`
}
