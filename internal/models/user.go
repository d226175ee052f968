package models

// User represents a registered account. Deleting a user removes every todo it owns.
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Email     string `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Username  string `json:"username" gorm:"uniqueIndex;type:varchar(100)"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	Todos     []Todo `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
