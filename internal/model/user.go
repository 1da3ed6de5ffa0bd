package model

// User maps to users
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"          json:"id"`
	Username     string `gorm:"type:varchar(50);not null;unique"  json:"username"`
	Fullname     string `gorm:"type:varchar(150);not null"        json:"fullname"`
	PasswordHash string `gorm:"type:varchar(100);not null"        json:"-"`
	BaseModel
}

// TableName table name
func (User) TableName() string { return "users" }
