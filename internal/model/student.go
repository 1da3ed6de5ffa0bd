package model

import "time"

// Student maps to students
type Student struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"    json:"id"`
	Fullname  string     `gorm:"type:varchar(150);not null"  json:"fullname"`
	Age       int        `gorm:"not null;default:0"          json:"age"`
	Phone     string     `gorm:"type:varchar(32);not null"   json:"phone"`
	Birthdate *time.Time `gorm:"type:date"                   json:"birthdate,omitempty"`
	GroupID   int64      `gorm:"not null;index"              json:"group_id"`
	BaseModel

	Group *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

// TableName table name
func (Student) TableName() string { return "students" }

// RecalcAge refreshes Age from Birthdate
func (s *Student) RecalcAge(now time.Time) {
	s.Age = AgeAt(s.Birthdate, now)
}
