package model

// Group maps to groups. Name is the label promotion works on ("10А", "П-41").
type Group struct {
	ID     int64    `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name   string   `gorm:"type:varchar(50);not null;unique"  json:"name"`
	Amount int      `gorm:"not null;default:0"                json:"amount"`
	GPA    *float64 `gorm:"column:gpa"                        json:"gpa,omitempty"`
	VersionedModel
}

// TableName table name
func (Group) TableName() string { return "groups" }
