package model

// Teacher maps to teachers
type Teacher struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Fullname string `gorm:"type:varchar(150);not null" json:"fullname"`
	Phone    string `gorm:"type:varchar(32);not null"  json:"phone"`
	BaseModel

	Subjects []Subject `gorm:"many2many:teacher_subjects;" json:"subjects,omitempty"`
}

// TableName table name
func (Teacher) TableName() string { return "teachers" }
