package model

// Subject maps to subjects
type Subject struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	BaseModel

	Teachers []Teacher `gorm:"many2many:teacher_subjects;" json:"-"`
}

// TableName table name
func (Subject) TableName() string { return "subjects" }
