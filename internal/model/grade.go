package model

// Grade maps to grades. Value is 0..10; TeacherID may be empty.
type Grade struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID int64  `gorm:"not null;index"           json:"student_id"`
	SubjectID int64  `gorm:"not null"                 json:"subject_id"`
	TeacherID *int64 `json:"teacher_id,omitempty"`
	Value     int    `gorm:"column:grade;not null"    json:"grade"`
	BaseModel
}

// TableName table name
func (Grade) TableName() string { return "grades" }
