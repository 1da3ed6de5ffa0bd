package dto

// ── students ──

// StudentRequest create or replace a student. Birthdate is YYYY-MM-DD.
type StudentRequest struct {
	Fullname  string `json:"fullname"  binding:"required,min=2,max=150"`
	Phone     string `json:"phone"     binding:"required,max=32"`
	Birthdate string `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	GroupID   int64  `json:"group_id"  binding:"required,min=1"`
}

// StudentResponse student with its group name
type StudentResponse struct {
	ID        int64  `json:"id"`
	Fullname  string `json:"fullname"`
	Age       int    `json:"age"`
	Phone     string `json:"phone"`
	Birthdate string `json:"birthdate,omitempty"`
	GroupID   int64  `json:"group_id"`
	GroupName string `json:"group_name,omitempty"`
}
