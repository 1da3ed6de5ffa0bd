package dto

// ── teachers ──

// TeacherRequest create or replace a teacher with its subject set
type TeacherRequest struct {
	Fullname   string  `json:"fullname"    binding:"required,min=2,max=150"`
	Phone      string  `json:"phone"       binding:"required,max=32"`
	SubjectIDs []int64 `json:"subject_ids" binding:"omitempty,dive,min=1"`
}

// TeacherResponse teacher with subject ids
type TeacherResponse struct {
	ID         int64   `json:"id"`
	Fullname   string  `json:"fullname"`
	Phone      string  `json:"phone"`
	SubjectIDs []int64 `json:"subject_ids"`
}
