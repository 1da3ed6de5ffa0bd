package dto

// ── subjects ──

// SubjectRequest create or rename a subject
type SubjectRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// SubjectResponse subject and the teachers who teach it
type SubjectResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	TeacherIDs []int64 `json:"teacher_ids"`
}
