package dto

// ── grades ──

// GradeRequest Grade is 0..10, TeacherID optional
type GradeRequest struct {
	StudentID int64  `json:"student_id" binding:"required,min=1"`
	SubjectID int64  `json:"subject_id" binding:"required,min=1"`
	TeacherID *int64 `json:"teacher_id" binding:"omitempty,min=1"`
	Grade     *int   `json:"grade"      binding:"required,min=0,max=10"`
}

// GradeResponse one grade
type GradeResponse struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"student_id"`
	SubjectID int64  `json:"subject_id"`
	TeacherID *int64 `json:"teacher_id,omitempty"`
	Grade     int    `json:"grade"`
}
