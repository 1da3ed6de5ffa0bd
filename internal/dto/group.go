package dto

// ── groups ──

// CreateGroupRequest new group
type CreateGroupRequest struct {
	Name string   `json:"name" binding:"required,min=1,max=50"`
	GPA  *float64 `json:"gpa"  binding:"omitempty,min=0,max=10"`
}

// UpdateGroupRequest carries the version the client read
type UpdateGroupRequest struct {
	Name    *string  `json:"name"    binding:"omitempty,min=1,max=50"`
	GPA     *float64 `json:"gpa"     binding:"omitempty,min=0,max=10"`
	Version int      `json:"version" binding:"required,min=1"`
}

// GroupResponse group with its member count
type GroupResponse struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Amount    int      `json:"amount"`
	GPA       *float64 `json:"gpa,omitempty"`
	Version   int      `json:"version"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}
