package models

type RegisterRequest struct {
	Username  string   `json:"username" binding:"required,min=3,max=50"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Password  string   `json:"password" binding:"required,min=6"`
	Role      UserRole `json:"role,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreatePostRequest carries the fields of a post's first revision. Length
// limits are re-checked in the service so non-HTTP callers get the same
// validation.
type CreatePostRequest struct {
	Title       string   `form:"title" json:"title"`
	Summary     string   `form:"summary" json:"summary"`
	Content     string   `form:"content" json:"content"`
	Tags        []string `form:"tags" json:"tags"`
	IsGuideline bool     `form:"is_guideline" json:"is_guideline"`
}

type CreateRevisionRequest struct {
	Title    string   `form:"title" json:"title"`
	Summary  string   `form:"summary" json:"summary"`
	Content  string   `form:"content" json:"content"`
	Tags     []string `form:"tags" json:"tags"`
	Resolves []uint   `form:"resolves" json:"resolves"`
}

type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateSiteRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required"`
}

type QuestionItem struct {
	Subject string `json:"subject" binding:"required"`
	Text    string `json:"text" binding:"required"`
}

// CreateQuestionsRequest creates one or more questions sharing site, grade
// and specialty. The whole batch is validated before anything is written.
type CreateQuestionsRequest struct {
	User      *uint          `json:"user"`
	Site      string         `json:"site" binding:"required"`
	Grade     Grade          `json:"grade" binding:"required"`
	Specialty string         `json:"specialty" binding:"required"`
	Questions []QuestionItem `json:"questions" binding:"required"`
}

type UpdateQuestionRequest struct {
	Text string `json:"text" binding:"required"`
}

type RegisterDeviceRequest struct {
	ExpoPushToken string `json:"expo_push_token" binding:"required"`
}

// SearchParams are raw query parameters. Page and PerPage stay strings so the
// service can reject non-numeric values explicitly.
type SearchParams struct {
	Type    string `form:"type"`
	Tag     string `form:"tag"`
	Page    string `form:"page"`
	PerPage string `form:"results_per_page"`
}

const (
	SearchTypeAny       = "any"
	SearchTypeUpdate    = "update"
	SearchTypeGuideline = "guideline"
)
