package models

type Grade string

const (
	GradeConsultant  Grade = "consultant"
	GradeSpr         Grade = "spr"
	GradeCoreTrainee Grade = "core_trainee"
	GradeFY2         Grade = "fy2"
	GradeFY1         Grade = "fy1"
	GradeFIY1        Grade = "fiy1"
)

func (g Grade) Valid() bool {
	switch g {
	case GradeConsultant, GradeSpr, GradeCoreTrainee, GradeFY2, GradeFY1, GradeFIY1:
		return true
	}
	return false
}

// Site is a hospital site a question was asked from.
type Site struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// Subject is the topic vocabulary for questions.
type Subject struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// Question is a staff question that a post may resolve. Resolved and
// ResolvedByID move together: resolved == (resolved_by != null). Resolution
// state changes only through QuestionService, never by direct field writes.
type Question struct {
	ID           uint    `json:"id" gorm:"primarykey"`
	SiteID       uint    `json:"-" gorm:"not null"`
	Site         Site    `json:"site" gorm:"foreignKey:SiteID"`
	Grade        Grade   `json:"grade" gorm:"not null"`
	Specialty    string  `json:"specialty" gorm:"not null"`
	SubjectID    uint    `json:"-" gorm:"not null"`
	Subject      Subject `json:"subject" gorm:"foreignKey:SubjectID"`
	Text         string  `json:"text" gorm:"type:text;not null"`
	UserID       *uint   `json:"user"`
	User         *User   `json:"-" gorm:"foreignKey:UserID"`
	Resolved     bool    `json:"resolved" gorm:"not null;default:false"`
	ResolvedByID *uint   `json:"resolved_by"`
	ResolvedBy   *Post   `json:"-" gorm:"foreignKey:ResolvedByID"`
}
