// Package profile holds the role-specific profile records a teacher or
// student fills in after their first login (the console's profile-completion
// wizard). A user whose role requires a profile is prompted until one exists.
package profile

import "github.com/edutrack/backend/core"

type TeacherProfile struct {
	ID            int    `json:"id"`
	UserID        int    `json:"userId"`
	InstitutionID int    `json:"institutionId"`
	Specialty     string `json:"specialty"`
	Biography     string `json:"biography,omitempty"`
}

type StudentProfile struct {
	ID            int    `json:"id"`
	UserID        int    `json:"userId"`
	InstitutionID int    `json:"institutionId"`
	GradeID       int    `json:"gradeId"`
	Biography     string `json:"biography,omitempty"`
}

// TeacherInfo is the roster shape listing screens render.
type TeacherInfo struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Specialty string `json:"specialty"`
}

// StudentInfo is the roster shape listing screens render.
type StudentInfo struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Name      string `json:"name"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	GradeID   int    `json:"gradeId"`
	GradeName string `json:"gradeName"`
}

// Status answers the post-login "does this account still need its profile?" check.
type Status struct {
	NeedsProfileCompletion bool `json:"needsProfileCompletion"`
}

type NewTeacherProfile struct {
	Specialty string `json:"specialty" validate:"required"`
	Biography string `json:"biography"`
}

func (np *NewTeacherProfile) Validate() error {
	np.Specialty = core.CleanString(np.Specialty)
	np.Biography = core.CleanString(np.Biography)
	return core.Validate.Struct(np)
}

type NewStudentProfile struct {
	GradeID   int    `json:"gradeId" validate:"required"`
	Biography string `json:"biography"`
}

func (np *NewStudentProfile) Validate() error {
	np.Biography = core.CleanString(np.Biography)
	return core.Validate.Struct(np)
}
