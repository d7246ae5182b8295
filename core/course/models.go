package course

import "github.com/edutrack/backend/core"

type Course struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	GradeID int    `json:"gradeId"`
}

type NewCourse struct {
	Name    string `json:"name" validate:"required"`
	GradeID int    `json:"gradeId" validate:"required"`
}

func (nc *NewCourse) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	return core.Validate.Struct(nc)
}

type UpdateCourse struct {
	Name    string `json:"name"`
	GradeID int    `json:"gradeId"`
}

func (uc *UpdateCourse) Validate(orig Course) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if uc.GradeID == 0 {
		uc.GradeID = orig.GradeID
	}
	return core.Validate.Struct(uc)
}
