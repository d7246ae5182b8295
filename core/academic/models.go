// Package academic covers the institution's academic structure: levels
// (e.g. primary, secondary), the grades within a level, and which levels an
// institution offers. These drive the cascading dropdown chains of the
// console: institution → level → grade.
package academic

import "github.com/edutrack/backend/core"

type Level struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Grade struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	AcademicLevelID int    `json:"academicLevelId"`
}

type NewLevel struct {
	Name string `json:"name" validate:"required"`
}

func (nl *NewLevel) Validate() error {
	nl.Name = core.CleanString(nl.Name)
	return core.Validate.Struct(nl)
}

type NewGrade struct {
	Name            string `json:"name" validate:"required"`
	AcademicLevelID int    `json:"academicLevelId" validate:"required"`
}

func (ng *NewGrade) Validate() error {
	ng.Name = core.CleanString(ng.Name)
	return core.Validate.Struct(ng)
}

type UpdateGrade struct {
	Name            string `json:"name"`
	AcademicLevelID int    `json:"academicLevelId"`
}

func (ug *UpdateGrade) Validate(orig Grade) error {
	if name := core.CleanString(ug.Name); name != "" {
		ug.Name = name
	} else {
		ug.Name = orig.Name
	}
	if ug.AcademicLevelID == 0 {
		ug.AcademicLevelID = orig.AcademicLevelID
	}
	return core.Validate.Struct(ug)
}

// AssignLevel links an academic level to an institution.
type AssignLevel struct {
	InstitutionID   int `json:"institutionId" validate:"required"`
	AcademicLevelID int `json:"academicLevelId" validate:"required"`
}

func (al AssignLevel) Validate() error { return core.Validate.Struct(al) }
