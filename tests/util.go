package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/edutrack/backend/core/academic"
	"github.com/edutrack/backend/core/course"
	"github.com/edutrack/backend/core/institution"
	"github.com/edutrack/backend/core/section"
	"github.com/edutrack/backend/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd, role string,
	institutionID int,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:          name,
		Lastname:      name,
		Username:      uname,
		Email:         email,
		Role:          role,
		InstitutionID: institutionID,
		IsActive:      isActive,
		CreatedAt:     tstamp,
		UpdatedAt:     tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateInstitution(t *testing.T, repo institution.Repository, name string) institution.Institution {
	t.Helper()

	inst, err := repo.CreateInstitution(context.Background(), institution.Institution{Name: name})
	if err != nil {
		t.Fatalf("CreateInstitution() failed: %v", err)
	}
	return inst
}

func CreateLevel(t *testing.T, repo academic.Repository, name string) academic.Level {
	t.Helper()

	lvl, err := repo.CreateLevel(context.Background(), academic.Level{Name: name})
	if err != nil {
		t.Fatalf("CreateLevel() failed: %v", err)
	}
	return lvl
}

func CreateGrade(t *testing.T, repo academic.Repository, name string, levelID int) academic.Grade {
	t.Helper()

	grd, err := repo.CreateGrade(context.Background(), academic.Grade{Name: name, AcademicLevelID: levelID})
	if err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	return grd
}

func CreateCourse(t *testing.T, repo course.Repository, name string, gradeID int) course.Course {
	t.Helper()

	crs, err := repo.CreateCourse(context.Background(), course.Course{Name: name, GradeID: gradeID})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateSection(t *testing.T, repo section.Repository, name string, courseID, teacherID, institutionID int) section.Section {
	t.Helper()

	sec, err := repo.CreateSection(context.Background(), section.Section{
		Name:          name,
		CourseID:      courseID,
		TeacherID:     teacherID,
		InstitutionID: institutionID,
	})
	if err != nil {
		t.Fatalf("CreateSection() failed: %v", err)
	}
	return sec
}
