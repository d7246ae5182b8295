package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/backend/core/profile"
	"github.com/edutrack/backend/core/user"
)

type profileApi struct {
	svc     *profile.Service
	userSvc *user.Service
}

func registerProfileAPI(admin, instAdmin, teacher, student *echo.Group, deps *Deps) {
	api := profileApi{svc: deps.ProfileSvc, userSvc: deps.UserSvc}

	teacher.POST("/profile", api.completeTeacherProfile)
	teacher.GET("/profile", api.retrieveTeacherProfile)
	teacher.GET("/profile/status", api.teacherProfileStatus)

	student.POST("/profile", api.completeStudentProfile)
	student.GET("/profile", api.retrieveStudentProfile)
	student.GET("/profile/status", api.studentProfileStatus)

	// rosters
	admin.GET("/teachers/by-institution/:id", api.queryTeachersByInstitution)
	admin.GET("/students/by-institution/:id", api.queryStudentsByInstitution)
	instAdmin.GET("/teachers", api.queryOwnTeachers)
	instAdmin.GET("/students", api.queryOwnStudents)
	instAdmin.GET("/students/by-grade/:id", api.queryOwnStudentsByGrade)
}

func (api *profileApi) completeTeacherProfile(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data profile.NewTeacherProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacherProfile")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	prof, err := api.svc.CompleteTeacher(ctx.Request().Context(), usr, data)
	if err != nil {
		if errors.Cause(err) == profile.ErrAlreadyExists {
			return echo.NewHTTPError(http.StatusConflict, profile.ErrAlreadyExists.Error())
		}
		return errors.Wrap(err, "completing teacher profile")
	}
	return ctx.JSON(http.StatusCreated, prof)
}

func (api *profileApi) retrieveTeacherProfile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	prof, err := api.svc.TeacherByUser(ctx.Request().Context(), claims.UserID())
	if err != nil {
		if errors.Cause(err) == profile.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding teacher profile")
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *profileApi) teacherProfileStatus(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	status, err := api.svc.TeacherStatus(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return errors.Wrap(err, "checking teacher profile status")
	}
	return ctx.JSON(http.StatusOK, status)
}

func (api *profileApi) completeStudentProfile(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data profile.NewStudentProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudentProfile")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	prof, err := api.svc.CompleteStudent(ctx.Request().Context(), usr, data)
	if err != nil {
		if errors.Cause(err) == profile.ErrAlreadyExists {
			return echo.NewHTTPError(http.StatusConflict, profile.ErrAlreadyExists.Error())
		}
		return errors.Wrap(err, "completing student profile")
	}
	return ctx.JSON(http.StatusCreated, prof)
}

func (api *profileApi) retrieveStudentProfile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	prof, err := api.svc.StudentByUser(ctx.Request().Context(), claims.UserID())
	if err != nil {
		if errors.Cause(err) == profile.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student profile")
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *profileApi) studentProfileStatus(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	status, err := api.svc.StudentStatus(ctx.Request().Context(), claims.UserID())
	if err != nil {
		return errors.Wrap(err, "checking student profile status")
	}
	return ctx.JSON(http.StatusOK, status)
}

func (api *profileApi) queryTeachersByInstitution(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	return api.respondTeachers(ctx, id)
}

func (api *profileApi) queryStudentsByInstitution(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	return api.respondStudents(ctx, id)
}

func (api *profileApi) queryOwnTeachers(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	return api.respondTeachers(ctx, claims.InstitutionID)
}

func (api *profileApi) queryOwnStudents(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	return api.respondStudents(ctx, claims.InstitutionID)
}

// queryOwnStudentsByGrade feeds the section form's roster picker.
func (api *profileApi) queryOwnStudentsByGrade(ctx echo.Context) error {
	gradeID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	students, err := api.svc.StudentsByGradeAndInstitution(ctx.Request().Context(), gradeID, claims.InstitutionID)
	if err != nil {
		return errors.Wrap(err, "querying students by grade")
	}
	if students == nil {
		students = []profile.StudentInfo{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *profileApi) respondTeachers(ctx echo.Context, institutionID int) error {
	teachers, err := api.svc.TeachersByInstitution(ctx.Request().Context(), institutionID)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []profile.TeacherInfo{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *profileApi) respondStudents(ctx echo.Context, institutionID int) error {
	students, err := api.svc.StudentsByInstitution(ctx.Request().Context(), institutionID)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []profile.StudentInfo{}
	}
	return ctx.JSON(http.StatusOK, students)
}
