package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/backend/core/section"
)

type sectionApi struct {
	svc *section.Service
}

func registerSectionAPI(instAdmin, teacher, student *echo.Group, deps *Deps) {
	api := sectionApi{svc: deps.SectionSvc}

	ig := instAdmin.Group("/sections")
	ig.GET("", api.queryByInstitution)
	ig.POST("", api.create)
	ig.GET("/:id", api.retrieveForInstitution)
	ig.PUT("/:id", api.update)
	ig.DELETE("/:id", api.destroy)
	ig.PUT("/:id/students", api.assignStudents)
	ig.GET("/:id/students", api.queryStudentsForInstitution)

	tg := teacher.Group("/sections")
	tg.GET("", api.queryByTeacher)
	tg.GET("/:id", api.retrieveForTeacher)
	tg.GET("/:id/students", api.queryStudentsForTeacher)
	tg.GET("/:id/averages", api.queryAverages)

	student.GET("/sections", api.queryByStudent)
}

func (api *sectionApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data section.NewSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSection")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sec, err := api.svc.Create(ctx.Request().Context(), claims.InstitutionID, data)
	if err != nil {
		return errors.Wrap(err, "creating section")
	}
	return ctx.JSON(http.StatusCreated, sec)
}

func (api *sectionApi) queryByInstitution(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	infos, err := api.svc.ByInstitution(ctx.Request().Context(), claims.InstitutionID)
	return api.respondInfos(ctx, infos, err)
}

func (api *sectionApi) queryByTeacher(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	infos, err := api.svc.ByTeacher(ctx.Request().Context(), claims.UserID())
	return api.respondInfos(ctx, infos, err)
}

func (api *sectionApi) queryByStudent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	infos, err := api.svc.ByStudent(ctx.Request().Context(), claims.UserID())
	return api.respondInfos(ctx, infos, err)
}

func (api *sectionApi) retrieveForInstitution(ctx echo.Context) error {
	sec, err := api.getOwnSection(ctx)
	if err != nil {
		return err
	}
	info, err := api.svc.GetInfoByID(ctx.Request().Context(), sec.ID)
	if err != nil {
		return errors.Wrap(err, "finding section info")
	}
	return ctx.JSON(http.StatusOK, info)
}

func (api *sectionApi) retrieveForTeacher(ctx echo.Context) error {
	sec, err := api.getTaughtSection(ctx)
	if err != nil {
		return err
	}
	info, err := api.svc.GetInfoByID(ctx.Request().Context(), sec.ID)
	if err != nil {
		return errors.Wrap(err, "finding section info")
	}
	return ctx.JSON(http.StatusOK, info)
}

func (api *sectionApi) update(ctx echo.Context) error {
	sec, err := api.getOwnSection(ctx)
	if err != nil {
		return err
	}

	var data section.UpdateSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSection")
	}
	if err := data.Validate(sec); err != nil {
		return err
	}

	sec, err = api.svc.Update(ctx.Request().Context(), sec.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating section")
	}
	return ctx.JSON(http.StatusOK, sec)
}

func (api *sectionApi) destroy(ctx echo.Context) error {
	sec, err := api.getOwnSection(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), sec.ID); err != nil {
		return errors.Wrap(err, "deleting section")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sectionApi) assignStudents(ctx echo.Context) error {
	sec, err := api.getOwnSection(ctx)
	if err != nil {
		return err
	}

	var data section.AssignStudents
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignStudents")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.AssignStudents(ctx.Request().Context(), sec.ID, data); err != nil {
		return errors.Wrap(err, "assigning section students")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sectionApi) queryStudentsForInstitution(ctx echo.Context) error {
	sec, err := api.getOwnSection(ctx)
	if err != nil {
		return err
	}
	return api.respondStudents(ctx, sec.ID)
}

func (api *sectionApi) queryStudentsForTeacher(ctx echo.Context) error {
	sec, err := api.getTaughtSection(ctx)
	if err != nil {
		return err
	}
	return api.respondStudents(ctx, sec.ID)
}

func (api *sectionApi) queryAverages(ctx echo.Context) error {
	sec, err := api.getTaughtSection(ctx)
	if err != nil {
		return err
	}
	avgs, err := api.svc.StudentAverages(ctx.Request().Context(), sec.ID)
	if err != nil {
		return errors.Wrap(err, "querying student averages")
	}
	if avgs == nil {
		avgs = []section.StudentAverage{}
	}
	return ctx.JSON(http.StatusOK, avgs)
}

func (api *sectionApi) respondInfos(ctx echo.Context, infos []section.Info, err error) error {
	if err != nil {
		return errors.Wrap(err, "querying sections")
	}
	if infos == nil {
		infos = []section.Info{}
	}
	return ctx.JSON(http.StatusOK, infos)
}

func (api *sectionApi) respondStudents(ctx echo.Context, sectionID int) error {
	students, err := api.svc.Students(ctx.Request().Context(), sectionID)
	if err != nil {
		return errors.Wrap(err, "querying section students")
	}
	if students == nil {
		students = []section.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

// getOwnSection resolves :id and ensures it belongs to the caller's institution.
// Sections outside the institution are indistinguishable from missing ones.
func (api *sectionApi) getOwnSection(ctx echo.Context) (section.Section, error) {
	sec, err := api.getSection(ctx)
	if err != nil {
		return section.Section{}, err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return section.Section{}, err
	}
	if sec.InstitutionID != claims.InstitutionID {
		return section.Section{}, errHttpNotFound
	}
	return sec, nil
}

// getTaughtSection resolves :id and ensures the caller teaches it.
func (api *sectionApi) getTaughtSection(ctx echo.Context) (section.Section, error) {
	sec, err := api.getSection(ctx)
	if err != nil {
		return section.Section{}, err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return section.Section{}, err
	}
	if sec.TeacherID != claims.UserID() {
		return section.Section{}, errHttpNotFound
	}
	return sec, nil
}

func (api *sectionApi) getSection(ctx echo.Context) (section.Section, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return section.Section{}, errHttpNotFound
	}
	sec, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == section.ErrNotFound {
			return section.Section{}, errHttpNotFound
		}
		return section.Section{}, errors.Wrap(err, "finding section by ID")
	}
	return sec, nil
}
