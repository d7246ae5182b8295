package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/backend/core/academic"
)

type academicApi struct {
	svc *academic.Service
}

func registerAcademicAPI(admin, instAdmin *echo.Group, deps *Deps) {
	api := academicApi{svc: deps.AcademicSvc}

	lg := admin.Group("/academic-levels")
	lg.GET("", api.queryLevels)
	lg.POST("", api.createLevel)
	lg.GET("/:id", api.retrieveLevel)
	lg.PUT("/:id", api.updateLevel)
	lg.DELETE("/:id", api.destroyLevel)

	gg := admin.Group("/grades")
	gg.GET("", api.queryGrades)
	gg.POST("", api.createGrade)
	gg.GET("/by-level/:id", api.queryGradesByLevel)
	gg.GET("/:id", api.retrieveGrade)
	gg.PUT("/:id", api.updateGrade)
	gg.DELETE("/:id", api.destroyGrade)

	// institution admins browse their own academic structure
	instAdmin.GET("/academic-levels", api.queryOwnLevels)
	instAdmin.GET("/grades/by-level/:id", api.queryGradesByLevel)
}

func (api *academicApi) createLevel(ctx echo.Context) error {
	var data academic.NewLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLevel")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	lvl, err := api.svc.CreateLevel(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating academic level")
	}
	return ctx.JSON(http.StatusCreated, lvl)
}

func (api *academicApi) queryLevels(ctx echo.Context) error {
	levels, err := api.svc.QueryAllLevels(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying academic levels")
	}
	if levels == nil {
		levels = []academic.Level{}
	}
	return ctx.JSON(http.StatusOK, levels)
}

func (api *academicApi) queryOwnLevels(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	levels, err := api.svc.LevelsByInstitution(ctx.Request().Context(), claims.InstitutionID)
	if err != nil {
		return errors.Wrap(err, "querying institution levels")
	}
	if levels == nil {
		levels = []academic.Level{}
	}
	return ctx.JSON(http.StatusOK, levels)
}

func (api *academicApi) retrieveLevel(ctx echo.Context) error {
	lvl, err := api.getLevel(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lvl)
}

func (api *academicApi) updateLevel(ctx echo.Context) error {
	lvl, err := api.getLevel(ctx)
	if err != nil {
		return err
	}

	var data academic.NewLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLevel")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	lvl, err = api.svc.UpdateLevel(ctx.Request().Context(), lvl.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating academic level")
	}
	return ctx.JSON(http.StatusOK, lvl)
}

func (api *academicApi) destroyLevel(ctx echo.Context) error {
	lvl, err := api.getLevel(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteLevel(ctx.Request().Context(), lvl.ID); err != nil {
		return errors.Wrap(err, "deleting academic level")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *academicApi) createGrade(ctx echo.Context) error {
	var data academic.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	grd, err := api.svc.CreateGrade(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == academic.ErrLevelNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating grade")
	}
	return ctx.JSON(http.StatusCreated, grd)
}

func (api *academicApi) queryGrades(ctx echo.Context) error {
	grades, err := api.svc.QueryAllGrades(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	if grades == nil {
		grades = []academic.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *academicApi) queryGradesByLevel(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	grades, err := api.svc.GradesByLevel(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying grades by level")
	}
	if grades == nil {
		grades = []academic.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *academicApi) retrieveGrade(ctx echo.Context) error {
	grd, err := api.getGrade(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grd)
}

func (api *academicApi) updateGrade(ctx echo.Context) error {
	grd, err := api.getGrade(ctx)
	if err != nil {
		return err
	}

	var data academic.UpdateGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGrade")
	}
	if err := data.Validate(grd); err != nil {
		return err
	}

	grd, err = api.svc.UpdateGrade(ctx.Request().Context(), grd.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating grade")
	}
	return ctx.JSON(http.StatusOK, grd)
}

func (api *academicApi) destroyGrade(ctx echo.Context) error {
	grd, err := api.getGrade(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.DeleteGrade(ctx.Request().Context(), grd.ID); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *academicApi) getLevel(ctx echo.Context) (academic.Level, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return academic.Level{}, errHttpNotFound
	}
	lvl, err := api.svc.GetLevelByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == academic.ErrLevelNotFound {
			return academic.Level{}, errHttpNotFound
		}
		return academic.Level{}, errors.Wrap(err, "finding academic level by ID")
	}
	return lvl, nil
}

func (api *academicApi) getGrade(ctx echo.Context) (academic.Grade, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return academic.Grade{}, errHttpNotFound
	}
	grd, err := api.svc.GetGradeByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == academic.ErrGradeNotFound {
			return academic.Grade{}, errHttpNotFound
		}
		return academic.Grade{}, errors.Wrap(err, "finding grade by ID")
	}
	return grd, nil
}
