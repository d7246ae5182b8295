package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/backend/core/academic"
	"github.com/edutrack/backend/core/institution"
)

type institutionApi struct {
	svc         *institution.Service
	academicSvc *academic.Service
}

func registerInstitutionAPI(g, admin *echo.Group, deps *Deps) {
	api := institutionApi{svc: deps.InstitutionSvc, academicSvc: deps.AcademicSvc}

	// registration dropdown; no auth
	g.GET("/institutions/options", api.queryOptions)

	ig := admin.Group("/institutions")
	ig.GET("", api.query)
	ig.POST("", api.create)
	ig.GET("/:id", api.retrieve)
	ig.PUT("/:id", api.update)
	ig.DELETE("/:id", api.destroy)

	// institution ↔ academic level links
	lg := admin.Group("/institution-academic-levels")
	lg.POST("", api.assignLevel)
	lg.DELETE("", api.unassignLevel)
	lg.GET("/by-institution/:id", api.queryLevelsByInstitution)
}

func (api *institutionApi) queryOptions(ctx echo.Context) error {
	opts, err := api.svc.Options(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying institution options")
	}
	if opts == nil {
		opts = []institution.Option{}
	}
	return ctx.JSON(http.StatusOK, opts)
}

func (api *institutionApi) query(ctx echo.Context) error {
	insts, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying institutions")
	}
	if insts == nil {
		insts = []institution.Institution{}
	}
	return ctx.JSON(http.StatusOK, insts)
}

func (api *institutionApi) create(ctx echo.Context) error {
	var data institution.NewInstitution
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInstitution")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	inst, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating institution")
	}
	return ctx.JSON(http.StatusCreated, inst)
}

func (api *institutionApi) retrieve(ctx echo.Context) error {
	inst, err := api.getInstitution(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, inst)
}

func (api *institutionApi) update(ctx echo.Context) error {
	inst, err := api.getInstitution(ctx)
	if err != nil {
		return err
	}

	var data institution.UpdateInstitution
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateInstitution")
	}
	if err := data.Validate(inst); err != nil {
		return err
	}

	inst, err = api.svc.Update(ctx.Request().Context(), inst.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating institution")
	}
	return ctx.JSON(http.StatusOK, inst)
}

func (api *institutionApi) destroy(ctx echo.Context) error {
	inst, err := api.getInstitution(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), inst.ID); err != nil {
		return errors.Wrap(err, "deleting institution")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *institutionApi) assignLevel(ctx echo.Context) error {
	var data academic.AssignLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignLevel")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.academicSvc.AssignLevel(ctx.Request().Context(), data); err != nil {
		if cause := errors.Cause(err); cause == institution.ErrNotFound || cause == academic.ErrLevelNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "assigning academic level")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *institutionApi) unassignLevel(ctx echo.Context) error {
	var data academic.AssignLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignLevel")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.academicSvc.UnassignLevel(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "unassigning academic level")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *institutionApi) queryLevelsByInstitution(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	levels, err := api.academicSvc.LevelsByInstitution(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying institution levels")
	}
	if levels == nil {
		levels = []academic.Level{}
	}
	return ctx.JSON(http.StatusOK, levels)
}

func (api *institutionApi) getInstitution(ctx echo.Context) (institution.Institution, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return institution.Institution{}, errHttpNotFound
	}
	inst, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == institution.ErrNotFound {
			return institution.Institution{}, errHttpNotFound
		}
		return institution.Institution{}, errors.Wrap(err, "finding institution by ID")
	}
	return inst, nil
}
