package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/backend/core/institution"
	"github.com/edutrack/backend/core/payment"
	"github.com/edutrack/backend/core/section"
	"github.com/edutrack/backend/core/user"
)

type dashboardApi struct {
	userSvc        *user.Service
	institutionSvc *institution.Service
	sectionSvc     *section.Service
	paymentSvc     *payment.Service
}

func registerDashboardAPI(admin, instAdmin *echo.Group, deps *Deps) {
	api := dashboardApi{
		userSvc:        deps.UserSvc,
		institutionSvc: deps.InstitutionSvc,
		sectionSvc:     deps.SectionSvc,
		paymentSvc:     deps.PaymentSvc,
	}

	admin.GET("/dashboard", api.platformCounts)
	instAdmin.GET("/dashboard", api.institutionCounts)
}

type (
	PlatformCounts struct {
		Institutions int `json:"institutions"`
		Teachers     int `json:"teachers"`
		Students     int `json:"students"`
		Admins       int `json:"admins"`
	}

	InstitutionCounts struct {
		Sections int `json:"sections"`
		Payments int `json:"payments"`
	}
)

func (api *dashboardApi) platformCounts(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	var counts PlatformCounts
	var err error
	if counts.Institutions, err = api.institutionSvc.Count(rctx); err != nil {
		return errors.Wrap(err, "counting institutions")
	}
	if counts.Teachers, err = api.userSvc.CountByRole(rctx, user.RoleTeacher); err != nil {
		return errors.Wrap(err, "counting teachers")
	}
	if counts.Students, err = api.userSvc.CountByRole(rctx, user.RoleStudent); err != nil {
		return errors.Wrap(err, "counting students")
	}
	if counts.Admins, err = api.userSvc.CountByRole(rctx, user.RoleAdmin); err != nil {
		return errors.Wrap(err, "counting admins")
	}
	return ctx.JSON(http.StatusOK, counts)
}

func (api *dashboardApi) institutionCounts(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()

	var counts InstitutionCounts
	if counts.Sections, err = api.sectionSvc.CountByInstitution(rctx, claims.InstitutionID); err != nil {
		return errors.Wrap(err, "counting sections")
	}
	if counts.Payments, err = api.paymentSvc.CountByInstitution(rctx, claims.InstitutionID); err != nil {
		return errors.Wrap(err, "counting payments")
	}
	return ctx.JSON(http.StatusOK, counts)
}
