package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edutrack/backend/core/payment"
)

type paymentApi struct {
	svc *payment.Service
}

func registerPaymentAPI(instAdmin, student *echo.Group, deps *Deps) {
	api := paymentApi{svc: deps.PaymentSvc}

	instAdmin.GET("/payments", api.queryByInstitution)
	instAdmin.PUT("/payments/:id/status", api.updateStatus)

	student.GET("/payments", api.queryOwn)
	student.POST("/payments", api.create)
}

func (api *paymentApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data payment.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	pmt, err := api.svc.Create(ctx.Request().Context(), data, claims.UserID(), claims.InstitutionID)
	if err != nil {
		return errors.Wrap(err, "creating payment")
	}
	return ctx.JSON(http.StatusCreated, pmt)
}

func (api *paymentApi) queryOwn(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	pmts, err := api.svc.ByStudent(ctx.Request().Context(), claims.UserID())
	return api.respond(ctx, pmts, err)
}

func (api *paymentApi) queryByInstitution(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	pmts, err := api.svc.ByInstitution(ctx.Request().Context(), claims.InstitutionID)
	return api.respond(ctx, pmts, err)
}

func (api *paymentApi) updateStatus(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var data payment.UpdateStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStatus")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	// payments outside the caller's institution are invisible
	pmt, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == payment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding payment by ID")
	}
	if pmt.InstitutionID != claims.InstitutionID {
		return errHttpNotFound
	}

	pmt, err = api.svc.SetStatus(ctx.Request().Context(), pmt.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating payment status")
	}
	return ctx.JSON(http.StatusOK, pmt)
}

func (api *paymentApi) respond(ctx echo.Context, pmts []payment.Payment, err error) error {
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if pmts == nil {
		pmts = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, pmts)
}
