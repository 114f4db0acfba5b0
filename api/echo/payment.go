package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gyanhq/campus/core/payment"
)

type paymentApi struct {
	svc      *payment.Service
	validate *validator.Validate
}

func registerPaymentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *payment.Service, validate *validator.Validate) {
	api := paymentApi{svc: svc, validate: validate}

	pg := g.Group("/payments", jwt, staffMiddleware())
	pg.POST("/plan", api.createPlan)
	pg.POST("/one-shot", api.createOneShot)
	pg.GET("/ledger", api.ledger)
	pg.PATCH("/:id/paid", api.setPaid)
	pg.GET("/student/:id", api.studentHistory)
	pg.POST("/reminders", api.sendReminders, adminMiddleware())
}

// Handlers

func (api *paymentApi) createPlan(ctx echo.Context) error {
	var data payment.NewPlan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPlan")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	plan, err := api.svc.CreatePlan(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, plan)
}

func (api *paymentApi) createOneShot(ctx echo.Context) error {
	var data payment.NewOneShot
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOneShot")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ins, err := api.svc.CreateOneShot(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ins)
}

func (api *paymentApi) ledger(ctx echo.Context) error {
	var q payment.LedgerQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to LedgerQuery")
	}

	ledger, err := api.svc.Ledger(q)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ledger)
}

func (api *paymentApi) setPaid(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var data payment.SetPaid
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetPaid")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ins, err := api.svc.SetPaid(id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ins)
}

func (api *paymentApi) studentHistory(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	hist, err := api.svc.StudentHistory(id, ctx.QueryParam("university_code"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, hist)
}

func (api *paymentApi) sendReminders(ctx echo.Context) error {
	if err := api.svc.SendOverdueReminders(); err != nil {
		return errors.Wrap(err, "sending overdue reminders")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "reminders queued"})
}
