package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gyanhq/campus/core/employee"
)

type employeeApi struct {
	svc      *employee.Service
	validate *validator.Validate
}

func registerEmployeeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *employee.Service, validate *validator.Validate) {
	api := employeeApi{svc: svc, validate: validate}

	eg := g.Group("/employees", jwt, adminMiddleware())
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.PUT("/:id", api.update)
	eg.DELETE("/:id", api.deactivate)
	eg.POST("/:id/reactivate", api.reactivate)
}

// Handlers

func (api *employeeApi) create(ctx echo.Context) error {
	var data employee.NewEmployee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEmployee")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	e, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating employee")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *employeeApi) query(ctx echo.Context) error {
	filter := new(employee.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []employee.Employee{})
	}

	employees, err := api.svc.Query(*filter)
	if err != nil {
		return errors.Wrap(err, "querying employees")
	}
	if employees == nil {
		employees = []employee.Employee{}
	}
	return ctx.JSON(http.StatusOK, employees)
}

func (api *employeeApi) retrieve(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	e, err := api.svc.GetByID(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *employeeApi) update(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	e, err := api.svc.GetByID(id)
	if err != nil {
		return err
	}

	var data employee.UpdateEmployee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEmployee")
	}
	if err := data.Validate(api.validate, api.svc, e); err != nil {
		return err
	}

	e, err = api.svc.Update(e, data)
	if err != nil {
		return errors.Wrap(err, "updating employee")
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *employeeApi) deactivate(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	if _, err := api.svc.Deactivate(id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *employeeApi) reactivate(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	e, err := api.svc.Reactivate(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}
