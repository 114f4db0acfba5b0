package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gyanhq/campus/core/admitcard"
)

type admitCardApi struct {
	svc      *admitcard.Service
	validate *validator.Validate
}

func registerAdmitCardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *admitcard.Service, validate *validator.Validate) {
	api := admitCardApi{svc: svc, validate: validate}

	ag := g.Group("/admit-cards", jwt, staffMiddleware())
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.GET("/upcoming", api.upcoming)
	ag.GET("/no/:cardNo", api.retrieveByNo)
	ag.GET("/student/:id", api.byStudent)
	ag.GET("/:id", api.retrieve)
	ag.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *admitCardApi) create(ctx echo.Context) error {
	var data admitcard.NewCard
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCard")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	c, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating admit card")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *admitCardApi) query(ctx echo.Context) error {
	filter := new(admitcard.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []admitcard.Card{})
	}

	cards, err := api.svc.Query(*filter)
	if err != nil {
		return errors.Wrap(err, "querying admit cards")
	}
	if cards == nil {
		cards = []admitcard.Card{}
	}
	return ctx.JSON(http.StatusOK, cards)
}

func (api *admitCardApi) upcoming(ctx echo.Context) error {
	cards, err := api.svc.UpcomingExams(ctx.QueryParam("university_code"))
	if err != nil {
		return errors.Wrap(err, "querying upcoming exams")
	}
	return ctx.JSON(http.StatusOK, cards)
}

func (api *admitCardApi) retrieveByNo(ctx echo.Context) error {
	c, err := api.svc.GetByNo(ctx.Param("cardNo"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *admitCardApi) byStudent(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	cards, err := api.svc.ByStudent(id)
	if err != nil {
		return errors.Wrap(err, "querying admit cards")
	}
	if cards == nil {
		cards = []admitcard.Card{}
	}
	return ctx.JSON(http.StatusOK, cards)
}

func (api *admitCardApi) retrieve(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	c, err := api.svc.GetByID(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *admitCardApi) destroy(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	if err := api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting admit card")
	}
	return ctx.NoContent(http.StatusNoContent)
}
