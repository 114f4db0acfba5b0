package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gyanhq/campus/core/message"
)

type messageApi struct {
	svc      *message.Service
	validate *validator.Validate
}

func registerMessageAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *message.Service, validate *validator.Validate) {
	api := messageApi{svc: svc, validate: validate}

	mg := g.Group("/messages")

	// un-authed: public enquiry form
	mg.POST("", api.create)

	authed := mg.Group("", jwt, staffMiddleware())
	authed.GET("", api.query)
	authed.GET("/stats", api.stats)
	authed.GET("/student/:id", api.byStudent)
	authed.GET("/:id", api.retrieve)
	authed.POST("/:id/reply", api.reply)
	authed.POST("/:id/read", api.markRead)
	authed.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

func (api *messageApi) create(ctx echo.Context) error {
	var data message.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	m, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating message")
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *messageApi) query(ctx echo.Context) error {
	filter := new(message.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []message.Message{})
	}

	msgs, err := api.svc.Query(*filter)
	if err != nil {
		return errors.Wrap(err, "querying messages")
	}
	if msgs == nil {
		msgs = []message.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messageApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.QueryParam("university_code"))
	if err != nil {
		return errors.Wrap(err, "computing message stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *messageApi) byStudent(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	msgs, err := api.svc.ByStudent(id)
	if err != nil {
		return errors.Wrap(err, "querying messages")
	}
	if msgs == nil {
		msgs = []message.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messageApi) retrieve(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	m, err := api.svc.GetByID(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *messageApi) reply(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	m, err := api.svc.GetByID(id)
	if err != nil {
		return err
	}

	var data message.Reply
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Reply")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	m, err = api.svc.Reply(m, data)
	if err != nil {
		return errors.Wrap(err, "replying to message")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *messageApi) markRead(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	m, err := api.svc.GetByID(id)
	if err != nil {
		return err
	}

	m, err = api.svc.MarkRead(m)
	if err != nil {
		return errors.Wrap(err, "marking message read")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *messageApi) destroy(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	if err := api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting message")
	}
	return ctx.NoContent(http.StatusNoContent)
}
