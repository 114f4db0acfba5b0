package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gyanhq/campus/core/university"
)

type universityApi struct {
	reg *university.Registry
}

func registerUniversityAPI(g *echo.Group, jwt echo.MiddlewareFunc, reg *university.Registry) {
	api := universityApi{reg: reg}

	ug := g.Group("/universities", jwt)
	ug.GET("", api.query)
	ug.GET("/:code", api.retrieve)
}

// Handlers

func (api *universityApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.reg.All())
}

func (api *universityApi) retrieve(ctx echo.Context) error {
	u, ok := api.reg.Get(ctx.Param("code"))
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, u)
}
