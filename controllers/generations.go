package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"shootapi/history"
)

type SampleDataIn struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type GenerationsController struct {
	Store history.Store
	// Now defaults to time.Now; tests pin it for the dashboard counters.
	Now func() time.Time
}

func (controller *GenerationsController) GenerationRoutes(g *echo.Group) {
	g.GET("", controller.ListGenerations)
	g.PUT("/samples", controller.SampleData)
	g.GET("/:id", controller.GetGeneration)
	g.DELETE("/:id", controller.DeleteGeneration)
}

// ListGenerations searches product names with q and narrows to one category;
// category "all" or empty means any.
func (controller *GenerationsController) ListGenerations(c echo.Context) error {
	records, err := controller.Store.Query(c.Request().Context(), history.RecordSpec(c.QueryParam("q"), c.QueryParam("category")))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, newGenerationsResponse(records))
}

func (controller *GenerationsController) GetGeneration(c echo.Context) error {
	record, err := controller.Store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, newGenerationResponse(record))
}

func (controller *GenerationsController) DeleteGeneration(c echo.Context) error {
	if err := controller.Store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (controller *GenerationsController) SampleData(c echo.Context) error {
	var req SampleDataIn
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var err error
	if *req.Enabled {
		err = controller.Store.LoadSamples(ctx)
	} else {
		err = controller.Store.ClearSamples(ctx)
	}
	if err != nil {
		return handleError(c, err)
	}
	return controller.ListGenerations(c)
}

func (controller *GenerationsController) Dashboard(c echo.Context) error {
	now := time.Now
	if controller.Now != nil {
		now = controller.Now
	}
	stats, err := controller.Store.Stats(c.Request().Context(), now())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, struct {
		history.Stats
		Recent []GenerationResponse `json:"recent"`
	}{Stats: stats, Recent: newGenerationsResponse(stats.Recent)})
}
