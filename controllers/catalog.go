package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shootapi/filter"
	"shootapi/history"
	"shootapi/models"
)

type FavoriteToggledResponse struct {
	ModelID  string `json:"model_id"`
	Favorite bool   `json:"favorite"`
}

type CatalogController struct {
	Store history.Store
}

func (controller *CatalogController) CatalogRoutes(g *echo.Group) {
	g.GET("/models", controller.ListModels)
	g.GET("/options", controller.Options)
	g.POST("/models/:id/favorite", controller.ToggleFavorite)
	g.GET("/favorites", controller.Favorites)
}

// ListModels filters the gallery. gender, ethnicity and age_range may be
// repeated; q searches model names.
func (controller *CatalogController) ListModels(c echo.Context) error {
	params := c.QueryParams()
	spec := models.CatalogSpec(c.QueryParam("q"), params["gender"], params["ethnicity"], params["age_range"])
	found, err := filter.Evaluate(models.Catalog(), spec)
	if err != nil {
		return handleError(c, err)
	}

	favorites, err := controller.Store.Favorites(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	isFavorite := make(map[string]bool, len(favorites))
	for _, id := range favorites {
		isFavorite[id] = true
	}

	out := make([]ModelResponse, 0, len(found))
	for _, m := range found {
		out = append(out, ModelResponse{ModelProfile: m, Favorite: isFavorite[m.ID]})
	}
	return c.JSON(http.StatusOK, out)
}

func (controller *CatalogController) Options(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Options())
}

func (controller *CatalogController) ToggleFavorite(c echo.Context) error {
	m, err := models.FindModel(c.Param("id"))
	if err != nil {
		return errorJSON(c, http.StatusNotFound, err.Error())
	}
	favorite, err := controller.Store.ToggleFavorite(c.Request().Context(), m.ID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, FavoriteToggledResponse{ModelID: m.ID, Favorite: favorite})
}

func (controller *CatalogController) Favorites(c echo.Context) error {
	ids, err := controller.Store.Favorites(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	out := make([]models.ModelProfile, 0, len(ids))
	for _, id := range ids {
		m, err := models.FindModel(id)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return c.JSON(http.StatusOK, out)
}
