package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"shootapi/filter"
	"shootapi/models"
	"shootapi/services"
	"shootapi/session"
)

type ConfigurePhotoshootIn struct {
	Category *string `json:"category" validate:"omitempty,category"`
	ModelID  *string `json:"model_id" validate:"omitempty,max=32"`
	Notes    *string `json:"notes" validate:"omitempty,max=1000"`
}

type ArchivedResponse struct {
	Record     GenerationResponse `json:"record"`
	Photoshoot PhotoshootResponse `json:"photoshoot"`
}

type PhotoshootController struct {
	Session *session.Session
	Log     *zap.SugaredLogger
}

func (controller *PhotoshootController) PhotoshootRoutes(g *echo.Group) {
	g.GET("", controller.GetPhotoshoot)
	g.PUT("/config", controller.Configure)
	g.GET("/models", controller.PickModels)
	g.POST("/product", controller.UploadProduct)
	g.DELETE("/product", controller.RemoveProduct)
	g.GET("/preview/:id", controller.Preview)
	g.POST("/generate", controller.Generate)
	g.POST("/regenerate", controller.Regenerate)
	g.POST("/try-another-model", controller.TryAnotherModel)
	g.POST("/save", controller.Save)
	g.POST("/cancel", controller.Cancel)
}

func (controller *PhotoshootController) GetPhotoshoot(c echo.Context) error {
	return c.JSON(http.StatusOK, newPhotoshootResponse(controller.Session.Snapshot()))
}

func (controller *PhotoshootController) Configure(c echo.Context) error {
	var req ConfigurePhotoshootIn
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	update := session.Update{ModelID: req.ModelID, Notes: req.Notes}
	if req.Category != nil {
		category := models.Category(*req.Category)
		update.Category = &category
	}
	snap, err := controller.Session.Configure(update)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, newPhotoshootResponse(snap))
}

// PickModels serves the model picker of the photoshoot screen, filtered by a
// single gender.
func (controller *PhotoshootController) PickModels(c echo.Context) error {
	found, err := filter.Evaluate(models.Catalog(), models.PickerSpec(c.QueryParam("gender")))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, found)
}

func (controller *PhotoshootController) UploadProduct(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "A product image is required in the \"file\" field")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return handleError(c, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxUploadSize+1))
	if err != nil {
		return handleError(c, err)
	}

	asset, err := services.NewUploadedAsset(fileHeader.Filename, fileHeader.Header.Get(echo.HeaderContentType), data)
	if errors.Is(err, services.ErrUploadRejected) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
			"kind":  string(session.UploadRejected),
		})
	}
	if err != nil {
		return handleError(c, err)
	}

	snap, err := controller.Session.SetAsset(asset)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, newPhotoshootResponse(snap))
}

func (controller *PhotoshootController) RemoveProduct(c echo.Context) error {
	snap, err := controller.Session.RemoveAsset()
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, newPhotoshootResponse(snap))
}

func (controller *PhotoshootController) Preview(c echo.Context) error {
	data, contentType, err := controller.Session.Previews().Get(c.Param("id"))
	if err != nil {
		return errorJSON(c, http.StatusNotFound, err.Error())
	}
	return c.Blob(http.StatusOK, contentType, data)
}

func (controller *PhotoshootController) Generate(c echo.Context) error {
	att, err := controller.Session.Begin()
	if err != nil {
		return handleError(c, err)
	}
	controller.run(att)
	return c.JSON(http.StatusAccepted, newPhotoshootResponse(controller.Session.Snapshot()))
}

func (controller *PhotoshootController) Regenerate(c echo.Context) error {
	att, err := controller.Session.BeginRegenerate()
	if err != nil {
		return handleError(c, err)
	}
	controller.run(att)
	return c.JSON(http.StatusAccepted, newPhotoshootResponse(controller.Session.Snapshot()))
}

// run finishes the attempt in the background. The request context is not
// used since the client polls GET /photoshoot for the result; Cancel and
// Session.Close stop the attempt instead.
func (controller *PhotoshootController) run(att *session.Attempt) {
	go func() {
		snap, err := att.Run(context.Background())
		if errors.Is(err, session.ErrStaleAttempt) {
			controller.Log.Infow("generation attempt discarded", "attempt", att.ID())
			return
		}
		controller.Log.Infow("generation attempt finished", "attempt", att.ID(), "state", snap.State.Name())
	}()
}

func (controller *PhotoshootController) TryAnotherModel(c echo.Context) error {
	record, err := controller.Session.TrySwapModel(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, ArchivedResponse{
		Record:     newGenerationResponse(record),
		Photoshoot: newPhotoshootResponse(controller.Session.Snapshot()),
	})
}

func (controller *PhotoshootController) Save(c echo.Context) error {
	record, err := controller.Session.SaveAndReset(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, ArchivedResponse{
		Record:     newGenerationResponse(record),
		Photoshoot: newPhotoshootResponse(controller.Session.Snapshot()),
	})
}

func (controller *PhotoshootController) Cancel(c echo.Context) error {
	if err := controller.Session.Cancel(); err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, newPhotoshootResponse(controller.Session.Snapshot()))
}
