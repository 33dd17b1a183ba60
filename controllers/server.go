package controllers

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"shootapi/filter"
	"shootapi/history"
	"shootapi/logger"
	"shootapi/models"
	"shootapi/session"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func SetupServer(sess *session.Session, store history.Store, log *zap.SugaredLogger) *echo.Echo {
	if log == nil {
		log = logger.Nop()
	}
	e := echo.New()
	e.HideBanner = true
	e.Use(RequestLogMiddleware(log))

	v := validator.New()
	v.RegisterValidation("category", models.ValidateCategory)
	e.Validator = &CustomValidator{validator: v}

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	catalogController := CatalogController{Store: store}
	catalogController.CatalogRoutes(e.Group("/catalog"))

	photoshootController := PhotoshootController{Session: sess, Log: log}
	photoshootController.PhotoshootRoutes(e.Group("/photoshoot", NoStoreMiddleware))

	generationsController := GenerationsController{Store: store}
	generationsController.GenerationRoutes(e.Group("/generations"))

	e.GET("/dashboard", generationsController.Dashboard)

	return e
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// handleError maps domain errors to HTTP statuses. Anything unknown is
// reported and answered with 500.
func handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrInvalidTransition):
		return errorJSON(c, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNotReady):
		return errorJSON(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrUnknownModel), errors.Is(err, models.ErrUnknownCategory), errors.Is(err, filter.ErrMalformedSpec):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, history.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, err.Error())
	}
	sentry.CaptureException(err)
	return errorJSON(c, http.StatusInternalServerError, "Internal server error")
}
