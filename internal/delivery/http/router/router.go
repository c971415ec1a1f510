// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"triplan/internal/delivery/http/middleware"
	"triplan/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler  *handler.AuthHandler
	TagHandler   *handler.TagHandler
	PlaceHandler *handler.PlaceHandler

	AuthMiddleware      *middleware.AuthMiddleware
	RequestIDMiddleware *middleware.RequestIDMiddleware
	LoggerMiddleware    *middleware.LoggerMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler  *handler.AuthHandler
	tagHandler   *handler.TagHandler
	placeHandler *handler.PlaceHandler

	authMiddleware      *middleware.AuthMiddleware
	requestIDMiddleware *middleware.RequestIDMiddleware
	loggerMiddleware    *middleware.LoggerMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		tagHandler:          params.TagHandler,
		placeHandler:        params.PlaceHandler,
		authMiddleware:      params.AuthMiddleware,
		requestIDMiddleware: params.RequestIDMiddleware,
		loggerMiddleware:    params.LoggerMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Process)
	e.Use(r.loggerMiddleware.Handle)

	// Health check endpoint. Anonymous, but a valid session is still picked
	// up so the request log carries the user when there is one.
	e.GET("/health", handler.HealthCheck, r.authMiddleware.OptionalAuthenticate)

	// Session lifecycle. Refresh authenticates with the refresh cookie on
	// its own, and logout must work even with a broken session, so neither
	// sits behind the access-token guard.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
	}

	// Tag routes require authentication
	tagGroup := e.Group("/tags")
	tagGroup.Use(r.authMiddleware.Authenticate)
	{
		tagGroup.POST("", r.tagHandler.Create)
		tagGroup.GET("", r.tagHandler.List)
		tagGroup.PATCH("/:tagId", r.tagHandler.Update)
		tagGroup.DELETE("/:tagId", r.tagHandler.Delete)
	}

	// Place routes require authentication
	placeGroup := e.Group("/places")
	placeGroup.Use(r.authMiddleware.Authenticate)
	{
		placeGroup.POST("", r.placeHandler.Create)
		placeGroup.GET("", r.placeHandler.List)
		placeGroup.GET("/:placeId", r.placeHandler.Get)
		placeGroup.DELETE("/:placeId", r.placeHandler.Delete)
		placeGroup.POST("/:placeId/tags/:tagId", r.placeHandler.AddTag)
		placeGroup.DELETE("/:placeId/tags/:tagId", r.placeHandler.RemoveTag)
		placeGroup.GET("/:placeId/qrcode", r.placeHandler.ShareQR)
	}
}
