package router

import (
	"agriVest/internal/rest"
	"agriVest/pkg/metrics"
	"net/http"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	api.POST("/register", handler.Register)
	api.POST("/login", handler.Login)
	api.POST("/logout", handler.Logout, authRequired)

	users := api.Group("/users", authRequired)
	users.GET("/me", handler.Me)
}

func SetupNotificationRoutes(api *echo.Group, handler *rest.NotificationHandler, authRequired echo.MiddlewareFunc) {
	notifications := api.Group("/notifications", authRequired)
	notifications.GET("", handler.ListMine)
	notifications.PATCH("/:id/read", handler.MarkRead)
}

func SetupProjectRoutes(api *echo.Group, handler *rest.ProjectHandler, authRequired echo.MiddlewareFunc) {
	projects := api.Group("/projects", authRequired)

	projects.GET("", handler.GetAllProjects)
	projects.POST("", handler.CreateProject)
	projects.GET("/:id", handler.GetProjectByID)
	projects.PUT("/:id", handler.UpdateProject)
	projects.PATCH("/:id", handler.PatchProject)
	projects.DELETE("/:id", handler.DeleteProject)
}

func SetupInvestmentRoutes(api *echo.Group, handler *rest.InvestmentHandler, authRequired echo.MiddlewareFunc) {
	investments := api.Group("/investments", authRequired)
	investments.GET("", handler.GetMyInvestments)
	investments.POST("", handler.CreateInvestment)
	investments.GET("/:id", handler.GetInvestment)
}

func SetupAdminRoutes(
	api *echo.Group,
	userHandler *rest.UserHandler,
	projectHandler *rest.ProjectHandler,
	investmentHandler *rest.InvestmentHandler,
	authRequired echo.MiddlewareFunc,
	adminOnly echo.MiddlewareFunc,
) {
	admin := api.Group("/admin", authRequired, adminOnly)

	admin.GET("/users", userHandler.ListUsers)
	admin.PATCH("/users/:id", userHandler.UpdateUserFlags)
	admin.GET("/projects", projectHandler.ListProjects)
	admin.PATCH("/investments/:id/status", investmentHandler.UpdateStatus)
}

func SetupOpsRoutes(e *echo.Echo, appName, version string) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"service": appName,
			"version": version,
		})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
