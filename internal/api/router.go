package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"stocky2coast/internal/api/handler"
	"stocky2coast/pkg/router"
)

func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/runs", handler.CreateRun)
	r.GET("/api/v1/runs", handler.ListRuns)
	// More specific routes first
	r.GET("/api/v1/runs/*/summary", handler.GetRunSummary)
	r.GET("/api/v1/runs/*/errors", handler.GetRunErrors)
	// Generic run route last
	r.GET("/api/v1/runs/*", handler.GetRun)

	r.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}
