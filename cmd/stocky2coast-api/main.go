package main

import (
	_ "stocky2coast/docs"
	"stocky2coast/internal/api"
	"stocky2coast/internal/store"
	"stocky2coast/pkg/router"
)

// @title stocky2coast API
// @version 1.0
// @description Submit and inspect purchase-order conversion runs.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Init run tracking DB
	if err := store.InitDB("stocky2coast.db"); err != nil {
		panic(err)
	}
	defer store.Close()

	r := router.New()
	api.RegisterRoutes(r)
	r.Start(":8080")
}
