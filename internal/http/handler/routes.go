package handler

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"nicecatcher/internal/auth"
	"nicecatcher/internal/http/middleware"
	"nicecatcher/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. The
// /api/v1 group sits behind bearer auth; everything else is public. Keep
// handlers minimal and free of business logic.
//
// The SPA fallback is registered last and matches every remaining GET, so
// any route added after this call would be unreachable.
func RegisterRoutes(app *fiber.App, svc service.MemoService, verifier auth.Verifier, staticDir string) {
	app.Get("/health", Health())

	api := app.Group("/api/v1", middleware.Auth(verifier))
	api.Post("/capture", Capture(svc))
	api.Get("/memos", ListMemos(svc))
	api.Patch("/memos/:id", UpdateMemo(svc))
	api.Delete("/memos/:id", DeleteMemo(svc))
	api.Post("/memos/:id/media", AddMedia(svc))
	api.Post("/memos/:id/location", AddLocation(svc))
	api.Get("/projects", ListProjects(svc))

	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		app.Static("/static", staticDir)
	}

	app.Get("/*", SPAFallback(staticDir))
}
