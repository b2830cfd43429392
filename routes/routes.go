package routes

import (
	"protodesk/auth"
	"protodesk/drivers"
	"protodesk/export"
	"protodesk/live"
	"protodesk/middleware"
	"protodesk/photos"
	"protodesk/ratelim"
	"protodesk/visitors"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(h.Logout))
}

// AddVisitorRoutes wires the dashboard API. Reads need a session; writes are
// admin-only. The collection lives under /api/visitors and single records
// under /api/visitor/:id, so static paths never collide with the id wildcard.
func AddVisitorRoutes(router *httprouter.Router, h *visitors.Handler, eh *export.Handler) {
	router.GET("/api/visitors", middleware.Authenticate(h.List))
	router.GET("/api/visitors/weeks", middleware.Authenticate(h.Weeks))
	router.GET("/api/visitors/stats", middleware.Authenticate(h.Stats))
	router.GET("/api/visitors/export", middleware.Authenticate(eh.WeeklySchedule))

	router.POST("/api/visitors", middleware.Authenticate(middleware.RequireAdmin(h.Create)))
	router.POST("/api/visitors/group", middleware.Authenticate(middleware.RequireAdmin(h.CreateGroup)))

	router.GET("/api/visitor/:id", middleware.Authenticate(h.Get))
	router.PUT("/api/visitor/:id", middleware.Authenticate(middleware.RequireAdmin(h.Update)))
	router.DELETE("/api/visitor/:id", middleware.Authenticate(middleware.RequireAdmin(h.Delete)))
}

func AddPhotoRoutes(router *httprouter.Router, u *photos.Uploader) {
	router.POST("/api/photos/upload", middleware.Authenticate(middleware.RequireAdmin(u.Upload)))
}

// AddDriverRoutes wires the pickup links. The pickup view and QR are public
// by design (drivers have no accounts), so they ride the rate limiter.
func AddDriverRoutes(router *httprouter.Router, h *drivers.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/drivers/generate-link", middleware.Authenticate(h.GenerateLink))
	router.GET("/api/drivers/pickup/:visitorid", rl.Limit(h.Pickup))
	router.GET("/api/drivers/qr/:visitorid", rl.Limit(h.QR))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws/updates", middleware.Authenticate(live.WebSocketHandler(hub)))
}
