package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tactics/internal/api/handlers"
	"github.com/playmatatu/tactics/internal/board"
	"github.com/playmatatu/tactics/internal/chat"
	"github.com/playmatatu/tactics/internal/config"
	"github.com/playmatatu/tactics/internal/middleware"
	"github.com/playmatatu/tactics/internal/share"
	"github.com/playmatatu/tactics/internal/ws"
)

// Services are the long-lived collaborators the handlers need.
type Services struct {
	Boards    *board.Manager
	Hub       *ws.Hub
	Signer    *share.Signer
	Assistant *chat.Client
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *config.Config, svc Services) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	mgr := svc.Boards

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(mgr))

		v1.GET("/formations", handlers.ListFormations)
		v1.GET("/formations/:fieldSize/:name", handlers.GetFormation)

		v1.POST("/chat", handlers.Chat(svc.Assistant))
		v1.GET("/shared/:token", handlers.SharedExport(mgr, svc.Signer))

		v1.POST("/boards", handlers.CreateBoard(mgr))
		boards := v1.Group("/boards/:id")
		{
			boards.GET("", handlers.GetBoard(mgr))
			boards.DELETE("", handlers.DeleteBoard(mgr))
			boards.PUT("/field-size", handlers.SetFieldSize(mgr))
			boards.GET("/layout", handlers.GetLayout(mgr))
			boards.PUT("/pitch", handlers.ResizePitch(mgr))
			boards.PUT("/drag", handlers.SetDrag(mgr))
			boards.DELETE("/players", handlers.ClearPlayers(mgr))

			team := boards.Group("/teams/:side")
			{
				team.PUT("/formation", handlers.SetFormation(mgr))
				team.POST("/players", handlers.AddPlayer(mgr))
				team.PUT("/players/:playerId", handlers.UpdatePlayer(mgr))
				team.DELETE("/players/:playerId", handlers.RemovePlayer(mgr))
				team.POST("/substitutions", handlers.Substitute(mgr))
				team.DELETE("/substitutions/:subId", handlers.RemoveSubstitution(mgr))
				team.PUT("/markers/:playerId", handlers.MoveMarker(mgr))
			}

			boards.PUT("/drawing", handlers.SetDrawing(mgr))
			boards.POST("/drawing/pointer", handlers.DrawPointer(mgr))
			boards.DELETE("/drawing", handlers.ClearDrawing(mgr))
			boards.GET("/drawing.png", handlers.DrawingPNG(mgr))

			boards.GET("/export.png", handlers.ExportPNG(mgr))
			boards.POST("/share", handlers.CreateShare(mgr, svc.Signer))

			boards.GET("/ws", middleware.WebSocketCORSCheck(cfg), handlers.BoardWebSocket(svc.Hub, mgr))
		}
	}
}
