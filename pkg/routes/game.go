package routes

import (
	"github.com/DedS3t/richman/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func GameRoutes(a *fiber.App, g *controllers.GameController, secret []byte) {
	route := a.Group("/game")
	route.Get("/all", g.GetAllAvailRooms)
	route.Get("/verify", g.VerifyRoom)
	route.Get("/state", g.GetState)
	route.Get("/logs", g.GetLogs)
	route.Get("/ranking", g.GetRanking)
	route.Post("/action", controllers.Protected(secret), g.SubmitAction)
}
