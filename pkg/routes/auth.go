package routes

import (
	"github.com/DedS3t/richman/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(a *fiber.App, secret []byte) {
	route := a.Group("/user", controllers.Protected(secret))
	route.Get("/cur", controllers.Cur)
}
