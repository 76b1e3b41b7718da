package controllers

import (
	"errors"

	"github.com/DedS3t/richman/platform/identity"
	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
)

// Protected only admits requests carrying the local peer's token.
func Protected(secret []byte) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: secret,
	})
}

func currentPeer(c *fiber.Ctx) (string, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "", errors.New("no token in context")
	}
	return identity.PeerId(token)
}

func Cur(c *fiber.Ctx) error {
	peerId, err := currentPeer(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	return c.SendString(peerId)
}
