package controllers

import (
	"context"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/ledger"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RoomRegistry interface {
	Available(ctx context.Context) ([]models.Room, error)
	Verify(ctx context.Context, code string) (bool, error)
}

type StateView interface {
	Snapshot() models.GameState
}

type Submitter interface {
	Submit(msg models.Message)
}

// GameController serves the local peer's view of its room. Rooms may be nil
// when no registry is configured; only the local room is known then.
type GameController struct {
	Rooms    RoomRegistry
	State    StateView
	Node     Submitter
	RoomName string
}

func (g *GameController) GetAllAvailRooms(c *fiber.Ctx) error {
	if g.Rooms == nil {
		rooms := []models.Room{}
		if state := g.State.Snapshot(); state.Status == models.StatusPlaying {
			rooms = append(rooms, state.Summary(g.RoomName))
		}
		return c.JSON(rooms)
	}
	rooms, err := g.Rooms.Available(c.Context())
	if err != nil {
		logrus.WithError(err).Warn("room listing failed")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(rooms)
}

func (g *GameController) VerifyRoom(c *fiber.Ctx) error {
	dto := new(models.VerifyRoomDto)
	if err := c.QueryParser(dto); err != nil || dto.Code == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if dto.Code == g.State.Snapshot().RoomId {
		return c.JSON(fiber.Map{"status": true})
	}
	if g.Rooms == nil {
		return c.JSON(fiber.Map{"status": false})
	}
	ok, err := g.Rooms.Verify(c.Context(), dto.Code)
	if err != nil {
		logrus.WithError(err).Warn("room verification failed")
		return c.JSON(fiber.Map{"status": false})
	}
	return c.JSON(fiber.Map{"status": ok})
}

func (g *GameController) GetState(c *fiber.Ctx) error {
	return c.JSON(g.State.Snapshot())
}

func (g *GameController) GetLogs(c *fiber.Ctx) error {
	logs := g.State.Snapshot().Logs
	if logs == nil {
		logs = []string{}
	}
	return c.JSON(logs)
}

func (g *GameController) GetRanking(c *fiber.Ctx) error {
	return c.JSON(ledger.Ranking(g.State.Snapshot().Players))
}

// SubmitAction queues an intent from the authenticated local player.
func (g *GameController) SubmitAction(c *fiber.Ctx) error {
	playerId, err := currentPeer(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	dto := new(models.ActionDto)
	if err := c.BodyParser(dto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	var msg models.Message
	switch models.MessageType(dto.Type) {
	case models.MessageRollDice:
		msg = models.RollDiceMessage(playerId)
	case models.MessageInteract:
		msg = models.InteractMessage(playerId, models.Interaction(dto.Action))
	case models.MessagePropertyAction:
		msg = models.PropertyActionMessage(playerId, dto.TileId, models.PropertyAction(dto.Action))
	case models.MessageEndTurn:
		msg = models.EndTurnMessage(playerId)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown action type"})
	}
	g.Node.Submit(msg)
	return c.SendStatus(fiber.StatusAccepted)
}
