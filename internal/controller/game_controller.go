package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/chessrules-backend/internal/service"
)

const defaultArchiveLimit = 20

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	FEN string `json:"fen"`
}

// CreateGame starts a game from the standard position, or from the FEN in
// the optional request body.
func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	var (
		gameID string
		err    error
	)
	if req.FEN != "" {
		gameID, err = gc.gameService.CreateGameFromFEN(req.FEN)
	} else {
		gameID, err = gc.gameService.CreateGame()
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(gameState)
}

// LegalMoves lists the legal destinations from the :square parameter ("e2").
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), c.Params("square"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	status := "not queued"
	if gc.gameService.LeaveMatchmaking(playerID) {
		status = "left"
	}
	return c.JSON(fiber.Map{
		"status": status,
	})
}

// MatchmakingStatus tells a player who queued over HTTP whether they have been
// paired yet, and into which game and color.
func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	event, matched, queued := gc.gameService.MatchStatus(playerID)
	switch {
	case queued:
		return c.JSON(fiber.Map{
			"status": "queued",
		})
	case matched:
		return c.JSON(fiber.Map{
			"status":  "matched",
			"game_id": event.GameID,
			"color":   event.Color,
		})
	}
	return c.JSON(fiber.Map{
		"status": "idle",
	})
}

// ListArchive returns the most recently finished games. ?limit= caps the count.
func (gc *GameController) ListArchive(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultArchiveLimit)
	if limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must not be negative",
		})
	}

	records, err := gc.gameService.ArchivedGames(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"games": records,
	})
}

func (gc *GameController) GetArchivedGame(c *fiber.Ctx) error {
	record, err := gc.gameService.ArchivedGame(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(record)
}
