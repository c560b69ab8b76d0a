package service

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

// Archive stores finished games. *storage.Storage satisfies it.
type Archive interface {
	SaveGame(rec model.GameRecord) error
	LoadGame(id string) (model.GameRecord, error)
	ListGames(limit int) ([]model.GameRecord, error)
}

type GameService struct {
	gameManager *GameManager
	archive     Archive
}

func NewGameService(gameManager *GameManager, archive Archive) *GameService {
	return &GameService{
		gameManager: gameManager,
		archive:     archive,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	log.Infof("game %s created", gameID)
	return gameID, nil
}

// CreateGameFromFEN starts a game from a custom position. A position that is
// already decided is archived straight away.
func (gs *GameService) CreateGameFromFEN(fen string) (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGameFromFEN(gameID, fen); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	log.Infof("game %s created from %q", gameID, fen)
	gs.archiveIfOver(gameID)
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (engine.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

// LegalMoves lists the legal moves from square, given in algebraic form ("e2").
func (gs *GameService) LegalMoves(gameID string, square string) ([]model.LegalMove, error) {
	sq, err := engine.ParseSquare(square)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrOutOfBounds, err)
	}
	return gs.gameManager.LegalMoves(gameID, model.PositionOf(sq))
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) MatchStatus(playerID string) (model.MatchFoundEvent, bool, bool) {
	return gs.gameManager.MatchStatus(playerID)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	return gs.afterAction(gameID, gs.gameManager.MakeMove(gameID, playerID, move))
}

func (gs *GameService) HandlePromotion(gameID string, playerID string, choice engine.PieceType) error {
	return gs.afterAction(gameID, gs.gameManager.Promote(gameID, playerID, choice))
}

func (gs *GameService) Resign(gameID string, playerID string) error {
	return gs.afterAction(gameID, gs.gameManager.Resign(gameID, playerID))
}

func (gs *GameService) OfferDraw(gameID string, playerID string) error {
	return gs.gameManager.OfferDraw(gameID, playerID)
}

func (gs *GameService) AcceptDraw(gameID string, playerID string) error {
	return gs.afterAction(gameID, gs.gameManager.AcceptDraw(gameID, playerID))
}

func (gs *GameService) DeclineDraw(gameID string, playerID string) error {
	return gs.gameManager.DeclineDraw(gameID, playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}

// SendError reports msg to playerID over its game connection.
func (gs *GameService) SendError(gameID string, playerID string, msg string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(playerID, ws.NewError(msg))
}

func (gs *GameService) ArchivedGame(gameID string) (model.GameRecord, error) {
	return gs.archive.LoadGame(gameID)
}

func (gs *GameService) ArchivedGames(limit int) ([]model.GameRecord, error) {
	return gs.archive.ListGames(limit)
}

// afterAction archives the game when a successful action ended it. A finished
// game nobody is connected to leaves the live registry; the archive serves it
// from then on.
func (gs *GameService) afterAction(gameID string, err error) error {
	if err != nil {
		return err
	}
	gs.archiveIfOver(gameID)
	return nil
}

func (gs *GameService) archiveIfOver(gameID string) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	rec, ok := game.Record()
	if !ok {
		return
	}
	if err := gs.archive.SaveGame(rec); err != nil {
		log.Errorf("game %s: archive: %v", gameID, err)
		return
	}
	log.Infof("game %s archived: %s", gameID, rec.Result)
	gs.gameManager.RemoveIfFinished(gameID)
}
