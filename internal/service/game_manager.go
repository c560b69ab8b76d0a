package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/model"
)

// GameManager is the in-memory registry of live games and the matchmaking queue.
type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	matches          map[string]model.MatchFoundEvent
	interval         time.Duration
	mu               sync.RWMutex
}

func NewGameManager(matchmakingInterval time.Duration) *GameManager {
	if matchmakingInterval <= 0 {
		matchmakingInterval = time.Second
	}
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		matches:          make(map[string]model.MatchFoundEvent),
		interval:         matchmakingInterval,
	}
}

// Run pairs queued players every matchmaking interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context) {
	ticker := time.NewTicker(gm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				if _, ok := gm.MatchOnce(); !ok {
					break
				}
			}
		}
	}
}

// MatchOnce pairs the two longest-waiting players into a new game and sends
// each a MatchFoundEvent on their registered channel. The event is also kept
// for MatchStatus, so players without a channel can poll for it. ok is false
// when fewer than two players are waiting.
func (gm *GameManager) MatchOnce() (gameID string, ok bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player1, player2, ok := gm.queue.GetNextPair()
	if !ok {
		return "", false
	}

	gameID = uuid.New().String()
	game := model.NewGame(gameID)
	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Errorf("matchmaking: add %s to %s: %v", player1.ID, gameID, err)
		return "", false
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Errorf("matchmaking: add %s to %s: %v", player2.ID, gameID, err)
		return "", false
	}
	gm.games[gameID] = game
	log.Infof("matchmaking: paired %s and %s in game %s", player1.ID, player2.ID, gameID)

	event1 := model.MatchFoundEvent{GameID: gameID, Color: p1Color}
	event2 := model.MatchFoundEvent{GameID: gameID, Color: p2Color}
	gm.matches[player1.ID] = event1
	gm.matches[player2.ID] = event2

	if !gm.notifyMatch(player1.ID, event1) {
		log.Debugf("matchmaking: %s has no matchmaking socket, match kept for polling", player1.ID)
	}
	if !gm.notifyMatch(player2.ID, event2) {
		log.Debugf("matchmaking: %s has no matchmaking socket, match kept for polling", player2.ID)
	}
	return gameID, true
}

// notifyMatch delivers event to playerID's channel and retires the channel.
// The caller holds gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Errorf("matchmaking: marshal event for %s: %v", playerID, err)
		return false
	}

	delete(gm.matchingChannels, playerID)
	defer close(ch)
	select {
	case ch <- string(payload):
		return true
	default:
		log.Warnf("matchmaking: channel for %s is full", playerID)
		return false
	}
}

// RegisterMatchmakingChannel sets the channel playerID's match notification is
// sent on. A channel registered earlier for the same player is closed.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets ch if it is still playerID's channel.
// It does not close ch.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if gm.matchingChannels[playerID] == ch {
		delete(gm.matchingChannels, playerID)
	}
}

// JoinMatchmaking queues playerID. A match found for an earlier queueing is forgotten.
func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return err
	}
	delete(gm.matches, playerID)
	return nil
}

// MatchStatus reports where playerID stands in matchmaking: the game it was
// last paired into, if that game is still live, and whether it is waiting.
func (gm *GameManager) MatchStatus(playerID string) (event model.MatchFoundEvent, matched bool, queued bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	event, matched = gm.matches[playerID]
	return event, matched, gm.queue.Contains(playerID)
}

// LeaveMatchmaking removes playerID from the queue and reports whether it was waiting.
func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

func (gm *GameManager) CreateGame(gameID string) error {
	return gm.addGame(model.NewGame(gameID))
}

func (gm *GameManager) CreateGameFromFEN(gameID, fen string) error {
	game, err := model.NewGameFromFEN(gameID, fen)
	if err != nil {
		return err
	}
	return gm.addGame(game)
}

func (gm *GameManager) addGame(game *model.Game) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[game.ID]; exists {
		return model.ErrGameExists
	}
	gm.games[game.ID] = game
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (engine.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return engine.White, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) LegalMoves(gameID string, pos model.Position) ([]model.LegalMove, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(pos)
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	return gm.withGame(gameID, func(g *model.Game) error { return g.MakeMove(playerID, move) })
}

func (gm *GameManager) Promote(gameID string, playerID string, choice engine.PieceType) error {
	return gm.withGame(gameID, func(g *model.Game) error { return g.Promote(playerID, choice) })
}

func (gm *GameManager) Resign(gameID string, playerID string) error {
	return gm.withGame(gameID, func(g *model.Game) error { return g.Resign(playerID) })
}

func (gm *GameManager) OfferDraw(gameID string, playerID string) error {
	return gm.withGame(gameID, func(g *model.Game) error { return g.OfferDraw(playerID) })
}

func (gm *GameManager) AcceptDraw(gameID string, playerID string) error {
	return gm.withGame(gameID, func(g *model.Game) error { return g.AcceptDraw(playerID) })
}

func (gm *GameManager) DeclineDraw(gameID string, playerID string) error {
	return gm.withGame(gameID, func(g *model.Game) error { return g.DeclineDraw(playerID) })
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gm.withGame(gameID, func(g *model.Game) error { return g.RegisterConnection(playerID, conn) })
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID)
	gm.RemoveIfFinished(gameID)
}

// RemoveIfFinished drops a finished game from the registry once no connection
// is attached to it, along with the match events that point at it. It reports
// whether the game was removed.
func (gm *GameManager) RemoveIfFinished(gameID string) bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	game, exists := gm.games[gameID]
	if !exists || !game.IsOver() || game.ConnectionCount() > 0 {
		return false
	}
	delete(gm.games, gameID)
	for playerID, event := range gm.matches {
		if event.GameID == gameID {
			delete(gm.matches, playerID)
		}
	}
	log.Debugf("game %s removed from registry", gameID)
	return true
}

// withGame runs fn on the game without holding the registry lock; each game
// guards its own state.
func (gm *GameManager) withGame(gameID string, fn func(*model.Game) error) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return fn(game)
}
