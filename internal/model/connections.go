package model

import (
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

var ErrDuplicateConnection = errors.New("connection already exists")

// Conn is the part of a websocket connection a game writes to.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// client serialises writes: a websocket connection allows one writer at a time.
type client struct {
	mu   sync.Mutex
	conn Conn
}

func (c *client) send(msg ws.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// GameConnections holds the observers of one game, keyed by player ID.
// Spectators are keyed the same way as players.
type GameConnections struct {
	connections map[string]*client
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*client),
	}
}

func (gc *GameConnections) Len() int {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return len(gc.connections)
}

// RegisterConnection adds conn as playerID's observer and sends it the
// current state. A second connection for the same player is rejected and
// the existing one kept.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		return ErrDuplicateConnection
	}
	c := &client{conn: conn}
	g.connections.connections[playerID] = c
	g.connections.mu.Unlock()
	log.Debugf("game %s: registered connection for %s", g.ID, playerID)

	g.setConnected(playerID, true)
	state := g.GetState()
	msg, err := g.marshalState(state)
	if err != nil {
		return err
	}
	if err := c.send(msg); err != nil {
		g.UnregisterConnection(playerID)
		return err
	}
	return nil
}

// ConnectionCount reports how many observers are attached to the game.
func (g *Game) ConnectionCount() int {
	return g.connections.Len()
}

// UnregisterConnection removes playerID's observer. Unknown players are ignored.
func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	_, exists := g.connections.connections[playerID]
	delete(g.connections.connections, playerID)
	g.connections.mu.Unlock()

	if exists {
		log.Debugf("game %s: unregistered connection for %s", g.ID, playerID)
		g.setConnected(playerID, false)
	}
}

// Send writes msg to playerID's connection, if any.
func (g *Game) Send(playerID string, msg ws.Message) error {
	g.connections.mu.RLock()
	c, ok := g.connections.connections[playerID]
	g.connections.mu.RUnlock()
	if !ok {
		return nil
	}
	return c.send(msg)
}

func (g *Game) setConnected(playerID string, connected bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.state.Players.colorOf(playerID); ok {
		g.state.Players.seat(c).Connected = connected
	}
}

// broadcastState sends state to every observer. Connections that fail to
// accept the write are dropped.
func (g *Game) broadcastState(state GameState) {
	msg, err := g.marshalState(state)
	if err != nil {
		log.Errorf("game %s: marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.RLock()
	active := make(map[string]*client, len(g.connections.connections))
	for playerID, c := range g.connections.connections {
		active[playerID] = c
	}
	g.connections.mu.RUnlock()

	for playerID, c := range active {
		if err := c.send(msg); err != nil {
			log.Warnf("game %s: failed to send state to %s: %v", g.ID, playerID, err)
			g.connections.mu.Lock()
			dropped := g.connections.connections[playerID] == c
			if dropped {
				delete(g.connections.connections, playerID)
			}
			g.connections.mu.Unlock()
			if dropped {
				g.setConnected(playerID, false)
			}
		}
	}
}
