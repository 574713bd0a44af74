package websocket

import (
	"context"
	"sync"

	"github.com/anjiri1684/pickleball_coach/events"
	"go.uber.org/zap"
)

const (
	broadcastBuffer = 256
	sendBuffer      = 16
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	UserID uint
	Conn   Conn
}

type delivery struct {
	recipients []uint
	event      events.Event
}

// peer owns the writes to one connection. Only its writer goroutine calls WriteJSON.
type peer struct {
	userID uint
	conn   Conn
	send   chan events.Event
	quit   chan struct{}
	once   sync.Once
}

func (p *peer) close() {
	p.once.Do(func() {
		close(p.quit)
		p.conn.Close()
	})
}

// Hub keeps one live connection per user and pushes lifecycle events to them.
// Nothing on the publishing path waits on a socket: a full buffer drops the event.
type Hub struct {
	peers      map[uint]*peer
	peersMu    sync.RWMutex
	register   chan *Client
	unregister chan *Client
	broadcast  chan delivery
	done       chan struct{}
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		peers:      make(map[uint]*peer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan delivery, broadcastBuffer),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Register closes the connection straight away if the hub has shut down.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Conn.Close()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Connected reports whether userID currently has a socket open.
func (h *Hub) Connected(userID uint) bool {
	h.peersMu.RLock()
	defer h.peersMu.RUnlock()
	_, ok := h.peers[userID]
	return ok
}

// Handle is an events.Handler. It never blocks; events without recipients are ignored.
func (h *Hub) Handle(_ context.Context, event events.Event) {
	if len(event.Recipients) == 0 {
		return
	}
	select {
	case h.broadcast <- delivery{recipients: event.Recipients, event: event}:
	default:
		h.logger.Warn("websocket broadcast queue full, event dropped",
			zap.String("kind", string(event.Kind)),
			zap.String("entity_id", event.EntityID),
		)
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.logger.Debug("websocket client registered", zap.Uint("user_id", client.UserID))
			h.peersMu.Lock()
			old, ok := h.peers[client.UserID]
			if ok && old.conn == client.Conn {
				h.peersMu.Unlock()
				continue
			}
			p := &peer{
				userID: client.UserID,
				conn:   client.Conn,
				send:   make(chan events.Event, sendBuffer),
				quit:   make(chan struct{}),
			}
			h.peers[client.UserID] = p
			h.peersMu.Unlock()
			if ok {
				old.close()
			}
			go h.writeLoop(p)
		case client := <-h.unregister:
			h.logger.Debug("websocket client unregistered", zap.Uint("user_id", client.UserID))
			h.peersMu.Lock()
			p, ok := h.peers[client.UserID]
			if ok && p.conn == client.Conn {
				delete(h.peers, client.UserID)
			}
			h.peersMu.Unlock()
			if ok && p.conn == client.Conn {
				p.close()
			}
		case d := <-h.broadcast:
			h.push(d)
		}
	}
}

func (h *Hub) push(d delivery) {
	h.peersMu.RLock()
	defer h.peersMu.RUnlock()
	for _, userID := range d.recipients {
		p, ok := h.peers[userID]
		if !ok {
			continue
		}
		select {
		case p.send <- d.event:
		default:
			h.logger.Warn("websocket client too slow, event dropped",
				zap.Uint("user_id", userID),
				zap.String("kind", string(d.event.Kind)),
			)
		}
	}
}

func (h *Hub) writeLoop(p *peer) {
	for {
		select {
		case <-p.quit:
			return
		case event := <-p.send:
			if err := p.conn.WriteJSON(event); err != nil {
				h.logger.Warn("websocket write failed", zap.Uint("user_id", p.userID), zap.Error(err))
				h.drop(p)
				return
			}
		}
	}
}

// drop forgets p if it is still the user's current connection.
func (h *Hub) drop(p *peer) {
	h.peersMu.Lock()
	if h.peers[p.userID] == p {
		delete(h.peers, p.userID)
	}
	h.peersMu.Unlock()
	p.close()
}

func (h *Hub) closeAll() {
	h.peersMu.Lock()
	defer h.peersMu.Unlock()
	for id, p := range h.peers {
		p.close()
		delete(h.peers, id)
	}
}
