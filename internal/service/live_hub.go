package service

import (
	"context"
	"educonnect_backend/pkg/logger"
	"educonnect_backend/pkg/monitoring"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	shardCount     = 32
	presenceTTL    = 2 * time.Minute
)

var messagePool = sync.Pool{
	New: func() interface{} {
		return &WSMessage{}
	},
}

// decodeClientMessage unmarshals an inbound frame into a pooled WSMessage.
// The struct is reset first: a recycled message must not leak a previous
// frame's type or data into one that omits those fields.
func decodeClientMessage(m *WSMessage, data []byte) error {
	*m = WSMessage{}
	return json.Unmarshal(data, m)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Signaling and room event types. OFFER, ANSWER and ICE_CANDIDATE are relayed
// to a single peer; everything else fans out to the room.
const (
	EventJoin         = "JOIN"
	EventLeave        = "LEAVE"
	EventChat         = "CHAT"
	EventRaiseHand    = "RAISE_HAND"
	EventLowerHand    = "LOWER_HAND"
	EventOffer        = "OFFER"
	EventAnswer       = "ANSWER"
	EventICECandidate = "ICE_CANDIDATE"
	EventRoster       = "ROSTER"
	EventClassEnded   = "CLASS_ENDED"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	Hub     *ClassHub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  uint
	Name    string
	RoomID  string
	IsHost  bool
	Limiter *rate.Limiter
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}

		if !c.Limiter.Allow() {
			continue
		}

		wsMsg := messagePool.Get().(*WSMessage)
		if err := decodeClientMessage(wsMsg, message); err != nil {
			messagePool.Put(wsMsg)
			continue
		}

		monitoring.LiveSignalCounter.WithLabelValues(wsMsg.Type, "in").Inc()

		switch {
		case wsMsg.Type == EventChat || wsMsg.Type == EventRaiseHand || wsMsg.Type == EventLowerHand:
			c.Hub.handleRoomEvent(c, *wsMsg)
		case wsMsg.Type == EventOffer || wsMsg.Type == EventAnswer || wsMsg.Type == EventICECandidate:
			c.Hub.handleSignal(c, *wsMsg)
		case strings.HasPrefix(wsMsg.Type, "HOST_"):
			// Host control messages (HOST_MUTE, HOST_SPOTLIGHT, ...) are
			// opaque to the server; only the host may send them.
			if c.IsHost {
				c.Hub.handleRoomEvent(c, *wsMsg)
			}
		}
		messagePool.Put(wsMsg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if n := len(c.Send); n > 0 {
				for i := 0; i < n; i++ {
					w.Write(<-c.Send)
				}
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	clients map[uint]*Client
	mu      sync.RWMutex
}

// ClassHub routes signaling and room events between live-class participants.
// Connections are sharded by user ID; room membership is tracked separately so
// events fan out only to the participants of one room. Cross-instance delivery
// goes through a Redis channel.
type ClassHub struct {
	shards     [shardCount]*shard
	rooms      map[string]map[uint]string // roomID -> userID -> display name
	roomsMu    sync.RWMutex
	register   chan *Client
	unregister chan *Client
	Redis      *redis.Client
	ctx        context.Context
}

func NewClassHub(rdb *redis.Client) *ClassHub {
	h := &ClassHub{
		rooms:      make(map[string]map[uint]string),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		Redis:      rdb,
		ctx:        context.Background(),
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			clients: make(map[uint]*Client),
		}
	}
	return h
}

func (h *ClassHub) getShard(userID uint) *shard {
	return h.shards[userID%shardCount]
}

type PubSubMessage struct {
	RoomID      string          `json:"roomId"`
	TargetUsers []uint          `json:"targetUsers"`
	Payload     json.RawMessage `json:"payload"`
}

func (h *ClassHub) Run() {
	pubsub := h.Redis.Subscribe(h.ctx, "live_channel")
	go func() {
		ch := pubsub.Channel()
		for msg := range ch {
			var psMsg PubSubMessage
			if err := json.Unmarshal([]byte(msg.Payload), &psMsg); err != nil {
				logger.Log.Error("PubSub unmarshal error", zap.Error(err))
				continue
			}
			h.pushToLocal(psMsg.RoomID, psMsg.TargetUsers, psMsg.Payload)
		}
	}()

	heartbeatTicker := time.NewTicker(1 * time.Minute)
	defer heartbeatTicker.Stop()

	for {
		select {
		case client := <-h.register:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			s.clients[client.UserID] = client
			s.mu.Unlock()

			h.roomsMu.Lock()
			if h.rooms[client.RoomID] == nil {
				h.rooms[client.RoomID] = make(map[uint]string)
			}
			h.rooms[client.RoomID][client.UserID] = client.Name
			h.roomsMu.Unlock()

			h.Redis.Set(h.ctx, presenceKey(client.RoomID, client.UserID), client.Name, presenceTTL)
			monitoring.LiveClassOnlineUsers.Inc()

			h.BroadcastToRoom(client.RoomID, WSMessage{
				Type: EventJoin,
				Data: map[string]interface{}{"userId": client.UserID, "name": client.Name},
			})
			h.sendRoster(client)

		case client := <-h.unregister:
			s := h.getShard(client.UserID)
			s.mu.Lock()
			if existing, ok := s.clients[client.UserID]; ok && existing == client {
				delete(s.clients, client.UserID)
				close(client.Send)
				monitoring.LiveClassOnlineUsers.Dec()
			}
			s.mu.Unlock()

			h.roomsMu.Lock()
			if members, ok := h.rooms[client.RoomID]; ok {
				delete(members, client.UserID)
				if len(members) == 0 {
					delete(h.rooms, client.RoomID)
				}
			}
			h.roomsMu.Unlock()

			h.Redis.Del(h.ctx, presenceKey(client.RoomID, client.UserID))

			h.BroadcastToRoom(client.RoomID, WSMessage{
				Type: EventLeave,
				Data: map[string]interface{}{"userId": client.UserID, "name": client.Name},
			})

		case <-heartbeatTicker.C:
			h.refreshPresence()
		}
	}
}

func presenceKey(roomID string, userID uint) string {
	return fmt.Sprintf("live:presence:%s:%d", roomID, userID)
}

// refreshPresence renews the TTL on presence keys of locally connected users.
func (h *ClassHub) refreshPresence() {
	pipe := h.Redis.Pipeline()
	count := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.RLock()
		for _, client := range s.clients {
			pipe.Expire(h.ctx, presenceKey(client.RoomID, client.UserID), presenceTTL)
			count++
		}
		s.mu.RUnlock()
	}
	if count > 0 {
		pipe.Exec(h.ctx)
		logger.Log.Debug("Refreshed live presence", zap.Int("count", count))
	}
}

// handleRoomEvent stamps the sender and fans the event out to the whole room.
func (h *ClassHub) handleRoomEvent(c *Client, msg WSMessage) {
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		data = map[string]interface{}{}
	}
	data["userId"] = c.UserID
	data["name"] = c.Name
	msg.Data = data
	h.BroadcastToRoom(c.RoomID, msg)
}

// handleSignal relays a WebRTC payload to a single peer in the same room.
func (h *ClassHub) handleSignal(c *Client, msg WSMessage) {
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		return
	}
	target, ok := data["targetUserId"].(float64)
	if !ok || uint(target) == c.UserID {
		return
	}

	h.roomsMu.RLock()
	_, inRoom := h.rooms[c.RoomID][uint(target)]
	h.roomsMu.RUnlock()
	if !inRoom {
		// Peer may live on another instance; Redis membership settles it.
		if err := h.Redis.Get(h.ctx, presenceKey(c.RoomID, uint(target))).Err(); err != nil {
			return
		}
	}

	data["userId"] = c.UserID
	msg.Data = data
	h.PushToUsers(c.RoomID, []uint{uint(target)}, msg)
}

// sendRoster delivers the current participant list to a newly joined client.
func (h *ClassHub) sendRoster(c *Client) {
	h.roomsMu.RLock()
	members := make([]map[string]interface{}, 0, len(h.rooms[c.RoomID]))
	for id, name := range h.rooms[c.RoomID] {
		members = append(members, map[string]interface{}{"userId": id, "name": name})
	}
	h.roomsMu.RUnlock()

	msg := WSMessage{Type: EventRoster, Data: map[string]interface{}{"participants": members}}
	payload, _ := json.Marshal(msg)
	select {
	case c.Send <- payload:
	default:
	}
}

// RoomSize counts participants across instances via presence keys.
func (h *ClassHub) RoomSize(roomID string) int {
	keys, err := h.Redis.Keys(h.ctx, fmt.Sprintf("live:presence:%s:*", roomID)).Result()
	if err != nil {
		h.roomsMu.RLock()
		defer h.roomsMu.RUnlock()
		return len(h.rooms[roomID])
	}
	return len(keys)
}

// BroadcastToRoom publishes an event to every participant of a room.
func (h *ClassHub) BroadcastToRoom(roomID string, msg WSMessage) {
	h.PushToUsers(roomID, nil, msg)
}

// PushToUsers publishes an event for the given users in a room. An empty
// target list means the whole room.
func (h *ClassHub) PushToUsers(roomID string, userIDs []uint, msg WSMessage) {
	msgBytes, _ := json.Marshal(msg)
	psMsg := PubSubMessage{
		RoomID:      roomID,
		TargetUsers: userIDs,
		Payload:     msgBytes,
	}
	payload, _ := json.Marshal(psMsg)
	h.Redis.Publish(h.ctx, "live_channel", payload)
	monitoring.LiveSignalCounter.WithLabelValues(msg.Type, "out").Inc()
}

func (h *ClassHub) pushToLocal(roomID string, userIDs []uint, payload []byte) {
	if len(userIDs) == 0 {
		h.roomsMu.RLock()
		members := h.rooms[roomID]
		ids := make([]uint, 0, len(members))
		for id := range members {
			ids = append(ids, id)
		}
		h.roomsMu.RUnlock()
		userIDs = ids
	}

	for _, id := range userIDs {
		s := h.getShard(id)
		s.mu.RLock()
		client, ok := s.clients[id]
		s.mu.RUnlock()
		if !ok || client.RoomID != roomID {
			continue
		}
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// CloseRoom notifies participants that the class ended and disconnects them.
func (h *ClassHub) CloseRoom(roomID string) {
	h.BroadcastToRoom(roomID, WSMessage{Type: EventClassEnded, Data: map[string]interface{}{"roomId": roomID}})

	h.roomsMu.RLock()
	ids := make([]uint, 0, len(h.rooms[roomID]))
	for id := range h.rooms[roomID] {
		ids = append(ids, id)
	}
	h.roomsMu.RUnlock()

	for _, id := range ids {
		s := h.getShard(id)
		s.mu.RLock()
		client, ok := s.clients[id]
		s.mu.RUnlock()
		if ok && client.RoomID == roomID {
			client.Conn.Close()
		}
	}
}

// Stop closes all connections and clears presence keys.
func (h *ClassHub) Stop() {
	logger.Log.Info("ClassHub stopping: clearing presence and closing connections...")

	var closed []*Client
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for userID, client := range s.clients {
			closed = append(closed, client)
			close(client.Send)
			delete(s.clients, userID)
		}
		s.mu.Unlock()
	}

	if len(closed) > 0 {
		pipe := h.Redis.Pipeline()
		for _, client := range closed {
			pipe.Del(h.ctx, presenceKey(client.RoomID, client.UserID))
		}
		pipe.Exec(h.ctx)
	}

	h.roomsMu.Lock()
	h.rooms = make(map[string]map[uint]string)
	h.roomsMu.Unlock()

	monitoring.LiveClassOnlineUsers.Set(0)
	logger.Log.Info("ClassHub stopped", zap.Int("closedConnections", len(closed)))
}

func ServeWs(hub *ClassHub, w http.ResponseWriter, r *http.Request, userID uint, name, roomID string, isHost bool) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		UserID:  userID,
		Name:    name,
		RoomID:  roomID,
		IsHost:  isHost,
		Limiter: rate.NewLimiter(rate.Limit(30), 50),
	}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
