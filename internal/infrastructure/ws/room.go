package ws

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var ErrRoomNotFound = errors.New("no feed clients in room")

// WSRoom groups the feed clients of one plug.dj room.
type WSRoom struct {
	Slug    string
	Clients map[string]*Client
}

type RoomManager struct {
	rooms    map[string]*WSRoom // slug → WSRoom
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]*WSRoom),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the feed is read-only public data
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (rm *RoomManager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return rm.upgrader.Upgrade(w, r, nil)
}

func (rm *RoomManager) AddClient(cl *Client) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, ok := rm.rooms[cl.Room]
	if !ok {
		room = &WSRoom{
			Slug:    cl.Room,
			Clients: make(map[string]*Client),
		}
		rm.rooms[cl.Room] = room
	}

	if _, exists := room.Clients[cl.ID]; !exists {
		room.Clients[cl.ID] = cl
	}
}

func (rm *RoomManager) RemoveClient(cl *Client) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if room, ok := rm.rooms[cl.Room]; ok {
		if _, ok := room.Clients[cl.ID]; ok {
			delete(room.Clients, cl.ID)
			close(cl.Message)

			if len(room.Clients) == 0 {
				delete(rm.rooms, cl.Room)
			}
		}
	}
}

// CloseAll drops every client, which ends their write loops.
func (rm *RoomManager) CloseAll() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	for slug, room := range rm.rooms {
		for _, cl := range room.Clients {
			close(cl.Message)
		}
		delete(rm.rooms, slug)
	}
}

// Count returns the number of feed clients following slug.
func (rm *RoomManager) Count(slug string) int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	if room, ok := rm.rooms[slug]; ok {
		return len(room.Clients)
	}
	return 0
}

// BroadcastToRoom queues msg for every client of msg.Room and returns how
// many clients were too slow to take it.
func (rm *RoomManager) BroadcastToRoom(msg *WSMessage) (dropped int, err error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, ok := rm.rooms[msg.Room]
	if !ok {
		return 0, ErrRoomNotFound
	}

	for _, cl := range room.Clients {
		select {
		case cl.Message <- msg:
		default:
			dropped++
		}
	}
	return dropped, nil
}
