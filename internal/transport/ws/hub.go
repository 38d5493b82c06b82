package ws

import (
	"encoding/json"
	"log"
	"sync"

	"houseregions.ai/internal/housing/geometry"
	"houseregions.ai/internal/housing/notify"
	"houseregions.ai/internal/protocol"
)

// Hub is the Presenter for every connected host. It routes each player's
// output to the connection that logged the player in; output for unknown
// players is dropped.
type Hub struct {
	log *log.Logger

	mu      sync.RWMutex
	players map[string]*hostConn
}

type hostConn struct {
	id  string
	out chan []byte
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(log.Writer(), "[ws] ", log.LstdFlags)
	}
	return &Hub{log: logger, players: map[string]*hostConn{}}
}

func (h *Hub) bind(player string, c *hostConn) {
	h.mu.Lock()
	h.players[player] = c
	h.mu.Unlock()
}

// unbind releases player if it is still bound to c.
func (h *Hub) unbind(player string, c *hostConn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.players[player] != c {
		return false
	}
	delete(h.players, player)
	return true
}

func (h *Hub) send(player string, v any) {
	h.mu.RLock()
	c := h.players[player]
	h.mu.RUnlock()
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Printf("marshal %T: %v", v, err)
		return
	}
	select {
	case c.out <- b:
	default:
		h.log.Printf("host %s: queue full, dropping output for %s", c.id, player)
	}
}

func (h *Hub) Notify(player string, n notify.Notice) {
	h.send(player, protocol.NoticeMsg{
		Type:            protocol.TypeNotice,
		ProtocolVersion: protocol.Version,
		Player:          player,
		Kind:            string(n.Kind),
		Text:            n.Text,
	})
}

func (h *Hub) draw(player, op string, tiles []geometry.Point, area *geometry.Rect) {
	msg := protocol.DrawMsg{
		Type:            protocol.TypeDraw,
		ProtocolVersion: protocol.Version,
		Player:          player,
		Op:              op,
		Tiles:           make([][2]int, 0, len(tiles)),
	}
	for _, p := range tiles {
		msg.Tiles = append(msg.Tiles, [2]int{p.X, p.Y})
	}
	if area != nil {
		msg.Area = &protocol.Area{X: area.X, Y: area.Y, Width: area.Width, Height: area.Height}
	}
	h.send(player, msg)
}

func (h *Hub) ShowCross(player string, p geometry.Point) {
	h.draw(player, protocol.DrawCross, geometry.Cross(p), nil)
}

func (h *Hub) ShowOutline(player string, r geometry.Rect) {
	h.draw(player, protocol.DrawOutline, geometry.Outline(r), &r)
}

func (h *Hub) Restore(player string, p geometry.Point) {
	h.draw(player, protocol.DrawRestore, geometry.Cross(p), nil)
}

func (h *Hub) RestoreArea(player string, r geometry.Rect) {
	h.draw(player, protocol.DrawRestoreArea, geometry.Outline(r), &r)
}

func (h *Hub) RefundWire(player string) {
	h.send(player, protocol.RefundMsg{
		Type:            protocol.TypeRefund,
		ProtocolVersion: protocol.Version,
		Player:          player,
		Item:            "WIRE",
		Count:           1,
	})
}
