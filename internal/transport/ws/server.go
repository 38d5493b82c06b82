package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"houseregions.ai/internal/directory"
	"houseregions.ai/internal/housing/commands"
	"houseregions.ai/internal/housing/config"
	"houseregions.ai/internal/housing/define"
	"houseregions.ai/internal/housing/geometry"
	"houseregions.ai/internal/housing/notify"
	"houseregions.ai/internal/protocol"
)

// Core is what a host connection drives.
type Core struct {
	Directory *directory.Directory
	Define    *define.Manager
	Commands  *commands.Handler
	Previews  *notify.Previewer
	// Config returns the live housing configuration for WELCOME.
	Config func() config.Config
}

type Server struct {
	hub     *Hub
	core    Core
	worldID string
	log     *log.Logger
	seq     atomic.Uint64

	upgrader websocket.Upgrader
}

func NewServer(hub *Hub, core Core, worldID string, logger *log.Logger) *Server {
	if logger == nil {
		logger = hub.log
	}
	return &Server{
		hub:     hub,
		core:    core,
		worldID: worldID,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // hosts are not browsers
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c := s.handshake(conn)
		if c == nil {
			return
		}
		s.log.Printf("host %s connected from %s", c.id, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-c.out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		players := map[string]struct{}{}
		defer func() {
			for p := range players {
				s.logout(p, c)
			}
			s.log.Printf("host %s disconnected", c.id)
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.ProtocolVersion != protocol.Version {
				continue
			}
			switch base.Type {
			case protocol.TypeLogin:
				var m protocol.LoginMsg
				if err := json.Unmarshal(msg, &m); err != nil || m.Player == "" || strings.TrimSpace(m.Account) == "" {
					continue
				}
				s.core.Directory.Login(m.Player, strings.TrimSpace(m.Account))
				s.hub.bind(m.Player, c)
				players[m.Player] = struct{}{}
			case protocol.TypeLogout:
				var m protocol.LogoutMsg
				if err := json.Unmarshal(msg, &m); err != nil {
					continue
				}
				s.logout(m.Player, c)
				delete(players, m.Player)
			case protocol.TypeTileEdit:
				var m protocol.TileEditMsg
				if err := json.Unmarshal(msg, &m); err != nil {
					continue
				}
				s.ack(c, s.tileEdit(m))
			case protocol.TypeCommand:
				var m protocol.CommandMsg
				if err := json.Unmarshal(msg, &m); err != nil {
					continue
				}
				s.ack(c, s.command(ctx, m))
			}
		}
	}
}

func (s *Server) tileEdit(m protocol.TileEditMsg) protocol.AckMsg {
	ack := protocol.AckMsg{AckFor: m.ReqID, Accepted: true}
	et := define.EditType(m.Edit)
	if !et.Known() {
		ack.Accepted, ack.Code, ack.Message = false, protocol.ErrProtoBadRequest, "unknown edit type"
		return ack
	}
	ack.Handled = s.core.Define.HandleEdit(define.Edit{Player: m.Player, Type: et, At: geometry.Point{X: m.X, Y: m.Y}})
	return ack
}

func (s *Server) command(ctx context.Context, m protocol.CommandMsg) protocol.AckMsg {
	ack := protocol.AckMsg{AckFor: m.ReqID, Accepted: true}
	acc, ok := s.core.Directory.Account(m.Player)
	if !ok {
		ack.Accepted, ack.Code, ack.Message = false, protocol.ErrUnknownPlayer, "player is not logged in"
		return ack
	}
	err := s.core.Commands.Execute(ctx, commands.Invocation{
		Player:   m.Player,
		Account:  acc,
		Position: geometry.Point{X: m.X, Y: m.Y},
		Args:     m.Args,
	})
	if err != nil {
		ack.Accepted, ack.Code, ack.Message = false, protocol.CodeFor(err), err.Error()
	}
	return ack
}

// logout ends everything the player had running, then releases it.
func (s *Server) logout(player string, c *hostConn) {
	if !s.hub.unbind(player, c) {
		return
	}
	s.core.Define.Abort(player)
	s.core.Previews.CancelAll(player)
	s.core.Directory.Logout(player)
}

func (s *Server) ack(c *hostConn, a protocol.AckMsg) {
	a.Type = protocol.TypeAck
	a.ProtocolVersion = protocol.Version
	b, err := json.Marshal(a)
	if err != nil {
		return
	}
	select {
	case c.out <- b:
	default:
		s.log.Printf("host %s: queue full, dropping ack %s", c.id, a.AckFor)
	}
}

func (s *Server) handshake(conn *websocket.Conn) *hostConn {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return nil
	}
	if hello.WorldID != "" && s.worldID != "" && hello.WorldID != s.worldID {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "world mismatch"), time.Now().Add(time.Second))
		return nil
	}
	if hello.HostName == "" {
		hello.HostName = "host"
	}

	maxQ := hello.MaxQueue
	if maxQ <= 0 {
		maxQ = 256
	}
	if maxQ > 4096 {
		maxQ = 4096
	}
	c := &hostConn{
		id:  fmt.Sprintf("%s#%d", hello.HostName, s.seq.Add(1)),
		out: make(chan []byte, maxQ),
	}

	cfg := s.core.Config()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       c.id,
		WorldID:         s.worldID,
		Limits: protocol.HouseLimits{
			MaxHousesPerUser: cfg.MaxHousesPerUser,
			MinSize:          protocol.Size(cfg.MinSize),
			MaxSize:          protocol.Size(cfg.MaxSize),
		},
		MarkerEdits: []string{
			string(define.PlaceWire), string(define.PlaceWireBlue), string(define.PlaceWireGreen), string(define.PlaceWireYellow),
			string(define.DestroyWire), string(define.DestroyWireBlue), string(define.DestroyWireGreen), string(define.DestroyWireYellow),
		},
	}
	if err := writeJSON(conn, welcome); err != nil {
		return nil
	}
	return c
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
