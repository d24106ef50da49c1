// Package ws is the client transport. Each websocket connection becomes one
// model.Actor, and inbound commands are run through the dispatch loop
// against the session manager.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/services/dispatch"
	"github.com/mcoot/rpserver-go/internal/storage/query"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// NoticeInternalError is sent when a command fails for reasons the player
// cannot fix
const NoticeInternalError = "Something went wrong. Please try again."

// Sessions is the part of the session manager the gateway drives
type Sessions interface {
	HandlePlayerConnect(ctx context.Context, actor model.Actor) error
	HandlePlayerDisconnect(ctx context.Context, actor model.Actor, reason string)
	HandlePlayerLogin(ctx context.Context, actor model.Actor, password string) error
	RequestCreateAccount(ctx context.Context, actor model.Actor, password string) error
	RequestCreateCharacterMenu(ctx context.Context, actor model.Actor) error
	RequestCreateCharacter(ctx context.Context, actor model.Actor, firstName, lastName, modelName string) (*model.Character, error)
	RequestSelectCharacter(ctx context.Context, actor model.Actor, fullName string) (*model.Character, error)
	TrySendTextMessage(ctx context.Context, actor model.Actor, receiver, body string) error
	TryAddNewContact(ctx context.Context, actor model.Actor, name, number string) error
	TryDeleteContact(ctx context.Context, actor model.Actor, number string) error
	TryDeleteTextMessage(ctx context.Context, actor model.Actor, id model.TextMessageID) error
	SetPlayerUsingPhone(actor model.Actor) error
	SetPlayerPhoneCalling(actor model.Actor) error
	SetPlayerPhoneOut(actor model.Actor) error
	TryStartPhoneCall(ctx context.Context, actor model.Actor, number string) error
	TryAcceptPhoneCall(actor model.Actor) error
	TryHangupPhoneCall(actor model.Actor) error
	SetCharacterSpawnHouse(ctx context.Context, actor model.Actor, house model.HouseID) error
}

// Gateway upgrades HTTP requests to websocket connections
type Gateway struct {
	sessions Sessions
	loop     *dispatch.Loop
	upgrader websocket.Upgrader
	nextID   atomic.Uint64
	logger   *slog.Logger

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
	pumps  sync.WaitGroup
}

// New creates a gateway. The loop must be running for commands to be served.
func New(sessions Sessions, loop *dispatch.Loop, logger *slog.Logger) *Gateway {
	return &Gateway{
		sessions: sessions,
		loop:     loop,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		logger: logger.With(slog.String("component", "gateway")),
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP expects the platform identity in the name query parameter
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	if !g.track(conn) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}

	id := model.ActorID(fmt.Sprintf("ws-%d", g.nextID.Add(1)))
	logger := g.logger.With(slog.String("actor", string(id)), slog.String("name", name))
	actor := newActor(id, name, logger)

	go g.writePump(conn, actor)

	if err := g.loop.Do(r.Context(), "connect", func(ctx context.Context) error {
		return g.sessions.HandlePlayerConnect(ctx, actor)
	}); err != nil {
		logger.Error("connect failed", slog.String("error", err.Error()))
		g.untrack(conn)
		g.pumps.Done()
		actor.close()
		return
	}
	logger.Info("player connected")

	go g.readPump(conn, actor, logger)
}

// Close drops every live connection and waits until each player has been
// disconnected. The dispatch loop must still be running.
func (g *Gateway) Close() {
	g.mu.Lock()
	g.closed = true
	conns := make([]*websocket.Conn, 0, len(g.conns))
	for c := range g.conns {
		conns = append(conns, c)
	}
	g.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
	g.pumps.Wait()
}

// Connections reports how many sockets are open
func (g *Gateway) Connections() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.conns)
}

// track registers conn and counts its read pump. Once Close has run no
// more connections are accepted.
func (g *Gateway) track(conn *websocket.Conn) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.conns[conn] = struct{}{}
	g.pumps.Add(1)
	return true
}

func (g *Gateway) untrack(conn *websocket.Conn) {
	g.mu.Lock()
	delete(g.conns, conn)
	g.mu.Unlock()
}

// readPump runs commands until the connection ends, then disconnects the
// player
func (g *Gateway) readPump(conn *websocket.Conn, actor *Actor, logger *slog.Logger) {
	reason := "closed"
	defer g.pumps.Done()
	defer func() {
		// The request context is gone by now
		err := g.loop.Do(context.Background(), "disconnect", func(ctx context.Context) error {
			g.sessions.HandlePlayerDisconnect(ctx, actor, reason)
			return nil
		})
		if err != nil {
			logger.Error("disconnect failed", slog.String("error", err.Error()))
		}
		actor.close()
		g.untrack(conn)
		_ = conn.Close()
		logger.Info("player disconnected", slog.String("reason", reason))
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("unexpected close", slog.String("error", err.Error()))
				reason = "error"
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			logger.Warn("malformed command", slog.String("error", err.Error()))
			continue
		}
		g.handle(actor, cmd, logger)
	}
}

func (g *Gateway) writePump(conn *websocket.Conn, actor *Actor) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case data, ok := <-actor.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle runs one command. State reports only touch the actor and skip the
// loop.
func (g *Gateway) handle(actor *Actor, cmd Command, logger *slog.Logger) {
	if cmd.Command == CmdState {
		actor.applyState(cmd)
		return
	}

	fn, ok := g.handler(actor, cmd)
	if !ok {
		logger.Warn("unknown command", slog.String("command", cmd.Command))
		return
	}

	err := g.loop.Do(context.Background(), cmd.Command, fn)
	switch {
	case err == nil:
	case isInternal(err):
		logger.Error("command failed", slog.String("command", cmd.Command), slog.String("error", err.Error()))
		actor.SendNotification(NoticeInternalError)
	default:
		// The manager has already told the player
		logger.Debug("command rejected", slog.String("command", cmd.Command), slog.String("error", err.Error()))
	}
}

func (g *Gateway) handler(actor *Actor, cmd Command) (dispatch.Handler, bool) {
	s := g.sessions
	switch cmd.Command {
	case CmdLogin:
		return func(ctx context.Context) error {
			return s.HandlePlayerLogin(ctx, actor, cmd.Password)
		}, true
	case CmdCreateAccount:
		return func(ctx context.Context) error {
			return s.RequestCreateAccount(ctx, actor, cmd.Password)
		}, true
	case CmdCreateCharacterMenu:
		return func(ctx context.Context) error {
			return s.RequestCreateCharacterMenu(ctx, actor)
		}, true
	case CmdCreateCharacter:
		return func(ctx context.Context) error {
			_, err := s.RequestCreateCharacter(ctx, actor, cmd.FirstName, cmd.LastName, cmd.Model)
			return err
		}, true
	case CmdSelectCharacter:
		return func(ctx context.Context) error {
			_, err := s.RequestSelectCharacter(ctx, actor, cmd.Name)
			return err
		}, true
	case CmdSendText:
		return func(ctx context.Context) error {
			return s.TrySendTextMessage(ctx, actor, cmd.Number, cmd.Body)
		}, true
	case CmdAddContact:
		return func(ctx context.Context) error {
			return s.TryAddNewContact(ctx, actor, cmd.Name, cmd.Number)
		}, true
	case CmdDeleteContact:
		return func(ctx context.Context) error {
			return s.TryDeleteContact(ctx, actor, cmd.Number)
		}, true
	case CmdDeleteText:
		return func(ctx context.Context) error {
			return s.TryDeleteTextMessage(ctx, actor, model.TextMessageID(cmd.ID))
		}, true
	case CmdPhoneState:
		return func(context.Context) error {
			switch cmd.State {
			case PhoneStateUsing:
				return s.SetPlayerUsingPhone(actor)
			case PhoneStateCalling:
				return s.SetPlayerPhoneCalling(actor)
			case PhoneStateOut:
				return s.SetPlayerPhoneOut(actor)
			}
			return fmt.Errorf("%w: unknown phone state %q", model.ErrValidation, cmd.State)
		}, true
	case CmdCall:
		return func(ctx context.Context) error {
			return s.TryStartPhoneCall(ctx, actor, cmd.Number)
		}, true
	case CmdAcceptCall:
		return func(context.Context) error {
			return s.TryAcceptPhoneCall(actor)
		}, true
	case CmdHangUp:
		return func(context.Context) error {
			return s.TryHangupPhoneCall(actor)
		}, true
	case CmdSetSpawnHouse:
		return func(ctx context.Context) error {
			return s.SetCharacterSpawnHouse(ctx, actor, model.HouseID(cmd.House))
		}, true
	}
	return nil, false
}

// isInternal reports failures the player did not cause
func isInternal(err error) bool {
	return errors.Is(err, query.ErrQuery) ||
		errors.Is(err, dispatch.ErrPanic) ||
		errors.Is(err, dispatch.ErrStopped) ||
		errors.Is(err, context.DeadlineExceeded)
}
