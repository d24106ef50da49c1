package session

import (
	"context"
	"log/slog"

	"github.com/mcoot/rpserver-go/internal/model"
)

// DisconnectObserver is told about every disconnecting actor before its
// session is removed
type DisconnectObserver func(ctx context.Context, actor model.Actor)

type observers struct {
	next int
	byID map[int]DisconnectObserver
	// order keeps notification in subscription order
	order []int
}

// SubscribeToPlayerDisconnect registers an observer and returns a func
// that removes it
func (m *Manager) SubscribeToPlayerDisconnect(fn DisconnectObserver) (unsubscribe func()) {
	o := &m.observers
	if o.byID == nil {
		o.byID = make(map[int]DisconnectObserver)
	}
	id := o.next
	o.next++
	o.byID[id] = fn
	o.order = append(o.order, id)

	return func() {
		if _, ok := o.byID[id]; !ok {
			return
		}
		delete(o.byID, id)
		for i, v := range o.order {
			if v == id {
				o.order = append(o.order[:i], o.order[i+1:]...)
				break
			}
		}
	}
}

// HandlePlayerDisconnect notifies observers, then drops the actor and its
// session. Every mutation was already written through, so nothing is
// flushed here.
func (m *Manager) HandlePlayerDisconnect(ctx context.Context, actor model.Actor, reason string) {
	for _, id := range append([]int(nil), m.observers.order...) {
		if fn, ok := m.observers.byID[id]; ok {
			fn(ctx, actor)
		}
	}

	delete(m.connected, actor.ID())

	session := m.sessions[actor.ID()]
	if session == nil {
		m.logger.Info("actor disconnected",
			slog.String("actor_id", string(actor.ID())),
			slog.String("reason", reason))
		return
	}
	delete(m.sessions, actor.ID())
	m.selector.Remove(session.Account.ID)

	if character := session.Character; character != nil {
		if character.Phone().InCall() {
			_ = character.Phone().HangUpCall()
		}
		character.Unbind()
		if err := m.presence.MarkOffline(ctx, character.ID()); err != nil {
			m.logger.Warn("presence update failed",
				slog.Int64("character_id", int64(character.ID())),
				slog.String("error", err.Error()))
		}
	}

	m.logger.Info("session ended",
		slog.Int64("account_id", int64(session.Account.ID)),
		slog.String("reason", reason),
		slog.Duration("duration", m.clock.Now().Sub(session.StartedAt)))
}

// ConnectedActors returns the number of connected actors, logged in or not
func (m *Manager) ConnectedActors() int {
	return len(m.connected)
}
