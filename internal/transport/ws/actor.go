package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/rpserver-go/internal/model"
)

const sendBuffer = 256

// Actor is a model.Actor backed by a websocket connection. Every state
// change is mirrored to the client as a frame. Safe for concurrent use.
type Actor struct {
	id     model.ActorID
	name   string
	logger *slog.Logger

	mu           sync.RWMutex
	position     model.Vector3
	rotation     model.Vector3
	dimension    int
	transparency int
	frozen       bool
	modelName    string
	flags        model.ActorFlags
	vehicle      model.VehicleState

	send   chan []byte
	closed bool
}

// Ensure Actor implements model.Actor
var _ model.Actor = (*Actor)(nil)

func newActor(id model.ActorID, name string, logger *slog.Logger) *Actor {
	return &Actor{
		id:           id,
		name:         name,
		logger:       logger,
		transparency: 255,
		vehicle:      model.VehicleState{Seat: model.DriverSeat, Class: -1},
		send:         make(chan []byte, sendBuffer),
	}
}

func (a *Actor) ID() model.ActorID { return a.id }
func (a *Actor) Name() string      { return a.name }

func (a *Actor) Position() model.Vector3 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.position
}

func (a *Actor) SetPosition(pos model.Vector3) {
	a.mu.Lock()
	a.position = pos
	a.mu.Unlock()
	a.emit(FramePosition, pos)
}

func (a *Actor) SetRotation(rot model.Vector3) {
	a.mu.Lock()
	a.rotation = rot
	a.mu.Unlock()
	a.emit(FrameRotation, rot)
}

func (a *Actor) SetDimension(dimension int) {
	a.mu.Lock()
	a.dimension = dimension
	a.mu.Unlock()
	a.emit(FrameDimension, dimension)
}

func (a *Actor) SetTransparency(alpha int) {
	a.mu.Lock()
	a.transparency = alpha
	a.mu.Unlock()
	a.emit(FrameTransparency, alpha)
}

func (a *Actor) FreezePosition(frozen bool) {
	a.mu.Lock()
	a.frozen = frozen
	a.mu.Unlock()
	a.emit(FrameFreeze, frozen)
}

func (a *Actor) SetModel(modelName string) {
	a.mu.Lock()
	a.modelName = modelName
	a.mu.Unlock()
	a.emit(FrameModel, modelName)
}

func (a *Actor) Flags() model.ActorFlags {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.flags
}

func (a *Actor) Vehicle() model.VehicleState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.vehicle
}

// applyState records client-reported position, flags and vehicle
func (a *Actor) applyState(cmd Command) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cmd.Position != nil {
		a.position = *cmd.Position
	}
	if cmd.Flags != nil {
		a.flags = *cmd.Flags
	}
	if cmd.Vehicle != nil {
		a.vehicle = *cmd.Vehicle
	}
}

func (a *Actor) TriggerEvent(event string, args ...any) {
	a.emit(event, args...)
}

func (a *Actor) SendChatMessage(message string) {
	a.emit(FrameChat, message)
}

func (a *Actor) SendNotification(message string) {
	a.emit(FrameNotification, message)
}

func (a *Actor) PlayAnimation(flags int, dict, name string) {
	a.emit(FramePlayAnimation, flags, dict, name)
}

func (a *Actor) StopAnimation() {
	a.emit(FrameStopAnimation)
}

func (a *Actor) PlayFrontendSound(name, set string) {
	a.emit(FramePlaySound, name, set)
}

func (a *Actor) AttachObject(object, bone string, offset, rotation model.Vector3) {
	a.emit(FrameAttachObject, object, bone, offset, rotation)
}

func (a *Actor) DetachObject(object string) {
	a.emit(FrameDetachObject, object)
}

// emit queues a frame for the write pump. Frames are dropped once the
// connection is gone or when the client falls too far behind.
func (a *Actor) emit(event string, args ...any) {
	if args == nil {
		args = []any{}
	}
	data, err := json.Marshal(Frame{Event: event, Args: args})
	if err != nil {
		a.logger.Error("frame encoding failed", slog.String("event", event), slog.String("error", err.Error()))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	select {
	case a.send <- data:
	default:
		a.logger.Warn("frame dropped - client buffer full", slog.String("event", event))
	}
}

// close stops further frames and ends the write pump
func (a *Actor) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.closed {
		a.closed = true
		close(a.send)
	}
}
