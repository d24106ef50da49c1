package mocks

import (
	"github.com/mcoot/rpserver-go/internal/model"
)

// TriggeredEvent records one client event sent to a MockActor
type TriggeredEvent struct {
	Name string
	Args []any
}

// MockActor is a recording implementation of model.Actor for testing
type MockActor struct {
	IDValue   model.ActorID
	NameValue string

	Pos          model.Vector3
	Rot          model.Vector3
	Dimension    int
	Transparency int
	Frozen       bool
	ModelName    string

	FlagsValue   model.ActorFlags
	VehicleValue model.VehicleState

	Events        []TriggeredEvent
	Notifications []string
	ChatMessages  []string
	Sounds        []string
	Attached      map[string]string

	AnimDict  string
	AnimName  string
	AnimFlags int
}

// Ensure MockActor implements Actor
var _ model.Actor = (*MockActor)(nil)

// NewMockActor creates a MockActor with the given id and identity name
func NewMockActor(id, name string) *MockActor {
	return &MockActor{
		IDValue:      model.ActorID(id),
		NameValue:    name,
		Transparency: 255,
		Attached:     make(map[string]string),
	}
}

func (a *MockActor) ID() model.ActorID             { return a.IDValue }
func (a *MockActor) Name() string                  { return a.NameValue }
func (a *MockActor) Position() model.Vector3       { return a.Pos }
func (a *MockActor) SetPosition(pos model.Vector3) { a.Pos = pos }
func (a *MockActor) SetRotation(rot model.Vector3) { a.Rot = rot }
func (a *MockActor) SetDimension(dimension int)    { a.Dimension = dimension }
func (a *MockActor) SetTransparency(alpha int)     { a.Transparency = alpha }
func (a *MockActor) FreezePosition(frozen bool)    { a.Frozen = frozen }
func (a *MockActor) SetModel(model string)         { a.ModelName = model }
func (a *MockActor) Flags() model.ActorFlags       { return a.FlagsValue }
func (a *MockActor) Vehicle() model.VehicleState   { return a.VehicleValue }

func (a *MockActor) TriggerEvent(event string, args ...any) {
	a.Events = append(a.Events, TriggeredEvent{Name: event, Args: args})
}

func (a *MockActor) SendChatMessage(message string) {
	a.ChatMessages = append(a.ChatMessages, message)
}

func (a *MockActor) SendNotification(message string) {
	a.Notifications = append(a.Notifications, message)
}

func (a *MockActor) PlayAnimation(flags int, dict, name string) {
	a.AnimFlags, a.AnimDict, a.AnimName = flags, dict, name
}

func (a *MockActor) StopAnimation() {
	a.AnimFlags, a.AnimDict, a.AnimName = 0, "", ""
}

func (a *MockActor) PlayFrontendSound(name, set string) {
	a.Sounds = append(a.Sounds, set+"/"+name)
}

func (a *MockActor) AttachObject(object, bone string, _, _ model.Vector3) {
	a.Attached[object] = bone
}

func (a *MockActor) DetachObject(object string) {
	delete(a.Attached, object)
}

// EventsNamed returns the recorded events with the given name
func (a *MockActor) EventsNamed(name string) []TriggeredEvent {
	var out []TriggeredEvent
	for _, e := range a.Events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// LastEvent returns the most recent event, or a zero value
func (a *MockActor) LastEvent() TriggeredEvent {
	if len(a.Events) == 0 {
		return TriggeredEvent{}
	}
	return a.Events[len(a.Events)-1]
}

// LastNotification returns the most recent notification, or ""
func (a *MockActor) LastNotification() string {
	if len(a.Notifications) == 0 {
		return ""
	}
	return a.Notifications[len(a.Notifications)-1]
}

// Reset clears everything recorded so far
func (a *MockActor) Reset() {
	a.Events = nil
	a.Notifications = nil
	a.ChatMessages = nil
	a.Sounds = nil
}
