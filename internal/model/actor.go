package model

// ActorID identifies a connected actor for the lifetime of its connection
type ActorID string

// ActorFlags are the client-reported states that make a character busy
type ActorFlags struct {
	Aiming      bool `json:"aiming"`
	InFreefall  bool `json:"in_freefall"`
	InCover     bool `json:"in_cover"`
	Parachuting bool `json:"parachuting"`
	Reloading   bool `json:"reloading"`
	Shooting    bool `json:"shooting"`
	Dead        bool `json:"dead"`
}

// Busy reports whether any flag prevents the actor from acting
func (f ActorFlags) Busy() bool {
	return f.Aiming || f.InFreefall || f.InCover || f.Parachuting ||
		f.Reloading || f.Shooting || f.Dead
}

// DriverSeat is the seat index of a vehicle's driver
const DriverSeat = -1

// VehicleState describes the vehicle an actor currently occupies
type VehicleState struct {
	InVehicle bool `json:"in_vehicle"`
	Seat      int  `json:"seat"`
	Class     int  `json:"class"`
}

// Actor is the connected client a session drives.
// Implementations must tolerate calls after the connection has gone away.
type Actor interface {
	ID() ActorID
	// Name is the platform identity string; accounts are keyed by it.
	Name() string

	Position() Vector3
	SetPosition(pos Vector3)
	SetRotation(rot Vector3)
	SetDimension(dimension int)
	SetTransparency(alpha int)
	FreezePosition(frozen bool)
	SetModel(model string)

	Flags() ActorFlags
	Vehicle() VehicleState

	TriggerEvent(event string, args ...any)
	SendChatMessage(message string)
	SendNotification(message string)
	PlayAnimation(flags int, dict, name string)
	StopAnimation()
	PlayFrontendSound(name, set string)
	AttachObject(object, bone string, offset, rotation Vector3)
	DetachObject(object string)
}
