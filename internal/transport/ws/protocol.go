package ws

import "github.com/mcoot/rpserver-go/internal/model"

// Inbound command names
const (
	CmdLogin               = "login"
	CmdCreateAccount       = "create_account"
	CmdCreateCharacterMenu = "create_character_menu"
	CmdCreateCharacter     = "create_character"
	CmdSelectCharacter     = "select_character"
	CmdSendText            = "send_text"
	CmdAddContact          = "add_contact"
	CmdDeleteContact       = "delete_contact"
	CmdDeleteText          = "delete_text"
	CmdPhoneState          = "phone_state"
	CmdCall                = "call"
	CmdAcceptCall          = "accept_call"
	CmdHangUp              = "hang_up"
	CmdSetSpawnHouse       = "set_spawn_house"
	CmdState               = "state"
)

// Phone states accepted by CmdPhoneState
const (
	PhoneStateUsing   = "using"
	PhoneStateCalling = "calling"
	PhoneStateOut     = "out"
)

// Outbound frame names that are not client events
const (
	FrameNotification  = "notification"
	FrameChat          = "chat"
	FramePosition      = "set_position"
	FrameRotation      = "set_rotation"
	FrameDimension     = "set_dimension"
	FrameTransparency  = "set_transparency"
	FrameFreeze        = "freeze_position"
	FrameModel         = "set_model"
	FramePlayAnimation = "play_animation"
	FrameStopAnimation = "stop_animation"
	FramePlaySound     = "play_frontend_sound"
	FrameAttachObject  = "attach_object"
	FrameDetachObject  = "detach_object"
)

// Command is one inbound client message. Only the fields the command uses
// are read.
type Command struct {
	Command string `json:"command"`

	Password  string `json:"password,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Model     string `json:"model,omitempty"`
	Name      string `json:"name,omitempty"`
	Number    string `json:"number,omitempty"`
	Body      string `json:"body,omitempty"`
	ID        int64  `json:"id,omitempty"`
	House     int    `json:"house,omitempty"`
	State     string `json:"state,omitempty"`

	Position *model.Vector3      `json:"position,omitempty"`
	Flags    *model.ActorFlags   `json:"flags,omitempty"`
	Vehicle  *model.VehicleState `json:"vehicle,omitempty"`
}

// Frame is one outbound message
type Frame struct {
	Event string `json:"event"`
	Args  []any  `json:"args"`
}
