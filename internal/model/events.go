package model

// Client event names understood by the game client
const (
	EventSetLoginScreenCamera   = "EVENT_SET_LOGIN_SCREEN_CAMERA"
	EventRemoveCamera           = "EVENT_REMOVE_CAMERA"
	EventOpenCreateAccountMenu  = "EVENT_OPEN_CREATE_ACCOUNT_MENU"
	EventCloseCreateAccountMenu = "EVENT_CLOSE_CREATE_ACCOUNT_MENU"

	EventOpenCharacterSelectMenu   = "EVENT_OPEN_CHARACTER_SELECT_MENU"
	EventCloseCharacterSelectMenu  = "EVENT_CLOSE_CHARACTER_SELECT_MENU"
	EventOpenCharacterCreationMenu = "EVENT_OPEN_CHARACTER_CREATION_MENU"

	EventUpdateMoney             = "EVENT_UPDATE_MONEY"
	EventUpdateJob               = "EVENT_UPDATE_JOB"
	EventAddItemToInventory      = "EVENT_ADD_ITEM_TO_INVENTORY"
	EventRemoveItemFromInventory = "EVENT_REMOVE_ITEM_FROM_INVENTORY"

	EventReceiveTextMessage = "EVENT_RECEIVE_TEXT_MESSAGE"
	EventRemoveTextMessage  = "EVENT_REMOVE_TEXT_MESSAGE"
	EventAddContact         = "EVENT_ADD_CONTACT"
	EventRemoveContact      = "EVENT_REMOVE_CONTACT"
	EventIncomingCall       = "EVENT_INCOMING_CALL"
	EventCallStarted        = "EVENT_CALL_STARTED"
	EventCallEnded          = "EVENT_CALL_ENDED"
	EventSetPhoneState      = "EVENT_SET_PHONE_STATE"
)
