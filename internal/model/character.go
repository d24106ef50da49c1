package model

import (
	"context"
	"strconv"
)

// CharacterID identifies a character
type CharacterID int64

// Gender is derived from a character's appearance model
type Gender int

const (
	GenderMale Gender = iota
	GenderFemale
)

type (
	FactionID int
	JobID     int
	HouseID   int
)

const (
	// NoJob marks a character without employment
	NoJob JobID = -1
	// NoHouse marks a character that spawns at the default location
	NoHouse HouseID = -1
	// FactionCivilian is the faction every new character starts in
	FactionCivilian FactionID = 0
)

// CharacterRecord is the persisted form of a character
type CharacterRecord struct {
	ID           CharacterID
	AccountID    AccountID
	FirstName    string
	LastName     string
	FactionID    FactionID
	Model        string
	Money        int
	JobID        JobID
	PhoneNumber  string
	SpawnHouseID HouseID
}

// FullName returns "First Last"
func (r CharacterRecord) FullName() string {
	return r.FirstName + " " + r.LastName
}

// MoneyWriter persists a character's money
type MoneyWriter interface {
	UpdateCharacterMoney(ctx context.Context, id CharacterID, money int) error
}

// Character is a playable persona. While selected it is bound to the actor
// of the session that selected it.
//
// Character is not safe for concurrent use; all mutation happens on the
// session event loop.
type Character struct {
	record    CharacterRecord
	gender    Gender
	onDuty    bool
	status    map[StatusEffect]struct{}
	inventory Inventory
	phone     *Phone
	actor     Actor
	money     MoneyWriter
}

// NewCharacter creates a character from its persisted record
func NewCharacter(rec CharacterRecord, gender Gender, inventory Inventory, money MoneyWriter, deliverer MessageDeliverer) *Character {
	c := &Character{
		record:    rec,
		gender:    gender,
		status:    make(map[StatusEffect]struct{}),
		inventory: inventory,
		money:     money,
	}
	c.phone = newPhone(c, rec.PhoneNumber, deliverer)
	return c
}

func (c *Character) ID() CharacterID          { return c.record.ID }
func (c *Character) AccountID() AccountID     { return c.record.AccountID }
func (c *Character) FirstName() string        { return c.record.FirstName }
func (c *Character) LastName() string         { return c.record.LastName }
func (c *Character) FullName() string         { return c.record.FullName() }
func (c *Character) Model() string            { return c.record.Model }
func (c *Character) Gender() Gender           { return c.gender }
func (c *Character) FactionID() FactionID     { return c.record.FactionID }
func (c *Character) JobID() JobID             { return c.record.JobID }
func (c *Character) Money() int               { return c.record.Money }
func (c *Character) PhoneNumber() string      { return c.record.PhoneNumber }
func (c *Character) SpawnHouseID() HouseID    { return c.record.SpawnHouseID }
func (c *Character) Phone() *Phone            { return c.phone }
func (c *Character) OnDuty() bool             { return c.onDuty }
func (c *Character) SetOnDuty(onDuty bool)    { c.onDuty = onDuty }
func (c *Character) SetFactionID(f FactionID) { c.record.FactionID = f }

// Record returns a snapshot of the persisted fields
func (c *Character) Record() CharacterRecord {
	return c.record
}

// Equal reports whether both values refer to the same character
func (c *Character) Equal(other *Character) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.record.ID == other.record.ID
}

// Actor binding

// Bind attaches the character to a connected actor
func (c *Character) Bind(actor Actor) {
	c.actor = actor
}

// Unbind detaches the character from its actor
func (c *Character) Unbind() {
	c.actor = nil
}

// Actor returns the bound actor, or nil
func (c *Character) Actor() Actor {
	return c.actor
}

// IsBound reports whether the character is attached to an actor
func (c *Character) IsBound() bool {
	return c.actor != nil
}

// Position returns the bound actor's position, or the origin when unbound
func (c *Character) Position() Vector3 {
	if c.actor == nil {
		return Vector3{}
	}
	return c.actor.Position()
}

// IsAvailable reports whether the character can currently act
func (c *Character) IsAvailable() bool {
	if c.actor == nil {
		return false
	}
	return !c.actor.Flags().Busy()
}

// IsInVehicle reports whether the bound actor is in a vehicle
func (c *Character) IsInVehicle() bool {
	return c.actor != nil && c.actor.Vehicle().InVehicle
}

// IsDriver reports whether the bound actor is driving
func (c *Character) IsDriver() bool {
	if c.actor == nil {
		return false
	}
	v := c.actor.Vehicle()
	return v.InVehicle && v.Seat == DriverSeat
}

// VehicleClass returns the class of the occupied vehicle, or -1
func (c *Character) VehicleClass() int {
	if !c.IsInVehicle() {
		return -1
	}
	return c.actor.Vehicle().Class
}

// Client output. All of these are no-ops while unbound.

func (c *Character) TriggerEvent(event string, args ...any) {
	if c.actor != nil {
		c.actor.TriggerEvent(event, args...)
	}
}

func (c *Character) SendNotification(message string) {
	if c.actor != nil {
		c.actor.SendNotification(message)
	}
}

func (c *Character) SendChatMessage(message string) {
	if c.actor != nil {
		c.actor.SendChatMessage(message)
	}
}

func (c *Character) PlayAnimation(flags int, dict, name string) {
	if c.actor != nil {
		c.actor.PlayAnimation(flags, dict, name)
	}
}

func (c *Character) StopAnimation() {
	if c.actor != nil {
		c.actor.StopAnimation()
	}
}

func (c *Character) PlayFrontendSound(name, set string) {
	if c.actor != nil {
		c.actor.PlayFrontendSound(name, set)
	}
}

// SetModel changes the appearance model and its derived gender
func (c *Character) SetModel(model string, gender Gender) {
	c.record.Model = model
	c.gender = gender
	if c.actor != nil {
		c.actor.SetModel(model)
	}
}

// UpdateFactionRankText shows the character's rank title in the client HUD
func (c *Character) UpdateFactionRankText(text string, r, g, b int) {
	c.TriggerEvent(EventUpdateJob, text, r, g, b)
}

// Money

// SetMoney sets the in-memory balance, pushes it to the client and, when
// persist is set, writes it through to storage.
func (c *Character) SetMoney(ctx context.Context, amount int, persist bool) error {
	c.record.Money = amount
	c.TriggerEvent(EventUpdateMoney, strconv.Itoa(amount))
	if !persist {
		return nil
	}
	return c.money.UpdateCharacterMoney(ctx, c.record.ID, amount)
}

// SetJob changes the job in memory only. Callers persist job changes.
func (c *Character) SetJob(job JobID) {
	c.record.JobID = job
}

// SetSpawnHouse changes the spawn house in memory only
func (c *Character) SetSpawnHouse(house HouseID) {
	c.record.SpawnHouseID = house
}

// Status effects

func (c *Character) AddStatusEffect(effect StatusEffect) {
	c.status[effect] = struct{}{}
}

func (c *Character) RemoveStatusEffect(effect StatusEffect) {
	delete(c.status, effect)
}

func (c *Character) HasStatusEffect(effect StatusEffect) bool {
	_, ok := c.status[effect]
	return ok
}

// Inventory

// AddItem adds an item and notifies the client
func (c *Character) AddItem(item Item) {
	stack := c.inventory.Add(item)
	c.TriggerEvent(EventAddItemToInventory, int(item.ID), stack.Name, item.Count, stack.Description)
}

// RemoveItem removes count units of an item and notifies the client.
// It reports false, without notifying, when there were not enough.
func (c *Character) RemoveItem(id ItemID, count int) bool {
	if !c.inventory.Remove(id, count) {
		return false
	}
	c.TriggerEvent(EventRemoveItemFromInventory, int(id), count)
	return true
}

func (c *Character) ItemCount(id ItemID) int {
	return c.inventory.Count(id)
}

func (c *Character) Items() []Item {
	return c.inventory.Items()
}
