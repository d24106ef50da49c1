package model

// ItemID identifies an item type
type ItemID int

// Item is a stack of one item type in an inventory
type Item struct {
	ID          ItemID
	Name        string
	Description string
	Count       int
}

// Inventory holds a character's items in insertion order
type Inventory interface {
	Items() []Item
	// Add merges the item into an existing stack or appends a new one and
	// returns the resulting stack.
	Add(item Item) Item
	// Remove takes count units of an item and reports whether it had enough.
	Remove(id ItemID, count int) bool
	Count(id ItemID) int
}
