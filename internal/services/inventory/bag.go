package inventory

import "github.com/mcoot/rpserver-go/internal/model"

// Bag is an in-memory inventory that keeps stacks in insertion order
type Bag struct {
	items []model.Item
}

// Ensure Bag implements Inventory
var _ model.Inventory = (*Bag)(nil)

// NewBag creates a bag holding the given stacks
func NewBag(items ...model.Item) *Bag {
	b := &Bag{}
	for _, it := range items {
		b.Add(it)
	}
	return b
}

func (b *Bag) Items() []model.Item {
	out := make([]model.Item, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Bag) Add(item model.Item) model.Item {
	for i := range b.items {
		if b.items[i].ID == item.ID {
			b.items[i].Count += item.Count
			return b.items[i]
		}
	}
	b.items = append(b.items, item)
	return item
}

func (b *Bag) Remove(id model.ItemID, count int) bool {
	for i := range b.items {
		if b.items[i].ID != id {
			continue
		}
		if b.items[i].Count < count {
			return false
		}
		b.items[i].Count -= count
		if b.items[i].Count == 0 {
			b.items = append(b.items[:i], b.items[i+1:]...)
		}
		return true
	}
	return false
}

func (b *Bag) Count(id model.ItemID) int {
	for _, it := range b.items {
		if it.ID == id {
			return it.Count
		}
	}
	return 0
}
