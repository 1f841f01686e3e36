// Package cart holds the transient pre-checkout selection. Every mutation
// goes through its methods and nothing is persisted until the checkout
// submits an order.
package cart

import (
	"github.com/google/uuid"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
)

type Item struct {
	Produit  model.Produit
	Quantite int
	Options  model.OptionsLigne
}

type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges into an existing line for the same product: quantities add
// up and newly set options overwrite the old ones. A quantity below 1 counts
// as 1.
func (c *Cart) AddItem(produit model.Produit, quantite int, options model.OptionsLigne) {
	if quantite < 1 {
		quantite = 1
	}

	for i := range c.items {
		if c.items[i].Produit.ID == produit.ID {
			c.items[i].Quantite += quantite
			c.items[i].Options = mergeOptions(c.items[i].Options, options)
			return
		}
	}

	c.items = append(c.items, Item{Produit: produit, Quantite: quantite, Options: options})
}

// RemoveItem is a no-op when the product is not in the cart.
func (c *Cart) RemoveItem(produitID uuid.UUID) {
	for i := range c.items {
		if c.items[i].Produit.ID == produitID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the line's quantity exactly; zero or less removes the
// line.
func (c *Cart) SetQuantity(produitID uuid.UUID, quantite int) {
	if quantite <= 0 {
		c.RemoveItem(produitID)
		return
	}
	for i := range c.items {
		if c.items[i].Produit.ID == produitID {
			c.items[i].Quantite = quantite
			return
		}
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

// Subtotal sums prix × quantite over all lines without rounding; rounding is
// applied once, server side, when the order is priced.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.items {
		total += item.Produit.Prix * float64(item.Quantite)
	}
	return total
}

func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.items {
		count += item.Quantite
	}
	return count
}

func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Items returns a copy; mutating it does not touch the cart.
func (c *Cart) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

func mergeOptions(current, incoming model.OptionsLigne) model.OptionsLigne {
	merged := current
	if incoming.Couleur != "" {
		merged.Couleur = incoming.Couleur
	}
	if incoming.Personnalisation != "" {
		merged.Personnalisation = incoming.Personnalisation
	}
	if incoming.Urgence {
		merged.Urgence = true
	}
	return merged
}
