package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
)

func produit(nom string, prix float64) model.Produit {
	return model.Produit{ID: uuid.New(), Nom: nom, Prix: prix, Categorie: model.CategorieStands, Actif: true}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	c := New()
	standX := produit("Stand X", 100)

	c.AddItem(standX, 2, model.OptionsLigne{Couleur: "rouge"})
	c.AddItem(standX, 3, model.OptionsLigne{Personnalisation: "logo"})

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantite)
	assert.Equal(t, "rouge", items[0].Options.Couleur)
	assert.Equal(t, "logo", items[0].Options.Personnalisation)
}

func TestAddItemOptionOverwrite(t *testing.T) {
	c := New()
	standX := produit("Stand X", 100)

	c.AddItem(standX, 1, model.OptionsLigne{Couleur: "rouge"})
	c.AddItem(standX, 1, model.OptionsLigne{Couleur: "bleu"})

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "bleu", items[0].Options.Couleur)
}

func TestAddItemClampsQuantity(t *testing.T) {
	c := New()
	c.AddItem(produit("Stand X", 100), 0, model.OptionsLigne{})

	require.Equal(t, 1, c.ItemCount())
}

func TestRemoveItem(t *testing.T) {
	c := New()
	standX := produit("Stand X", 100)
	rollUp := produit("Roll-up", 50)
	c.AddItem(standX, 1, model.OptionsLigne{})
	c.AddItem(rollUp, 1, model.OptionsLigne{})

	c.RemoveItem(standX.ID)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, rollUp.ID, items[0].Produit.ID)

	// absent product is a no-op
	c.RemoveItem(uuid.New())
	assert.Len(t, c.Items(), 1)
}

func TestSetQuantity(t *testing.T) {
	c := New()
	standX := produit("Stand X", 100)
	c.AddItem(standX, 2, model.OptionsLigne{})

	t.Run("replaces exactly", func(t *testing.T) {
		c.SetQuantity(standX.ID, 7)
		assert.Equal(t, 7, c.ItemCount())
	})

	t.Run("zero removes the line", func(t *testing.T) {
		c.SetQuantity(standX.ID, 0)
		assert.True(t, c.Empty())
	})
}

func TestTotals(t *testing.T) {
	c := New()

	assert.Zero(t, c.Subtotal())
	assert.Zero(t, c.ItemCount())

	c.AddItem(produit("Produit A", 50), 2, model.OptionsLigne{})
	c.AddItem(produit("Produit B", 30), 1, model.OptionsLigne{})

	assert.Equal(t, 130.0, c.Subtotal())
	assert.Equal(t, 3, c.ItemCount())
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(produit("Stand X", 100), 2, model.OptionsLigne{})

	c.Clear()

	assert.True(t, c.Empty())
	assert.Zero(t, c.Subtotal())
}
