package checkout

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/cart"
	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/service"
)

var _ OrderPlacer = &mockPlacer{}

type mockPlacer struct {
	requests []service.CreateCommandeRequest
	fail     error
}

func (m *mockPlacer) PlaceCommande(req service.CreateCommandeRequest) (*model.Commande, error) {
	m.requests = append(m.requests, req)
	if m.fail != nil {
		return nil, m.fail
	}
	return &model.Commande{
		ID:       uuid.New(),
		Statut:   model.StatutNouveau,
		TotalHT:  300,
		TVA:      20,
		TotalTTC: 360,
	}, nil
}

func remplirClient(f *Flow) {
	f.Form().Client.Nom = "Amina Tazi"
	f.Form().Client.Telephone = "0661234567"
	f.Form().Client.Email = "amina@example.ma"
}

func panierAvecProduit(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New()
	c.AddItem(model.Produit{ID: uuid.New(), Nom: "Stand X", Prix: 100}, 3, model.OptionsLigne{})
	return c
}

func TestClientInfoGuard(t *testing.T) {
	f := NewFlow(cart.New(), &mockPlacer{}, Contact{})

	t.Run("blocks with one error per invalid field", func(t *testing.T) {
		require.False(t, f.Next())
		assert.Equal(t, StepClientInfo, f.Step())
		assert.Len(t, f.FieldErrors(), 3)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		remplirClient(f)
		f.Form().Client.Email = "pas-un-email"
		require.False(t, f.Next())
		assert.Equal(t, "Email invalide", f.FieldErrors()["email"])
	})

	t.Run("passes with valid fields", func(t *testing.T) {
		remplirClient(f)
		require.True(t, f.Next())
		assert.Equal(t, StepOrderDetails, f.Step())
		assert.Empty(t, f.FieldErrors())
	})
}

func TestBackTransitions(t *testing.T) {
	f := NewFlow(cart.New(), &mockPlacer{}, Contact{})
	remplirClient(f)
	require.True(t, f.Next())
	require.True(t, f.Next())
	require.Equal(t, StepConfirmation, f.Step())

	f.Back()
	assert.Equal(t, StepOrderDetails, f.Step())
	f.Back()
	assert.Equal(t, StepClientInfo, f.Step())
	f.Back()
	assert.Equal(t, StepClientInfo, f.Step())
}

func TestSubmitSuccessClearsCartAndBuildsWhatsAppLink(t *testing.T) {
	panier := panierAvecProduit(t)
	placer := &mockPlacer{}
	f := NewFlow(panier, placer, Contact{})
	remplirClient(f)
	require.True(t, f.Next())
	require.True(t, f.Next())

	dispatch, err := f.Submit()

	require.NoError(t, err)
	assert.Equal(t, StepSubmitted, f.Step())
	assert.True(t, panier.Empty())
	assert.True(t, strings.HasPrefix(dispatch.Lien, "https://wa.me/212522123456?text="))
	assert.NotContains(t, dispatch.Lien, "Envoyé via SalonPro.ma")

	require.Len(t, placer.requests, 1)
	req := placer.requests[0]
	assert.Equal(t, 20.0, req.TVA)
	require.Len(t, req.Produits, 1)
	assert.Equal(t, 3, req.Produits[0].Quantite)
}

func TestSubmitFirmOrderBuildsMailtoLink(t *testing.T) {
	f := NewFlow(panierAvecProduit(t), &mockPlacer{}, Contact{})
	remplirClient(f)
	f.Form().TypeCommande = TypeCommandeFerme
	require.True(t, f.Next())
	require.True(t, f.Next())

	dispatch, err := f.Submit()

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dispatch.Lien, "mailto:contact@salonpro.ma?subject=Nouvelle%20commande%20%23"))
	assert.Contains(t, dispatch.Lien, escape("Envoyé via SalonPro.ma"))
}

func TestSubmitFailureStaysOnConfirmation(t *testing.T) {
	panier := panierAvecProduit(t)
	placer := &mockPlacer{fail: errors.New("erreur serveur")}
	f := NewFlow(panier, placer, Contact{})
	remplirClient(f)
	require.True(t, f.Next())
	require.True(t, f.Next())

	_, err := f.Submit()

	require.Error(t, err)
	assert.Equal(t, StepConfirmation, f.Step())
	assert.False(t, panier.Empty())
}

func TestSubmitRequiresConfirmationStep(t *testing.T) {
	f := NewFlow(panierAvecProduit(t), &mockPlacer{}, Contact{})

	_, err := f.Submit()
	assert.ErrorIs(t, err, ErrEtapeInvalide)
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	f := NewFlow(cart.New(), &mockPlacer{}, Contact{})
	remplirClient(f)
	require.True(t, f.Next())
	require.True(t, f.Next())

	_, err := f.Submit()
	assert.ErrorIs(t, err, ErrPanierVide)
}

func TestMessageCommande(t *testing.T) {
	form := Form{
		TypeCommande:  TypeDevis,
		Client:        model.Client{Nom: "Amina Tazi", Telephone: "0661234567", Email: "amina@example.ma"},
		DateEvenement: "2026-09-15",
		LieuEvenement: "Casablanca",
		MessageClient: "Livraison avant le salon",
	}
	items := []cart.Item{
		{Produit: model.Produit{Nom: "Stand X", Prix: 100}, Quantite: 3},
	}

	message := MessageCommande(form, items, 360)

	assert.Contains(t, message, "NOUVELLE DEVIS")
	assert.Contains(t, message, "*Entreprise:* Non renseigné")
	assert.Contains(t, message, "• Stand X (x3) - 300.00 DH")
	assert.Contains(t, message, "*TOTAL:* 360.00 DH TTC")
	assert.Contains(t, message, "*Date événement:* 2026-09-15")
	assert.Contains(t, message, "*Lieu:* Casablanca")
	assert.Contains(t, message, "*Message:* Livraison avant le salon")
}
