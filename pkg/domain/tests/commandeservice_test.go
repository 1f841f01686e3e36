package tests

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/service"
)

func setupCommandes(t *testing.T) (service.CommandeService, *mockCommandeRepository, *mockProduitRepository) {
	t.Helper()
	commandes := newMockCommandeRepository()
	produits := newMockProduitRepository()
	return service.NewCommandeService(commandes, produits), commandes, produits
}

func seedProduit(t *testing.T, repo *mockProduitRepository, nom string, prix float64, stock int) *model.Produit {
	t.Helper()
	id, err := repo.NextID()
	require.NoError(t, err)
	produit := &model.Produit{
		ID:        id,
		Nom:       nom,
		Prix:      prix,
		Categorie: model.CategorieStands,
		Stock:     stock,
		Actif:     true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(produit))
	return produit
}

func clientValide() model.Client {
	return model.Client{Nom: "Amina Tazi", Telephone: "0661234567", Email: "amina@example.ma"}
}

func TestPlaceCommande(t *testing.T) {
	commandeService, commandes, produits := setupCommandes(t)
	standX := seedProduit(t, produits, "Stand X", 100, 5)

	commande, err := commandeService.PlaceCommande(service.CreateCommandeRequest{
		Client:   clientValide(),
		Produits: []service.LigneRequest{{ProduitID: standX.ID, Quantite: 3}},
		TVA:      20,
	})

	require.NoError(t, err)
	assert.Equal(t, 300.00, commande.TotalHT)
	assert.Equal(t, 360.00, commande.TotalTTC)
	assert.Equal(t, model.StatutNouveau, commande.Statut)
	require.Len(t, commande.Produits, 1)
	assert.Equal(t, "Stand X", commande.Produits[0].Nom)
	assert.Equal(t, 100.0, commande.Produits[0].Prix)
	assert.Equal(t, "Maroc", commande.Client.Adresse.Pays)

	saved, ok := commandes.store[commande.ID]
	require.True(t, ok)
	assert.Equal(t, commande.TotalTTC, saved.TotalTTC)
}

func TestPlaceCommandeUsesStoredPrice(t *testing.T) {
	commandeService, _, produits := setupCommandes(t)
	standX := seedProduit(t, produits, "Stand X", 100, 5)

	// client claims another price; only the stored one counts
	commande, err := commandeService.PlaceCommande(service.CreateCommandeRequest{
		Client:   clientValide(),
		Produits: []service.LigneRequest{{ProduitID: standX.ID, Quantite: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 200.00, commande.TotalHT)

	// later catalogue edits must not change the snapshot
	standX.Prix = 999
	require.NoError(t, produits.Update(standX))
	assert.Equal(t, 100.0, commande.Produits[0].Prix)
}

func TestPlaceCommandeUnknownProduct(t *testing.T) {
	commandeService, commandes, produits := setupCommandes(t)
	standX := seedProduit(t, produits, "Stand X", 100, 5)
	inconnu := uuid.New()

	_, err := commandeService.PlaceCommande(service.CreateCommandeRequest{
		Client: clientValide(),
		Produits: []service.LigneRequest{
			{ProduitID: standX.ID, Quantite: 1},
			{ProduitID: inconnu, Quantite: 2},
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrProduitNotFound)
	assert.Contains(t, err.Error(), inconnu.String())
	assert.Empty(t, commandes.store, "rejected order must not be persisted")
}

func TestPlaceCommandeDefaultTVA(t *testing.T) {
	commandeService, _, produits := setupCommandes(t)
	standX := seedProduit(t, produits, "Stand X", 50, 5)

	commande, err := commandeService.PlaceCommande(service.CreateCommandeRequest{
		Client:   clientValide(),
		Produits: []service.LigneRequest{{ProduitID: standX.ID, Quantite: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, 20.0, commande.TVA)
	assert.Equal(t, 60.00, commande.TotalTTC)
}

func TestPlaceCommandeRounding(t *testing.T) {
	commandeService, _, produits := setupCommandes(t)
	produit := seedProduit(t, produits, "Spot LED", 19.99, 10)

	commande, err := commandeService.PlaceCommande(service.CreateCommandeRequest{
		Client:   clientValide(),
		Produits: []service.LigneRequest{{ProduitID: produit.ID, Quantite: 3}},
	})

	require.NoError(t, err)
	assert.Equal(t, 59.97, commande.TotalHT)
	// 59.97 * 1.2 = 71.964 -> 71.96
	assert.Equal(t, 71.96, commande.TotalTTC)
}

func TestPlaceCommandeValidation(t *testing.T) {
	commandeService, _, produits := setupCommandes(t)
	standX := seedProduit(t, produits, "Stand X", 100, 5)

	t.Run("missing client name", func(t *testing.T) {
		client := clientValide()
		client.Nom = ""
		_, err := commandeService.PlaceCommande(service.CreateCommandeRequest{
			Client:   client,
			Produits: []service.LigneRequest{{ProduitID: standX.ID, Quantite: 1}},
		})
		assert.ErrorIs(t, err, service.ErrClientNomRequis)
	})

	t.Run("missing phone", func(t *testing.T) {
		client := clientValide()
		client.Telephone = ""
		_, err := commandeService.PlaceCommande(service.CreateCommandeRequest{
			Client:   client,
			Produits: []service.LigneRequest{{ProduitID: standX.ID, Quantite: 1}},
		})
		assert.ErrorIs(t, err, service.ErrTelephoneRequis)
	})

	t.Run("malformed email", func(t *testing.T) {
		client := clientValide()
		client.Email = "pas-un-email"
		_, err := commandeService.PlaceCommande(service.CreateCommandeRequest{
			Client:   client,
			Produits: []service.LigneRequest{{ProduitID: standX.ID, Quantite: 1}},
		})
		assert.ErrorIs(t, err, service.ErrEmailInvalide)
	})

	t.Run("empty order", func(t *testing.T) {
		_, err := commandeService.PlaceCommande(service.CreateCommandeRequest{Client: clientValide()})
		assert.ErrorIs(t, err, service.ErrCommandeVide)
	})

	t.Run("quantity below one", func(t *testing.T) {
		_, err := commandeService.PlaceCommande(service.CreateCommandeRequest{
			Client:   clientValide(),
			Produits: []service.LigneRequest{{ProduitID: standX.ID, Quantite: 0}},
		})
		assert.ErrorIs(t, err, service.ErrQuantiteInvalide)
	})
}

func TestUpdateCommande(t *testing.T) {
	commandeService, commandes, produits := setupCommandes(t)
	standX := seedProduit(t, produits, "Stand X", 100, 5)
	commande, err := commandeService.PlaceCommande(service.CreateCommandeRequest{
		Client:   clientValide(),
		Produits: []service.LigneRequest{{ProduitID: standX.ID, Quantite: 1}},
	})
	require.NoError(t, err)

	t.Run("updates status and notes", func(t *testing.T) {
		statut := model.StatutDevisEnvoye
		notes := "Devis envoyé par téléphone"
		updated, err := commandeService.UpdateCommande(commande.ID, service.UpdateCommandeParams{
			Statut:        &statut,
			NotesInternes: &notes,
		})
		require.NoError(t, err)
		assert.Equal(t, model.StatutDevisEnvoye, updated.Statut)
		assert.Equal(t, notes, updated.NotesInternes)
		assert.Equal(t, model.StatutDevisEnvoye, commandes.store[commande.ID].Statut)
	})

	t.Run("notes update leaves status alone", func(t *testing.T) {
		notes := "Relance prévue"
		updated, err := commandeService.UpdateCommande(commande.ID, service.UpdateCommandeParams{NotesInternes: &notes})
		require.NoError(t, err)
		assert.Equal(t, model.StatutDevisEnvoye, updated.Statut)
	})

	t.Run("any status from any status", func(t *testing.T) {
		statut := model.StatutLivre
		_, err := commandeService.UpdateCommande(commande.ID, service.UpdateCommandeParams{Statut: &statut})
		require.NoError(t, err)

		statut = model.StatutNouveau
		_, err = commandeService.UpdateCommande(commande.ID, service.UpdateCommandeParams{Statut: &statut})
		require.NoError(t, err)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		statut := model.Statut("inconnu")
		_, err := commandeService.UpdateCommande(commande.ID, service.UpdateCommandeParams{Statut: &statut})
		assert.ErrorIs(t, err, service.ErrStatutInvalide)
	})

	t.Run("stores a quote with default validity", func(t *testing.T) {
		devis := &model.Devis{PrixPropose: 280}
		updated, err := commandeService.UpdateCommande(commande.ID, service.UpdateCommandeParams{Devis: devis})
		require.NoError(t, err)
		require.NotNil(t, updated.Devis)
		assert.Equal(t, 280.0, updated.Devis.PrixPropose)
		assert.Equal(t, 30, updated.Devis.ValiditeJours)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := commandeService.UpdateCommande(uuid.New(), service.UpdateCommandeParams{})
		assert.ErrorIs(t, err, model.ErrCommandeNotFound)
	})
}

func TestListCommandesPagination(t *testing.T) {
	commandeService, _, produits := setupCommandes(t)
	standX := seedProduit(t, produits, "Stand X", 100, 5)
	for i := 0; i < 7; i++ {
		_, err := commandeService.PlaceCommande(service.CreateCommandeRequest{
			Client:   clientValide(),
			Produits: []service.LigneRequest{{ProduitID: standX.ID, Quantite: 1}},
		})
		require.NoError(t, err)
	}

	commandes, pagination, breakdown, err := commandeService.ListCommandes(model.ListCommandesSpec{Page: 2, Limit: 3})

	require.NoError(t, err)
	assert.Len(t, commandes, 3)
	assert.Equal(t, service.Pagination{Page: 2, Limit: 3, Total: 7, Pages: 3}, pagination)
	require.Len(t, breakdown, 1)
	assert.Equal(t, model.StatutNouveau, breakdown[0].Statut)
	assert.Equal(t, 7, breakdown[0].Count)
}

func TestStats(t *testing.T) {
	commandeService, _, produits := setupCommandes(t)

	t.Run("empty store has zero average", func(t *testing.T) {
		stats, err := commandeService.Stats()
		require.NoError(t, err)
		assert.Zero(t, stats.PanierMoyen)
		assert.Zero(t, stats.TotalCommandes)
	})

	t.Run("aggregates revenue and average", func(t *testing.T) {
		standX := seedProduit(t, produits, "Stand X", 100, 5)
		for i := 0; i < 2; i++ {
			_, err := commandeService.PlaceCommande(service.CreateCommandeRequest{
				Client:   clientValide(),
				Produits: []service.LigneRequest{{ProduitID: standX.ID, Quantite: 1}},
			})
			require.NoError(t, err)
		}

		stats, err := commandeService.Stats()
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalCommandes)
		assert.Equal(t, 240.00, stats.ChiffreAffairesTotal)
		assert.Equal(t, 120.00, stats.PanierMoyen)
	})
}
