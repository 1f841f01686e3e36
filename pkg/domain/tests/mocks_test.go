package tests

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
)

var _ model.ProduitRepository = &mockProduitRepository{}

type mockProduitRepository struct {
	store map[uuid.UUID]*model.Produit
}

func newMockProduitRepository() *mockProduitRepository {
	return &mockProduitRepository{store: make(map[uuid.UUID]*model.Produit)}
}

func (m *mockProduitRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockProduitRepository) Create(produit *model.Produit) error {
	clone := *produit
	m.store[produit.ID] = &clone
	return nil
}

func (m *mockProduitRepository) Update(produit *model.Produit) error {
	if _, ok := m.store[produit.ID]; !ok {
		return model.ErrProduitNotFound
	}
	clone := *produit
	m.store[produit.ID] = &clone
	return nil
}

func (m *mockProduitRepository) Delete(id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return model.ErrProduitNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockProduitRepository) Find(id uuid.UUID) (*model.Produit, error) {
	produit, ok := m.store[id]
	if !ok {
		return nil, model.ErrProduitNotFound
	}
	clone := *produit
	return &clone, nil
}

func (m *mockProduitRepository) List(spec model.ListProduitsSpec) ([]model.Produit, error) {
	var produits []model.Produit
	for _, produit := range m.store {
		if spec.ActifsOnly && !produit.Actif {
			continue
		}
		if spec.Categorie != "" && spec.Categorie != "all" && string(produit.Categorie) != spec.Categorie {
			continue
		}
		if spec.Recherche != "" {
			recherche := strings.ToLower(spec.Recherche)
			if !strings.Contains(strings.ToLower(produit.Nom), recherche) &&
				!strings.Contains(strings.ToLower(produit.Description), recherche) {
				continue
			}
		}
		produits = append(produits, *produit)
	}
	sort.Slice(produits, func(i, j int) bool {
		return produits[i].CreatedAt.After(produits[j].CreatedAt)
	})
	if spec.Limit > 0 && len(produits) > spec.Limit {
		produits = produits[:spec.Limit]
	}
	return produits, nil
}

func (m *mockProduitRepository) Census() (*model.ProduitCensus, error) {
	census := &model.ProduitCensus{}
	for _, produit := range m.store {
		census.Total++
		if produit.Actif {
			census.Actifs++
		} else {
			census.Inactifs++
		}
		if produit.Stock > 0 {
			census.EnStock++
		}
	}
	return census, nil
}

var _ model.CommandeRepository = &mockCommandeRepository{}

type mockCommandeRepository struct {
	store map[uuid.UUID]*model.Commande
}

func newMockCommandeRepository() *mockCommandeRepository {
	return &mockCommandeRepository{store: make(map[uuid.UUID]*model.Commande)}
}

func (m *mockCommandeRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockCommandeRepository) Create(commande *model.Commande) error {
	clone := *commande
	m.store[commande.ID] = &clone
	return nil
}

func (m *mockCommandeRepository) Update(commande *model.Commande) error {
	if _, ok := m.store[commande.ID]; !ok {
		return model.ErrCommandeNotFound
	}
	clone := *commande
	m.store[commande.ID] = &clone
	return nil
}

func (m *mockCommandeRepository) Delete(id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return model.ErrCommandeNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockCommandeRepository) Find(id uuid.UUID) (*model.Commande, error) {
	commande, ok := m.store[id]
	if !ok {
		return nil, model.ErrCommandeNotFound
	}
	clone := *commande
	return &clone, nil
}

func (m *mockCommandeRepository) List(spec model.ListCommandesSpec) ([]model.Commande, int, error) {
	var commandes []model.Commande
	for _, commande := range m.store {
		if spec.Statut != "" && spec.Statut != "all" && string(commande.Statut) != spec.Statut {
			continue
		}
		if spec.From != nil && commande.CreatedAt.Before(*spec.From) {
			continue
		}
		if spec.To != nil && commande.CreatedAt.After(*spec.To) {
			continue
		}
		commandes = append(commandes, *commande)
	}
	sort.Slice(commandes, func(i, j int) bool {
		return commandes[i].CreatedAt.After(commandes[j].CreatedAt)
	})

	total := len(commandes)
	start := (spec.Page - 1) * spec.Limit
	if start > total {
		start = total
	}
	end := start + spec.Limit
	if end > total {
		end = total
	}
	return commandes[start:end], total, nil
}

func (m *mockCommandeRepository) ListBetween(from, to *time.Time) ([]model.Commande, error) {
	commandes, _, err := m.List(model.ListCommandesSpec{From: from, To: to, Page: 1, Limit: len(m.store) + 1})
	return commandes, err
}

func (m *mockCommandeRepository) StatutBreakdown() ([]model.StatutBreakdown, error) {
	parStatut := make(map[model.Statut]*model.StatutBreakdown)
	for _, commande := range m.store {
		entry, ok := parStatut[commande.Statut]
		if !ok {
			entry = &model.StatutBreakdown{Statut: commande.Statut}
			parStatut[commande.Statut] = entry
		}
		entry.Count++
		entry.TotalTTC += commande.TotalTTC
	}

	var breakdown []model.StatutBreakdown
	for _, statut := range model.Statuts {
		if entry, ok := parStatut[statut]; ok {
			breakdown = append(breakdown, *entry)
		}
	}
	return breakdown, nil
}

func (m *mockCommandeRepository) Stats(now time.Time) (*model.CommandeStats, error) {
	debutMois := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := &model.CommandeStats{}
	for _, commande := range m.store {
		stats.TotalCommandes++
		stats.ChiffreAffairesTotal += commande.TotalTTC
		if !commande.CreatedAt.Before(debutMois) {
			stats.CommandesMoisActuel++
			stats.ChiffreAffairesMois += commande.TotalTTC
		}
	}
	if stats.TotalCommandes > 0 {
		stats.PanierMoyen = stats.ChiffreAffairesTotal / float64(stats.TotalCommandes)
	}

	breakdown, _ := m.StatutBreakdown()
	stats.RepartitionStatuts = breakdown
	return stats, nil
}
