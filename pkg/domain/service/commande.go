package service

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
)

var (
	ErrClientNomRequis  = errors.New("le nom du client est requis")
	ErrTelephoneRequis  = errors.New("le téléphone est requis")
	ErrEmailInvalide    = errors.New("email invalide")
	ErrCommandeVide     = errors.New("la commande ne contient aucun produit")
	ErrQuantiteInvalide = errors.New("la quantité doit être au moins 1")
	ErrStatutInvalide   = errors.New("statut invalide")
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

const defaultTVA = 20

// ProduitInconnuError rejects an order referencing a product absent from the
// catalogue. It unwraps to model.ErrProduitNotFound.
type ProduitInconnuError struct {
	ProduitID uuid.UUID
}

func (e *ProduitInconnuError) Error() string {
	return fmt.Sprintf("produit %s non trouvé", e.ProduitID)
}

func (e *ProduitInconnuError) Unwrap() error { return model.ErrProduitNotFound }

type LigneRequest struct {
	ProduitID uuid.UUID
	Quantite  int
	Options   model.OptionsLigne
}

// CreateCommandeRequest is a checkout submission. Line prices are never taken
// from the client; each line is repriced from the stored product.
type CreateCommandeRequest struct {
	Client        model.Client
	Produits      []LigneRequest
	TVA           float64
	MessageClient string
	DateEvenement string
	LieuEvenement string
	Urgence       bool
}

// UpdateCommandeParams is a partial admin update; nil fields are untouched.
type UpdateCommandeParams struct {
	Statut        *model.Statut
	NotesInternes *string
	Devis         *model.Devis
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type CommandeService interface {
	PlaceCommande(req CreateCommandeRequest) (*model.Commande, error)
	FindCommande(id uuid.UUID) (*model.Commande, error)
	ListCommandes(spec model.ListCommandesSpec) ([]model.Commande, Pagination, []model.StatutBreakdown, error)
	ListRecentes() ([]model.Commande, error)
	ListBetween(from, to *time.Time) ([]model.Commande, error)
	UpdateCommande(id uuid.UUID, params UpdateCommandeParams) (*model.Commande, error)
	DeleteCommande(id uuid.UUID) error
	Stats() (*model.CommandeStats, error)
}

func NewCommandeService(commandes model.CommandeRepository, produits model.ProduitRepository) CommandeService {
	return &commandeService{commandes: commandes, produits: produits}
}

type commandeService struct {
	commandes model.CommandeRepository
	produits  model.ProduitRepository
}

func (s *commandeService) PlaceCommande(req CreateCommandeRequest) (*model.Commande, error) {
	if err := validateClient(req.Client); err != nil {
		return nil, err
	}
	if len(req.Produits) == 0 {
		return nil, ErrCommandeVide
	}

	// All product lookups happen before the insert; a product deleted in
	// between is not re-validated. The whole order is rejected as soon as one
	// reference fails to resolve, so nothing is persisted on error.
	var totalHT float64
	lignes := make([]model.LigneCommande, 0, len(req.Produits))
	for _, ligne := range req.Produits {
		if ligne.Quantite < 1 {
			return nil, ErrQuantiteInvalide
		}

		produit, err := s.produits.Find(ligne.ProduitID)
		if err != nil {
			if errors.Is(err, model.ErrProduitNotFound) {
				return nil, &ProduitInconnuError{ProduitID: ligne.ProduitID}
			}
			return nil, err
		}

		totalHT += produit.Prix * float64(ligne.Quantite)
		lignes = append(lignes, model.LigneCommande{
			ProduitID: produit.ID,
			Nom:       produit.Nom,
			Prix:      produit.Prix,
			Quantite:  ligne.Quantite,
			Options:   ligne.Options,
		})
	}

	tva := req.TVA
	if tva == 0 {
		tva = defaultTVA
	}

	id, err := s.commandes.NextID()
	if err != nil {
		return nil, err
	}

	client := req.Client
	if client.Adresse.Pays == "" {
		client.Adresse.Pays = "Maroc"
	}

	now := time.Now().UTC()
	commande := &model.Commande{
		ID:            id,
		Client:        client,
		Produits:      lignes,
		TotalHT:       round2(totalHT),
		TVA:           tva,
		TotalTTC:      round2(totalHT * (1 + tva/100)),
		Statut:        model.StatutNouveau,
		MessageClient: req.MessageClient,
		DateEvenement: req.DateEvenement,
		LieuEvenement: req.LieuEvenement,
		Urgence:       req.Urgence,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.commandes.Create(commande); err != nil {
		return nil, err
	}
	return commande, nil
}

func (s *commandeService) FindCommande(id uuid.UUID) (*model.Commande, error) {
	return s.commandes.Find(id)
}

func (s *commandeService) ListCommandes(spec model.ListCommandesSpec) ([]model.Commande, Pagination, []model.StatutBreakdown, error) {
	if spec.Page <= 0 {
		spec.Page = 1
	}
	if spec.Limit <= 0 {
		spec.Limit = defaultListLimit
	}

	commandes, total, err := s.commandes.List(spec)
	if err != nil {
		return nil, Pagination{}, nil, err
	}

	breakdown, err := s.commandes.StatutBreakdown()
	if err != nil {
		return nil, Pagination{}, nil, err
	}

	pagination := Pagination{
		Page:  spec.Page,
		Limit: spec.Limit,
		Total: total,
		Pages: (total + spec.Limit - 1) / spec.Limit,
	}
	return commandes, pagination, breakdown, nil
}

func (s *commandeService) ListRecentes() ([]model.Commande, error) {
	commandes, _, err := s.commandes.List(model.ListCommandesSpec{Page: 1, Limit: 100})
	return commandes, err
}

func (s *commandeService) ListBetween(from, to *time.Time) ([]model.Commande, error) {
	return s.commandes.ListBetween(from, to)
}

func (s *commandeService) UpdateCommande(id uuid.UUID, params UpdateCommandeParams) (*model.Commande, error) {
	commande, err := s.commandes.Find(id)
	if err != nil {
		return nil, err
	}

	// No transition guard: the admin may set any status from any status.
	if params.Statut != nil {
		if !params.Statut.Valid() {
			return nil, ErrStatutInvalide
		}
		commande.Statut = *params.Statut
	}
	if params.NotesInternes != nil {
		commande.NotesInternes = *params.NotesInternes
	}
	if params.Devis != nil {
		devis := *params.Devis
		if devis.ValiditeJours == 0 {
			devis.ValiditeJours = 30
		}
		commande.Devis = &devis
	}
	commande.UpdatedAt = time.Now().UTC()

	if err := s.commandes.Update(commande); err != nil {
		return nil, err
	}
	return commande, nil
}

func (s *commandeService) DeleteCommande(id uuid.UUID) error {
	return s.commandes.Delete(id)
}

func (s *commandeService) Stats() (*model.CommandeStats, error) {
	return s.commandes.Stats(time.Now().UTC())
}

func validateClient(client model.Client) error {
	if client.Nom == "" {
		return ErrClientNomRequis
	}
	if client.Telephone == "" {
		return ErrTelephoneRequis
	}
	if !emailPattern.MatchString(client.Email) {
		return ErrEmailInvalide
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
