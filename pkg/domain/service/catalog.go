package service

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
)

var (
	ErrNomProduitRequis   = errors.New("le nom du produit est requis")
	ErrNomProduitTropLong = errors.New("le nom ne peut pas dépasser 200 caractères")
	ErrDescriptionLongue  = errors.New("la description ne peut pas dépasser 1000 caractères")
	ErrPrixNegatif        = errors.New("le prix ne peut pas être négatif")
	ErrStockNegatif       = errors.New("le stock ne peut pas être négatif")
	ErrCategorieInvalide  = errors.New("catégorie invalide")
	ErrImageURLInvalide   = errors.New("URL d'image invalide")
)

var imageURLPattern = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png|webp|gif)$`)

const (
	maxNomLength         = 200
	maxDescriptionLength = 1000
	defaultListLimit     = 50
)

// ProduitParams carries every admin-editable field of a product. Actif nil
// means "leave the default" (true on create).
type ProduitParams struct {
	Nom              string
	Description      string
	Prix             float64
	Images           []string
	Categorie        model.Categorie
	Stock            int
	Caracteristiques model.Caracteristiques
	Actif            *bool
}

type CatalogService interface {
	CreateProduit(params ProduitParams) (*model.Produit, error)
	UpdateProduit(id uuid.UUID, params ProduitParams) (*model.Produit, error)
	DeleteProduit(id uuid.UUID) error
	FindProduit(id uuid.UUID) (*model.Produit, error)
	ListProduits(categorie, recherche string, limit int) ([]model.Produit, error)
	ListTousProduits() ([]model.Produit, error)
	Census() (*model.ProduitCensus, error)
}

func NewCatalogService(repo model.ProduitRepository) CatalogService {
	return &catalogService{repo: repo}
}

type catalogService struct {
	repo model.ProduitRepository
}

func (s *catalogService) CreateProduit(params ProduitParams) (*model.Produit, error) {
	if err := validateProduit(params); err != nil {
		return nil, err
	}

	id, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	produit := &model.Produit{
		ID:               id,
		Nom:              params.Nom,
		Description:      params.Description,
		Prix:             params.Prix,
		Images:           params.Images,
		Categorie:        params.Categorie,
		Stock:            params.Stock,
		Caracteristiques: params.Caracteristiques,
		Actif:            params.Actif == nil || *params.Actif,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(produit); err != nil {
		return nil, err
	}
	return produit, nil
}

func (s *catalogService) UpdateProduit(id uuid.UUID, params ProduitParams) (*model.Produit, error) {
	if err := validateProduit(params); err != nil {
		return nil, err
	}

	produit, err := s.repo.Find(id)
	if err != nil {
		return nil, err
	}

	produit.Nom = params.Nom
	produit.Description = params.Description
	produit.Prix = params.Prix
	produit.Images = params.Images
	produit.Categorie = params.Categorie
	produit.Stock = params.Stock
	produit.Caracteristiques = params.Caracteristiques
	if params.Actif != nil {
		produit.Actif = *params.Actif
	}
	produit.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(produit); err != nil {
		return nil, err
	}
	return produit, nil
}

func (s *catalogService) DeleteProduit(id uuid.UUID) error {
	return s.repo.Delete(id)
}

func (s *catalogService) FindProduit(id uuid.UUID) (*model.Produit, error) {
	return s.repo.Find(id)
}

func (s *catalogService) ListProduits(categorie, recherche string, limit int) ([]model.Produit, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.List(model.ListProduitsSpec{
		Categorie:  categorie,
		Recherche:  recherche,
		Limit:      limit,
		ActifsOnly: true,
	})
}

func (s *catalogService) ListTousProduits() ([]model.Produit, error) {
	return s.repo.List(model.ListProduitsSpec{})
}

func (s *catalogService) Census() (*model.ProduitCensus, error) {
	return s.repo.Census()
}

func validateProduit(params ProduitParams) error {
	if params.Nom == "" {
		return ErrNomProduitRequis
	}
	if len([]rune(params.Nom)) > maxNomLength {
		return ErrNomProduitTropLong
	}
	if len([]rune(params.Description)) > maxDescriptionLength {
		return ErrDescriptionLongue
	}
	if params.Prix < 0 {
		return ErrPrixNegatif
	}
	if params.Stock < 0 {
		return ErrStockNegatif
	}
	if !params.Categorie.Valid() {
		return ErrCategorieInvalide
	}
	for _, url := range params.Images {
		if !imageURLPattern.MatchString(url) {
			return ErrImageURLInvalide
		}
	}
	return nil
}
