package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrProduitNotFound = errors.New("produit non trouvé")

type Categorie string

const (
	CategorieStands      Categorie = "stands"
	CategorieRollUp      Categorie = "roll-up"
	CategorieSalonBeaute Categorie = "salon-beaute"
	CategorieAccessoires Categorie = "accessoires"
	CategorieEclairage   Categorie = "eclairage"
)

var Categories = []Categorie{
	CategorieStands,
	CategorieRollUp,
	CategorieSalonBeaute,
	CategorieAccessoires,
	CategorieEclairage,
}

func (c Categorie) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Caracteristiques struct {
	Dimensions string `json:"dimensions,omitempty"`
	Materiau   string `json:"materiau,omitempty"`
	Couleur    string `json:"couleur,omitempty"`
	Poids      string `json:"poids,omitempty"`
}

type Produit struct {
	ID               uuid.UUID        `json:"id"`
	Nom              string           `json:"nom"`
	Description      string           `json:"description,omitempty"`
	Prix             float64          `json:"prix"`
	Images           []string         `json:"images"`
	Categorie        Categorie        `json:"categorie"`
	Stock            int              `json:"stock"`
	Caracteristiques Caracteristiques `json:"caracteristiques"`
	Actif            bool             `json:"actif"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ListProduitsSpec filters a catalogue listing. A Categorie of "" or "all"
// matches every category; Recherche is a case-insensitive substring match on
// nom or description.
type ListProduitsSpec struct {
	Categorie  string
	Recherche  string
	Limit      int
	ActifsOnly bool
}

// ProduitCensus is the catalogue headcount shown on the admin dashboard.
type ProduitCensus struct {
	Total    int `json:"total"`
	Actifs   int `json:"actifs"`
	EnStock  int `json:"enStock"`
	Inactifs int `json:"inactifs"`
}

type ProduitRepository interface {
	NextID() (uuid.UUID, error)
	Create(produit *Produit) error
	Update(produit *Produit) error
	Delete(id uuid.UUID) error
	Find(id uuid.UUID) (*Produit, error)
	List(spec ListProduitsSpec) ([]Produit, error)
	Census() (*ProduitCensus, error)
}
