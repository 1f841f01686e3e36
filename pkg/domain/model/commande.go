package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrCommandeNotFound = errors.New("commande non trouvée")

type Statut string

const (
	StatutNouveau      Statut = "nouveau"
	StatutDevisEnvoye  Statut = "devis_envoye"
	StatutConfirme     Statut = "confirme"
	StatutEnProduction Statut = "en_production"
	StatutExpedie      Statut = "expedie"
	StatutLivre        Statut = "livre"
	StatutAnnule       Statut = "annule"
)

// Statuts lists the lifecycle in its intended progression order, annule last.
// The order is a UI convention; any status may be set from any status.
var Statuts = []Statut{
	StatutNouveau,
	StatutDevisEnvoye,
	StatutConfirme,
	StatutEnProduction,
	StatutExpedie,
	StatutLivre,
	StatutAnnule,
}

func (s Statut) Valid() bool {
	for _, known := range Statuts {
		if s == known {
			return true
		}
	}
	return false
}

type Adresse struct {
	Rue        string `json:"rue,omitempty"`
	Ville      string `json:"ville,omitempty"`
	CodePostal string `json:"codePostal,omitempty"`
	Pays       string `json:"pays,omitempty"`
}

type Client struct {
	Nom        string  `json:"nom"`
	Telephone  string  `json:"telephone"`
	Email      string  `json:"email"`
	Entreprise string  `json:"entreprise,omitempty"`
	Adresse    Adresse `json:"adresse"`
}

type OptionsLigne struct {
	Couleur          string `json:"couleur,omitempty"`
	Personnalisation string `json:"personnalisation,omitempty"`
	Urgence          bool   `json:"urgence,omitempty"`
}

// LigneCommande snapshots the product name and price at order time; later
// catalogue edits never change an existing order's totals.
type LigneCommande struct {
	ProduitID uuid.UUID    `json:"produitId"`
	Nom       string       `json:"nom"`
	Prix      float64      `json:"prix"`
	Quantite  int          `json:"quantite"`
	Options   OptionsLigne `json:"options"`

	// ProduitImages is joined from the live catalogue on reads, for admin
	// listings. It is not part of the stored snapshot.
	ProduitImages []string `json:"produitImages,omitempty"`
}

type Devis struct {
	PrixPropose     float64    `json:"prixPropose,omitempty"`
	ValiditeJours   int        `json:"validiteJours,omitempty"`
	Accepte         bool       `json:"accepte"`
	DateAcceptation *time.Time `json:"dateAcceptation,omitempty"`
}

type Commande struct {
	ID            uuid.UUID       `json:"id"`
	Client        Client          `json:"client"`
	Produits      []LigneCommande `json:"produits"`
	TotalHT       float64         `json:"totalHT"`
	TVA           float64         `json:"tva"`
	TotalTTC      float64         `json:"totalTTC"`
	Statut        Statut          `json:"statut"`
	MessageClient string          `json:"messageClient,omitempty"`
	NotesInternes string          `json:"notesInternes,omitempty"`
	Devis         *Devis          `json:"devis,omitempty"`
	DateEvenement string          `json:"dateEvenement,omitempty"`
	LieuEvenement string          `json:"lieuEvenement,omitempty"`
	Urgence       bool            `json:"urgence,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ListCommandesSpec filters and paginates an admin order listing. A Statut of
// "" or "all" matches every status.
type ListCommandesSpec struct {
	Statut string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

type StatutBreakdown struct {
	Statut   Statut  `json:"statut"`
	Count    int     `json:"count"`
	TotalTTC float64 `json:"total"`
}

type PointMensuel struct {
	Annee           int     `json:"annee"`
	Mois            int     `json:"mois"`
	Commandes       int     `json:"commandes"`
	ChiffreAffaires float64 `json:"chiffreAffaires"`
}

type TopClient struct {
	Email     string  `json:"email"`
	Nom       string  `json:"nom"`
	Commandes int     `json:"commandes"`
	Total     float64 `json:"total"`
}

type TopProduit struct {
	ProduitID uuid.UUID `json:"produitId"`
	Nom       string    `json:"nom"`
	Quantite  int       `json:"quantite"`
	Revenus   float64   `json:"revenus"`
}

type CommandeStats struct {
	TotalCommandes       int               `json:"totalCommandes"`
	CommandesMoisActuel  int               `json:"commandesMoisActuel"`
	ChiffreAffairesTotal float64           `json:"chiffreAffairesTotal"`
	ChiffreAffairesMois  float64           `json:"chiffreAffairesMois"`
	PanierMoyen          float64           `json:"panierMoyen"`
	RepartitionStatuts   []StatutBreakdown `json:"repartitionStatuts"`
	EvolutionMensuelle   []PointMensuel    `json:"evolutionMensuelle"`
	TopClients           []TopClient       `json:"topClients"`
	TopProduits          []TopProduit      `json:"topProduits"`
}

type CommandeRepository interface {
	NextID() (uuid.UUID, error)
	Create(commande *Commande) error
	Update(commande *Commande) error
	Delete(id uuid.UUID) error
	Find(id uuid.UUID) (*Commande, error)
	List(spec ListCommandesSpec) ([]Commande, int, error)
	ListBetween(from, to *time.Time) ([]Commande, error)
	StatutBreakdown() ([]StatutBreakdown, error)
	Stats(now time.Time) (*CommandeStats, error)
}
