// Package checkout drives the multi-step order form: client info, event
// details, confirmation, then a single fire-and-forget hand-off to WhatsApp
// or email once the order is stored.
package checkout

import (
	"errors"
	"regexp"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/cart"
	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/service"
)

type Step int

const (
	StepClientInfo Step = iota + 1
	StepOrderDetails
	StepConfirmation
	StepSubmitted
)

type TypeCommande string

const (
	TypeDevis         TypeCommande = "devis"
	TypeCommandeFerme TypeCommande = "commande"
)

const tauxTVA = 20

var (
	ErrEtapeInvalide = errors.New("étape invalide pour cette action")
	ErrPanierVide    = errors.New("le panier est vide")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Form accumulates everything the checkout pages collect.
type Form struct {
	Client        model.Client
	MessageClient string
	TypeCommande  TypeCommande
	Urgence       bool
	DateEvenement string
	LieuEvenement string
}

// OrderPlacer is the order-creation endpoint seen from the flow.
type OrderPlacer interface {
	PlaceCommande(req service.CreateCommandeRequest) (*model.Commande, error)
}

// Contact holds the two static dispatch channels.
type Contact struct {
	WhatsApp string
	Email    string
}

var DefaultContact = Contact{
	WhatsApp: "212522123456",
	Email:    "contact@salonpro.ma",
}

// Dispatch is the outcome of a successful submission: the stored order and
// the one link the client follows to relay it. The system cannot confirm the
// message was sent and never retries.
type Dispatch struct {
	Commande *model.Commande
	Lien     string
}

type Flow struct {
	step    Step
	form    Form
	cart    *cart.Cart
	placer  OrderPlacer
	contact Contact
	erreurs map[string]string
}

func NewFlow(panier *cart.Cart, placer OrderPlacer, contact Contact) *Flow {
	if contact.WhatsApp == "" {
		contact.WhatsApp = DefaultContact.WhatsApp
	}
	if contact.Email == "" {
		contact.Email = DefaultContact.Email
	}
	return &Flow{
		step:    StepClientInfo,
		form:    Form{TypeCommande: TypeDevis, Client: model.Client{Adresse: model.Adresse{Pays: "Maroc"}}},
		cart:    panier,
		placer:  placer,
		contact: contact,
		erreurs: map[string]string{},
	}
}

func (f *Flow) Step() Step { return f.step }

func (f *Flow) Form() *Form { return &f.form }

// FieldErrors reports the per-field messages from the last blocked Next.
func (f *Flow) FieldErrors() map[string]string { return f.erreurs }

// Next advances one step. Leaving ClientInfo requires a name, a phone and a
// well-formed email; every invalid field gets its own message and any error
// blocks the transition. Confirmation is left through Submit, not Next.
func (f *Flow) Next() bool {
	switch f.step {
	case StepClientInfo:
		if !f.validateClientInfo() {
			return false
		}
		f.step = StepOrderDetails
		return true
	case StepOrderDetails:
		f.step = StepConfirmation
		return true
	default:
		return false
	}
}

// Back steps to the previous form page. No-op on the first step and once
// submitted.
func (f *Flow) Back() {
	switch f.step {
	case StepOrderDetails:
		f.step = StepClientInfo
	case StepConfirmation:
		f.step = StepOrderDetails
	}
}

// Submit sends the order. On failure the flow stays on Confirmation and the
// cart keeps its contents; on success the cart is cleared, the flow is
// terminal and exactly one dispatch link is produced.
func (f *Flow) Submit() (*Dispatch, error) {
	if f.step != StepConfirmation {
		return nil, ErrEtapeInvalide
	}
	if f.cart.Empty() {
		return nil, ErrPanierVide
	}

	items := f.cart.Items()
	req := service.CreateCommandeRequest{
		Client:        f.form.Client,
		TVA:           tauxTVA,
		MessageClient: f.form.MessageClient,
		DateEvenement: f.form.DateEvenement,
		LieuEvenement: f.form.LieuEvenement,
		Urgence:       f.form.Urgence,
	}
	for _, item := range items {
		req.Produits = append(req.Produits, service.LigneRequest{
			ProduitID: item.Produit.ID,
			Quantite:  item.Quantite,
			Options:   item.Options,
		})
	}

	commande, err := f.placer.PlaceCommande(req)
	if err != nil {
		return nil, err
	}

	message := MessageCommande(f.form, items, commande.TotalTTC)

	var lien string
	if f.form.TypeCommande == TypeCommandeFerme {
		lien = LienMailto(f.contact.Email, commande.ID.String(), message+signatureEmail)
	} else {
		lien = LienWhatsApp(f.contact.WhatsApp, message)
	}

	f.cart.Clear()
	f.step = StepSubmitted

	return &Dispatch{Commande: commande, Lien: lien}, nil
}

func (f *Flow) validateClientInfo() bool {
	erreurs := map[string]string{}
	if f.form.Client.Nom == "" {
		erreurs["nom"] = "Le nom est requis"
	}
	if f.form.Client.Telephone == "" {
		erreurs["telephone"] = "Le téléphone est requis"
	}
	if f.form.Client.Email == "" {
		erreurs["email"] = "L'email est requis"
	} else if !emailPattern.MatchString(f.form.Client.Email) {
		erreurs["email"] = "Email invalide"
	}

	f.erreurs = erreurs
	return len(erreurs) == 0
}
