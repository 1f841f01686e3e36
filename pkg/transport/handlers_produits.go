package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/service"
)

type produitPayload struct {
	Nom              string                 `json:"nom"`
	Description      string                 `json:"description"`
	Prix             float64                `json:"prix"`
	Images           []string               `json:"images"`
	Categorie        string                 `json:"categorie"`
	Stock            int                    `json:"stock"`
	Caracteristiques model.Caracteristiques `json:"caracteristiques"`
	Actif            *bool                  `json:"actif"`
}

func (p produitPayload) params() service.ProduitParams {
	return service.ProduitParams{
		Nom:              p.Nom,
		Description:      p.Description,
		Prix:             p.Prix,
		Images:           p.Images,
		Categorie:        model.Categorie(p.Categorie),
		Stock:            p.Stock,
		Caracteristiques: p.Caracteristiques,
		Actif:            p.Actif,
	}
}

func (h *Handler) listProduits(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))

	produits, err := h.catalog.ListProduits(query.Get("categorie"), query.Get("search"), limit)
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{Data: produits, Count: countOf(len(produits))})
}

func (h *Handler) listTousProduits(w http.ResponseWriter, r *http.Request) {
	produits, err := h.catalog.ListTousProduits()
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{Data: produits, Count: countOf(len(produits))})
}

func (h *Handler) getProduit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrProduitNotFound.Error())
		return
	}

	produit, err := h.catalog.FindProduit(id)
	if errors.Is(err, model.ErrProduitNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{Data: produit})
}

func (h *Handler) createProduit(w http.ResponseWriter, r *http.Request) {
	var payload produitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	produit, err := h.catalog.CreateProduit(payload.params())
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeInternalError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, apiResponse{Data: produit, Message: "Produit créé avec succès"})
}

func (h *Handler) updateProduit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrProduitNotFound.Error())
		return
	}

	var payload produitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	produit, err := h.catalog.UpdateProduit(id, payload.params())
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProduitNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.writeInternalError(w, r, err)
		}
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{Data: produit, Message: "Produit modifié avec succès"})
}

func (h *Handler) deleteProduit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrProduitNotFound.Error())
		return
	}

	if err := h.catalog.DeleteProduit(id); err != nil {
		if errors.Is(err, model.ErrProduitNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.writeInternalError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{Message: "Produit supprimé avec succès"})
}

var validationErrors = []error{
	service.ErrNomProduitRequis,
	service.ErrNomProduitTropLong,
	service.ErrDescriptionLongue,
	service.ErrPrixNegatif,
	service.ErrStockNegatif,
	service.ErrCategorieInvalide,
	service.ErrImageURLInvalide,
	service.ErrClientNomRequis,
	service.ErrTelephoneRequis,
	service.ErrEmailInvalide,
	service.ErrCommandeVide,
	service.ErrQuantiteInvalide,
	service.ErrStatutInvalide,
}

func isValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// writeInternalError keeps internal detail in the log; the client only sees a
// generic message.
func (h *Handler) writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	log.WithError(err).WithField("url", r.URL.String()).Error("request failed")
	writeError(w, http.StatusInternalServerError, "Erreur serveur")
}
