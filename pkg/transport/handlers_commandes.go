package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/service"
)

type lignePayload struct {
	ProduitID string             `json:"produitId"`
	Quantite  int                `json:"quantite"`
	Options   model.OptionsLigne `json:"options"`
}

type commandePayload struct {
	Client        model.Client   `json:"client"`
	Produits      []lignePayload `json:"produits"`
	TVA           float64        `json:"tva"`
	MessageClient string         `json:"messageClient"`
	DateEvenement string         `json:"dateEvenement"`
	LieuEvenement string         `json:"lieuEvenement"`
	Urgence       bool           `json:"urgence"`

	// quote requests and firm orders enter the same review queue; the type
	// only picks the client-side dispatch channel
	TypeCommande string `json:"typeCommande"`
}

type updateCommandePayload struct {
	Statut        *string      `json:"statut"`
	NotesInternes *string      `json:"notesInternes"`
	Devis         *model.Devis `json:"devis"`
}

func (h *Handler) createCommande(w http.ResponseWriter, r *http.Request) {
	var payload commandePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	req := service.CreateCommandeRequest{
		Client:        payload.Client,
		TVA:           payload.TVA,
		MessageClient: payload.MessageClient,
		DateEvenement: payload.DateEvenement,
		LieuEvenement: payload.LieuEvenement,
		Urgence:       payload.Urgence,
	}
	for _, ligne := range payload.Produits {
		produitID, err := uuid.Parse(ligne.ProduitID)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("produit %s non trouvé", ligne.ProduitID))
			return
		}
		req.Produits = append(req.Produits, service.LigneRequest{
			ProduitID: produitID,
			Quantite:  ligne.Quantite,
			Options:   ligne.Options,
		})
	}

	commande, err := h.commandes.PlaceCommande(req)
	if err != nil {
		// an unresolved product reference rejects the order as invalid input
		if errors.Is(err, model.ErrProduitNotFound) || isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeInternalError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, apiResponse{Data: commande, Message: "Commande créée avec succès"})
}

func (h *Handler) listRecentCommandes(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.PublicOrderList {
		if _, err := h.auth.VerifyHeader(r.Header.Get("Authorization")); err != nil {
			writeAuthError(w, err)
			return
		}
	}

	commandes, err := h.commandes.ListRecentes()
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{Data: commandes})
}

func (h *Handler) listCommandesAdmin(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	spec := model.ListCommandesSpec{
		Statut: query.Get("statut"),
		Page:   page,
		Limit:  limit,
	}
	spec.From, spec.To = parseDateRange(query.Get("dateDebut"), query.Get("dateFin"))

	commandes, pagination, breakdown, err := h.commandes.ListCommandes(spec)
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{
		Data:       commandes,
		Pagination: &pagination,
		Stats:      breakdown,
	})
}

func (h *Handler) getCommande(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrCommandeNotFound.Error())
		return
	}

	commande, err := h.commandes.FindCommande(id)
	if errors.Is(err, model.ErrCommandeNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{Data: commande})
}

func (h *Handler) updateCommande(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrCommandeNotFound.Error())
		return
	}

	var payload updateCommandePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	params := service.UpdateCommandeParams{
		NotesInternes: payload.NotesInternes,
		Devis:         payload.Devis,
	}
	if payload.Statut != nil {
		statut := model.Statut(*payload.Statut)
		params.Statut = &statut
	}

	commande, err := h.commandes.UpdateCommande(id, params)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommandeNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.writeInternalError(w, r, err)
		}
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{Data: commande, Message: "Commande mise à jour avec succès"})
}

func (h *Handler) deleteCommande(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, model.ErrCommandeNotFound.Error())
		return
	}

	if err := h.commandes.DeleteCommande(id); err != nil {
		if errors.Is(err, model.ErrCommandeNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.writeInternalError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{Message: "Commande supprimée avec succès"})
}

func (h *Handler) commandeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.commandes.Stats()
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{Data: stats})
}

func (h *Handler) exportCommandes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, to := parseDateRange(query.Get("dateDebut"), query.Get("dateFin"))

	commandes, err := h.commandes.ListBetween(from, to)
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	format := query.Get("format")
	if format == "" || format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="commandes_%s.csv"`, time.Now().Format("2006-01-02")))
		if err := service.WriteCommandesCSV(w, commandes); err != nil {
			// headers are already out; nothing left to do but log
			log.WithError(err).Error("csv export failed")
		}
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{Data: commandes, Count: countOf(len(commandes))})
}

func parseDateRange(debut, fin string) (*time.Time, *time.Time) {
	var from, to *time.Time
	if t, err := time.Parse("2006-01-02", debut); err == nil {
		from = &t
	}
	if t, err := time.Parse("2006-01-02", fin); err == nil {
		// inclusive upper bound: the whole closing day
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to
}
