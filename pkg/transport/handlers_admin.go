package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/auth"
	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
)

const maxUploadSize = 5 << 20 // 5 MiB

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	token, err := h.auth.Authenticate(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.writeInternalError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{Token: token, Message: "Connexion réussie"})
}

func (h *Handler) adminIdentity(w http.ResponseWriter, r *http.Request) {
	claims, err := h.auth.VerifyHeader(r.Header.Get("Authorization"))
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, apiResponse{User: identity{Username: claims.Username, Role: claims.Role}})
}

type dashboardPayload struct {
	Produits   model.ProduitCensus `json:"produits"`
	Commandes  dashboardCommandes  `json:"commandes"`
	Graphiques dashboardGraphiques `json:"graphiques"`
}

type dashboardCommandes struct {
	Total           int     `json:"total"`
	Nouveaux        int     `json:"nouveaux"`
	ChiffreAffaires float64 `json:"chiffreAffaires"`
}

type dashboardGraphiques struct {
	CommandesParMois []model.PointMensuel `json:"commandesParMois"`
	TopProduits      []model.TopProduit   `json:"topProduits"`
}

// dashboardStats is the landing-page summary: catalogue headcount, order
// totals and the charts shared with the order statistics.
func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	census, err := h.catalog.Census()
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	stats, err := h.commandes.Stats()
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	var nouveaux int
	for _, entry := range stats.RepartitionStatuts {
		if entry.Statut == model.StatutNouveau {
			nouveaux = entry.Count
		}
	}

	writeSuccess(w, http.StatusOK, apiResponse{Data: dashboardPayload{
		Produits: *census,
		Commandes: dashboardCommandes{
			Total:           stats.TotalCommandes,
			Nouveaux:        nouveaux,
			ChiffreAffaires: stats.ChiffreAffairesTotal,
		},
		Graphiques: dashboardGraphiques{
			CommandesParMois: stats.EvolutionMensuelle,
			TopProduits:      stats.TopProduits,
		},
	}})
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Le fichier ne doit pas dépasser 5MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Aucun fichier fourni")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusBadRequest, "Le fichier ne doit pas dépasser 5MB")
		return
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		writeError(w, http.StatusBadRequest, "Le fichier doit être une image")
		return
	}

	name := fmt.Sprintf("product_%d_%s%s",
		time.Now().UnixMilli(),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:10],
		strings.ToLower(filepath.Ext(header.Filename)))

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	destination, err := os.Create(filepath.Join(h.cfg.UploadDir, name))
	if err != nil {
		h.writeInternalError(w, r, err)
		return
	}
	defer destination.Close()

	if _, err := io.Copy(destination, file); err != nil {
		h.writeInternalError(w, r, err)
		return
	}

	publicURL := "/uploads/products/" + name
	log.WithField("url", publicURL).Info("image uploaded")
	writeSuccess(w, http.StatusOK, apiResponse{URL: publicURL, Message: "Image uploadée avec succès"})
}
