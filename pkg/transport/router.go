package transport

import (
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/auth"
	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/service"
)

// Config carries the transport-level switches. PublicOrderList deliberately
// exposes GET /api/commandes without a token; off by default, the listing
// requires the admin token like its /api/admin twin.
type Config struct {
	UploadDir       string
	PublicOrderList bool
}

type Handler struct {
	catalog   service.CatalogService
	commandes service.CommandeService
	auth      *auth.Service
	cfg       Config
}

func NewHandler(catalog service.CatalogService, commandes service.CommandeService, authService *auth.Service, cfg Config) *Handler {
	return &Handler{catalog: catalog, commandes: commandes, auth: authService, cfg: cfg}
}

func Router(h *Handler) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/produits", h.listProduits).Methods(http.MethodGet)
	api.HandleFunc("/produits", h.adminOnly(h.createProduit)).Methods(http.MethodPost)
	api.HandleFunc("/produits/{id}", h.getProduit).Methods(http.MethodGet)

	api.HandleFunc("/commandes", h.createCommande).Methods(http.MethodPost)
	api.HandleFunc("/commandes", h.listRecentCommandes).Methods(http.MethodGet)

	// registered before the guarded subtree so the credential exchange and
	// token check stay reachable without a valid token
	api.HandleFunc("/admin/auth", h.adminLogin).Methods(http.MethodPost)
	api.HandleFunc("/admin/auth", h.adminIdentity).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(h.adminMiddleware)
	admin.HandleFunc("/produits", h.listTousProduits).Methods(http.MethodGet)
	admin.HandleFunc("/produits", h.createProduit).Methods(http.MethodPost)
	admin.HandleFunc("/produits/{id}", h.getProduit).Methods(http.MethodGet)
	admin.HandleFunc("/produits/{id}", h.updateProduit).Methods(http.MethodPut)
	admin.HandleFunc("/produits/{id}", h.deleteProduit).Methods(http.MethodDelete)
	admin.HandleFunc("/stats", h.dashboardStats).Methods(http.MethodGet)
	admin.HandleFunc("/commandes", h.listCommandesAdmin).Methods(http.MethodGet)
	admin.HandleFunc("/commandes/stats", h.commandeStats).Methods(http.MethodGet)
	admin.HandleFunc("/commandes/export", h.exportCommandes).Methods(http.MethodGet)
	admin.HandleFunc("/commandes/{id}", h.getCommande).Methods(http.MethodGet)
	admin.HandleFunc("/commandes/{id}", h.updateCommande).Methods(http.MethodPut)
	admin.HandleFunc("/commandes/{id}", h.deleteCommande).Methods(http.MethodDelete)
	admin.HandleFunc("/upload", h.uploadImage).Methods(http.MethodPost)

	if h.cfg.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/",
			http.FileServer(http.Dir(filepath.Dir(h.cfg.UploadDir)))))
	}

	return logMiddleware(r)
}
