package mysql

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
)

func NewCommandeRepository(db *sqlx.DB) model.CommandeRepository {
	return &commandeRepository{db: db}
}

type commandeRepository struct {
	db *sqlx.DB
}

type commandeRow struct {
	ID                string    `db:"id"`
	ClientNom         string    `db:"client_nom"`
	ClientTelephone   string    `db:"client_telephone"`
	ClientEmail       string    `db:"client_email"`
	ClientEntreprise  string    `db:"client_entreprise"`
	AdresseRue        string    `db:"adresse_rue"`
	AdresseVille      string    `db:"adresse_ville"`
	AdresseCodePostal string    `db:"adresse_code_postal"`
	AdressePays       string    `db:"adresse_pays"`
	TotalHT           float64   `db:"total_ht"`
	TVA               float64   `db:"tva"`
	TotalTTC          float64   `db:"total_ttc"`
	Statut            string    `db:"statut"`
	MessageClient     string    `db:"message_client"`
	NotesInternes     string    `db:"notes_internes"`
	Devis             []byte    `db:"devis"`
	DateEvenement     string    `db:"date_evenement"`
	LieuEvenement     string    `db:"lieu_evenement"`
	Urgence           bool      `db:"urgence"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

type ligneRow struct {
	CommandeID    string  `db:"commande_id"`
	Position      int     `db:"position"`
	ProduitID     string  `db:"produit_id"`
	Nom           string  `db:"nom"`
	Prix          float64 `db:"prix"`
	Quantite      int     `db:"quantite"`
	Options       []byte  `db:"options"`
	ProduitImages []byte  `db:"produit_images"`
}

const commandeColumns = `id, client_nom, client_telephone, client_email, client_entreprise,
	adresse_rue, adresse_ville, adresse_code_postal, adresse_pays,
	total_ht, tva, total_ttc, statut, message_client, notes_internes, devis,
	date_evenement, lieu_evenement, urgence, created_at, updated_at`

func (r *commandeRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

// Create inserts the order and its lines in one transaction. Product
// references were resolved by the caller beforehand, outside this
// transaction: a product deleted between that validation and this insert is
// not re-checked.
func (r *commandeRepository) Create(commande *model.Commande) error {
	row, err := toCommandeRow(commande)
	if err != nil {
		return err
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`
		INSERT INTO commandes (id, client_nom, client_telephone, client_email, client_entreprise,
			adresse_rue, adresse_ville, adresse_code_postal, adresse_pays,
			total_ht, tva, total_ttc, statut, message_client, notes_internes, devis,
			date_evenement, lieu_evenement, urgence, created_at, updated_at)
		VALUES (:id, :client_nom, :client_telephone, :client_email, :client_entreprise,
			:adresse_rue, :adresse_ville, :adresse_code_postal, :adresse_pays,
			:total_ht, :tva, :total_ttc, :statut, :message_client, :notes_internes, :devis,
			:date_evenement, :lieu_evenement, :urgence, :created_at, :updated_at)`,
		row)
	if err != nil {
		return errors.Wrap(err, "failed to insert commande")
	}

	for position, ligne := range commande.Produits {
		optionsJSON, err := json.Marshal(ligne.Options)
		if err != nil {
			return errors.Wrap(err, "failed to encode options")
		}
		_, err = tx.Exec(`
			INSERT INTO commande_lignes (commande_id, position, produit_id, nom, prix, quantite, options)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			commande.ID.String(), position, ligne.ProduitID.String(), ligne.Nom, ligne.Prix, ligne.Quantite, optionsJSON)
		if err != nil {
			return errors.Wrap(err, "failed to insert commande ligne")
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit commande")
}

// Update only touches the admin-mutable fields; order lines are immutable
// snapshots.
func (r *commandeRepository) Update(commande *model.Commande) error {
	row, err := toCommandeRow(commande)
	if err != nil {
		return err
	}

	result, err := r.db.NamedExec(`
		UPDATE commandes
		SET statut = :statut, notes_internes = :notes_internes, devis = :devis, updated_at = :updated_at
		WHERE id = :id`,
		row)
	if err != nil {
		return errors.Wrap(err, "failed to update commande")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		if _, err := r.findRow(commande.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *commandeRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM commandes WHERE id = ?`, id.String())
	if err != nil {
		return errors.Wrap(err, "failed to delete commande")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return model.ErrCommandeNotFound
	}
	return nil
}

func (r *commandeRepository) Find(id uuid.UUID) (*model.Commande, error) {
	row, err := r.findRow(id)
	if err != nil {
		return nil, err
	}

	commande, err := fromCommandeRow(*row)
	if err != nil {
		return nil, err
	}
	if err := r.loadLignes([]*model.Commande{commande}); err != nil {
		return nil, err
	}
	return commande, nil
}

func (r *commandeRepository) findRow(id uuid.UUID) (*commandeRow, error) {
	var row commandeRow
	err := r.db.Get(&row, `SELECT `+commandeColumns+` FROM commandes WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCommandeNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query commande")
	}
	return &row, nil
}

func (r *commandeRepository) List(spec model.ListCommandesSpec) ([]model.Commande, int, error) {
	var conds []string
	var args []interface{}

	if spec.Statut != "" && spec.Statut != "all" {
		conds = append(conds, "statut = ?")
		args = append(args, spec.Statut)
	}
	if spec.From != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *spec.From)
	}
	if spec.To != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, *spec.To)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM commandes`+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count commandes")
	}

	query := `SELECT ` + commandeColumns + ` FROM commandes` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	pageArgs := append(append([]interface{}{}, args...), spec.Limit, (spec.Page-1)*spec.Limit)

	var rows []commandeRow
	if err := r.db.Select(&rows, query, pageArgs...); err != nil {
		return nil, 0, errors.Wrap(err, "failed to list commandes")
	}

	commandes, err := r.hydrate(rows)
	if err != nil {
		return nil, 0, err
	}
	return commandes, total, nil
}

func (r *commandeRepository) ListBetween(from, to *time.Time) ([]model.Commande, error) {
	var conds []string
	var args []interface{}
	if from != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *from)
	}
	if to != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, *to)
	}

	query := `SELECT ` + commandeColumns + ` FROM commandes`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var rows []commandeRow
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list commandes for export")
	}
	return r.hydrate(rows)
}

func (r *commandeRepository) StatutBreakdown() ([]model.StatutBreakdown, error) {
	var rows []struct {
		Statut   string  `db:"statut"`
		Count    int     `db:"count"`
		TotalTTC float64 `db:"total"`
	}
	err := r.db.Select(&rows, `
		SELECT statut, COUNT(*) AS count, COALESCE(SUM(total_ttc), 0) AS total
		FROM commandes
		GROUP BY statut`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate statuts")
	}

	breakdown := make([]model.StatutBreakdown, 0, len(rows))
	for _, row := range rows {
		breakdown = append(breakdown, model.StatutBreakdown{
			Statut:   model.Statut(row.Statut),
			Count:    row.Count,
			TotalTTC: row.TotalTTC,
		})
	}
	return breakdown, nil
}

func (r *commandeRepository) Stats(now time.Time) (*model.CommandeStats, error) {
	debutMois := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	debutTendance := debutMois.AddDate(-1, 0, 0)

	stats := &model.CommandeStats{}

	var global struct {
		Count int     `db:"count"`
		Total float64 `db:"total"`
	}
	err := r.db.Get(&global, `SELECT COUNT(*) AS count, COALESCE(SUM(total_ttc), 0) AS total FROM commandes`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate commandes")
	}
	stats.TotalCommandes = global.Count
	stats.ChiffreAffairesTotal = global.Total
	if global.Count > 0 {
		stats.PanierMoyen = global.Total / float64(global.Count)
	}

	var mois struct {
		Count int     `db:"count"`
		Total float64 `db:"total"`
	}
	err = r.db.Get(&mois, `
		SELECT COUNT(*) AS count, COALESCE(SUM(total_ttc), 0) AS total
		FROM commandes
		WHERE created_at >= ?`, debutMois)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate current month")
	}
	stats.CommandesMoisActuel = mois.Count
	stats.ChiffreAffairesMois = mois.Total

	breakdown, err := r.StatutBreakdown()
	if err != nil {
		return nil, err
	}
	stats.RepartitionStatuts = breakdown

	var tendance []struct {
		Annee           int     `db:"annee"`
		Mois            int     `db:"mois"`
		Commandes       int     `db:"commandes"`
		ChiffreAffaires float64 `db:"chiffre_affaires"`
	}
	err = r.db.Select(&tendance, `
		SELECT YEAR(created_at) AS annee, MONTH(created_at) AS mois,
		       COUNT(*) AS commandes, COALESCE(SUM(total_ttc), 0) AS chiffre_affaires
		FROM commandes
		WHERE created_at >= ?
		GROUP BY annee, mois
		ORDER BY annee, mois`, debutTendance)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate monthly trend")
	}
	for _, point := range tendance {
		stats.EvolutionMensuelle = append(stats.EvolutionMensuelle, model.PointMensuel{
			Annee:           point.Annee,
			Mois:            point.Mois,
			Commandes:       point.Commandes,
			ChiffreAffaires: point.ChiffreAffaires,
		})
	}

	var clients []struct {
		Email     string  `db:"email"`
		Nom       string  `db:"nom"`
		Commandes int     `db:"commandes"`
		Total     float64 `db:"total"`
	}
	err = r.db.Select(&clients, `
		SELECT client_email AS email, MIN(client_nom) AS nom,
		       COUNT(*) AS commandes, COALESCE(SUM(total_ttc), 0) AS total
		FROM commandes
		GROUP BY client_email
		ORDER BY total DESC
		LIMIT 5`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate top clients")
	}
	for _, client := range clients {
		stats.TopClients = append(stats.TopClients, model.TopClient{
			Email:     client.Email,
			Nom:       client.Nom,
			Commandes: client.Commandes,
			Total:     client.Total,
		})
	}

	var produits []struct {
		ProduitID string  `db:"produit_id"`
		Nom       string  `db:"nom"`
		Quantite  int     `db:"quantite"`
		Revenus   float64 `db:"revenus"`
	}
	err = r.db.Select(&produits, `
		SELECT produit_id, MIN(nom) AS nom, SUM(quantite) AS quantite,
		       COALESCE(SUM(prix * quantite), 0) AS revenus
		FROM commande_lignes
		GROUP BY produit_id
		ORDER BY quantite DESC
		LIMIT 5`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate top produits")
	}
	for _, produit := range produits {
		id, err := uuid.Parse(produit.ProduitID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse produit id")
		}
		stats.TopProduits = append(stats.TopProduits, model.TopProduit{
			ProduitID: id,
			Nom:       produit.Nom,
			Quantite:  produit.Quantite,
			Revenus:   produit.Revenus,
		})
	}

	return stats, nil
}

func (r *commandeRepository) hydrate(rows []commandeRow) ([]model.Commande, error) {
	commandes := make([]model.Commande, 0, len(rows))
	refs := make([]*model.Commande, 0, len(rows))
	for _, row := range rows {
		commande, err := fromCommandeRow(row)
		if err != nil {
			return nil, err
		}
		commandes = append(commandes, *commande)
		refs = append(refs, &commandes[len(commandes)-1])
	}
	if err := r.loadLignes(refs); err != nil {
		return nil, err
	}
	return commandes, nil
}

// loadLignes attaches order lines, with current catalogue images joined on as
// a display snapshot.
func (r *commandeRepository) loadLignes(commandes []*model.Commande) error {
	if len(commandes) == 0 {
		return nil
	}

	ids := make([]string, 0, len(commandes))
	parID := make(map[string]*model.Commande, len(commandes))
	for _, commande := range commandes {
		ids = append(ids, commande.ID.String())
		parID[commande.ID.String()] = commande
	}

	query, args, err := sqlx.In(`
		SELECT l.commande_id, l.position, l.produit_id, l.nom, l.prix, l.quantite, l.options,
		       p.images AS produit_images
		FROM commande_lignes l
		LEFT JOIN produits p ON p.id = l.produit_id
		WHERE l.commande_id IN (?)
		ORDER BY l.commande_id, l.position`, ids)
	if err != nil {
		return errors.Wrap(err, "failed to build lignes query")
	}

	var rows []ligneRow
	if err := r.db.Select(&rows, r.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "failed to load commande lignes")
	}

	for _, row := range rows {
		commande, ok := parID[row.CommandeID]
		if !ok {
			continue
		}

		produitID, err := uuid.Parse(row.ProduitID)
		if err != nil {
			return errors.Wrap(err, "failed to parse produit id")
		}

		var options model.OptionsLigne
		if err := json.Unmarshal(row.Options, &options); err != nil {
			return errors.Wrap(err, "failed to decode options")
		}

		var images []string
		if len(row.ProduitImages) > 0 {
			if err := json.Unmarshal(row.ProduitImages, &images); err != nil {
				return errors.Wrap(err, "failed to decode produit images")
			}
		}

		commande.Produits = append(commande.Produits, model.LigneCommande{
			ProduitID:     produitID,
			Nom:           row.Nom,
			Prix:          row.Prix,
			Quantite:      row.Quantite,
			Options:       options,
			ProduitImages: images,
		})
	}
	return nil
}

func toCommandeRow(commande *model.Commande) (commandeRow, error) {
	var devisJSON []byte
	if commande.Devis != nil {
		var err error
		devisJSON, err = json.Marshal(commande.Devis)
		if err != nil {
			return commandeRow{}, errors.Wrap(err, "failed to encode devis")
		}
	}

	return commandeRow{
		ID:                commande.ID.String(),
		ClientNom:         commande.Client.Nom,
		ClientTelephone:   commande.Client.Telephone,
		ClientEmail:       commande.Client.Email,
		ClientEntreprise:  commande.Client.Entreprise,
		AdresseRue:        commande.Client.Adresse.Rue,
		AdresseVille:      commande.Client.Adresse.Ville,
		AdresseCodePostal: commande.Client.Adresse.CodePostal,
		AdressePays:       commande.Client.Adresse.Pays,
		TotalHT:           commande.TotalHT,
		TVA:               commande.TVA,
		TotalTTC:          commande.TotalTTC,
		Statut:            string(commande.Statut),
		MessageClient:     commande.MessageClient,
		NotesInternes:     commande.NotesInternes,
		Devis:             devisJSON,
		DateEvenement:     commande.DateEvenement,
		LieuEvenement:     commande.LieuEvenement,
		Urgence:           commande.Urgence,
		CreatedAt:         commande.CreatedAt,
		UpdatedAt:         commande.UpdatedAt,
	}, nil
}

func fromCommandeRow(row commandeRow) (*model.Commande, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse commande id")
	}

	var devis *model.Devis
	if len(row.Devis) > 0 {
		devis = &model.Devis{}
		if err := json.Unmarshal(row.Devis, devis); err != nil {
			return nil, errors.Wrap(err, "failed to decode devis")
		}
	}

	return &model.Commande{
		ID: id,
		Client: model.Client{
			Nom:        row.ClientNom,
			Telephone:  row.ClientTelephone,
			Email:      row.ClientEmail,
			Entreprise: row.ClientEntreprise,
			Adresse: model.Adresse{
				Rue:        row.AdresseRue,
				Ville:      row.AdresseVille,
				CodePostal: row.AdresseCodePostal,
				Pays:       row.AdressePays,
			},
		},
		TotalHT:       row.TotalHT,
		TVA:           row.TVA,
		TotalTTC:      row.TotalTTC,
		Statut:        model.Statut(row.Statut),
		MessageClient: row.MessageClient,
		NotesInternes: row.NotesInternes,
		Devis:         devis,
		DateEvenement: row.DateEvenement,
		LieuEvenement: row.LieuEvenement,
		Urgence:       row.Urgence,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}
