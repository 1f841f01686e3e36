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

func NewProduitRepository(db *sqlx.DB) model.ProduitRepository {
	return &produitRepository{db: db}
}

type produitRepository struct {
	db *sqlx.DB
}

type produitRow struct {
	ID               string    `db:"id"`
	Nom              string    `db:"nom"`
	Description      string    `db:"description"`
	Prix             float64   `db:"prix"`
	Images           []byte    `db:"images"`
	Categorie        string    `db:"categorie"`
	Stock            int       `db:"stock"`
	Caracteristiques []byte    `db:"caracteristiques"`
	Actif            bool      `db:"actif"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

const produitColumns = `id, nom, description, prix, images, categorie, stock, caracteristiques, actif, created_at, updated_at`

func (r *produitRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *produitRepository) Create(produit *model.Produit) error {
	row, err := toProduitRow(produit)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExec(`
		INSERT INTO produits (id, nom, description, prix, images, categorie, stock, caracteristiques, actif, created_at, updated_at)
		VALUES (:id, :nom, :description, :prix, :images, :categorie, :stock, :caracteristiques, :actif, :created_at, :updated_at)`,
		row)
	return errors.Wrap(err, "failed to insert produit")
}

func (r *produitRepository) Update(produit *model.Produit) error {
	row, err := toProduitRow(produit)
	if err != nil {
		return err
	}

	result, err := r.db.NamedExec(`
		UPDATE produits
		SET nom = :nom, description = :description, prix = :prix, images = :images,
		    categorie = :categorie, stock = :stock, caracteristiques = :caracteristiques,
		    actif = :actif, updated_at = :updated_at
		WHERE id = :id`,
		row)
	if err != nil {
		return errors.Wrap(err, "failed to update produit")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		// either absent or unchanged; distinguish with a lookup
		if _, err := r.Find(produit.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *produitRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM produits WHERE id = ?`, id.String())
	if err != nil {
		return errors.Wrap(err, "failed to delete produit")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return model.ErrProduitNotFound
	}
	return nil
}

func (r *produitRepository) Find(id uuid.UUID) (*model.Produit, error) {
	var row produitRow
	err := r.db.Get(&row, `SELECT `+produitColumns+` FROM produits WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProduitNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query produit")
	}
	return fromProduitRow(row)
}

func (r *produitRepository) List(spec model.ListProduitsSpec) ([]model.Produit, error) {
	var conds []string
	var args []interface{}

	if spec.ActifsOnly {
		conds = append(conds, "actif = 1")
	}
	if spec.Categorie != "" && spec.Categorie != "all" {
		conds = append(conds, "categorie = ?")
		args = append(args, spec.Categorie)
	}
	if spec.Recherche != "" {
		conds = append(conds, "(LOWER(nom) LIKE ? OR LOWER(description) LIKE ?)")
		motif := "%" + strings.ToLower(spec.Recherche) + "%"
		args = append(args, motif, motif)
	}

	query := `SELECT ` + produitColumns + ` FROM produits`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if spec.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, spec.Limit)
	}

	var rows []produitRow
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list produits")
	}

	produits := make([]model.Produit, 0, len(rows))
	for _, row := range rows {
		produit, err := fromProduitRow(row)
		if err != nil {
			return nil, err
		}
		produits = append(produits, *produit)
	}
	return produits, nil
}

func (r *produitRepository) Census() (*model.ProduitCensus, error) {
	var counts struct {
		Total   int `db:"total"`
		Actifs  int `db:"actifs"`
		EnStock int `db:"en_stock"`
	}
	err := r.db.Get(&counts, `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(actif = 1), 0) AS actifs,
		       COALESCE(SUM(stock > 0), 0) AS en_stock
		FROM produits`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count produits")
	}

	return &model.ProduitCensus{
		Total:    counts.Total,
		Actifs:   counts.Actifs,
		EnStock:  counts.EnStock,
		Inactifs: counts.Total - counts.Actifs,
	}, nil
}

func toProduitRow(produit *model.Produit) (produitRow, error) {
	images := produit.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return produitRow{}, errors.Wrap(err, "failed to encode images")
	}
	caracteristiquesJSON, err := json.Marshal(produit.Caracteristiques)
	if err != nil {
		return produitRow{}, errors.Wrap(err, "failed to encode caracteristiques")
	}

	return produitRow{
		ID:               produit.ID.String(),
		Nom:              produit.Nom,
		Description:      produit.Description,
		Prix:             produit.Prix,
		Images:           imagesJSON,
		Categorie:        string(produit.Categorie),
		Stock:            produit.Stock,
		Caracteristiques: caracteristiquesJSON,
		Actif:            produit.Actif,
		CreatedAt:        produit.CreatedAt,
		UpdatedAt:        produit.UpdatedAt,
	}, nil
}

func fromProduitRow(row produitRow) (*model.Produit, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse produit id")
	}

	var images []string
	if err := json.Unmarshal(row.Images, &images); err != nil {
		return nil, errors.Wrap(err, "failed to decode images")
	}
	var caracteristiques model.Caracteristiques
	if err := json.Unmarshal(row.Caracteristiques, &caracteristiques); err != nil {
		return nil, errors.Wrap(err, "failed to decode caracteristiques")
	}

	return &model.Produit{
		ID:               id,
		Nom:              row.Nom,
		Description:      row.Description,
		Prix:             row.Prix,
		Images:           images,
		Categorie:        model.Categorie(row.Categorie),
		Stock:            row.Stock,
		Caracteristiques: caracteristiques,
		Actif:            row.Actif,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}
