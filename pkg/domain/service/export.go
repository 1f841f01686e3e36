package service

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/domain/model"
)

var csvHeader = []string{
	"ID Commande",
	"Date",
	"Client",
	"Email",
	"Téléphone",
	"Entreprise",
	"Total HT",
	"TVA",
	"Total TTC",
	"Statut",
	"Nb Produits",
}

// WriteCommandesCSV writes one semicolon-separated row per order, dates in
// dd/mm/yyyy.
func WriteCommandesCSV(w io.Writer, commandes []model.Commande) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, commande := range commandes {
		record := []string{
			commande.ID.String(),
			commande.CreatedAt.Format("02/01/2006"),
			commande.Client.Nom,
			commande.Client.Email,
			commande.Client.Telephone,
			commande.Client.Entreprise,
			fmt.Sprintf("%.2f", commande.TotalHT),
			formatTVA(commande.TVA),
			fmt.Sprintf("%.2f", commande.TotalTTC),
			string(commande.Statut),
			fmt.Sprintf("%d", len(commande.Produits)),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatTVA(tva float64) string {
	if tva == float64(int(tva)) {
		return fmt.Sprintf("%d", int(tva))
	}
	return fmt.Sprintf("%g", tva)
}
