package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Ennaciri1/Mon-projet-salon/pkg/cart"
)

const signatureEmail = "\n\n---\nEnvoyé via SalonPro.ma"

// MessageCommande renders the shared confirmation body. The WhatsApp and
// email variants differ only by transport link and the email signature.
func MessageCommande(form Form, items []cart.Item, totalTTC float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🛒 *NOUVELLE %s*\n\n", strings.ToUpper(string(form.TypeCommande)))
	fmt.Fprintf(&b, "👤 *Client:* %s\n", form.Client.Nom)
	fmt.Fprintf(&b, "🏢 *Entreprise:* %s\n", valeurOuDefaut(form.Client.Entreprise, "Non renseigné"))
	fmt.Fprintf(&b, "📞 *Téléphone:* %s\n", form.Client.Telephone)
	fmt.Fprintf(&b, "📧 *Email:* %s\n\n", form.Client.Email)

	b.WriteString("📦 *PRODUITS:*\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s (x%d) - %.2f DH\n",
			item.Produit.Nom, item.Quantite, item.Produit.Prix*float64(item.Quantite))
	}

	fmt.Fprintf(&b, "\n💰 *TOTAL:* %.2f DH TTC\n", totalTTC)

	if form.DateEvenement != "" {
		fmt.Fprintf(&b, "📅 *Date événement:* %s\n", form.DateEvenement)
	}
	if form.LieuEvenement != "" {
		fmt.Fprintf(&b, "📍 *Lieu:* %s\n", form.LieuEvenement)
	}
	if form.MessageClient != "" {
		fmt.Fprintf(&b, "\n💬 *Message:* %s\n", form.MessageClient)
	}

	return b.String()
}

// LienWhatsApp builds the wa.me deep link carrying the message.
func LienWhatsApp(numero, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", numero, escape(message))
}

// LienMailto builds the mailto link for a firm order.
func LienMailto(destinataire, commandeID, corps string) string {
	sujet := fmt.Sprintf("Nouvelle commande #%s", commandeID)
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", destinataire, escape(sujet), escape(corps))
}

// escape percent-encodes for a URL query; unlike url.QueryEscape it encodes
// spaces as %20, which mail clients require in mailto links.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func valeurOuDefaut(v, defaut string) string {
	if v == "" {
		return defaut
	}
	return v
}
