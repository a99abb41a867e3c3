// Package gmail envía las cotizaciones desde la cuenta de Gmail de cada empresa
// usando el par de tokens OAuth2 que la empresa delegó.
package gmail

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
)

// Config identidad del cliente OAuth2 y endpoints opcionales.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string // vacío = Google
	TokenURL     string // vacío = Google
	APIEndpoint  string // vacío = https://gmail.googleapis.com/
}

// OAuthConfig arma el oauth2.Config con el scope de envío de Gmail.
func (c Config) OAuthConfig() *oauth2.Config {
	endpoint := google.Endpoint
	if c.AuthURL != "" {
		endpoint.AuthURL = c.AuthURL
	}
	if c.TokenURL != "" {
		endpoint.TokenURL = c.TokenURL
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       []string{gmailapi.GmailSendScope},
		Endpoint:     endpoint,
	}
}
