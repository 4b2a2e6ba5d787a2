// Package auth implements the Google OAuth consent flow and token
// lifecycle for watched mailboxes.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"einvoice_server/adapter/out/persistence"
	"einvoice_server/core/domain"
	"einvoice_server/core/port/out"
	"einvoice_server/pkg/apperr"
	"einvoice_server/pkg/logger"
)

// Scopes requested from Google: read mail, write sheets, and create
// app-owned Drive files.
var googleScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive.file",
}

// NewGoogleConfig builds the oauth2 config shared by the service and
// the Google API adapters.
func NewGoogleConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       googleScopes,
		Endpoint:     google.Endpoint,
	}
}

type OAuthService struct {
	config    *oauth2.Config
	tokenRepo out.TokenRepositoryPort
	mail      out.MailProviderPort
}

func NewOAuthService(config *oauth2.Config, tokenRepo out.TokenRepositoryPort, mail out.MailProviderPort) *OAuthService {
	return &OAuthService{
		config:    config,
		tokenRepo: tokenRepo,
		mail:      mail,
	}
}

// AuthURL builds the consent URL. Offline access with forced approval so
// Google always returns a refresh token.
func (s *OAuthService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// HandleCallback exchanges the authorization code, resolves the account
// address via the Gmail profile, persists the grant, and returns the
// address.
func (s *OAuthService) HandleCallback(ctx context.Context, code string) (string, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return "", apperr.OAuthFailed("google", err)
	}

	email, err := s.mail.GetProfileEmail(ctx, token)
	if err != nil {
		return "", apperr.OAuthFailed("google", err)
	}
	logger.Info("[OAuthService.HandleCallback] grant stored for %s", email)

	if err := s.SaveToken(ctx, email, token); err != nil {
		return "", err
	}
	return email, nil
}

// SaveToken upserts a grant. An empty refresh token keeps the previously
// stored one (Google omits it on repeat consent without prompt=consent).
func (s *OAuthService) SaveToken(ctx context.Context, email string, token *oauth2.Token) error {
	entity := &domain.OAuthToken{
		Email:        email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
		UpdatedAt:    time.Now(),
	}
	if entity.RefreshToken == "" {
		if existing, err := s.tokenRepo.Get(ctx, email); err == nil {
			entity.RefreshToken = existing.RefreshToken
		}
	}
	if err := s.tokenRepo.Upsert(ctx, entity); err != nil {
		return apperr.DatabaseError("upsert token", err)
	}
	return nil
}

// GetValidToken loads the stored grant for email, refreshing and
// re-persisting it when it expires within 5 minutes. A missing grant is
// UnknownUser.
func (s *OAuthService) GetValidToken(ctx context.Context, email string) (*oauth2.Token, error) {
	entity, err := s.tokenRepo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, apperr.UnknownUser(email)
		}
		return nil, apperr.DatabaseError("get token", err)
	}

	token := &oauth2.Token{
		AccessToken:  entity.AccessToken,
		RefreshToken: entity.RefreshToken,
		TokenType:    entity.TokenType,
		Expiry:       entity.Expiry,
	}
	if time.Until(token.Expiry) >= 5*time.Minute {
		return token, nil
	}

	fresh, err := s.config.TokenSource(ctx, token).Token()
	if err != nil {
		if isGrantRevoked(err) {
			logger.Warn("[OAuthService.GetValidToken] grant revoked for %s, dropping stored token", email)
			if delErr := s.tokenRepo.Delete(ctx, email); delErr != nil {
				logger.Error("[OAuthService.GetValidToken] failed to drop token for %s: %v", email, delErr)
			}
			return nil, apperr.TokenExpired(email)
		}
		return nil, apperr.OAuthFailed("google", err)
	}

	if fresh.AccessToken != token.AccessToken {
		if err := s.SaveToken(ctx, email, fresh); err != nil {
			logger.Warn("[OAuthService.GetValidToken] failed to persist refreshed token for %s: %v", email, err)
		}
	}
	return fresh, nil
}

// isGrantRevoked checks if the error indicates a permanently invalid grant.
func isGrantRevoked(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "invalid_client") ||
		strings.Contains(errStr, "invalid_grant") ||
		strings.Contains(errStr, "Token has been expired or revoked") ||
		strings.Contains(errStr, "Token has been revoked")
}
