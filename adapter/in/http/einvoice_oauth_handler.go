// Package http contains the fiber inbound adapters: the OAuth consent
// flow, the Gmail push webhook, and health endpoints.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"einvoice_server/core/domain"
	"einvoice_server/core/port/out"
	"einvoice_server/core/service/auth"
	"einvoice_server/core/service/ingest"
	"einvoice_server/pkg/apperr"
	"einvoice_server/pkg/logger"
)

type OAuthHandler struct {
	oauthService *auth.OAuthService
	mail         out.MailProviderPort
	bindings     out.BindingRepositoryPort
	resolver     *ingest.DestinationResolver
	topic        string
	folderName   string
}

func NewOAuthHandler(
	oauthService *auth.OAuthService,
	mail out.MailProviderPort,
	bindings out.BindingRepositoryPort,
	resolver *ingest.DestinationResolver,
	topic, folderName string,
) *OAuthHandler {
	return &OAuthHandler{
		oauthService: oauthService,
		mail:         mail,
		bindings:     bindings,
		resolver:     resolver,
		topic:        topic,
		folderName:   folderName,
	}
}

func (h *OAuthHandler) Register(app fiber.Router) {
	app.Get("/oauth2init", h.Init)
	app.Get("/oauth2callback", h.Callback)
	app.Get("/initWatch", h.InitWatch)
}

// generateState builds a random state token for the consent round trip.
func generateState() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Init redirects the browser to the Google consent screen.
func (h *OAuthHandler) Init(c *fiber.Ctx) error {
	state, err := generateState()
	if err != nil {
		logger.WithError(err).Error("[OAuth Init] state generation failed")
		return ErrorResponse(c, fiber.StatusInternalServerError, "failed to start oauth flow")
	}
	return c.Redirect(h.oauthService.AuthURL(state), fiber.StatusFound)
}

// Callback exchanges the authorization code, stores the grant and sends
// the browser on to watch registration for the resolved address.
func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "missing authorization code")
	}

	email, err := h.oauthService.HandleCallback(c.Context(), code)
	if err != nil {
		logger.WithError(err).Error("[OAuth Callback] exchange failed")
		return ErrorResponse(c, apperr.GetHTTPStatus(err), "oauth exchange failed")
	}

	return c.Redirect("/initWatch?emailAddress="+url.QueryEscape(email), fiber.StatusFound)
}

// InitWatch registers the Gmail push watch for the given address and
// creates its Drive folder binding. An unknown address is bounced back
// to the consent screen.
func (h *OAuthHandler) InitWatch(c *fiber.Ctx) error {
	email := c.Query("emailAddress")
	if email == "" || !strings.Contains(email, "@") {
		return ErrorResponse(c, fiber.StatusBadRequest, "invalid emailAddress")
	}

	ctx := c.Context()

	token, err := h.oauthService.GetValidToken(ctx, email)
	if err != nil {
		if apperr.IsUnknownUser(err) || apperr.HasCode(err, apperr.CodeTokenExpired) {
			return c.Redirect("/oauth2init", fiber.StatusFound)
		}
		logger.WithError(err).Error("[InitWatch] token lookup failed for %s", email)
		return ErrorResponse(c, apperr.GetHTTPStatus(err), "credential lookup failed")
	}

	expiration, err := h.mail.Watch(ctx, token, h.topic)
	if err != nil {
		logger.WithError(err).Error("[InitWatch] watch registration failed for %s", email)
		return ErrorResponse(c, apperr.GetHTTPStatus(err), "watch registration failed")
	}

	folderID, err := h.resolver.ResolveFolder(ctx, token, h.folderName)
	if err != nil {
		logger.WithError(err).Error("[InitWatch] folder resolution failed for %s", email)
		return ErrorResponse(c, apperr.GetHTTPStatus(err), "folder resolution failed")
	}

	binding := &domain.FolderBinding{
		Email:      email,
		FolderName: h.folderName,
		FolderID:   folderID,
		UpdatedAt:  time.Now(),
	}
	if err := h.bindings.Upsert(ctx, binding); err != nil {
		logger.WithError(err).Error("[InitWatch] binding upsert failed for %s", email)
		return ErrorResponse(c, fiber.StatusInternalServerError, "binding persist failed")
	}

	logger.Info("[InitWatch] watch active for %s until %s, folder %s", email, expiration.Format(time.RFC3339), folderID)
	return c.SendString(fmt.Sprintf("Watching inbox of %s (expires %s)", email, expiration.Format(time.RFC3339)))
}
