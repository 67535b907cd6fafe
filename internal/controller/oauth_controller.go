// FILE: internal/controller/oauth_controller.go
package controller

import (
	"nexusai-be/internal/config"
	"nexusai-be/internal/pkg/serverutils"
	"nexusai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	GetProviders(ctx *fiber.Ctx) error
	RedirectToProvider(ctx *fiber.Ctx) error
	HandleCallback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service   service.IOAuthService
	clientURL string
}

func NewOAuthController(service service.IOAuthService, cfg *config.Config) IOAuthController {
	return &oauthController{
		service:   service,
		clientURL: cfg.App.ClientURL,
	}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	// /providers must register before the :provider wildcard.
	h.Get("/providers", c.GetProviders)
	h.Get("/:provider/callback", c.HandleCallback)
	h.Get("/:provider", c.RedirectToProvider)
}

func (c *oauthController) GetProviders(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Available providers", c.service.GetProviders()))
}

func (c *oauthController) RedirectToProvider(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")

	url, err := c.service.GetLoginURL(provider)
	if err != nil {
		return err
	}
	return ctx.Redirect(url, fiber.StatusTemporaryRedirect)
}

// HandleCallback finishes the provider round-trip and hands the token back
// to the frontend via redirect, the way browser OAuth flows expect.
func (c *oauthController) HandleCallback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")
	state := ctx.Query("state")

	if code == "" {
		return ctx.Redirect(c.clientURL+"/auth/callback?error=missing_code", fiber.StatusTemporaryRedirect)
	}

	res, err := c.service.HandleCallback(ctx.Context(), provider, code, state)
	if err != nil {
		return ctx.Redirect(c.clientURL+"/auth/callback?error=oauth_failed", fiber.StatusTemporaryRedirect)
	}

	return ctx.Redirect(c.clientURL+"/auth/callback?token="+res.Token, fiber.StatusTemporaryRedirect)
}
