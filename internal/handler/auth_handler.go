package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/pkg/response"
)

type tokenIssuer interface {
	Issue(req models.IssueTokenRequest) (*models.TokenResponse, error)
}

// AuthHandler issues development tokens and echoes the caller's identity.
type AuthHandler struct {
	tokens tokenIssuer
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(tokens tokenIssuer) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// IssueToken godoc
// @Summary Issue access token
// @Description Sign a token for an identity. Mounted outside production only.
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.IssueTokenRequest true "Identity"
// @Success 201 {object} response.Envelope
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req models.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	token, err := h.tokens.Issue(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, token)
}

// Me godoc
// @Summary Current identity
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, identity, nil)
}
