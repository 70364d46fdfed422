package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/network-actions-api/internal/middleware"
	"github.com/noah-isme/network-actions-api/internal/models"
	appErrors "github.com/noah-isme/network-actions-api/pkg/errors"
	"github.com/noah-isme/network-actions-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.ClaimsFrom(c)
}

// requireIdentity writes a 401 and returns false when the request carries no identity.
func requireIdentity(c *gin.Context) (models.Identity, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Identity{}, false
	}
	return claims.Identity(), true
}

func bindError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}

// splitList reads a comma separated query value, dropping blanks.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
