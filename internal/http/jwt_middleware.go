package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"emotion-insight/internal/service"
)

const clientClaimsKey = "client_claims"

// ClientAuthMiddleware valida el access token del cliente de captura que envía
// observaciones o consulta pronósticos, y deja sus claims en el contexto para
// que el rate limiter y los handlers identifiquen al emisor.
func ClientAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token validation not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		claims, err := jwtSvc.ParseAccessToken(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			// Un token vencido merece un mensaje propio: los clientes de
			// captura renuevan y reintentan, no fallan la integración.
			if errors.Is(err, service.ErrJWTExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			}
			c.Abort()
			return
		}

		c.Set(clientClaimsKey, claims)
		c.Next()
	}
}

// GetClientClaims recupera los claims del cliente autenticado, si los hay.
func GetClientClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(clientClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}
