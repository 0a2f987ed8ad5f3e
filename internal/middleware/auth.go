package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tapfolio/cardscan-backend/internal/logger"
)

const ownerContextKey = "owner"

// Owner is the authenticated profile owner behind token-issuance and
// usage routes.
type Owner struct {
	ID   uuid.UUID
	Name string
}

type AuthMiddleware struct {
	log          *logger.Logger
	jwtSecretKey string
}

func NewAuthMiddleware(log *logger.Logger, jwtSecretKey string) *AuthMiddleware {
	return &AuthMiddleware{
		log:          log.With("middleware", "AuthMiddleware"),
		jwtSecretKey: jwtSecretKey,
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(am.jwtSecretKey), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		sub, _ := claims["sub"].(string)
		ownerID, err := uuid.Parse(sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		name, _ := claims["name"].(string)

		c.Set(ownerContextKey, Owner{ID: ownerID, Name: name})
		c.Next()
	}
}

func OwnerFromContext(c *gin.Context) (Owner, bool) {
	v, ok := c.Get(ownerContextKey)
	if !ok {
		return Owner{}, false
	}
	owner, ok := v.(Owner)
	return owner, ok
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
