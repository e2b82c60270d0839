package middleware

import (
	"net/http"
	"os"
	"strings"

	"jobsite-api/models"
	"jobsite-api/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the JWT and resolves the session user against the
// mirror. The session is stored in the gin context and passed explicitly to
// the operations that need an actor.
func AuthMiddleware(data *services.DataContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		// The user must still exist; a token for a removed account is dead.
		user, err := data.UserByID(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		c.Set("session", services.Session{UserID: user.UserID})
		c.Set("userID", user.UserID)
		c.Set("role", user.Role)
		c.Next()
	}
}

// RequireAdmin allows only users with the admin role class through.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role.(string) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// SessionFrom extracts the session placed by AuthMiddleware. Routes outside
// the auth group get a zero session, which no user id matches.
func SessionFrom(c *gin.Context) services.Session {
	if v, exists := c.Get("session"); exists {
		if sess, ok := v.(services.Session); ok {
			return sess
		}
	}
	return services.Session{}
}
