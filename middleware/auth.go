package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token method is valid
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	raw := c.GetHeader("Authorization")
	return strings.TrimPrefix(raw, "Bearer ")
}

// ValidateToken rejects requests without a valid user token.
func ValidateToken(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		c.Abort()
		return
	}

	claims, err := parseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return
	}

	c.Set("user_id", claims["user_id"])
	c.Next()
}

// OptionalToken resolves the user when a valid token is present but lets
// anonymous requests through; cart routes serve both kinds of visitor.
func OptionalToken(c *gin.Context) {
	if tokenString := bearerToken(c); tokenString != "" {
		if claims, err := parseToken(tokenString); err == nil {
			c.Set("user_id", claims["user_id"])
		}
	}
	c.Next()
}

// UserID returns the authenticated user id for the request, or "".
func UserID(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
