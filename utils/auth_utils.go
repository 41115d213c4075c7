package utils

import (
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/visit-point/api-go/apperr"
)

type UserClaims struct {
	UserID uint `json:"user_id"`
}

type contextKey string

const UserContextKey contextKey = "user"

func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if userClaims, ok := user.(*UserClaims); ok {
		return userClaims
	}
	return nil
}

// GenerateAccessToken issues the bearer token used by both the HTTP
// middleware and the websocket subscribe handshake.
func GenerateAccessToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": float64(userID),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// VerifyAccessToken parses a bearer token and returns the claims it carries.
// Both the HTTP auth middleware and the live subscribe handler go through
// this, so a credential means the same thing on every transport.
func VerifyAccessToken(tokenString string) (*UserClaims, error) {
	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !parsedToken.Valid {
		return nil, apperr.ErrUnauthorized.WithMessage("Invalid token")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, apperr.ErrUnauthorized.WithMessage("Invalid token claims")
	}

	return &UserClaims{UserID: uint(userID)}, nil
}
