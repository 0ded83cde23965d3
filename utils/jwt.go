package utils

import (
	"errors"
	"time"

	"ecofix/config"
	"ecofix/models"

	"github.com/golang-jwt/jwt"
)

const defaultSecret = "ECOFIX"

func secretKey() []byte {
	if config.AppConfig.JWTSecret == "" {
		return []byte(defaultSecret)
	}
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateToken creates a signed JWT carrying the caller's profile.
// The token expires after the specified duration.
func GenerateToken(profile models.UserProfile, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":    profile.ID,
		"name":   profile.Name,
		"avatar": profile.Avatar,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractProfileFromToken returns the user profile carried by a valid token.
func ExtractProfileFromToken(tokenString string) (models.UserProfile, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.UserProfile{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.UserProfile{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.UserProfile{}, errors.New("token does not contain a valid 'sub' claim")
	}
	name, _ := claims["name"].(string)
	avatar, _ := claims["avatar"].(string)

	return models.UserProfile{ID: sub, Name: name, Avatar: avatar}, nil
}
