package security

import (
	"errors"
	"time"

	"chat-sync-app/config/common"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("token is not valid")

type JWT struct {
	config *common.Config
}

func NewJWT(config *common.Config) *JWT {
	return &JWT{config: config}
}

// GenerateToken signs a token for userID bound to the session row sessionID.
func (j *JWT) GenerateToken(userID, sessionID string, now time.Time) (string, time.Time, error) {
	secretKey := j.config.GetJwtConfig()
	appName := j.config.GetAppConfig()
	expiresAt := now.Add(j.config.GetJwtTTL())

	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     sessionID,
		"aud":     appName,
		"iss":     appName,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(secretKey)
	return signed, expiresAt, err
}

func (j *JWT) VerifyJwtToken(token string) (jwt.MapClaims, error) {
	secretKey := j.config.GetJwtConfig()

	tokenParse, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))

	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims, ok := tokenParse.Claims.(jwt.MapClaims); ok && tokenParse.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ParseToken returns the user id and session id carried by token.
func (j *JWT) ParseToken(token string) (userID, sessionID string, err error) {
	claims, err := j.VerifyJwtToken(token)
	if err != nil {
		return "", "", err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", ErrInvalidToken
	}
	sessionID, ok = claims["jti"].(string)
	if !ok || sessionID == "" {
		return "", "", ErrInvalidToken
	}

	return userID, sessionID, nil
}
