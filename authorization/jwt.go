package authorization

import (
	"fmt"
	"os"
	"time"

	"github.com/cristalhq/jwt/v4"
)

const (
	AccessTokenDuration  = 5 * time.Minute
	RefreshTokenDuration = 30 * 24 * time.Hour
)

// Claims carried by both token kinds. Only the user id travels in the
// token; role and accommodation are resolved from the live user record
// on every request.
type Claims struct {
	ID        string `json:"id"`
	ExpiresAt int64  `json:"exp"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}

func accessKey() []byte {
	return []byte(os.Getenv("ACCESS_TOKEN_SECRET"))
}

func refreshKey() []byte {
	return []byte(os.Getenv("REFRESH_TOKEN_SECRET"))
}

func generateToken(userID string, key []byte, duration time.Duration) (string, error) {
	signer, err := jwt.NewSignerHS(jwt.HS256, key)
	if err != nil {
		return "", err
	}

	claims := &Claims{
		ID:        userID,
		ExpiresAt: time.Now().Add(duration).Unix(),
	}

	token, err := jwt.NewBuilder(signer).Build(claims)
	if err != nil {
		return "", err
	}

	return token.String(), nil
}

// GenerateTokenPair issues a short-lived access token and a long-lived
// refresh token for the given user id.
func GenerateTokenPair(userID string) (*TokenPair, error) {
	accessToken, err := generateToken(userID, accessKey(), AccessTokenDuration)
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateToken(userID, refreshKey(), RefreshTokenDuration)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func verifyToken(tokenString string, key []byte) (*Claims, error) {
	verifier, err := jwt.NewVerifierHS(jwt.HS256, key)
	if err != nil {
		return nil, err
	}

	var claims Claims
	err = jwt.ParseClaims([]byte(tokenString), verifier, &claims)
	if err != nil {
		return nil, err
	}

	if claims.ID == "" {
		return nil, fmt.Errorf("token has no user id")
	}

	if time.Now().Unix() >= claims.ExpiresAt {
		return nil, fmt.Errorf("token is expired")
	}

	return &claims, nil
}

func VerifyAccessToken(tokenString string) (*Claims, error) {
	return verifyToken(tokenString, accessKey())
}

func VerifyRefreshToken(tokenString string) (*Claims, error) {
	return verifyToken(tokenString, refreshKey())
}
