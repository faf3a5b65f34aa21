package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrJWTSecretMissing = errors.New("jwt secret is not set")
	ErrRoomMismatch     = errors.New("token is not issued for this room")
)

const DefaultTTL = 24 * time.Hour

// Claims 是房间 token：持有者可以接入 Room 对应的对局。
type Claims struct {
	Room string `json:"room"`
	jwt.RegisteredClaims
}

// Award 为房间签发 token，ttl <= 0 时用 DefaultTTL。
func Award(secret, room string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrJWTSecretMissing
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	claims := &Claims{
		Room: room,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   room,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken 解析并验证 Token。
func ParseToken(secret, tokenStr string) (*jwt.Token, *Claims, error) {
	if secret == "" {
		return nil, nil, ErrJWTSecretMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, nil, err
	}
	if token == nil || !token.Valid {
		return nil, nil, jwt.ErrTokenInvalidClaims
	}
	return token, claims, nil
}

// VerifyRoom 校验 token 属于 room。
func VerifyRoom(secret, tokenStr, room string) error {
	_, claims, err := ParseToken(secret, tokenStr)
	if err != nil {
		return err
	}
	if claims.Room != room {
		return ErrRoomMismatch
	}
	return nil
}
