package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL используется, когда Issue вызван с ttl <= 0.
const DefaultTokenTTL = 30 * time.Minute

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
	ErrMissingToken = fmt.Errorf("%w: missing token", ErrInvalidToken)
)

// Identity — аутентифицированный вызывающий.
type Identity struct {
	Username string
	ID       uint
}

// Claims: sub — имя пользователя, id — его id.
type Claims struct {
	jwt.RegisteredClaims
	UserID uint `json:"id"`
}

// Issuer подписывает и проверяет HS256-токены. Ключ задаётся один раз при старте.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type IssuerOption func(*Issuer)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) { i.now = now }
}

func NewIssuer(secret string, ttl time.Duration, opts ...IssuerOption) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	i := &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(i)
	}
	return i, nil
}

// TTL — срок жизни токенов, выдаваемых при логине.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue подписывает токен для id. Время в JWT хранится с точностью до
// секунды, поэтому момент выдачи округляется вниз: токен действует в
// [iat, iat+ttl), где iat — начало текущей секунды.
func (i *Issuer) Issue(id Identity, ttl time.Duration) (string, error) {
	if id.Username == "" || id.ID == 0 {
		return "", errors.New("identity must carry username and id")
	}
	if ttl <= 0 {
		ttl = i.ttl
	}
	now := i.now().Truncate(time.Second)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: id.ID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify возвращает личность из raw. Существование пользователя не проверяет.
func (i *Issuer) Verify(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrMissingToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return Identity{}, fmt.Errorf("%w: required claims absent", ErrInvalidToken)
	}
	return Identity{Username: claims.Subject, ID: claims.UserID}, nil
}
