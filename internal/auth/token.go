package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leon37/Hamhama/internal/model"
)

// ErrInvalidToken 令牌格式错误、签名不符或已过期
var ErrInvalidToken = errors.New("invalid token")

// Claims 令牌载荷：sub=用户名，roles=逗号拼接的 ROLE_* 列表
type Claims struct {
	Roles string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService 签发与校验 HS256 令牌，无状态，不访问存储
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL 令牌有效期
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue 为用户签发令牌
func (s *TokenService) Issue(user *model.User) (string, error) {
	now := s.now()
	claims := Claims{
		Roles: strings.Join(model.Authorities(user.Roles), ","),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt(now, s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// expiresAt exp 按 jwt.TimePrecision 截断，这里向上取整，保证有效期不短于 ttl
func expiresAt(now time.Time, ttl time.Duration) time.Time {
	exp := now.Add(ttl)
	truncated := exp.Truncate(jwt.TimePrecision)
	if truncated.Before(exp) {
		truncated = truncated.Add(jwt.TimePrecision)
	}
	return truncated
}

// Validate 失败即返回 false，从不向认证链路抛错
func (s *TokenService) Validate(tokenString string, user *model.User) bool {
	if user == nil {
		return false
	}
	claims, err := s.parse(tokenString)
	if err != nil {
		return false
	}
	return claims.Subject == user.Username
}

// ExtractSubject 解出用户名，失败时返回 ErrInvalidToken
func (s *TokenService) ExtractSubject(tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// ExtractAuthorities 解出权限列表
func (s *TokenService) ExtractAuthorities(tokenString string) ([]string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Roles == "" {
		return nil, nil
	}
	return strings.Split(claims.Roles, ","), nil
}

func (s *TokenService) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
