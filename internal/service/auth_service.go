package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"microblogSync/internal/config"
	"microblogSync/internal/security"
)

// AuthService issues the session tokens of the local API. The account id is
// the remote access token, so the claim carries it sealed.
type AuthService interface {
	IssueToken(account string) (string, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
	GetAccountFromToken(tokenString string) (string, error)
}

type authService struct {
	sealer *security.Sealer
	cfg    *config.Config
}

func NewAuthService(sealer *security.Sealer, cfg *config.Config) AuthService {
	return &authService{
		sealer: sealer,
		cfg:    cfg,
	}
}

func (s *authService) IssueToken(account string) (string, error) {
	sealed, err := s.sealer.Seal(account)
	if err != nil {
		return "", fmt.Errorf("ошибка шифрования аккаунта: %w", err)
	}

	claims := jwt.MapClaims{
		"account": sealed,
		"jti":     uuid.New().String(),
		"exp":     time.Now().Add(s.cfg.SessionTokenDuration).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга токена: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("недействительный токен")
	}

	return token, nil
}

func (s *authService) GetAccountFromToken(tokenString string) (string, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("неверный формат claims")
	}

	sealed, ok := claims["account"].(string)
	if !ok || sealed == "" {
		return "", fmt.Errorf("в токене нет аккаунта")
	}

	account, err := s.sealer.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("неверный аккаунт в токене: %w", err)
	}

	return account, nil
}
