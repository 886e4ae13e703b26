package services

import (
	"time"

	"pastry-shop/models"
	"pastry-shop/utils"

	"go.uber.org/zap"
)

type AuthConfig struct {
	JWTSecret         string
	JWTExpiry         time.Duration
	CartSessionExpiry time.Duration
	AdminPasswordHash string
}

// AuthService signs admin tokens and anonymous cart sessions.
type AuthService struct {
	cfg    AuthConfig
	logger *zap.Logger
}

func NewAuthService(cfg AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{cfg: cfg, logger: logger}
}

// AdminLogin checks the shared admin password and returns an admin token.
func (s *AuthService) AdminLogin(req models.AdminLoginRequest) (*models.LoginResponse, error) {
	ok, err := utils.VerifyPassword(s.cfg.AdminPasswordHash, req.Password)
	if err != nil {
		s.logger.Warn("admin password check failed", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.cfg.JWTSecret, utils.RoleAdmin, utils.RoleAdmin, s.cfg.JWTExpiry)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, ExpiresIn: int64(s.cfg.JWTExpiry.Seconds())}, nil
}

// NewCartSession starts a cart and returns its id and signed token.
func (s *AuthService) NewCartSession() (string, string, error) {
	cartID := newCartID()
	token, err := utils.GenerateToken(s.cfg.JWTSecret, cartID, utils.RoleCart, s.cfg.CartSessionExpiry)
	if err != nil {
		return "", "", err
	}
	return cartID, token, nil
}

// ParseToken validates a token and returns its claims.
func (s *AuthService) ParseToken(token string) (*utils.Claims, error) {
	return utils.ValidateToken(s.cfg.JWTSecret, token)
}

func (s *AuthService) CartSessionTTL() time.Duration {
	return s.cfg.CartSessionExpiry
}
