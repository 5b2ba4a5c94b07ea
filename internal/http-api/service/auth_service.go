package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/naamyuvraj/opensource-study-materials/internal/config"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/middleware/auth"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/models"
	"github.com/naamyuvraj/opensource-study-materials/internal/http-api/repository"
)

var (
	ErrEmailInUse          = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrExpiredRefreshToken = errors.New("refresh token expired")
)

// Claims is the decoded access token payload handlers read from the request
// context.
type Claims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Role   string   `json:"role"`
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// scopesForRole maps a profile role to the scopes minted into its tokens.
func scopesForRole(role string) []string {
	switch role {
	case "admin":
		return []string{"catalog:read", "catalog:rate", "catalog:write", "catalog:delete", "admin:*"}
	default:
		return []string{"catalog:read", "catalog:rate"}
	}
}

type AuthService interface {
	Register(email, password string, fullName *string) (*models.Profile, error)
	Login(email, password string) (accessToken, refreshToken string, profile *models.Profile, err error)
	RefreshAccessToken(refreshToken string) (newAccessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
	AccessTokenTTL() time.Duration
}

type authService struct {
	profileRepo      repository.ProfileRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

func NewAuthService(
	profileRepo repository.ProfileRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		profileRepo:      profileRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
	}
}

func (s *authService) AccessTokenTTL() time.Duration {
	return s.accessTokenTTL
}

func (s *authService) Register(email, password string, fullName *string) (*models.Profile, error) {
	if _, err := s.profileRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailInUse
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:       uuid.New().String(),
		Email:    email,
		FullName: fullName,
		Password: hashedPassword,
		Role:     "user",
	}
	if err := s.profileRepo.Create(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *authService) Login(email, password string) (string, string, *models.Profile, error) {
	profile, err := s.profileRepo.FindByEmail(email)
	if err != nil {
		// Dummy compare keeps the unknown-email path on the bcrypt timing.
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(profile.Password, password); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateAccessToken(profile)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken, err := s.generateRefreshToken(profile)
	if err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, profile, nil
}

func (s *authService) generateAccessToken(profile *models.Profile) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: profile.ID,
		Email:  profile.Email,
		Role:   profile.Role,
		Scopes: scopesForRole(profile.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   profile.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(profile *models.Profile) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		ProfileID: profile.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(refreshToken); err != nil {
		return "", err
	}
	return refreshToken.Token, nil
}

func (s *authService) RefreshAccessToken(refreshTokenString string) (string, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(refreshTokenString)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		s.refreshTokenRepo.Delete(refreshToken.ID)
		return "", ErrExpiredRefreshToken
	}

	profile, err := s.profileRepo.FindByID(refreshToken.ProfileID)
	if err != nil {
		return "", err
	}

	return s.generateAccessToken(profile)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
