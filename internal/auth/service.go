package auth

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Mo7amed-Boukab/eventia-backend/config"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service interface {
	Register(input RegisterInput) (*User, error)
	Login(input LoginInput) (*TokenPair, *User, error)
	Refresh(refreshToken string) (string, error)
	GetUserByID(userID uint) (User, error)
}

type service struct {
	repo          Repository
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(r Repository, cfg *config.Config) Service {
	return &service{
		repo:          r,
		accessSecret:  cfg.JWTAccessSecret,
		refreshSecret: cfg.JWTRefreshSecret,
		accessTTL:     time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
		refreshTTL:    time.Duration(cfg.JWTRefreshTTLHours) * time.Hour,
	}
}

// Register creates a participant account. Admin accounts are seeded, never registered.
func (s *service) Register(in RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if existing, err := s.repo.FindByEmail(email); err == nil && existing.ID != 0 {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         RoleParticipant,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Login(in LoginInput) (*TokenPair, *User, error) {
	user, err := s.repo.FindByEmail(strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, errors.New("invalid credentials")
	}

	access, err := s.signToken(user, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.signToken(user, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

func (s *service) Refresh(refreshToken string) (string, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return "", errors.New("user_id missing in token")
	}

	user, err := s.repo.FindByID(uint(userIDFloat))
	if err != nil {
		return "", errors.New("user not found")
	}

	return s.signToken(&user, s.accessSecret, s.accessTTL)
}

func (s *service) GetUserByID(userID uint) (User, error) {
	return s.repo.FindByID(userID)
}

func (s *service) signToken(user *User, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// SeedAdminUser creates the admin account from env config if it does not exist yet.
func SeedAdminUser(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("⚠️ ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing User
	err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &User{
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		FirstName:    "Eventia",
		LastName:     "Admin",
		Role:         RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded admin account %s", cfg.AdminEmail)
	return nil
}
