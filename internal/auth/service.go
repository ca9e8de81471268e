package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phishaware/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAdminExists        = errors.New("admin already exists")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account disabled")
)

// RegisterRequest is the payload for creating an admin account
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the payload for admin login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries a signed session token and the admin it belongs to
type AuthResponse struct {
	Token     string       `json:"token"`
	Admin     models.Admin `json:"admin"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Service handles admin authentication: bcrypt password storage and JWT
// session tokens
type Service struct {
	db            *gorm.DB
	jwtSecret     []byte
	sessionExpiry time.Duration
}

// NewService creates an auth service
func NewService(db *gorm.DB, jwtSecret []byte, sessionExpiry time.Duration) *Service {
	if sessionExpiry <= 0 {
		sessionExpiry = 24 * time.Hour
	}
	return &Service{
		db:            db,
		jwtSecret:     jwtSecret,
		sessionExpiry: sessionExpiry,
	}
}

// Register creates a new admin account
func (s *Service) Register(req RegisterRequest) (*AuthResponse, error) {
	var existing models.Admin
	err := s.db.Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", req.Username, req.Email).
		First(&existing).Error
	if err == nil {
		return nil, ErrAdminExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hashedPasswordStr := string(hashedPassword)
	admin := models.Admin{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashedPasswordStr,
		IsActive:     true,
	}

	if err := s.db.Create(&admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return s.generateAuthResponse(&admin)
}

// Login authenticates with username/password
func (s *Service) Login(req LoginRequest) (*AuthResponse, error) {
	var admin models.Admin
	err := s.db.Where("LOWER(username) = LOWER(?)", req.Username).First(&admin).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !admin.IsActive {
		return nil, ErrAccountDisabled
	}

	if admin.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	admin.LastLoginAt = &now
	s.db.Save(&admin)

	return s.generateAuthResponse(&admin)
}

// generateAuthResponse creates a signed JWT for an admin
func (s *Service) generateAuthResponse(admin *models.Admin) (*AuthResponse, error) {
	expiresAt := time.Now().Add(s.sessionExpiry)

	claims := jwt.MapClaims{
		"admin_id": admin.ID,
		"username": admin.Username,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResponse{
		Token:     tokenString,
		Admin:     *admin,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken validates a JWT session token and loads its admin
func (s *Service) ValidateToken(tokenString string) (*models.Admin, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	adminID, ok := claims["admin_id"].(string)
	if !ok || adminID == "" {
		return nil, ErrInvalidToken
	}

	var admin models.Admin
	err = s.db.Where("id = ?", adminID).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	} else if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !admin.IsActive {
		return nil, ErrAccountDisabled
	}

	return &admin, nil
}
