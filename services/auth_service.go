package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"guesthouse-backend/models"
	"guesthouse-backend/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const TokenTTL = 24 * time.Hour

type Claims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Username string
	Password string
	Email    string
	Name     string
	Role     string
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

type AuthService struct {
	users  repository.UserRepository
	logger *ActivityLogger
	secret []byte
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, logger *ActivityLogger, secret string) *AuthService {
	return &AuthService{users: users, logger: logger, secret: []byte(secret), now: time.Now}
}

func userActor(u *models.User) Actor {
	id := u.ID
	name := u.Name
	if name == "" {
		name = u.Username
	}
	return Actor{ID: &id, Email: u.Email, Name: name}
}

// IssueToken signs an HS256 token valid for TokenTTL.
func (s *AuthService) IssueToken(u *models.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(TokenTTL)
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, exp, nil
}

func (s *AuthService) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) Login(ctx context.Context, username, password, ip string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.IssueToken(u)
	if err != nil {
		return nil, err
	}

	s.logger.Record(ctx, userActor(u), models.ActionUserLogin,
		"Kullanıcı giriş yaptı: "+u.Username,
		Entity{Type: models.EntityUser, ID: repository.EntityKey(u.ID), Name: u.Username},
		nil, ip)

	return &LoginResult{Token: token, ExpiresAt: exp, User: *u}, nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput, actor Actor, ip string) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: role must be admin or user", ErrValidation)
	}

	u, err := s.createUser(ctx, in.Username, in.Password, strings.TrimSpace(in.Email), strings.TrimSpace(in.Name), role)
	if err != nil {
		return nil, err
	}

	s.logger.Record(ctx, actor, models.ActionUserRegistered,
		"Yeni kullanıcı oluşturuldu: "+u.Username,
		Entity{Type: models.EntityUser, ID: repository.EntityKey(u.ID), Name: u.Username},
		map[string]any{"role": u.Role, "email": u.Email}, ip)
	return u, nil
}

func (s *AuthService) createUser(ctx context.Context, username, password, email, name, role string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u := &models.User{
		Username: username,
		Email:    email,
		Name:     name,
		Password: string(hash),
		Role:     role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUser, username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *AuthService) Me(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

// EnsureAdmin seeds the first admin when the users table is empty.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := s.createUser(ctx, username, password, "", "Yönetici", models.RoleAdmin); err != nil {
		return err
	}
	log.Printf("✅ Seeded default admin %q", username)
	return nil
}
