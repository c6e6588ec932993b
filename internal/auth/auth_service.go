package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "go-dvms/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL = 24 * time.Hour

	// DenylistPrefix keys revoked token IDs in redis until they expire.
	DenylistPrefix = "auth:denylist:"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	Logout(ctx context.Context, tokenString string) error
	GetMe(ctx context.Context, userID uint) (UserResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, rdb: rdb, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	taken, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		s.logger.Error("register email check failed", zap.Error(err))
		return UserResponse{}, err
	}
	if taken {
		return UserResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = "clerk"
	}

	u := &User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("register persist failed", zap.Error(err))
		return UserResponse{}, autherrors.ErrEmailAlreadyRegistered
	}

	s.logger.Info("register success", zap.Uint("user_id", u.ID), zap.String("role", u.Role))
	return mapToUserResponse(u), nil
}

func (s *service) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(u)
	if err != nil {
		s.logger.Error("login token generation failed", zap.Error(err))
		return LoginResponse{}, err
	}

	s.logger.Info("login success", zap.Uint("user_id", u.ID))
	return LoginResponse{
		User:        mapToUserResponse(u),
		AccessToken: token,
		TokenType:   "Bearer",
	}, nil
}

// Logout revokes the presented token by denylisting its jti for the
// remainder of its lifetime. Expired or malformed tokens are rejected.
func (s *service) Logout(ctx context.Context, tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return autherrors.ErrTokenExpired
		}
		return autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return autherrors.ErrInvalidToken
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return autherrors.ErrInvalidToken
	}

	ttl := accessTokenTTL
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		ttl = time.Until(exp.Time)
	}
	if ttl <= 0 {
		return autherrors.ErrTokenExpired
	}

	if err := s.rdb.Set(ctx, DenylistPrefix+jti, "revoked", ttl).Err(); err != nil {
		s.logger.Error("logout denylist write failed", zap.Error(err))
		return err
	}

	s.logger.Info("logout success", zap.String("jti", jti))
	return nil
}

func (s *service) GetMe(ctx context.Context, userID uint) (UserResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return UserResponse{}, autherrors.ErrUserNotFound
	}
	return mapToUserResponse(u), nil
}

func (s *service) generateToken(u *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"name":    u.Name,
		"role":    u.Role,
		"jti":     uuid.New().String(),
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
