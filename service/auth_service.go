package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/isinghranjeet/eassy-to-rent-backend/authorization"
	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

type AuthService struct {
	store  domain.AuthStore
	cache  domain.AuthCache
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewAuthService(store domain.AuthStore, cache domain.AuthCache, tracer trace.Tracer, logger *logrus.Logger) *AuthService {
	return &AuthService{
		store:  store,
		cache:  cache,
		tracer: tracer,
		logger: logger,
	}
}

func (service *AuthService) Register(ctx context.Context, username, password, email string) (*domain.Credentials, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	existing, err := service.store.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, apperrors.UsernameExistError)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	credentials := &domain.Credentials{
		Username: username,
		Password: string(hash),
		Email:    email,
		UserType: domain.RegularUser,
	}
	if err := service.store.Register(ctx, credentials); err != nil {
		span.SetStatus(codes.Error, "Register failed")
		return nil, err
	}

	credentials.Password = ""
	return credentials, nil
}

func (service *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	credentials, err := service.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, apperrors.InvalidCredentialsError)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credentials.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, apperrors.InvalidCredentialsError)
	}

	token, err := authorization.GenerateToken(domain.Principal{
		UserID:   credentials.ID.Hex(),
		Username: credentials.Username,
		UserType: credentials.UserType,
	})
	if err != nil {
		span.SetStatus(codes.Error, "Token generation failed")
		return "", err
	}

	if err := service.cache.PostCacheData(ctx, username, token); err != nil {
		service.logger.Warnf("cache token for %s: %s", username, err)
	}
	return token, nil
}

func (service *AuthService) Logout(ctx context.Context, username string) error {
	ctx, span := service.tracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	return service.cache.DelCachedValue(ctx, username)
}
