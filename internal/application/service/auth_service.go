package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/domain/enum"
	"github.com/sangkips/isp-billing-api/pkg/apperror"
	"github.com/sangkips/isp-billing-api/pkg/utils"
	"go.uber.org/zap"
)

// PINAccount maps a shared access PIN to the operator it authenticates
type PINAccount struct {
	Actor entity.Actor
	PIN   string
}

type pinCredential struct {
	actor   entity.Actor
	pinHash string
}

// AuthService handles PIN login and session tokens
type AuthService struct {
	credentials []pinCredential
	jwtManager  *utils.JWTManager
	log         *zap.Logger
}

// NewAuthService hashes the configured PINs once at startup
func NewAuthService(accounts []PINAccount, jwtManager *utils.JWTManager, log *zap.Logger) (*AuthService, error) {
	seen := make(map[string]bool, len(accounts))
	creds := make([]pinCredential, 0, len(accounts))
	for _, acc := range accounts {
		if acc.PIN == "" {
			return nil, fmt.Errorf("empty PIN for actor %q", acc.Actor.ID)
		}
		if seen[acc.PIN] {
			return nil, errors.New("access PINs must be distinct")
		}
		seen[acc.PIN] = true

		hash, err := utils.HashPIN(acc.PIN)
		if err != nil {
			return nil, fmt.Errorf("hash PIN for %q: %w", acc.Actor.ID, err)
		}
		creds = append(creds, pinCredential{actor: acc.Actor, pinHash: hash})
	}

	return &AuthService{
		credentials: creds,
		jwtManager:  jwtManager,
		log:         log,
	}, nil
}

// LoginOutput represents the login output
type LoginOutput struct {
	Actor       entity.Actor `json:"actor"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Login resolves a PIN to its operator and issues an access token
func (s *AuthService) Login(ctx context.Context, pin string) (*LoginOutput, error) {
	if pin == "" {
		return nil, apperror.NewFieldError("pin", "PIN is required")
	}

	for _, cred := range s.credentials {
		if !utils.CheckPINHash(pin, cred.pinHash) {
			continue
		}

		token, expiresAt, err := s.jwtManager.GenerateAccessToken(cred.actor.ID, cred.actor.Name, cred.actor.Role.String())
		if err != nil {
			return nil, fmt.Errorf("sign token: %w", err)
		}
		s.log.Info("operator logged in", zap.String("actor_id", cred.actor.ID), zap.String("role", cred.actor.Role.String()))

		return &LoginOutput{
			Actor:       cred.actor,
			AccessToken: token,
			ExpiresAt:   expiresAt,
		}, nil
	}

	s.log.Warn("login rejected: invalid PIN")
	return nil, apperror.ErrInvalidPIN
}

// ActorFromToken validates a bearer token and returns the operator it carries
func (s *AuthService) ActorFromToken(token string) (entity.Actor, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return entity.Actor{}, apperror.ErrInvalidToken
	}

	role, err := enum.ParseUserRole(claims.Role)
	if err != nil {
		return entity.Actor{}, apperror.ErrInvalidToken
	}

	return entity.Actor{ID: claims.ActorID, Name: claims.Name, Role: role}, nil
}
