package service

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/serialcheck/serialcheck-server/internal/auth"
	"github.com/serialcheck/serialcheck-server/internal/config"
	"github.com/serialcheck/serialcheck-server/internal/database"
	apperrors "github.com/serialcheck/serialcheck-server/internal/errors"
	"github.com/serialcheck/serialcheck-server/internal/model"
	"github.com/serialcheck/serialcheck-server/internal/repository"
	"github.com/serialcheck/serialcheck-server/internal/util"
)

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	ExpiresIn string
}

// SessionService verifies admin credentials and issues session tokens.
type SessionService struct {
	db         *sqlx.DB
	adminRepo  repository.AdminRepository
	jwt        *auth.JWTManager
	bcryptCost int
}

func NewSessionService(db *sqlx.DB, adminRepo repository.AdminRepository, jwt *auth.JWTManager) *SessionService {
	return &SessionService{
		db:         db,
		adminRepo:  adminRepo,
		jwt:        jwt,
		bcryptCost: config.AdminBcryptCost,
	}
}

func (s *SessionService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, apperrors.ValidationError("Username and password required")
	}

	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		log.Error().Err(err).Msg("failed to load admin")
		return nil, apperrors.Database("Failed to login", err)
	}
	if admin == nil {
		util.BurnPasswordCheck(password)
		return nil, apperrors.InvalidCredentials()
	}
	if !util.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, apperrors.InvalidCredentials()
	}

	token, expiresAt, err := s.jwt.GenerateToken(model.AdminIdentity{ID: admin.ID, Username: admin.Username})
	if err != nil {
		log.Error().Err(err).Msg("failed to sign session token")
		return nil, apperrors.Internal("Failed to login")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		ExpiresIn: formatDuration(s.jwt.Expiry()),
	}, nil
}

// Authenticate resolves a bearer token to the admin it was issued for.
func (s *SessionService) Authenticate(token string) (*model.AdminIdentity, error) {
	identity, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}
	return identity, nil
}

// EnsureDefaultAdmin creates the bootstrap account while no admin exists.
// A non-empty passwordHash is stored as is; otherwise password is hashed.
func (s *SessionService) EnsureDefaultAdmin(ctx context.Context, username, password, passwordHash string) (bool, error) {
	created := false
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := s.adminRepo.WithTx(tx)

		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hash := passwordHash
		if hash == "" {
			hash, err = util.HashPassword(password, s.bcryptCost)
			if err != nil {
				return err
			}
		}

		if _, err := repo.Create(ctx, model.CreateAdminParams{
			Username:     username,
			PasswordHash: hash,
		}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		log.Warn().Str("username", username).Msg("default admin created, change the password")
	}
	return created, nil
}

// formatDuration renders d without zero trailing units, e.g. 1h or 90m as 1h30m.
func formatDuration(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}
