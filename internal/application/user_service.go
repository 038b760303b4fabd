package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/galeria-app/users-api/internal/domain/entity"
	repo "github.com/galeria-app/users-api/internal/domain/repository"
	"github.com/galeria-app/users-api/pkg/helpers"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoFields           = errors.New("no fields to update")
	ErrStorageDisabled    = errors.New("picture storage not configured")
)

const profileCacheTTL = 10 * time.Minute

func profileKey(username string) string {
	return "user:profile:" + username
}

// Service implements the account use cases on top of the credential store.
// Redis and GCS are optional: a nil client disables profile caching and
// picture upload respectively.
type Service struct {
	Repo      repo.UserRepository
	JWT       *helpers.JWTManager
	Logger    *logrus.Logger
	Redis     *redis.Client
	GCS       *storage.Client
	GCSBucket string
}

func NewService(r repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, rdb *redis.Client, gcs *storage.Client, gcsBucket string) *Service {
	return &Service{Repo: r, JWT: jwt, Logger: logger, Redis: rdb, GCS: gcs, GCSBucket: gcsBucket}
}

// Register creates an account. The plaintext password is hashed here, on the
// single code path that sets it; nothing downstream ever re-hashes a stored
// hash. A duplicate-key rejection from the store's unique indexes (a
// registration race) is reported as ErrUserExists, never as a generic failure.
func (s *Service) Register(ctx context.Context, username, email, password, fullName string) (*entity.User, error) {
	existing, err := s.Repo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username: username,
		Email:    email,
		Password: hash,
		FullName: fullName,
		Status:   entity.StatusActive,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return u, nil
}

// Login verifies the password against the stored hash and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", time.Time{}, ErrUserNotFound
		}
		return nil, "", time.Time{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.Generate(u.ID.Hex(), u.Username)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("username", username).Error("token generation failed")
		}
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

// GetProfile returns the account for username, consulting the Redis cache
// first. Cached entries never contain the password hash.
func (s *Service) GetProfile(ctx context.Context, username string) (*entity.User, error) {
	if s.Redis != nil {
		var cached entity.User
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, profileKey(username), &cached); err == nil && ok {
			return &cached, nil
		}
	}
	u, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.cacheProfile(ctx, u)
	return u, nil
}

// UpdateProfile applies a partial field set, addressed by the authenticated
// user's email. The password field is not reachable from this path.
func (s *Service) UpdateProfile(ctx context.Context, email string, in entity.ProfileUpdate) (*entity.User, error) {
	if in.Empty() {
		return nil, ErrNoFields
	}
	prev, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u, err := s.Repo.UpdateByEmail(ctx, email, in)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repo.ErrDuplicateKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	s.invalidateProfile(ctx, prev.Username, u.Username)
	return u, nil
}

// DeleteProfile removes the account matching username and returns the
// removed record.
func (s *Service) DeleteProfile(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Repo.DeleteByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.invalidateProfile(ctx, username)
	return u, nil
}

// ChangePassword verifies the current password before storing a hash of the
// new one. Only the password field is written; the rest of the document is
// untouched, so a stored hash is never re-hashed.
func (s *Service) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	u, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, currentPassword) {
		return ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID.Hex(), hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.invalidateProfile(ctx, username)
	return nil
}

// UploadProfilePicture stores the image in GCS and records its public URL
// on the account.
func (s *Service) UploadProfilePicture(ctx context.Context, userID, username string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrStorageDisabled
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("profile-pictures", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Repo.UpdateProfilePicture(ctx, userID, url); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	s.invalidateProfile(ctx, username)
	return url, nil
}

func (s *Service) cacheProfile(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	// entity.User omits the password from JSON, so the cached copy holds no hash.
	safe := *u
	safe.Password = ""
	if err := helpers.RedisSetJSON(ctx, s.Redis, profileKey(u.Username), &safe, profileCacheTTL); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("username", u.Username).Warn("profile cache write failed")
	}
}

func (s *Service) invalidateProfile(ctx context.Context, usernames ...string) {
	if s.Redis == nil {
		return
	}
	for _, name := range usernames {
		if name == "" {
			continue
		}
		if err := helpers.RedisDel(ctx, s.Redis, profileKey(name)); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("username", name).Warn("profile cache invalidation failed")
		}
	}
}
