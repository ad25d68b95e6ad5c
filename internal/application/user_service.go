package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
	repo "github.com/oksasatya/business-card-api/internal/domain/repository"
	"github.com/oksasatya/business-card-api/pkg/apperror"
	"github.com/oksasatya/business-card-api/pkg/helpers"
)

var (
	ErrInvalidCredentials = apperror.Unauthenticated("Authentication Error: invalid email or password")
	ErrEmptyUpdate        = apperror.Validation("Validation Error: payload must contain at least one updatable field")
	ErrSessionUnavailable = apperror.New(apperror.KindUnexpected, "session store unavailable")
)

// SessionStore records the session bound to an issued token.
type SessionStore interface {
	Save(ctx context.Context, u *entity.User, sid string) error
	Revoke(ctx context.Context, userID string) error
}

// EventPublisher ships user lifecycle events to the queue.
type EventPublisher interface {
	PublishJSON(ctx context.Context, messageType string, body any) error
}

// UserIndexer keeps the search index in step with the store.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// Service runs user use cases. Sessions, Events and Index are optional
// collaborators; their failures are logged and never fail the request,
// since the store write has already happened.
type Service struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Sessions SessionStore
	Events   EventPublisher
	Index    UserIndexer
	Logger   *logrus.Logger
}

func NewService(repo repo.UserRepository, jwt *helpers.JWTManager, sessions SessionStore, events EventPublisher, index UserIndexer, logger *logrus.Logger) *Service {
	return &Service{
		Repo:     repo,
		JWT:      jwt,
		Sessions: sessions,
		Events:   events,
		Index:    index,
		Logger:   logger,
	}
}

// Register hashes the password and stores the user. u must already be
// validated and normalized. The returned user carries no password.
func (s *Service) Register(ctx context.Context, u entity.User) (*entity.User, error) {
	hash, err := helpers.HashPassword(u.Password)
	if err != nil {
		return nil, err
	}
	u.Password = hash
	if err := s.Repo.Create(ctx, &u); err != nil {
		return nil, err
	}
	u.Password = ""
	metrics.Add("registered", 1)
	s.afterWrite(ctx, entity.EventUserRegistered, &u, u.ID)
	return &u, nil
}

// Login checks the credentials and issues an access token. With a session
// store configured the token is only returned once its session is saved.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			metrics.Add("login_failures", 1)
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		metrics.Add("login_failures", 1)
		return "", ErrInvalidCredentials
	}

	sid := uuid.NewString()
	token, _, err := s.JWT.GenerateAccessToken(u.ID, u.IsAdmin, u.IsBusiness, sid)
	if err != nil {
		s.log().WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return "", err
	}
	if s.Sessions != nil {
		if err := s.Sessions.Save(ctx, u, sid); err != nil {
			s.log().WithError(err).WithField("user_id", u.ID).Error("session save failed")
			return "", apperror.Wrap(apperror.KindUnexpected, ErrSessionUnavailable.Message, err)
		}
	}
	metrics.Add("logins", 1)
	return token, nil
}

// Logout revokes the caller's current session.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if s.Sessions == nil {
		return nil
	}
	return s.Sessions.Revoke(ctx, userID)
}

func (s *Service) List(ctx context.Context) ([]entity.User, error) {
	return s.Repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.Repo.GetByID(ctx, id)
}

// Update applies a validated, normalized patch.
func (s *Service) Update(ctx context.Context, actorID, id string, patch entity.UserPatch) (*entity.User, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	u, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, entity.EventUserUpdated, u, actorID)
	return u, nil
}

func (s *Service) ToggleBusiness(ctx context.Context, actorID, id string) (*entity.User, error) {
	u, err := s.Repo.ToggleBusiness(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, entity.EventUserBusinessToggled, u, actorID)
	return u, nil
}

// SetAdmin changes the role flag. Callers must have checked the actor is an
// admin. The target's session is revoked so the old role claim in its token
// stops working; without a session store the claim lives until the token expires.
func (s *Service) SetAdmin(ctx context.Context, actorID, id string, isAdmin bool) (*entity.User, error) {
	u, err := s.Repo.SetAdmin(ctx, id, isAdmin)
	if err != nil {
		return nil, err
	}
	s.revoke(ctx, id)
	s.afterWrite(ctx, entity.EventUserRoleChanged, u, actorID)
	return u, nil
}

// Delete removes the user for good and revokes any live session.
func (s *Service) Delete(ctx context.Context, actorID, id string) (*entity.User, error) {
	u, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.Add("deleted", 1)
	s.revoke(ctx, id)
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.log().WithError(err).WithField("user_id", id).Warn("es remove failed")
		}
	}
	s.publish(ctx, entity.EventUserDeleted, u, actorID)
	return u, nil
}

// Search queries the user index; without an index it returns no hits.
func (s *Service) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil {
		return []map[string]any{}, nil
	}
	return s.Index.Search(ctx, q, size)
}

func (s *Service) revoke(ctx context.Context, userID string) {
	if s.Sessions == nil {
		return
	}
	if err := s.Sessions.Revoke(ctx, userID); err != nil {
		s.log().WithError(err).WithField("user_id", userID).Warn("session revoke failed")
	}
}

func (s *Service) afterWrite(ctx context.Context, eventType string, u *entity.User, actorID string) {
	if s.Index != nil {
		if err := s.Index.Index(ctx, u); err != nil {
			s.log().WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
	}
	s.publish(ctx, eventType, u, actorID)
}

func (s *Service) publish(ctx context.Context, eventType string, u *entity.User, actorID string) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishJSON(ctx, eventType, entity.NewUserEvent(eventType, u, actorID)); err != nil {
		s.log().WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "event": eventType}).Warn("publish user event failed")
	}
}

func (s *Service) log() *logrus.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return helpers.NewNopLogger()
}
