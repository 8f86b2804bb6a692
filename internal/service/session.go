package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
)

// SessionManager owns the signed-in identity. It is the only component that
// reads the roster (repo.KeySession, passwords included); the rest of the
// system only ever sees the redacted user persisted under repo.KeyUser.
type SessionManager struct {
	roster  *repo.Collection[domain.User]
	current *repo.Value[domain.User]
	hasher  PasswordHasher

	// view holds zero or one redacted user.
	view *Projection[domain.User]
}

// NewSessionManager constructs a SessionManager. A nil hasher means PlainHasher.
func NewSessionManager(roster *repo.Collection[domain.User], current *repo.Value[domain.User], hasher PasswordHasher) *SessionManager {
	if hasher == nil {
		hasher = PlainHasher{}
	}
	return &SessionManager{
		roster:  roster,
		current: current,
		hasher:  hasher,
		view:    newProjection[domain.User](),
	}
}

// Current returns the signed-in user, always without a password.
func (s *SessionManager) Current() (domain.User, bool) {
	users := s.view.Snapshot()
	if len(users) == 0 {
		return domain.User{}, false
	}
	return users[0], true
}

// Subscribe registers fn to be called after every identity change
// (restore, login, register, profile update, logout). user is nil when
// signed out.
func (s *SessionManager) Subscribe(fn func(user *domain.User)) (cancel func()) {
	return s.view.Subscribe(func(users []domain.User) {
		if len(users) == 0 {
			fn(nil)
			return
		}
		u := users[0]
		fn(&u)
	})
}

// Restore reads the persisted session. A read failure leaves the manager
// signed out and is returned so the caller can log it.
func (s *SessionManager) Restore(ctx context.Context) (domain.User, bool, error) {
	u, ok, err := s.current.Load(ctx)
	if err != nil {
		s.view.publish(nil)
		return domain.User{}, false, fmt.Errorf("service.SessionManager.Restore: %w", err)
	}
	if !ok {
		s.view.publish(nil)
		return domain.User{}, false, nil
	}
	u = u.Redacted()
	s.view.publish([]domain.User{u})
	return u, true, nil
}

// Login signs in the roster entry whose email and password match exactly.
// Returns domain.ErrUnauthorized when no entry matches; nothing is written.
func (s *SessionManager) Login(ctx context.Context, email, password string) (domain.User, error) {
	users, err := s.roster.Load(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.SessionManager.Login: %w", err)
	}

	i := slices.IndexFunc(users, func(u domain.User) bool {
		return u.Email == email && s.hasher.Compare(u.Password, password)
	})
	if i < 0 {
		return domain.User{}, fmt.Errorf("service.SessionManager.Login: %w: invalid email or password", domain.ErrUnauthorized)
	}

	u := users[i].Redacted()
	if err := s.signIn(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("service.SessionManager.Login: %w", err)
	}
	return u, nil
}

// Register appends a new user to the roster and signs them in.
// Returns domain.ErrInvariant when the email is already registered (exact,
// case-sensitive match) and domain.ErrValidation for blank fields.
func (s *SessionManager) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" || strings.TrimSpace(name) == "" {
		return domain.User{}, fmt.Errorf("service.SessionManager.Register: %w: email, password and name are required", domain.ErrValidation)
	}

	stored, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.SessionManager.Register: %w", err)
	}

	var created domain.User
	_, err = s.roster.Mutate(ctx, func(users []domain.User) ([]domain.User, error) {
		if slices.ContainsFunc(users, func(u domain.User) bool { return u.Email == email }) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrInvariant)
		}
		created = domain.User{
			ID:       uuid.NewString(),
			Email:    email,
			Name:     name,
			Password: stored,
		}
		return append(users, created), nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.SessionManager.Register: %w", err)
	}

	u := created.Redacted()
	if err := s.signIn(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("service.SessionManager.Register: %w", err)
	}
	return u, nil
}

// UpdateProfile merges patch into the signed-in user's roster entry and
// refreshes the session. Returns domain.ErrUnauthorized with no session,
// domain.ErrNotFound when the session user is missing from the roster, and
// domain.ErrInvariant when the new email belongs to another user.
func (s *SessionManager) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (domain.User, error) {
	cur, err := requireUser(s)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.SessionManager.UpdateProfile: %w", err)
	}

	var updated domain.User
	_, err = s.roster.Mutate(ctx, func(users []domain.User) ([]domain.User, error) {
		i, err := indexOf(users, cur.ID, userID)
		if err != nil {
			return nil, err
		}
		if patch.Email != nil {
			taken := slices.ContainsFunc(users, func(u domain.User) bool {
				return u.ID != cur.ID && u.Email == *patch.Email
			})
			if taken {
				return nil, fmt.Errorf("%w: email already registered", domain.ErrInvariant)
			}
		}
		users[i] = patch.Apply(users[i])
		updated = users[i]
		return users, nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.SessionManager.UpdateProfile: %w", err)
	}

	u := updated.Redacted()
	if err := s.signIn(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("service.SessionManager.UpdateProfile: %w", err)
	}
	return u, nil
}

// Logout signs out. The in-memory session is cleared even when removing the
// persisted key fails; that error is returned only for logging.
func (s *SessionManager) Logout(ctx context.Context) error {
	s.view.publish(nil)
	if err := s.current.Clear(ctx); err != nil {
		return fmt.Errorf("service.SessionManager.Logout: %w", err)
	}
	return nil
}

// signIn persists u as the current session, then publishes it.
func (s *SessionManager) signIn(ctx context.Context, u domain.User) error {
	if err := s.current.Save(ctx, u); err != nil {
		return err
	}
	s.view.publish([]domain.User{u})
	return nil
}

func userID(u domain.User) string { return u.ID }
