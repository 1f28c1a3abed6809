package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/you/storefront/domain"
	"gorm.io/gorm"
)

// sessionRow is the projection of the session columns shared by actor tables
type sessionRow struct {
	ID             uint
	Phone          string
	Username       string
	SessionToken   string
	SessionExpires *time.Time
}

// SessionStoreImpl implements domain.SessionStore over one actor table
type SessionStoreImpl struct {
	db    *gorm.DB
	role  domain.Role
	table string
}

// NewSessionStore creates a session store bound to the table of role
func NewSessionStore(db *gorm.DB, role domain.Role) (domain.SessionStore, error) {
	table, ok := sessionTables[role]
	if !ok {
		return nil, fmt.Errorf("session store for %q: %w", role, domain.ErrInvalidRole)
	}
	return &SessionStoreImpl{db: db, role: role, table: table}, nil
}

// Role implements domain.SessionStore
func (s *SessionStoreImpl) Role() domain.Role {
	return s.role
}

// Get implements domain.SessionStore
func (s *SessionStoreImpl) Get(ctx context.Context, actorID uint) (*domain.SessionRecord, error) {
	var row sessionRow
	err := s.db.WithContext(ctx).
		Table(s.table).
		Select(s.columns()).
		Where("id = ?", actorID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load %s session: %w: %v", s.role, domain.ErrStore, err)
	}
	if row.SessionToken == "" {
		return nil, domain.ErrSessionNotFound
	}
	return &domain.SessionRecord{
		ActorID:   row.ID,
		Phone:     row.Phone,
		Username:  row.Username,
		Token:     row.SessionToken,
		ExpiresAt: row.SessionExpires,
	}, nil
}

// Set implements domain.SessionStore
func (s *SessionStoreImpl) Set(ctx context.Context, actorID uint, token string, expiresAt *time.Time) error {
	return s.update(ctx, actorID, map[string]interface{}{
		"session_token":   token,
		"session_expires": expiresAt,
	}, true)
}

// Clear implements domain.SessionStore; clearing a missing row is a no-op
func (s *SessionStoreImpl) Clear(ctx context.Context, actorID uint) error {
	return s.update(ctx, actorID, map[string]interface{}{
		"session_token":   "",
		"session_expires": nil,
	}, false)
}

func (s *SessionStoreImpl) update(ctx context.Context, actorID uint, values map[string]interface{}, mustExist bool) error {
	res := s.db.WithContext(ctx).Table(s.table).Where("id = ?", actorID).Updates(values)
	if res.Error != nil {
		return fmt.Errorf("update %s session: %w: %v", s.role, domain.ErrStore, res.Error)
	}
	if mustExist && res.RowsAffected == 0 {
		return domain.ErrActorNotFound
	}
	return nil
}

func (s *SessionStoreImpl) columns() []string {
	if s.role == domain.RoleAdmin {
		return []string{"id", "username", "session_token", "session_expires"}
	}
	return []string{"id", "phone", "session_token", "session_expires"}
}
