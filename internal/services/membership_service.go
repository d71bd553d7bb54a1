package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"moaqeb-backend/internal/cache"
	"moaqeb-backend/internal/metrics"
	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/timeutil"
)

// Feature names gated by tier ceilings
const (
	FeatureTransactions = "transactions"
	FeatureClients      = "clients"
	FeatureAgents       = "agents"
	FeatureExpenses     = "expenses"
)

// ErrLimitReached is returned when a create would exceed the caller's
// tier ceiling.
var ErrLimitReached = errors.New("membership limit reached")

// SettingsSource yields the platform settings document
type SettingsSource interface {
	Get(ctx context.Context) (*models.OfficeSettings, error)
}

// UserSource resolves users by id for parent-tier lookups
type UserSource interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// FeatureCounter counts existing records of one feature for an office
type FeatureCounter interface {
	Count(ctx context.Context, officeID int) (int, error)
}

// MembershipService is the single place the caller's effective tier and
// the per-tier ceilings are resolved. Every create path goes through
// CheckLimit before touching the database.
type MembershipService struct {
	Settings SettingsSource
	Users    UserSource
	Counters map[string]FeatureCounter
}

func NewMembershipService(settings SettingsSource, users UserSource) *MembershipService {
	return &MembershipService{
		Settings: settings,
		Users:    users,
		Counters: make(map[string]FeatureCounter),
	}
}

// Register wires the counter for one gated feature
func (s *MembershipService) Register(feature string, c FeatureCounter) {
	s.Counters[feature] = c
}

// EffectiveRole resolves the tier whose ceilings apply to this user.
// Employees inherit the tier of the owning account; a golden tier whose
// subscription has lapsed counts as member until the background
// downgrade catches up.
func (s *MembershipService) EffectiveRole(ctx context.Context, u *models.User) (string, error) {
	switch u.Role {
	case models.RoleAdmin:
		return models.RoleGolden, nil
	case models.RoleEmployee:
		if u.ParentID == nil {
			return models.RoleMember, nil
		}
		parent, err := s.Users.GetByID(ctx, *u.ParentID)
		if err != nil {
			return "", err
		}
		return s.EffectiveRole(ctx, parent)
	case models.RoleGolden:
		if u.SubscriptionExpiry != nil && u.SubscriptionExpiry.Before(timeutil.Now()) {
			return models.RoleMember, nil
		}
		return models.RoleGolden, nil
	default:
		return models.RoleMember, nil
	}
}

// CheckLimit returns ErrLimitReached when creating one more record of
// the feature would exceed the effective tier's ceiling. A ceiling of -1
// means unlimited, 0 blocks the feature outright.
func (s *MembershipService) CheckLimit(ctx context.Context, u *models.User, feature string) error {
	tier, err := s.EffectiveRole(ctx, u)
	if err != nil {
		return err
	}
	settings, err := s.settings(ctx)
	if err != nil {
		return err
	}

	limit := limitOf(settings.LimitsFor(tier), feature)
	if limit < 0 {
		return nil
	}
	if limit == 0 {
		metrics.LimitBlocksTotal.WithLabelValues(tier, feature).Inc()
		return ErrLimitReached
	}

	counter, ok := s.Counters[feature]
	if !ok {
		return fmt.Errorf("no counter registered for feature %q", feature)
	}
	n, err := counter.Count(ctx, u.OfficeID())
	if err != nil {
		return err
	}
	if n >= limit {
		metrics.LimitBlocksTotal.WithLabelValues(tier, feature).Inc()
		return ErrLimitReached
	}
	return nil
}

func limitOf(l models.TierLimits, feature string) int {
	switch feature {
	case FeatureTransactions:
		return l.Transactions
	case FeatureClients:
		return l.Clients
	case FeatureAgents:
		return l.Agents
	case FeatureExpenses:
		return l.Expenses
	default:
		return 0
	}
}

// settings reads the platform settings through the Redis cache
func (s *MembershipService) settings(ctx context.Context) (*models.OfficeSettings, error) {
	if data, ok := cache.GetCachedSettings(ctx); ok {
		var cached models.OfficeSettings
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}
	settings, err := s.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(settings); err == nil {
		cache.CacheSettings(ctx, data)
	}
	return settings, nil
}
