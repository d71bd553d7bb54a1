package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"moaqeb-backend/internal/models"
)

type fakeSettings struct{ s *models.OfficeSettings }

func (f *fakeSettings) Get(ctx context.Context) (*models.OfficeSettings, error) { return f.s, nil }

type fakeUsers map[int]*models.User

func (f fakeUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, errors.New("no such user")
	}
	return u, nil
}

type fakeCounter int

func (f fakeCounter) Count(ctx context.Context, officeID int) (int, error) { return int(f), nil }

func newTestMembership(count int) *MembershipService {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)
	golden := &models.User{ID: 1, Role: models.RoleGolden, SubscriptionExpiry: &future}
	expired := &models.User{ID: 2, Role: models.RoleGolden, SubscriptionExpiry: &past}

	svc := NewMembershipService(&fakeSettings{s: models.DefaultOfficeSettings()}, fakeUsers{1: golden, 2: expired})
	svc.Register(FeatureTransactions, fakeCounter(count))
	svc.Register(FeatureClients, fakeCounter(count))
	return svc
}

func TestEffectiveRoleEmployeeInheritsParentTier(t *testing.T) {
	svc := newTestMembership(0)
	parentID := 1
	emp := &models.User{ID: 10, Role: models.RoleEmployee, ParentID: &parentID}

	role, err := svc.EffectiveRole(context.Background(), emp)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if role != models.RoleGolden {
		t.Fatalf("employee of a golden office should resolve golden, got %q", role)
	}
}

func TestEffectiveRoleExpiredGoldenCountsAsMember(t *testing.T) {
	svc := newTestMembership(0)
	past := time.Now().Add(-time.Hour)
	u := &models.User{ID: 5, Role: models.RoleGolden, SubscriptionExpiry: &past}

	role, err := svc.EffectiveRole(context.Background(), u)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if role != models.RoleMember {
		t.Fatalf("expired golden should resolve member, got %q", role)
	}
}

func TestCheckLimitBlocksAtCeiling(t *testing.T) {
	// member ceiling for transactions is 30
	svc := newTestMembership(30)
	member := &models.User{ID: 3, Role: models.RoleMember}

	err := svc.CheckLimit(context.Background(), member, FeatureTransactions)
	if !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached at ceiling, got %v", err)
	}
}

func TestCheckLimitAllowsBelowCeiling(t *testing.T) {
	svc := newTestMembership(29)
	member := &models.User{ID: 3, Role: models.RoleMember}

	if err := svc.CheckLimit(context.Background(), member, FeatureTransactions); err != nil {
		t.Fatalf("below ceiling should pass, got %v", err)
	}
}

func TestCheckLimitUnlimitedForGolden(t *testing.T) {
	svc := newTestMembership(1_000_000)
	future := time.Now().Add(24 * time.Hour)
	golden := &models.User{ID: 1, Role: models.RoleGolden, SubscriptionExpiry: &future}

	if err := svc.CheckLimit(context.Background(), golden, FeatureTransactions); err != nil {
		t.Fatalf("golden tier is unlimited, got %v", err)
	}
}

func TestCheckLimitZeroCeilingBlocksOutright(t *testing.T) {
	settings := models.DefaultOfficeSettings()
	settings.MemberLimits.Clients = 0
	svc := NewMembershipService(&fakeSettings{s: settings}, fakeUsers{})
	svc.Register(FeatureClients, fakeCounter(0))

	member := &models.User{ID: 3, Role: models.RoleMember}
	if err := svc.CheckLimit(context.Background(), member, FeatureClients); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("zero ceiling should block, got %v", err)
	}
}
