// Package gate authorizes operations by checking that the requesting user
// holds a named access grant. A check resolves the capability by name, looks
// up the user's grant for it and, when the capability demands a permission
// level, compares the grant's level against it. Nothing is cached: every
// call reads the store.
package gate

import (
	"context"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/iliyamo/labquiz/internal/model"
)

const (
	// ErrUnauthenticated is returned when there is no requesting user.
	ErrUnauthenticated = errors.ConstError("unauthenticated")
	// ErrUnknownCapability is returned when the capability name was never
	// registered. This is a server configuration defect.
	ErrUnknownCapability = errors.ConstError("unknown capability")
	// ErrForbidden is returned when the user holds no grant for the capability.
	ErrForbidden = errors.ConstError("forbidden")
	// ErrInsufficientLevel is returned when the grant's level is below the
	// level the capability requires.
	ErrInsufficientLevel = errors.ConstError("insufficient permission level")
)

//go:generate go run go.uber.org/mock/mockgen -package gate -destination store_mock_test.go github.com/iliyamo/labquiz/internal/gate GrantStore

// GrantStore looks up capabilities and grants. Both methods return an error
// satisfying errors.Is(err, errors.NotFound) when the row does not exist.
type GrantStore interface {
	AccessByName(ctx context.Context, name string) (model.Access, error)
	GrantFor(ctx context.Context, userID, accessID uint64) (model.UserAccess, error)
}

// Gate performs permission checks against a GrantStore.
type Gate struct {
	store   GrantStore
	logger  *zap.Logger
	metrics *Metrics
}

// New returns a Gate. logger and metrics may be nil.
func New(store GrantStore, logger *zap.Logger, metrics *Metrics) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{store: store, logger: logger, metrics: metrics}
}

// WithStore returns a copy of the gate reading from store, typically one
// bound to the transaction that will run the guarded statement.
func (g *Gate) WithStore(store GrantStore) *Gate {
	cp := *g
	cp.store = store
	return &cp
}

// Authorize returns nil if user may run operations guarded by accessName.
// The checks run in order: identity, capability, grant, level. Any store
// failure is returned as is; there is no default allow.
func (g *Gate) Authorize(ctx context.Context, user *uint64, accessName string) error {
	err := g.authorize(ctx, user, accessName)
	g.metrics.observe(accessName, err)
	if err != nil {
		fields := []zap.Field{zap.String("access", accessName), zap.Error(err)}
		if user != nil {
			fields = append(fields, zap.Uint64("user_id", *user))
		}
		if errors.Is(err, ErrUnknownCapability) {
			g.logger.Error("permission check against unregistered capability", fields...)
		} else {
			g.logger.Debug("permission denied", fields...)
		}
	}
	return err
}

func (g *Gate) authorize(ctx context.Context, user *uint64, accessName string) error {
	if user == nil {
		return ErrUnauthenticated
	}

	access, err := g.store.AccessByName(ctx, accessName)
	if errors.Is(err, errors.NotFound) {
		return errors.Annotatef(ErrUnknownCapability, "%q", accessName)
	}
	if err != nil {
		return errors.Annotatef(err, "resolving access %q", accessName)
	}

	grant, err := g.store.GrantFor(ctx, *user, access.ID)
	if errors.Is(err, errors.NotFound) {
		return ErrForbidden
	}
	if err != nil {
		return errors.Annotatef(err, "looking up grant of %q to user %d", accessName, *user)
	}

	if !Satisfies(grant.PermissionLevel, access.PermissionLevel) {
		return ErrInsufficientLevel
	}
	return nil
}
