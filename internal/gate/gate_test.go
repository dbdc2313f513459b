package gate

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/labquiz/internal/model"
)

func ptr[T any](v T) *T { return &v }

var _ GrantStore = (*MockGrantStore)(nil)

func newGate(t *testing.T) (*Gate, *MockGrantStore, *Metrics, *observer.ObservedLogs) {
	ctrl := gomock.NewController(t)
	store := NewMockGrantStore(ctrl)
	core, logs := observer.New(zapcore.DebugLevel)
	metrics := NewMetrics(prometheus.NewRegistry())
	return New(store, zap.New(core), metrics), store, metrics, logs
}

func TestAuthorizeWithoutUser(t *testing.T) {
	c := qt.New(t)
	g, _, metrics, _ := newGate(t)

	// No store expectations: the lookup must not happen.
	err := g.Authorize(context.Background(), nil, DeleteQuestions)
	c.Assert(errors.Is(err, ErrUnauthenticated), qt.IsTrue)
	c.Assert(testutil.ToFloat64(metrics.decisions.WithLabelValues(DeleteQuestions, "unauthenticated")), qt.Equals, 1.0)
}

func TestAuthorizeUnknownCapability(t *testing.T) {
	c := qt.New(t)
	g, store, _, logs := newGate(t)
	ctx := context.Background()

	store.EXPECT().AccessByName(ctx, "NoSuchThing").Return(model.Access{}, errors.NotFoundf("access %q", "NoSuchThing"))

	err := g.Authorize(ctx, ptr[uint64](7), "NoSuchThing")
	c.Assert(errors.Is(err, ErrUnknownCapability), qt.IsTrue)
	c.Assert(errors.Is(err, ErrForbidden), qt.IsFalse)

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	c.Assert(entries, qt.HasLen, 1)
	c.Assert(entries[0].ContextMap()["access"], qt.Equals, "NoSuchThing")
}

func TestAuthorizeWithoutGrant(t *testing.T) {
	c := qt.New(t)
	g, store, _, _ := newGate(t)
	ctx := context.Background()

	store.EXPECT().AccessByName(ctx, DeleteQuestions).Return(model.Access{ID: 3, Name: DeleteQuestions}, nil)
	store.EXPECT().GrantFor(ctx, uint64(7), uint64(3)).Return(model.UserAccess{}, errors.NotFoundf("grant"))

	err := g.Authorize(ctx, ptr[uint64](7), DeleteQuestions)
	c.Assert(errors.Is(err, ErrForbidden), qt.IsTrue)
}

func TestAuthorizeWithGrant(t *testing.T) {
	c := qt.New(t)
	g, store, metrics, logs := newGate(t)
	ctx := context.Background()

	store.EXPECT().AccessByName(ctx, DeleteQuestions).Return(model.Access{ID: 3, Name: DeleteQuestions}, nil)
	store.EXPECT().GrantFor(ctx, uint64(7), uint64(3)).Return(model.UserAccess{PermissionID: 11, UserID: 7, AccessID: 3}, nil)

	c.Assert(g.Authorize(ctx, ptr[uint64](7), DeleteQuestions), qt.IsNil)
	c.Assert(logs.Len(), qt.Equals, 0)
	c.Assert(testutil.ToFloat64(metrics.decisions.WithLabelValues(DeleteQuestions, "allowed")), qt.Equals, 1.0)
}

func TestAuthorizeLevels(t *testing.T) {
	tests := []struct {
		about    string
		required *string
		granted  *string
		expect   error
	}{{
		about:    "no requirement, no level",
		required: nil,
		granted:  nil,
	}, {
		about:    "blank requirement",
		required: ptr(""),
		granted:  nil,
	}, {
		about:    "requirement, grant without level",
		required: ptr("write"),
		granted:  nil,
		expect:   ErrInsufficientLevel,
	}, {
		about:    "lower rank",
		required: ptr("write"),
		granted:  ptr("read"),
		expect:   ErrInsufficientLevel,
	}, {
		about:    "equal rank",
		required: ptr("write"),
		granted:  ptr("write"),
	}, {
		about:    "higher rank, different case",
		required: ptr("Write"),
		granted:  ptr("ADMIN"),
	}, {
		about:    "unranked levels must match",
		required: ptr("lab-manager"),
		granted:  ptr("Lab-Manager"),
	}, {
		about:    "unranked against ranked",
		required: ptr("lab-manager"),
		granted:  ptr("admin"),
		expect:   ErrInsufficientLevel,
	}}

	for _, test := range tests {
		t.Run(test.about, func(t *testing.T) {
			c := qt.New(t)
			g, store, _, _ := newGate(t)
			ctx := context.Background()

			store.EXPECT().AccessByName(ctx, UpdateChemicals).Return(model.Access{ID: 5, Name: UpdateChemicals, PermissionLevel: test.required}, nil)
			store.EXPECT().GrantFor(ctx, uint64(2), uint64(5)).Return(model.UserAccess{PermissionID: 1, UserID: 2, AccessID: 5, PermissionLevel: test.granted}, nil)

			err := g.Authorize(ctx, ptr[uint64](2), UpdateChemicals)
			if test.expect == nil {
				c.Assert(err, qt.IsNil)
				return
			}
			c.Assert(errors.Is(err, test.expect), qt.IsTrue, qt.Commentf("got %v", err))
		})
	}
}

func TestAuthorizeStoreFailure(t *testing.T) {
	c := qt.New(t)
	g, store, metrics, _ := newGate(t)
	ctx := context.Background()

	store.EXPECT().AccessByName(ctx, GetUsers).Return(model.Access{ID: 1, Name: GetUsers}, nil)
	store.EXPECT().GrantFor(ctx, uint64(4), uint64(1)).Return(model.UserAccess{}, errors.New("connection reset"))

	err := g.Authorize(ctx, ptr[uint64](4), GetUsers)
	c.Assert(err, qt.ErrorMatches, `looking up grant of "GetUsers" to user 4: connection reset`)
	c.Assert(errors.Is(err, ErrForbidden), qt.IsFalse)
	c.Assert(testutil.ToFloat64(metrics.decisions.WithLabelValues(GetUsers, "error")), qt.Equals, 1.0)
}

func TestWithStoreLeavesOriginal(t *testing.T) {
	c := qt.New(t)
	g, store, _, _ := newGate(t)
	ctx := context.Background()

	other := NewMockGrantStore(gomock.NewController(t))
	other.EXPECT().AccessByName(ctx, TakeQuiz).Return(model.Access{ID: 9, Name: TakeQuiz}, nil)
	other.EXPECT().GrantFor(ctx, uint64(1), uint64(9)).Return(model.UserAccess{PermissionID: 2, UserID: 1, AccessID: 9}, nil)

	c.Assert(g.WithStore(other).Authorize(ctx, ptr[uint64](1), TakeQuiz), qt.IsNil)
	c.Assert(g.store, qt.Equals, GrantStore(store))
}

func TestCapabilitiesAreUnique(t *testing.T) {
	c := qt.New(t)
	seen := make(map[string]bool)
	for _, name := range Capabilities() {
		c.Assert(seen[name], qt.IsFalse, qt.Commentf("%s listed twice", name))
		seen[name] = true
	}
	c.Assert(seen[DeleteQuestions], qt.IsTrue)
}
