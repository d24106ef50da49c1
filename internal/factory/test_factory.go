package factory

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/rpserver-go/internal/dependencies/mocks"
	presencememory "github.com/mcoot/rpserver-go/internal/presence/memory"
	"github.com/mcoot/rpserver-go/internal/services/auth"
	"github.com/mcoot/rpserver-go/internal/services/session"
	"github.com/mcoot/rpserver-go/internal/storage/sqlstore/sqltest"
	"github.com/mcoot/rpserver-go/internal/testutil"
)

// TestTokenSecret signs admin tokens in test apps
const TestTokenSecret = "test-secret"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App on a temporary SQLite database with mocked
// clock and randomness. The dispatch loop is running and everything is
// torn down when the test ends.
func NewTestApp(t testing.TB) *TestApp {
	t.Helper()

	store := sqltest.NewStore(t)
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	authCfg := auth.Config{
		TokenSecret: TestTokenSecret,
		TokenTTL:    time.Hour,
		BcryptCost:  bcrypt.MinCost,
	}

	app := newWithDependencies(store, presencememory.New(), mockClock, mockRandom, authCfg,
		session.DefaultConfig(), 5*time.Second, testutil.NopLogger())
	if err := app.Sessions.Init(context.Background()); err != nil {
		t.Fatalf("init sessions: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go app.Loop.Run(ctx)
	t.Cleanup(func() {
		app.Gateway.Close()
		cancel()
		app.Loop.Close()
	})

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// Do runs fn on the dispatch loop, failing the test on error
func (t *TestApp) Do(tb testing.TB, fn func(ctx context.Context) error) {
	tb.Helper()
	if err := t.Loop.Do(context.Background(), "test", fn); err != nil {
		tb.Fatalf("dispatch: %v", err)
	}
}
