package factory

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkarsten/tablehost/internal/dependencies/hasher"
	"github.com/mkarsten/tablehost/internal/dependencies/mocks"
	"github.com/mkarsten/tablehost/internal/services/user"
	"github.com/mkarsten/tablehost/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockMailer *mocks.MockMailer
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Hashing runs at the minimum bcrypt cost to keep tests quick.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockMailer := mocks.NewMockMailer()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := newWithDependencies(
		store,
		mockClock,
		mockRandom,
		hasher.NewWithCost(bcrypt.MinCost),
		mockMailer,
		user.DefaultConfig(),
		logger,
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockMailer: mockMailer,
	}
}
