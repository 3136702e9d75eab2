package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookingcore/database/repository/memory"
	"bookingcore/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

const (
	providerID = "provider-1"
	clientID   = "client-1"
	adminID    = "admin-1"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type reminderCall struct {
	BookingID string
	Channel   string
	At        time.Time
	Payload   models.NotificationPayload
}

type dispatchCall struct {
	UserID   string
	Template string
	Payload  models.NotificationPayload
	Channels []string
}

type recordingNotifier struct {
	mu         sync.Mutex
	reminders  []reminderCall
	dispatches []dispatchCall
	err        error
}

func (n *recordingNotifier) ScheduleReminder(_ context.Context, bookingID, channel string, at time.Time, payload models.NotificationPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.reminders = append(n.reminders, reminderCall{BookingID: bookingID, Channel: channel, At: at, Payload: payload})
	return nil
}

func (n *recordingNotifier) Dispatch(_ context.Context, userID, templateType string, payload models.NotificationPayload, channels []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.dispatches = append(n.dispatches, dispatchCall{UserID: userID, Template: templateType, Payload: payload, Channels: channels})
	return nil
}

func (n *recordingNotifier) templates() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.dispatches))
	for _, d := range n.dispatches {
		out = append(out, d.Template)
	}
	return out
}

type fakeDeposits struct {
	calls int
	err   error
}

func (d *fakeDeposits) CreateDepositLink(_ context.Context, b *models.Booking, amount float64) (string, error) {
	d.calls++
	if d.err != nil {
		return "", d.err
	}
	return "https://pay.example.com/" + b.BookingNumber, nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

// failingStore fails selected writes to exercise rollback.
type failingStore struct {
	*memory.Store
	failAudit bool
}

func (s *failingStore) AppendAuditEntry(ctx context.Context, entry models.AuditEntry) error {
	if s.failAudit {
		return errors.New("audit collection unavailable")
	}
	return s.Store.AppendAuditEntry(ctx, entry)
}

// observingStats records the committed status of every booking when the
// counters are bumped, then fails.
type observingStats struct {
	store *memory.Store
	mu    sync.Mutex
	seen  []models.BookingStatus
}

func (o *observingStats) IncrementConfirmed(ctx context.Context, _ string, _ time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, b := range o.store.Bookings() {
		o.seen = append(o.seen, b.Status)
	}
	return errors.New("providers collection unavailable")
}

type failingSlots struct {
	*memory.Store
}

func (failingSlots) CreateMany(context.Context, []models.ScheduleSlot) error {
	return errors.New("slots collection unavailable")
}

type testEnv struct {
	store    *memory.Store
	clock    *testClock
	notifier *recordingNotifier
	deposits *fakeDeposits
	events   *recordingPublisher
	policy   Policy
	svc      *Service
}

type envOption func(*testEnv, *Deps)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	env := &testEnv{
		store:    memory.NewStore(),
		clock:    &testClock{now: baseTime},
		notifier: &recordingNotifier{},
		deposits: &fakeDeposits{},
		events:   &recordingPublisher{},
	}
	env.policy = DefaultPolicy()
	env.policy.AdminIDs = []string{adminID}

	env.store.PutProvider(&models.Provider{
		ID:                providerID,
		Name:              "Jane Provider",
		PhoneNumber:       "+254700000001",
		Address:           "4 Studio Lane",
		Status:            models.ProviderActive,
		AcceptingBookings: true,
	})
	env.store.PutClient(&models.Client{ID: clientID, Name: "Carl Client", PhoneNumber: "+254700000002"})

	deps := Deps{
		Bookings:  env.store,
		Providers: env.store,
		Clients:   env.store,
		Stats:     env.store,
		Slots:     env.store,
		Notifier:  env.notifier,
		Deposits:  env.deposits,
		Events:    env.events,
		Clock:     env.clock.Now,
	}
	for _, opt := range opts {
		opt(env, &deps)
	}
	env.svc = NewService(deps, env.policy, zap.NewNop())
	return env
}

func withAutoConfirm(env *testEnv, _ *Deps) {
	p, _ := env.store.GetProvider(context.Background(), providerID)
	p.AutoConfirm = true
	env.store.PutProvider(p)
}

func at(h, m int) time.Time {
	return time.Date(baseTime.Year(), baseTime.Month(), baseTime.Day(), h, m, 0, 0, time.UTC)
}

func request(start, end time.Time) models.CreateBookingRequest {
	return models.CreateBookingRequest{
		ClientID:      clientID,
		ProviderID:    providerID,
		ServiceName:   "Deep tissue massage",
		ServiceIDs:    []string{"svc-1", "svc-2"},
		StartTime:     start,
		EndTime:       end,
		Price:         80,
		ClientPhone:   "+254700000002",
		ClientAddress: "Client Road 1",
	}
}

func (env *testEnv) create(t *testing.T, start, end time.Time) *models.Booking {
	t.Helper()
	b, err := env.svc.Create(context.Background(), request(start, end))
	require.NoError(t, err)
	return b
}

func (env *testEnv) confirm(t *testing.T, id string) *models.Booking {
	t.Helper()
	b, err := env.svc.Confirm(context.Background(), id, providerID, models.ConfirmationOptions{})
	require.NoError(t, err)
	return b
}

func countActions(log []models.AuditEntry, action string) int {
	n := 0
	for _, e := range log {
		if e.Action == action {
			n++
		}
	}
	return n
}
