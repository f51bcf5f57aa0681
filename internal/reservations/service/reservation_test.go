package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"reservas/internal/events"
	reservationerrors "reservas/internal/reservations/errors"
	"reservas/internal/reservations/repository"
	"reservas/internal/reservations/validator"
	"reservas/pkg/config"
	apperrors "reservas/pkg/errors"
	"reservas/pkg/logger"
	"reservas/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"

	mongotx "reservas/pkg/db/mongo"
)

// Fixed catalog ids used across the tests.
const (
	pendingID   = "64f0000000000000000000a1"
	approvedID  = "64f0000000000000000000a2"
	rejectedID  = "64f0000000000000000000a3"
	cancelledID = "64f0000000000000000000a4"

	spaceID = "64f0000000000000000000b1"

	ownerID = "64f0000000000000000000c1"
	otherID = "64f0000000000000000000c2"
	adminID = "64f0000000000000000000c3"
)

var (
	owner = model.Actor{UserID: ownerID, Priority: 2}
	other = model.Actor{UserID: otherID, Priority: 2}
	admin = model.Actor{UserID: adminID, Priority: model.AdminPriority}
)

// Mock reservation repository
type mockReservationRepository struct {
	mu           sync.Mutex
	reservations map[string]*model.Reservation

	createFunc         func(ctx context.Context, r *model.Reservation) error
	transitionFunc     func(ctx context.Context, id string, from []string, to string) error
	findBySpaceAndDate func(ctx context.Context, spaceID, date string, stateIDs []string) ([]*model.Reservation, error)
}

func newMockReservationRepository() *mockReservationRepository {
	return &mockReservationRepository{reservations: make(map[string]*model.Reservation)}
}

func (m *mockReservationRepository) put(r *model.Reservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *r
	m.reservations[r.ID] = &copied
}

func (m *mockReservationRepository) Create(ctx context.Context, r *model.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, r)
	}
	if r.ID == "" {
		r.ID = "64f0000000000000000000ff"
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.put(r)
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, reservationerrors.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *mockReservationRepository) FindAll(ctx context.Context, filter repository.ListFilter, limit int, offset int64) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Reservation
	for _, r := range m.reservations {
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockReservationRepository) Count(ctx context.Context, filter repository.ListFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.reservations)), nil
}

func (m *mockReservationRepository) FindBySpaceAndDate(ctx context.Context, space, date string, stateIDs []string) ([]*model.Reservation, error) {
	if m.findBySpaceAndDate != nil {
		return m.findBySpaceAndDate(ctx, space, date, stateIDs)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	allowed := make(map[string]bool, len(stateIDs))
	for _, id := range stateIDs {
		allowed[id] = true
	}
	var out []*model.Reservation
	for _, r := range m.reservations {
		if r.SpaceID == space && r.Date == date && allowed[r.StateID] {
			copied := *r
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockReservationRepository) TransitionState(ctx context.Context, id string, from []string, to string) error {
	if m.transitionFunc != nil {
		return m.transitionFunc(ctx, id, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return reservationerrors.ErrNotFound
	}
	matched := len(from) == 0
	for _, f := range from {
		if r.StateID == f {
			matched = true
		}
	}
	if !matched {
		return reservationerrors.ErrStateChanged
	}
	r.StateID = to
	return nil
}

func (m *mockReservationRepository) UpdateFields(ctx context.Context, id string, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.reservations[id]
	if !ok {
		return reservationerrors.ErrNotFound
	}
	copied := *r
	copied.ID = id
	copied.StateID = existing.StateID
	m.reservations[id] = &copied
	return nil
}

func (m *mockReservationRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[id]; !ok {
		return reservationerrors.ErrNotFound
	}
	delete(m.reservations, id)
	return nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

// Mock slot lock repository
type mockSlotLockRepository struct {
	mu       sync.Mutex
	held     map[string]bool
	failures int // number of initial Acquire calls that report contention
	acquired int
	released int
}

func (m *mockSlotLockRepository) Acquire(ctx context.Context, space, date string) (*model.SlotLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held == nil {
		m.held = make(map[string]bool)
	}
	m.acquired++
	if m.failures > 0 {
		m.failures--
		return nil, reservationerrors.ErrSlotContended
	}
	id := model.SlotLockID(space, date)
	if m.held[id] {
		return nil, reservationerrors.ErrSlotContended
	}
	m.held[id] = true
	return &model.SlotLock{ID: id}, nil
}

func (m *mockSlotLockRepository) Release(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released++
	delete(m.held, lockID)
	return nil
}

// Mock catalog service backed by the four canonical states
type mockCatalogService struct {
	states map[string]*model.ReservationState
	spaces map[string]*model.Space
}

func newMockCatalog() *mockCatalogService {
	states := []*model.ReservationState{
		{ID: pendingID, Name: model.StatePending, AllowsEdit: true},
		{ID: approvedID, Name: model.StateApproved},
		{ID: rejectedID, Name: model.StateRejected, IsFinal: true},
		{ID: cancelledID, Name: model.StateCancelled, IsFinal: true},
	}
	byID := make(map[string]*model.ReservationState)
	for _, s := range states {
		byID[s.ID] = s
	}
	return &mockCatalogService{
		states: byID,
		spaces: map[string]*model.Space{
			spaceID: {ID: spaceID, Name: "Conference Room A", Capacity: 12, Status: model.SpaceStatusActive},
		},
	}
}

func (m *mockCatalogService) CreateSpace(ctx context.Context, space *model.Space) (*model.Space, error) {
	return space, nil
}

func (m *mockCatalogService) GetSpace(ctx context.Context, id string) (*model.Space, error) {
	if space, ok := m.spaces[id]; ok {
		return space, nil
	}
	return nil, apperrors.NotFoundWithID("space", id)
}

func (m *mockCatalogService) ListSpaces(ctx context.Context, limit int, offset int64) ([]*model.Space, int64, error) {
	return nil, 0, nil
}

func (m *mockCatalogService) ListStates(ctx context.Context) ([]*model.ReservationState, error) {
	var out []*model.ReservationState
	for _, s := range m.states {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockCatalogService) StateByID(ctx context.Context, id string) (*model.ReservationState, error) {
	if s, ok := m.states[id]; ok {
		return s, nil
	}
	return nil, apperrors.NotFoundWithID("reservation state", id)
}

func (m *mockCatalogService) StateByName(ctx context.Context, name string) (*model.ReservationState, error) {
	for _, s := range m.states {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, apperrors.NotFound("reservation state " + name)
}

// Mock notification service
type mockNotificationService struct {
	mu       sync.Mutex
	notified []*model.Notification
}

func (m *mockNotificationService) Notify(ctx context.Context, n *model.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified = append(m.notified, n)
}

func (m *mockNotificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int, offset int64) ([]*model.Notification, int64, error) {
	return nil, 0, nil
}

func (m *mockNotificationService) MarkRead(ctx context.Context, actor model.Actor, id string) error {
	return nil
}

// Recording event sink
type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(ctx context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) byName(name string) []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []events.Event
	for _, e := range s.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type testHarness struct {
	service  *reservationService
	repo     *mockReservationRepository
	locks    *mockSlotLockRepository
	catalog  *mockCatalogService
	notifier *mockNotificationService
	sink     *recordingSink
	close    func()
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	log := logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.TEXT,
		Service: "test",
	})

	cfg := &config.Config{
		Log:                  log,
		BookingDayStart:      "08:00",
		BookingDayEnd:        "18:00",
		ApproveRetryAttempts: 3,
		ApproveRetryBackoff:  time.Millisecond,
		ReadTimeout:          5 * time.Second,
		WriteTimeout:         5 * time.Second,
	}

	sink := &recordingSink{}
	dispatcher := events.NewDispatcher(log, 64, 1, sink)

	repo := newMockReservationRepository()
	locks := &mockSlotLockRepository{}
	catalog := newMockCatalog()
	notifier := &mockNotificationService{}

	svc := &reservationService{
		repo:          repo,
		lockRepo:      locks,
		catalog:       catalog,
		notifications: notifier,
		dispatcher:    dispatcher,
		validator:     validator.NewReservationValidator(log),
		cfg:           cfg,
	}

	h := &testHarness{
		service:  svc,
		repo:     repo,
		locks:    locks,
		catalog:  catalog,
		notifier: notifier,
		sink:     sink,
		close:    dispatcher.Close,
	}
	t.Cleanup(h.close)
	return h
}

func pendingReservation(id, userID, start, end string) *model.Reservation {
	return &model.Reservation{
		ID:        id,
		Code:      "code-" + id,
		UserID:    userID,
		SpaceID:   spaceID,
		StateID:   pendingID,
		Date:      "2026-09-15",
		StartTime: start,
		EndTime:   end,
		Title:     "Meeting",
	}
}

func TestCreateStartsPending(t *testing.T) {
	h := newHarness(t)

	r := &model.Reservation{
		UserID:    ownerID,
		SpaceID:   spaceID,
		Date:      "2026-09-15",
		StartTime: "09:00",
		EndTime:   "10:00",
		Title:     "Sprint planning",
	}

	if err := h.service.Create(context.Background(), owner, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.StateID != pendingID {
		t.Errorf("expected state %s, got %s", pendingID, r.StateID)
	}
	if r.Code == "" {
		t.Error("expected a generated code")
	}
	if r.ID == "" {
		t.Error("expected a persisted id")
	}
}

func TestCreateAllowsOverlapWithExisting(t *testing.T) {
	h := newHarness(t)
	h.repo.put(pendingReservation("64f000000000000000000001", otherID, "09:00", "10:00"))

	r := &model.Reservation{
		UserID:    ownerID,
		SpaceID:   spaceID,
		Date:      "2026-09-15",
		StartTime: "09:30",
		EndTime:   "10:30",
	}

	if err := h.service.Create(context.Background(), owner, r); err != nil {
		t.Fatalf("overlapping create must succeed, got: %v", err)
	}
}

func TestCreateForOtherUserRequiresAdmin(t *testing.T) {
	h := newHarness(t)

	r := &model.Reservation{
		UserID:    otherID,
		SpaceID:   spaceID,
		Date:      "2026-09-15",
		StartTime: "09:00",
		EndTime:   "10:00",
	}

	err := h.service.Create(context.Background(), owner, r)
	if !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got: %v", err)
	}

	if err := h.service.Create(context.Background(), admin, r); err != nil {
		t.Fatalf("admin create for other user must succeed, got: %v", err)
	}
}

func TestCreateRejectsUnknownSpace(t *testing.T) {
	h := newHarness(t)

	r := &model.Reservation{
		UserID:    ownerID,
		SpaceID:   "64f0000000000000000000ee",
		Date:      "2026-09-15",
		StartTime: "09:00",
		EndTime:   "10:00",
	}

	err := h.service.Create(context.Background(), owner, r)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found, got: %v", err)
	}
}

func TestApproveRejectsOverlappingSiblings(t *testing.T) {
	h := newHarness(t)

	target := pendingReservation("64f000000000000000000001", ownerID, "09:00", "10:00")
	overlapping := pendingReservation("64f000000000000000000002", otherID, "09:30", "10:30")
	touching := pendingReservation("64f000000000000000000003", otherID, "10:00", "11:00")
	disjoint := pendingReservation("64f000000000000000000004", otherID, "14:00", "15:00")
	h.repo.put(target)
	h.repo.put(overlapping)
	h.repo.put(touching)
	h.repo.put(disjoint)

	result, err := h.service.ChangeState(context.Background(), admin, target.ID, approvedID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Reservation.StateID != approvedID {
		t.Errorf("expected target approved, got state %s", result.Reservation.StateID)
	}
	if len(result.AutoRejected) != 1 || result.AutoRejected[0].ID != overlapping.ID {
		t.Fatalf("expected exactly the overlapping sibling rejected, got %+v", result.AutoRejected)
	}

	stored, _ := h.repo.FindByID(context.Background(), overlapping.ID)
	if stored.StateID != rejectedID {
		t.Errorf("overlapping sibling not persisted as rejected: %s", stored.StateID)
	}
	for _, id := range []string{touching.ID, disjoint.ID} {
		stored, _ := h.repo.FindByID(context.Background(), id)
		if stored.StateID != pendingID {
			t.Errorf("reservation %s should stay pending, got %s", id, stored.StateID)
		}
	}
	if h.locks.released != h.locks.acquired {
		t.Errorf("lock leak: acquired %d, released %d", h.locks.acquired, h.locks.released)
	}
}

func TestChangeStateGuardedByOwnership(t *testing.T) {
	h := newHarness(t)
	target := pendingReservation("64f000000000000000000001", ownerID, "09:00", "10:00")
	h.repo.put(target)

	// A third party cannot move someone else's reservation.
	_, err := h.service.ChangeState(context.Background(), other, target.ID, approvedID)
	if !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got: %v", err)
	}

	// The owner can approve their own reservation.
	result, err := h.service.ChangeState(context.Background(), owner, target.ID, approvedID)
	if err != nil {
		t.Fatalf("owner approval failed: %v", err)
	}
	if result.Reservation.StateID != approvedID {
		t.Errorf("expected approved, got state %s", result.Reservation.StateID)
	}
}

func TestApproveRetriesOnLockContention(t *testing.T) {
	h := newHarness(t)
	target := pendingReservation("64f000000000000000000001", ownerID, "09:00", "10:00")
	h.repo.put(target)
	h.locks.failures = 2

	result, err := h.service.ChangeState(context.Background(), admin, target.ID, approvedID)
	if err != nil {
		t.Fatalf("expected retry to succeed, got: %v", err)
	}
	if result.Reservation.StateID != approvedID {
		t.Error("expected target approved after retries")
	}
	if h.locks.acquired != 3 {
		t.Errorf("expected 3 acquire attempts, got %d", h.locks.acquired)
	}
}

func TestApproveGivesUpAfterBoundedRetries(t *testing.T) {
	h := newHarness(t)
	target := pendingReservation("64f000000000000000000001", ownerID, "09:00", "10:00")
	h.repo.put(target)
	h.locks.failures = 10

	_, err := h.service.ChangeState(context.Background(), admin, target.ID, approvedID)
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict after exhausted retries, got: %v", err)
	}
	if h.locks.acquired != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", h.locks.acquired)
	}
}

func TestApproveNonPendingConflicts(t *testing.T) {
	h := newHarness(t)
	target := pendingReservation("64f000000000000000000001", ownerID, "09:00", "10:00")
	target.StateID = cancelledID
	h.repo.put(target)

	_, err := h.service.ChangeState(context.Background(), admin, target.ID, approvedID)
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got: %v", err)
	}
}

func TestConcurrentApprovalsAreExclusive(t *testing.T) {
	h := newHarness(t)

	first := pendingReservation("64f000000000000000000001", ownerID, "09:00", "10:00")
	second := pendingReservation("64f000000000000000000002", otherID, "09:30", "10:30")
	h.repo.put(first)
	h.repo.put(second)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = h.service.ChangeState(context.Background(), admin, id, approvedID)
		}(i, id)
	}
	wg.Wait()

	if errs[0] == nil && errs[1] == nil {
		t.Fatal("both overlapping approvals succeeded")
	}

	approved := 0
	for _, id := range []string{first.ID, second.ID} {
		stored, err := h.repo.FindByID(context.Background(), id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored.StateID == approvedID {
			approved++
		}
	}
	if approved > 1 {
		t.Fatalf("expected at most one approved reservation, got %d", approved)
	}
}

func TestApprovalPublishesRecomputedAvailability(t *testing.T) {
	h := newHarness(t)
	target := pendingReservation("64f000000000000000000001", ownerID, "09:00", "10:00")
	h.repo.put(target)

	if _, err := h.service.ChangeState(context.Background(), admin, target.ID, approvedID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.close() // drain the dispatcher queue

	published := h.sink.byName(events.AvailabilityUpdated)
	if len(published) == 0 {
		t.Fatal("expected an availability event")
	}
	payload := published[len(published)-1].Payload
	if payload["espacio_id"] != spaceID || payload["fecha"] != "2026-09-15" {
		t.Errorf("unexpected payload identity: %+v", payload)
	}
	ocupados, ok := payload["ocupados"].([]map[string]any)
	if !ok || len(ocupados) != 1 {
		t.Fatalf("expected one occupied slot in the payload, got %+v", payload["ocupados"])
	}
	if ocupados[0]["estado"] != model.StateApproved {
		t.Errorf("expected an approved slot, got %+v", ocupados[0])
	}
	libres, ok := payload["libres"].([]map[string]any)
	if !ok || len(libres) != 2 {
		t.Fatalf("expected two free slots in the payload, got %+v", payload["libres"])
	}
}

func TestCancelTransitions(t *testing.T) {
	h := newHarness(t)

	// Owner cancels their own pending reservation.
	first := pendingReservation("64f000000000000000000001", ownerID, "09:00", "10:00")
	h.repo.put(first)
	if _, err := h.service.ChangeState(context.Background(), owner, first.ID, cancelledID); err != nil {
		t.Fatalf("owner cancel failed: %v", err)
	}

	// A third party cannot cancel.
	second := pendingReservation("64f000000000000000000002", ownerID, "11:00", "12:00")
	h.repo.put(second)
	if _, err := h.service.ChangeState(context.Background(), other, second.ID, cancelledID); !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got: %v", err)
	}

	// Approved reservations can still be cancelled.
	third := pendingReservation("64f000000000000000000003", ownerID, "13:00", "14:00")
	third.StateID = approvedID
	h.repo.put(third)
	if _, err := h.service.ChangeState(context.Background(), admin, third.ID, cancelledID); err != nil {
		t.Fatalf("admin cancel of approved failed: %v", err)
	}

	// Cancelled is terminal.
	if _, err := h.service.ChangeState(context.Background(), admin, first.ID, approvedID); !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict reviving cancelled reservation, got: %v", err)
	}
}

func TestRejectedSiblingsGetNotified(t *testing.T) {
	h := newHarness(t)

	target := pendingReservation("64f000000000000000000001", ownerID, "09:00", "10:00")
	overlapping := pendingReservation("64f000000000000000000002", otherID, "09:00", "09:30")
	h.repo.put(target)
	h.repo.put(overlapping)

	if _, err := h.service.ChangeState(context.Background(), admin, target.ID, approvedID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h.notifier.mu.Lock()
	defer h.notifier.mu.Unlock()
	users := make(map[string]bool)
	for _, n := range h.notifier.notified {
		users[n.UserID] = true
	}
	if !users[ownerID] || !users[otherID] {
		t.Errorf("expected both owners notified, got %v", users)
	}
}

func TestPatchGuards(t *testing.T) {
	h := newHarness(t)

	r := pendingReservation("64f000000000000000000001", ownerID, "09:00", "10:00")
	h.repo.put(r)

	title := "Updated title"
	patch := &model.ReservationPatch{Title: &title}

	// A stranger cannot edit.
	if _, err := h.service.Patch(context.Background(), other, r.ID, patch); !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got: %v", err)
	}

	// The owner can, while the state allows edits.
	updated, err := h.service.Patch(context.Background(), owner, r.ID, patch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != title {
		t.Errorf("expected title %q, got %q", title, updated.Title)
	}

	// Approved reservations are frozen.
	frozen := pendingReservation("64f000000000000000000002", ownerID, "11:00", "12:00")
	frozen.StateID = approvedID
	h.repo.put(frozen)
	if _, err := h.service.Patch(context.Background(), owner, frozen.ID, patch); !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict editing approved reservation, got: %v", err)
	}
}

func TestDeleteEmitsCancellationAndAvailability(t *testing.T) {
	h := newHarness(t)
	r := pendingReservation("64f000000000000000000001", ownerID, "09:00", "10:00")
	h.repo.put(r)

	if err := h.service.Delete(context.Background(), owner, r.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.close()

	cancelled := h.sink.byName(events.ReservationCancelled)
	if len(cancelled) != 1 {
		t.Fatalf("expected one cancellation event, got %d", len(cancelled))
	}
	if cancelled[0].Payload["reserva_id"] != r.ID || cancelled[0].Payload["espacio_id"] != spaceID {
		t.Errorf("unexpected cancellation payload: %+v", cancelled[0].Payload)
	}

	avail := h.sink.byName(events.AvailabilityUpdated)
	if len(avail) == 0 {
		t.Fatal("expected an availability event after delete")
	}
	last := avail[len(avail)-1].Payload
	if libres, ok := last["libres"].([]map[string]any); !ok || len(libres) != 1 {
		t.Fatalf("expected the whole window free after delete, got %+v", last["libres"])
	}
}

func TestDeleteGuardedByOwnership(t *testing.T) {
	h := newHarness(t)

	r := pendingReservation("64f000000000000000000001", ownerID, "09:00", "10:00")
	h.repo.put(r)

	if err := h.service.Delete(context.Background(), other, r.ID); !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got: %v", err)
	}
	if err := h.service.Delete(context.Background(), owner, r.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := h.repo.FindByID(context.Background(), r.ID); err == nil {
		t.Error("expected reservation gone")
	}
}
