package reservations

import (
	"fmt"
	"net/http"
	"testing"

	"reservas/pkg/model"
	"reservas/test/integration/testutil"
)

func setup(t *testing.T) (*testutil.MongoHelper, *testutil.Client) {
	t.Helper()
	testutil.RequireIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	t.Cleanup(func() { env.Cleanup(t, mongo) })
	return mongo, client
}

func adminHeaders() map[string]string {
	return testutil.ActorHeaders(testutil.AdminUserID, 1)
}

func createSpace(t *testing.T, client *testutil.Client) model.Space {
	t.Helper()

	resp := client.POSTWithHeaders(t, "/api/v1/spaces", testutil.ValidSpace(), adminHeaders())
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var space model.Space
	if err := resp.UnmarshalData(&space); err != nil {
		t.Fatalf("failed to unmarshal space: %v", err)
	}
	return space
}

func statesByName(t *testing.T, client *testutil.Client) map[string]model.ReservationState {
	t.Helper()

	resp := client.GET(t, "/api/v1/states")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var states []model.ReservationState
	if err := resp.UnmarshalData(&states); err != nil {
		t.Fatalf("failed to unmarshal states: %v", err)
	}

	byName := make(map[string]model.ReservationState, len(states))
	for _, s := range states {
		byName[s.Name] = s
	}
	for _, name := range []string{model.StatePending, model.StateApproved, model.StateRejected, model.StateCancelled} {
		if _, ok := byName[name]; !ok {
			t.Fatalf("state catalog not seeded, missing %s (run the migrate job)", name)
		}
	}
	return byName
}

func createReservation(t *testing.T, client *testutil.Client, r model.Reservation) model.Reservation {
	t.Helper()

	resp := client.POSTWithHeaders(t, "/api/v1/reservations", r, testutil.ActorHeaders(r.UserID, 2))
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created model.Reservation
	if err := resp.UnmarshalData(&created); err != nil {
		t.Fatalf("failed to unmarshal reservation: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected reservation ID to be set")
	}
	return created
}

func TestReservationLifecycleWithConflictResolution(t *testing.T) {
	_, client := setup(t)

	space := createSpace(t, client)
	states := statesByName(t, client)

	// Two overlapping requests from different users. Both are accepted:
	// creation never checks for conflicts.
	first := createReservation(t, client, testutil.NewReservationBuilder(space.ID).
		WithTimes("09:00", "10:00").Build())
	second := createReservation(t, client, testutil.NewReservationBuilder(space.ID).
		WithUser(testutil.OtherUserID).WithTimes("09:30", "10:30").Build())

	if first.StateID != states[model.StatePending].ID {
		t.Errorf("expected new reservation to be pending, got state %s", first.StateID)
	}

	// Approving the first must reject the overlapping sibling atomically.
	resp := client.PATCHWithHeaders(t,
		fmt.Sprintf("/api/v1/reservations/id/%s/state", first.ID),
		model.StateChange{StateID: states[model.StateApproved].ID},
		adminHeaders(),
	)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var result model.StateChangeResult
	if err := resp.UnmarshalData(&result); err != nil {
		t.Fatalf("failed to unmarshal state change result: %v", err)
	}
	if result.Reservation.StateID != states[model.StateApproved].ID {
		t.Error("expected target reservation to be approved")
	}
	if len(result.AutoRejected) != 1 || result.AutoRejected[0].ID != second.ID {
		t.Fatalf("expected the overlapping sibling to be auto-rejected, got %+v", result.AutoRejected)
	}

	// The sibling's stored state must match.
	resp = client.GET(t, "/api/v1/reservations/id/"+second.ID)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var rejected model.Reservation
	if err := resp.UnmarshalData(&rejected); err != nil {
		t.Fatalf("failed to unmarshal reservation: %v", err)
	}
	if rejected.StateID != states[model.StateRejected].ID {
		t.Errorf("expected sibling to be rejected, got state %s", rejected.StateID)
	}
}

func TestAvailabilityReflectsApprovedReservations(t *testing.T) {
	_, client := setup(t)

	space := createSpace(t, client)
	states := statesByName(t, client)

	reservation := createReservation(t, client, testutil.NewReservationBuilder(space.ID).
		WithTimes("09:00", "10:30").Build())

	// Pending reservations block the calendar by default.
	resp := client.GET(t, fmt.Sprintf("/api/v1/availability?space_id=%s&date=%s", space.ID, reservation.Date))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var availability model.AvailabilityResult
	if err := resp.UnmarshalData(&availability); err != nil {
		t.Fatalf("failed to unmarshal availability: %v", err)
	}
	if len(availability.Occupied) != 1 {
		t.Fatalf("expected the pending slot occupied by default, got %d", len(availability.Occupied))
	}

	// Opting out of pending reservations frees the whole window.
	resp = client.GET(t, fmt.Sprintf("/api/v1/availability?space_id=%s&date=%s&include_pending=false", space.ID, reservation.Date))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	if err := resp.UnmarshalData(&availability); err != nil {
		t.Fatalf("failed to unmarshal availability: %v", err)
	}
	if len(availability.Occupied) != 0 {
		t.Errorf("expected no occupied slots without pending, got %d", len(availability.Occupied))
	}
	if len(availability.Free) != 1 || availability.Free[0].StartTime != "08:00" || availability.Free[0].EndTime != "18:00" {
		t.Errorf("expected the whole window free, got %+v", availability.Free)
	}

	// After approval the slot blocks unconditionally.
	resp = client.PATCHWithHeaders(t,
		fmt.Sprintf("/api/v1/reservations/id/%s/state", reservation.ID),
		model.StateChange{StateID: states[model.StateApproved].ID},
		adminHeaders(),
	)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = client.GET(t, fmt.Sprintf("/api/v1/availability?space_id=%s&date=%s&include_pending=false", space.ID, reservation.Date))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	if err := resp.UnmarshalData(&availability); err != nil {
		t.Fatalf("failed to unmarshal availability: %v", err)
	}
	if len(availability.Occupied) != 1 {
		t.Fatalf("expected 1 occupied slot after approval, got %d", len(availability.Occupied))
	}
	if availability.Occupied[0].StartTime != "09:00" || availability.Occupied[0].EndTime != "10:30" {
		t.Errorf("unexpected occupied slot: %+v", availability.Occupied[0])
	}
	if len(availability.Free) != 2 {
		t.Fatalf("expected 2 free gaps, got %+v", availability.Free)
	}
	if availability.Free[0].StartTime != "08:00" || availability.Free[0].EndTime != "09:00" {
		t.Errorf("unexpected leading gap: %+v", availability.Free[0])
	}
	if availability.Free[1].StartTime != "10:30" || availability.Free[1].EndTime != "18:00" {
		t.Errorf("unexpected trailing gap: %+v", availability.Free[1])
	}
}

func TestStateTransitionGuards(t *testing.T) {
	_, client := setup(t)

	space := createSpace(t, client)
	states := statesByName(t, client)

	reservation := createReservation(t, client, testutil.NewReservationBuilder(space.ID).Build())

	// A third party cannot approve someone else's reservation.
	resp := client.PATCHWithHeaders(t,
		fmt.Sprintf("/api/v1/reservations/id/%s/state", reservation.ID),
		model.StateChange{StateID: states[model.StateApproved].ID},
		testutil.ActorHeaders(testutil.OtherUserID, 2),
	)
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)

	// A third party cannot cancel someone else's reservation.
	resp = client.PATCHWithHeaders(t,
		fmt.Sprintf("/api/v1/reservations/id/%s/state", reservation.ID),
		model.StateChange{StateID: states[model.StateCancelled].ID},
		testutil.ActorHeaders(testutil.OtherUserID, 2),
	)
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)

	// The owner can cancel their own pending reservation.
	resp = client.PATCHWithHeaders(t,
		fmt.Sprintf("/api/v1/reservations/id/%s/state", reservation.ID),
		model.StateChange{StateID: states[model.StateCancelled].ID},
		testutil.ActorHeaders(testutil.OwnerUserID, 2),
	)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// Cancelled is terminal.
	resp = client.PATCHWithHeaders(t,
		fmt.Sprintf("/api/v1/reservations/id/%s/state", reservation.ID),
		model.StateChange{StateID: states[model.StateApproved].ID},
		adminHeaders(),
	)
	testutil.AssertStatusCode(t, resp, http.StatusConflict)

	// The owner can approve their own pending reservation.
	own := createReservation(t, client, testutil.NewReservationBuilder(space.ID).
		WithTimes("14:00", "15:00").Build())
	resp = client.PATCHWithHeaders(t,
		fmt.Sprintf("/api/v1/reservations/id/%s/state", own.ID),
		model.StateChange{StateID: states[model.StateApproved].ID},
		testutil.ActorHeaders(testutil.OwnerUserID, 2),
	)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}
