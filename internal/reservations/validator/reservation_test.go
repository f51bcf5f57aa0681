package validator

import (
	"strings"
	"testing"

	"reservas/pkg/logger"
	"reservas/pkg/model"
)

func newTestValidator() *ReservationValidator {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT})
	return NewReservationValidator(log)
}

func validReservation() *model.Reservation {
	return &model.Reservation{
		UserID:      "507f1f77bcf86cd799439011",
		SpaceID:     "507f1f77bcf86cd799439012",
		EventTypeID: "507f1f77bcf86cd799439013",
		Date:        "2026-09-15",
		StartTime:   "09:00",
		EndTime:     "10:30",
		Title:       "Sprint planning",
	}
}

func TestValidateAcceptsWellFormedReservation(t *testing.T) {
	v := newTestValidator()

	if err := v.Validate(validReservation()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateRejectsEndBeforeStart(t *testing.T) {
	v := newTestValidator()

	r := validReservation()
	r.StartTime = "14:00"
	r.EndTime = "13:00"

	err := v.Validate(r)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "end_time must be after start_time") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidateRejectsZeroLengthInterval(t *testing.T) {
	v := newTestValidator()

	r := validReservation()
	r.StartTime = "14:00"
	r.EndTime = "14:00"

	if err := v.Validate(r); err == nil {
		t.Fatal("expected validation error for zero-length interval, got nil")
	}
}

func TestValidateRejectsMalformedTime(t *testing.T) {
	v := newTestValidator()

	cases := []string{"9:00", "0900", "25:00", "12:61", "noon"}
	for _, tc := range cases {
		r := validReservation()
		r.StartTime = tc

		if err := v.Validate(r); err == nil {
			t.Errorf("expected validation error for start_time %q, got nil", tc)
		}
	}
}

func TestValidateRejectsMalformedDate(t *testing.T) {
	v := newTestValidator()

	r := validReservation()
	r.Date = "15/09/2026"

	if err := v.Validate(r); err == nil {
		t.Fatal("expected validation error for malformed date, got nil")
	}
}

func TestValidateRequiresBlockReasonForBlocks(t *testing.T) {
	v := newTestValidator()

	r := validReservation()
	r.IsBlock = true
	r.BlockReason = "   "

	err := v.Validate(r)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "block_reason") {
		t.Errorf("unexpected error message: %v", err)
	}

	r.BlockReason = "Maintenance window"
	if err := v.Validate(r); err != nil {
		t.Fatalf("expected no error with block reason set, got: %v", err)
	}
}

func TestValidatePatchTimeOrder(t *testing.T) {
	v := newTestValidator()

	start := "16:00"
	end := "15:00"
	patch := &model.ReservationPatch{StartTime: &start, EndTime: &end}

	if err := v.ValidatePatch(patch); err == nil {
		t.Fatal("expected validation error, got nil")
	}

	end = "17:00"
	if err := v.ValidatePatch(patch); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidatePatchAllowsSingleSidedTimes(t *testing.T) {
	v := newTestValidator()

	start := "16:00"
	patch := &model.ReservationPatch{StartTime: &start}

	if err := v.ValidatePatch(patch); err != nil {
		t.Fatalf("expected no error for start-only patch, got: %v", err)
	}
}

func TestValidateStateChange(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateStateChange(&model.StateChange{StateID: "507f1f77bcf86cd799439099"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if err := v.ValidateStateChange(&model.StateChange{}); err == nil {
		t.Fatal("expected validation error for missing state_id, got nil")
	}
}
