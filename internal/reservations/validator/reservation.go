package validator

import (
	"errors"
	"fmt"
	"strings"

	"reservas/pkg/interval"
	"reservas/pkg/logger"
	"reservas/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	log.Info("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

func (v *ReservationValidator) Validate(reservation *model.Reservation) error {
	if err := v.validate.Struct(reservation); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if err := validateTimeOrder(reservation.StartTime, reservation.EndTime); err != nil {
		return err
	}

	if reservation.IsBlock && strings.TrimSpace(reservation.BlockReason) == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "BlockReason",
				Message: "block_reason is required for block reservations",
			},
		}
	}

	return nil
}

func (v *ReservationValidator) ValidatePatch(patch *model.ReservationPatch) error {
	if err := v.validate.Struct(patch); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if patch.StartTime != nil && patch.EndTime != nil {
		if err := validateTimeOrder(*patch.StartTime, *patch.EndTime); err != nil {
			return err
		}
	}

	return nil
}

func (v *ReservationValidator) ValidateStateChange(change *model.StateChange) error {
	if err := v.validate.Struct(change); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// validateTimeOrder assumes both values already passed the datetime=15:04 tag,
// so parse errors indicate struct tags out of sync with this check.
func validateTimeOrder(startTime, endTime string) error {
	start, errStart := interval.ParseClock(startTime)
	end, errEnd := interval.ParseClock(endTime)
	if errStart != nil || errEnd != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: "times must be in HH:MM format",
			},
		}
	}

	if end <= start {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must match the format %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
