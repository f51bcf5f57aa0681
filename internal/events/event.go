package events

import "reservas/pkg/model"

// Wire event names. Consumers of the legacy feed match on these strings, so
// they stay in Spanish regardless of the API surface.
const (
	ReservationCreated   = "reserva_creada"
	ReservationUpdated   = "reserva_actualizada"
	ReservationCancelled = "reserva_cancelada"
	AvailabilityUpdated  = "disponibilidad_actualizada"
	Notification         = "notificacion"
)

// Event is one fire-and-forget message for downstream consumers.
type Event struct {
	Name    string         `json:"evento"`
	Payload map[string]any `json:"datos"`
}

// ReservationPayload builds the legacy payload shape for reservation events.
func ReservationPayload(r *model.Reservation, stateName string) map[string]any {
	return map[string]any{
		"reserva_id":  r.ID,
		"usuario_id":  r.UserID,
		"espacio_id":  r.SpaceID,
		"fecha":       r.Date,
		"hora_inicio": r.StartTime,
		"hora_fin":    r.EndTime,
		"estado":      stateName,
	}
}

// AvailabilityPayload carries the recomputed free/occupied picture for one
// (space, date) pair, in the legacy key scheme.
func AvailabilityPayload(a *model.AvailabilityResult) map[string]any {
	ocupados := make([]map[string]any, 0, len(a.Occupied))
	for _, slot := range a.Occupied {
		ocupados = append(ocupados, map[string]any{
			"id":          slot.ID,
			"estado":      slot.State,
			"hora_inicio": slot.StartTime,
			"hora_fin":    slot.EndTime,
			"titulo":      slot.Title,
			"usuario_id":  slot.UserID,
		})
	}

	libres := make([]map[string]any, 0, len(a.Free))
	for _, slot := range a.Free {
		libres = append(libres, map[string]any{
			"hora_inicio": slot.StartTime,
			"hora_fin":    slot.EndTime,
		})
	}

	var nombre any
	if a.SpaceName != nil {
		nombre = *a.SpaceName
	}

	return map[string]any{
		"espacio_id":     a.SpaceID,
		"espacio_nombre": nombre,
		"fecha":          a.Date,
		"dia_semana":     a.Weekday,
		"ocupados":       ocupados,
		"libres":         libres,
	}
}

// DeletionPayload identifies a reservation removed from the calendar.
func DeletionPayload(r *model.Reservation) map[string]any {
	return map[string]any{
		"reserva_id": r.ID,
		"espacio_id": r.SpaceID,
	}
}

// NotificationPayload builds the payload for user-facing notifications.
func NotificationPayload(n *model.Notification) map[string]any {
	return map[string]any{
		"usuario_id": n.UserID,
		"titulo":     n.Title,
		"mensaje":    n.Message,
	}
}
