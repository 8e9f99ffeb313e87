package reminders

import "time"

// Reminder es una tarea del usuario, opcionalmente vinculada a un animal y
// con fecha programada. El server solo guarda el schedule; la notificación
// local la dispara el cliente.
type Reminder struct {
	ID     string
	UserID string

	// AnimalID opcional; si el animal se borra, el reminder queda sin animal.
	AnimalID *string

	Title string
	Notes string

	DueAt  *time.Time
	Repeat Repeat

	DoneAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Reminder) Done() bool {
	return r.DoneAt != nil
}
