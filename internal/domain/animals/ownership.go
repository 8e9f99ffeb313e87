package animals

import (
	"context"
	"strings"
)

// GetOwned devuelve el animal solo si pertenece a userID.
// Un animal ajeno responde not found: no revelamos que el id existe.
// Lo usan también los handlers de feedings/measurements/reminders para
// scopear por dueño sin duplicar la regla.
func (s *Service) GetOwned(ctx context.Context, animalID, userID string) (Animal, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return Animal{}, ErrNotFound
	}

	a, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return Animal{}, ErrNotFound
	}
	if a.OwnerUserID != userID {
		return Animal{}, ErrNotFound
	}
	return a, nil
}
