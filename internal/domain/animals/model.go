package animals

import "time"

// Species agrupa los tipos de reptil más comunes.
// Se guarda tal cual; el cliente puede mandar texto libre con "other".
// @Enum snake, lizard, gecko, turtle, tortoise, amphibian, other
type Species string

const (
	SpeciesSnake     Species = "snake"
	SpeciesLizard    Species = "lizard"
	SpeciesGecko     Species = "gecko"
	SpeciesTurtle    Species = "turtle"
	SpeciesTortoise  Species = "tortoise"
	SpeciesAmphibian Species = "amphibian"
	SpeciesOther     Species = "other"
)

// Sex define el sexo del animal.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Animal representa un reptil registrado por un usuario.
type Animal struct {
	ID          string
	OwnerUserID string

	Name    string
	Species string // ver Species
	Morph   string // fase/morph, texto libre (ej "albino", "pastel")
	Sex     Sex

	HatchDate  *time.Time
	AcquiredAt *time.Time

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
