package feedings

// PreySize define los tamaños de presa habituales.
// Texto libre permitido: cualquier valor no vacío se acepta, estos son los
// que el cliente ofrece como opciones.
type PreySize string

const (
	PreySizePinky  PreySize = "pinky"
	PreySizeFuzzy  PreySize = "fuzzy"
	PreySizeHopper PreySize = "hopper"
	PreySizeAdult  PreySize = "adult"
	PreySizeSmall  PreySize = "small"
	PreySizeMedium PreySize = "medium"
	PreySizeLarge  PreySize = "large"
)
