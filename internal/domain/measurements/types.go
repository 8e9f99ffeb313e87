package measurements

// Kind define qué se midió.
// @Enum weight, length, temperature, humidity
type Kind string

const (
	KindWeight      Kind = "weight"
	KindLength      Kind = "length"
	KindTemperature Kind = "temperature"
	KindHumidity    Kind = "humidity"
)

func ValidKind(k Kind) bool {
	switch k {
	case KindWeight, KindLength, KindTemperature, KindHumidity:
		return true
	}
	return false
}

// DefaultUnit devuelve la unidad por defecto de cada kind.
func DefaultUnit(k Kind) string {
	switch k {
	case KindWeight:
		return "g"
	case KindLength:
		return "cm"
	case KindTemperature:
		return "c"
	case KindHumidity:
		return "%"
	default:
		return ""
	}
}
