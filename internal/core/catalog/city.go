package catalog

import "strings"

// cityMapping canonicalizes raw city strings, grounded on
// data_service.py's _normalize_city mapping table.
var cityMapping = map[string]string{
	"Bogotá":            "Bogotá",
	"Bogotá D.C.":       "Bogotá",
	"Bogota":            "Bogotá",
	"bogota":            "Bogotá",
	"Medellin":          "Medellín",
	"medellin":          "Medellín",
	"Cali":              "Cali",
	"cali":              "Cali",
	"Barranquilla":      "Barranquilla",
	"barranquilla":      "Barranquilla",
	"Bucaramanga":       "Bucaramanga",
	"Distrito Federal":  "CDMX",
	"Ciudad de México":  "CDMX",
	"Nuevo Leon":        "Monterrey",
	"Nuevo León":        "Monterrey",
}

// NormalizeCity canonicalizes a raw city/country pair into a display city.
// An empty city falls back to "Other-<country>" or "Unknown" when the
// country is also empty.
func NormalizeCity(city, country string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		if country != "" {
			return "Other-" + country
		}
		return "Unknown"
	}
	if mapped, ok := cityMapping[city]; ok {
		return mapped
	}
	return city
}
