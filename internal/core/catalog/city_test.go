package catalog

import "testing"

func TestNormalizeCityMapsKnownAliases(t *testing.T) {
	cases := map[string]string{
		"Bogota":   "Bogotá",
		"bogota":   "Bogotá",
		"Medellin": "Medellín",
		"Cali":     "Cali",
	}
	for raw, want := range cases {
		if got := NormalizeCity(raw, ""); got != want {
			t.Errorf("NormalizeCity(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeCityFallsBackToOtherCountry(t *testing.T) {
	if got := NormalizeCity("", "Peru"); got != "Other-Peru" {
		t.Fatalf("expected Other-Peru, got %q", got)
	}
}

func TestNormalizeCityFallsBackToUnknown(t *testing.T) {
	if got := NormalizeCity("", ""); got != "Unknown" {
		t.Fatalf("expected Unknown, got %q", got)
	}
}

func TestNormalizeCityPassesThroughUnmappedCity(t *testing.T) {
	if got := NormalizeCity("Quito", "Ecuador"); got != "Quito" {
		t.Fatalf("expected unmapped city to pass through unchanged, got %q", got)
	}
}
