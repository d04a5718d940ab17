package types

import "testing"

func TestPowerupTypeRoundTrip(t *testing.T) {
	for _, p := range AllPowerupTypes {
		parsed, ok := ParsePowerupType(p.String())
		if !ok {
			t.Fatalf("ParsePowerupType(%q) failed", p.String())
		}
		if parsed != p {
			t.Errorf("expected %v, got %v", p, parsed)
		}
	}

	if PowerupNone.String() != "" {
		t.Errorf("PowerupNone should have empty name, got %q", PowerupNone.String())
	}
	if _, ok := ParsePowerupType("Shield"); ok {
		t.Error("unknown powerup name should not parse")
	}
}

func TestParsePowerupConfigKeys(t *testing.T) {
	tests := map[string]PowerupType{
		"speedBoost":   PowerupSpeedBoost,
		"powerHit":     PowerupPowerHit,
		"misdirection": PowerupMisdirection,
	}
	for key, want := range tests {
		got, ok := ParsePowerupType(key)
		if !ok || got != want {
			t.Errorf("ParsePowerupType(%q) = %v, %v; want %v", key, got, ok, want)
		}
	}
}

func TestHitterString(t *testing.T) {
	if HitterNone.String() != "none" || HitterHuman.String() != "human" || HitterAI.String() != "ai" {
		t.Error("unexpected hitter names")
	}
}
