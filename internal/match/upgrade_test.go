package match

import "testing"

// TestLedgerRaiseAndCascade verifies level bookkeeping and the armor
// unlock cascade.
func TestLedgerRaiseAndCascade(t *testing.T) {
	l := NewLedger()

	if l.Has(UpgradeSharpness) || l.Level(UpgradeSharpness) != 0 {
		t.Fatal("fresh ledger owns something")
	}

	if got := l.Raise(UpgradeSharpness); got != 1 {
		t.Errorf("first raise = %d, want 1", got)
	}
	if got := l.Raise(UpgradeSharpness); got != 2 {
		t.Errorf("second raise = %d, want 2", got)
	}
	if !l.AtMax(UpgradeSharpness) {
		t.Error("sharpness 2 not at max")
	}
	// Raising past max stays put.
	if got := l.Raise(UpgradeSharpness); got != 2 {
		t.Errorf("raise past max = %d, want 2", got)
	}

	// Diamond armor unlocks the whole chain.
	l.Raise(UpgradeArmorDiamond)
	if !l.Has(UpgradeArmorChainmail) || !l.Has(UpgradeArmorIron) {
		t.Error("diamond armor did not unlock the lower tiers")
	}

	l.Reset()
	if l.Has(UpgradeArmorDiamond) || l.Has(UpgradeSharpness) {
		t.Error("Reset left upgrades behind")
	}
}

// TestCascadeNeverDowngrades verifies a later purchase of a higher tier
// keeps already-granted unlocks where they are.
func TestCascadeNeverDowngrades(t *testing.T) {
	l := NewLedger()
	l.Raise(UpgradeArmorChainmail)
	l.Raise(UpgradeArmorDiamond)
	if got := l.Level(UpgradeArmorChainmail); got != 1 {
		t.Errorf("chainmail level = %d, want 1", got)
	}
}

// TestPriceForBounds verifies pricing is defined exactly up to max level.
func TestPriceForBounds(t *testing.T) {
	if _, ok := UpgradeProtection.PriceFor(0); !ok {
		t.Error("no price for protection level 1")
	}
	if _, ok := UpgradeProtection.PriceFor(2); !ok {
		t.Error("no price for protection level 3")
	}
	if _, ok := UpgradeProtection.PriceFor(3); ok {
		t.Error("price past max level")
	}
	if _, ok := UpgradeProtection.PriceFor(-1); ok {
		t.Error("price for a negative level")
	}
}

// TestUpgradePricesAscend verifies multi-level upgrades get dearer per
// level.
func TestUpgradePricesAscend(t *testing.T) {
	for kind, info := range upgradeTable {
		for i := 1; i < len(info.Prices); i++ {
			prev, cur := info.Prices[i-1], info.Prices[i]
			if cur.Resource == prev.Resource && cur.Amount <= prev.Amount {
				t.Errorf("%s level %d price %d not above level %d price %d",
					kind, i+1, cur.Amount, i, prev.Amount)
			}
		}
	}
}

// TestSpawnerSpeedModifier verifies the level-to-divisor mapping.
func TestSpawnerSpeedModifier(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{{0, 1.0}, {1, 1.25}, {2, 1.5}}
	for _, tt := range tests {
		if got := SpawnerSpeedModifier(tt.level); got != tt.want {
			t.Errorf("SpawnerSpeedModifier(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

// TestParseUpgrade verifies round-tripping every catalog name.
func TestParseUpgrade(t *testing.T) {
	for kind, info := range upgradeTable {
		got, ok := ParseUpgrade(info.Name)
		if !ok || got != kind {
			t.Errorf("ParseUpgrade(%q) = %v,%v", info.Name, got, ok)
		}
	}
	if _, ok := ParseUpgrade("nope"); ok {
		t.Error("parsed an unknown upgrade name")
	}
}
