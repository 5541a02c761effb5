package match

import (
	"fmt"
	"log"
)

// canShop runs the validation chain shared by every purchase: in the
// match, combat running, not a spectator, on a team. Returns the player
// and their team on success.
func (a *Arena) canShop(playerID string) (*Player, *Team, Result) {
	p, ok := a.players[playerID]
	if !ok {
		return nil, nil, reject(RejectNotInMatch, "join a match first")
	}
	if a.phase != PhaseCombat {
		return nil, nil, reject(RejectWrongPhase, "the shop opens when combat starts")
	}
	if p.Spectator() {
		return nil, nil, reject(RejectSpectator, "spectators cannot shop")
	}
	if p.Team == TeamNone {
		return nil, nil, reject(RejectNoTeam, "")
	}
	return p, a.teams[p.Team], accept()
}

// TryBuyItem purchases a catalog item. The order is check everything,
// then commit: a rejected purchase changes nothing, an accepted one always
// delivers the item and collects the price.
func (a *Arena) TryBuyItem(playerID, itemID string) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, team, res := a.canShop(playerID)
	if !res.OK {
		return res
	}

	item, ok := LookupItem(itemID)
	if !ok {
		return reject(RejectUnknownTarget, "no such item")
	}
	if item.RequiresSpec != SpecNone && team.Specialization != item.RequiresSpec {
		return reject(RejectSpecLocked,
			fmt.Sprintf("%s needs the %s specialization", item.Name, item.RequiresSpec))
	}

	// Room first, then price: a player who is both full and broke hears
	// about the full inventory.
	inv := a.roster.Inventory(playerID)
	if !inv.Fits(item.Item) {
		return reject(RejectInventoryFull, "no room for that")
	}
	if !inv.HasAtLeast(item.Price) {
		return reject(RejectCannotAfford, priceMessage(item.Price))
	}
	inv.Remove(item.Price)
	if !inv.Add(item.Item) {
		// Fits said yes and the lock held throughout, so this cannot
		// happen; refund rather than eat the price.
		anomaly("shop", "delivery failed after the fit check for %s in arena %s", item.ID, a.opts.Name)
		inv.Add(item.Price.Resource.Stack(item.Price.Amount))
		return reject(RejectInventoryFull, "no room for that")
	}

	a.emitAudit(AuditPurchase, playerID, purchasePayload{Kind: "item", What: item.ID})
	log.Printf("🛒 [%s] %s bought %s", a.opts.Name, p.Name, item.ID)
	return accept()
}

// TryBuyUpgrade purchases the next level of an upgrade, routing to the
// buyer's own ledger or the team's by scope. Higher armor tiers auto-grant
// the lower ones without charging for them.
func (a *Arena) TryBuyUpgrade(playerID string, kind UpgradeKind) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, team, res := a.canShop(playerID)
	if !res.OK {
		return res
	}

	info := kind.Info()
	ledger := p.Upgrades()
	if info.Scope == ScopeTeam {
		ledger = team.Upgrades()
	}

	if kind.OneTime() && ledger.Has(kind) {
		return reject(RejectAlreadyOwned, fmt.Sprintf("you already own %s", info.Name))
	}
	if ledger.AtMax(kind) {
		return reject(RejectMaxLevel, fmt.Sprintf("%s is already maxed", info.Name))
	}

	price, ok := kind.PriceFor(ledger.Level(kind))
	if !ok {
		anomaly("shop", "no price for %s at level %d", info.Name, ledger.Level(kind))
		return reject(RejectMaxLevel, "")
	}

	inv := a.roster.Inventory(playerID)
	if !inv.HasAtLeast(price) {
		return reject(RejectCannotAfford, priceMessage(price))
	}

	inv.Remove(price)
	level := ledger.Raise(kind)
	a.applyUpgrade(p, team, kind, level)

	if info.Scope == ScopeTeam {
		team.MarkChestsStale()
		a.presenter.BroadcastTeam(team.Color, fmt.Sprintf("%s bought %s %d", p.Name, info.Name, level))
	}
	a.emitAudit(AuditPurchase, playerID, purchasePayload{Kind: "upgrade", What: info.Name, Level: level})
	log.Printf("🛒 [%s] %s bought %s -> level %d", a.opts.Name, p.Name, info.Name, level)
	return acceptLevel(level)
}

// applyUpgrade pushes a freshly bought upgrade's effect out to equipment.
func (a *Arena) applyUpgrade(buyer *Player, team *Team, kind UpgradeKind, level int) {
	switch kind {
	case UpgradeArmorChainmail, UpgradeArmorIron, UpgradeArmorDiamond:
		inv := a.roster.Inventory(buyer.ID)
		if tier, ok := bestArmor(buyer); ok {
			inv.SetArmor(tier)
		}
		inv.SetProtection(team.Upgrades().Level(UpgradeProtection))
	case UpgradeSharpness:
		for _, m := range a.fightersOf(team.Color) {
			a.roster.Inventory(m.ID).SetSharpness(level)
		}
	case UpgradeProtection:
		for _, m := range a.fightersOf(team.Color) {
			a.roster.Inventory(m.ID).SetProtection(level)
		}
	case UpgradeHaste:
		for _, m := range a.fightersOf(team.Color) {
			a.applyHaste(m, level)
		}
	case UpgradeFasterSpawners:
		for _, sp := range team.Spawners {
			sp.SetTeamUpgradeModifier(SpawnerSpeedModifier(level))
		}
	case UpgradeSpawnRegen, UpgradeSpawnResistance:
		// Passive; the tick loop picks these up near the base.
	}
}

// bestArmor returns the highest armor tier the player owns, ok false when
// no armor upgrade was ever bought.
func bestArmor(p *Player) (UpgradeKind, bool) {
	switch {
	case p.Upgrades().Has(UpgradeArmorDiamond):
		return UpgradeArmorDiamond, true
	case p.Upgrades().Has(UpgradeArmorIron):
		return UpgradeArmorIron, true
	case p.Upgrades().Has(UpgradeArmorChainmail):
		return UpgradeArmorChainmail, true
	default:
		return 0, false
	}
}

// applyHaste hands out the long-running haste effect for the team level.
func (a *Arena) applyHaste(p *Player, level int) {
	if level < 1 {
		return
	}
	a.roster.Inventory(p.ID).ApplyEffects([]Effect{
		{Kind: EffectHaste, Ticks: SecondsPerHour * TicksPerSecond, Amplifier: level - 1},
	})
}

// TryBuyTrap purchases and arms a base trap. The same trap kind cannot
// wait in the queue twice.
func (a *Arena) TryBuyTrap(playerID string, kind TrapKind) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, team, res := a.canShop(playerID)
	if !res.OK {
		return res
	}

	info := kind.Info()
	if team.TrapArmed(kind) {
		return reject(RejectTrapArmed, fmt.Sprintf("a %s is already armed", info.Name))
	}

	inv := a.roster.Inventory(playerID)
	if !inv.HasAtLeast(info.Price) {
		return reject(RejectCannotAfford, priceMessage(info.Price))
	}

	inv.Remove(info.Price)
	team.ArmTrap(kind)

	a.presenter.BroadcastTeam(team.Color, fmt.Sprintf("%s armed a %s", p.Name, info.Name))
	a.emitAudit(AuditPurchase, playerID, purchasePayload{Kind: "trap", What: info.Name})
	log.Printf("🛒 [%s] %s armed %s for team %s", a.opts.Name, p.Name, info.Name, team.Color)
	return accept()
}

func priceMessage(p Price) string {
	return fmt.Sprintf("you need %d %s", p.Amount, p.Resource)
}
