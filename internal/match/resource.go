package match

// ResourceKind identifies a spawnable currency resource.
type ResourceKind int

const (
	ResourceIron ResourceKind = iota
	ResourceGold
	ResourceDiamond
	ResourceEmerald
)

// ResourceInfo describes the spawn behavior of one resource kind.
type ResourceInfo struct {
	Name string
	// BaseInterval is the unmodified spawn period in ticks at 20 TPS.
	BaseInterval int
	// DropCap is the max uncollected drops one spawner may have on the ground.
	DropCap int
	// Shared marks map-center resources (diamond/emerald). Shared spawners
	// ignore the team-size and team-upgrade interval modifiers.
	Shared bool
}

var resourceTable = map[ResourceKind]ResourceInfo{
	ResourceIron:    {Name: "iron", BaseInterval: 15, DropCap: 32},
	ResourceGold:    {Name: "gold", BaseInterval: 80, DropCap: 8},
	ResourceDiamond: {Name: "diamond", BaseInterval: 400, DropCap: 4, Shared: true},
	ResourceEmerald: {Name: "emerald", BaseInterval: 800, DropCap: 2, Shared: true},
}

// Info returns the static description of the resource kind.
func (r ResourceKind) Info() ResourceInfo {
	return resourceTable[r]
}

func (r ResourceKind) String() string {
	return resourceTable[r].Name
}

// ParseResource maps a config/API name back to a resource kind.
func ParseResource(name string) (ResourceKind, bool) {
	for kind, info := range resourceTable {
		if info.Name == name {
			return kind, true
		}
	}
	return 0, false
}
