package match

// Price is a resource-denominated cost.
type Price struct {
	Resource ResourceKind `json:"resource"`
	Amount   int          `json:"amount"`
}

// ItemStack is an item handed to a player inventory. Resource drops use the
// resource name as the item ID.
type ItemStack struct {
	ID     string `json:"id"`
	Amount int    `json:"amount"`
}

// Stack converts a resource amount into its inventory item form.
func (r ResourceKind) Stack(amount int) ItemStack {
	return ItemStack{ID: r.String(), Amount: amount}
}

// ShopItem is a catalog entry in the item shop.
type ShopItem struct {
	ID    string
	Name  string
	Item  ItemStack
	Price Price
	// RequiresSpec gates specialization-exclusive gear. SpecNone means open.
	RequiresSpec SpecializationKind
}

// itemCatalog lists every purchasable item, keyed by shop ID.
var itemCatalog = map[string]ShopItem{
	"wool":          {ID: "wool", Name: "Wool", Item: ItemStack{"wool", 16}, Price: Price{ResourceIron, 4}},
	"plank":         {ID: "plank", Name: "Planks", Item: ItemStack{"plank", 8}, Price: Price{ResourceGold, 4}},
	"end_stone":     {ID: "end_stone", Name: "End Stone", Item: ItemStack{"end_stone", 12}, Price: Price{ResourceIron, 24}},
	"obsidian":      {ID: "obsidian", Name: "Obsidian", Item: ItemStack{"obsidian", 4}, Price: Price{ResourceEmerald, 4}},
	"sword_stone":   {ID: "sword_stone", Name: "Stone Sword", Item: ItemStack{"sword_stone", 1}, Price: Price{ResourceIron, 10}},
	"sword_iron":    {ID: "sword_iron", Name: "Iron Sword", Item: ItemStack{"sword_iron", 1}, Price: Price{ResourceGold, 7}},
	"sword_diamond": {ID: "sword_diamond", Name: "Diamond Sword", Item: ItemStack{"sword_diamond", 1}, Price: Price{ResourceEmerald, 4}},
	"bow":           {ID: "bow", Name: "Bow", Item: ItemStack{"bow", 1}, Price: Price{ResourceGold, 12}},
	"arrow":         {ID: "arrow", Name: "Arrows", Item: ItemStack{"arrow", 6}, Price: Price{ResourceGold, 2}},
	"golden_apple":  {ID: "golden_apple", Name: "Golden Apple", Item: ItemStack{"golden_apple", 1}, Price: Price{ResourceGold, 3}},
	"tnt":           {ID: "tnt", Name: "TNT", Item: ItemStack{"tnt", 1}, Price: Price{ResourceGold, 4}, RequiresSpec: SpecDestruction},
	"fireball":      {ID: "fireball", Name: "Fireball", Item: ItemStack{"fireball", 1}, Price: Price{ResourceIron, 40}, RequiresSpec: SpecDestruction},
	"golem_egg":     {ID: "golem_egg", Name: "Iron Golem", Item: ItemStack{"golem_egg", 1}, Price: Price{ResourceDiamond, 3}, RequiresSpec: SpecDefense},
	"ender_pearl":   {ID: "ender_pearl", Name: "Ender Pearl", Item: ItemStack{"ender_pearl", 1}, Price: Price{ResourceEmerald, 4}, RequiresSpec: SpecPvP},
	"potion_jump":   {ID: "potion_jump", Name: "Jump Potion", Item: ItemStack{"potion_jump", 1}, Price: Price{ResourceEmerald, 1}, RequiresSpec: SpecPvP},
}

// LookupItem returns the catalog entry for a shop ID.
func LookupItem(id string) (ShopItem, bool) {
	item, ok := itemCatalog[id]
	return item, ok
}
