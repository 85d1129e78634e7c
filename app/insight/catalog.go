package insight

// CatalogEntry describes a weapon or a map the engine breaks statistics down by.
// Key is the suffix of the counter names, e.g. "ak47" for "total_kills_ak47".
type CatalogEntry struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Weapon categories.
const (
	CategoryRifle   = "Rifle"
	CategorySniper  = "Sniper"
	CategoryPistol  = "Pistol"
	CategorySMG     = "SMG"
	CategoryHeavy   = "Heavy"
	CategoryGrenade = "Grenade"
	CategoryMelee   = "Melee"
)

// DefaultWeapons lists the weapons with per-weapon counters in CS2 stats.
var DefaultWeapons = []CatalogEntry{
	{Key: "ak47", Name: "AK-47", Category: CategoryRifle},
	{Key: "m4a1", Name: "M4A4", Category: CategoryRifle},
	{Key: "aug", Name: "AUG", Category: CategoryRifle},
	{Key: "sg556", Name: "SG 553", Category: CategoryRifle},
	{Key: "famas", Name: "FAMAS", Category: CategoryRifle},
	{Key: "galilar", Name: "Galil AR", Category: CategoryRifle},
	{Key: "awp", Name: "AWP", Category: CategorySniper},
	{Key: "ssg08", Name: "SSG 08", Category: CategorySniper},
	{Key: "scar20", Name: "SCAR-20", Category: CategorySniper},
	{Key: "g3sg1", Name: "G3SG1", Category: CategorySniper},
	{Key: "deagle", Name: "Desert Eagle", Category: CategoryPistol},
	{Key: "glock", Name: "Glock-18", Category: CategoryPistol},
	{Key: "hkp2000", Name: "P2000", Category: CategoryPistol},
	{Key: "p250", Name: "P250", Category: CategoryPistol},
	{Key: "fiveseven", Name: "Five-SeveN", Category: CategoryPistol},
	{Key: "tec9", Name: "Tec-9", Category: CategoryPistol},
	{Key: "elite", Name: "Dual Berettas", Category: CategoryPistol},
	{Key: "mp7", Name: "MP7", Category: CategorySMG},
	{Key: "mp9", Name: "MP9", Category: CategorySMG},
	{Key: "mac10", Name: "MAC-10", Category: CategorySMG},
	{Key: "ump45", Name: "UMP-45", Category: CategorySMG},
	{Key: "p90", Name: "P90", Category: CategorySMG},
	{Key: "bizon", Name: "PP-Bizon", Category: CategorySMG},
	{Key: "nova", Name: "Nova", Category: CategoryHeavy},
	{Key: "xm1014", Name: "XM1014", Category: CategoryHeavy},
	{Key: "mag7", Name: "MAG-7", Category: CategoryHeavy},
	{Key: "sawedoff", Name: "Sawed-Off", Category: CategoryHeavy},
	{Key: "negev", Name: "Negev", Category: CategoryHeavy},
	{Key: "m249", Name: "M249", Category: CategoryHeavy},
}

// DefaultMaps lists the maps with per-map counters in CS2 stats.
var DefaultMaps = []CatalogEntry{
	{Key: "de_dust2", Name: "Dust II"},
	{Key: "de_inferno", Name: "Inferno"},
	{Key: "de_nuke", Name: "Nuke"},
	{Key: "de_train", Name: "Train"},
	{Key: "de_vertigo", Name: "Vertigo"},
	{Key: "de_cbble", Name: "Cobblestone"},
	{Key: "de_aztec", Name: "Aztec"},
	{Key: "de_lake", Name: "Lake"},
	{Key: "de_safehouse", Name: "Safehouse"},
	{Key: "de_shorttrain", Name: "Shorttrain"},
	{Key: "de_bank", Name: "Bank"},
	{Key: "de_stmarc", Name: "St. Marc"},
	{Key: "de_sugarcane", Name: "Sugarcane"},
	{Key: "cs_office", Name: "Office"},
	{Key: "cs_italy", Name: "Italy"},
	{Key: "cs_assault", Name: "Assault"},
	{Key: "cs_militia", Name: "Militia"},
}
