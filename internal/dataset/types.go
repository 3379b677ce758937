package dataset

// Mode partitions every table; each record belongs to exactly one game mode.
type Mode string

const (
	ModeSurvival Mode = "Survival"
	ModeCreative Mode = "Creative"
	ModeHardcore Mode = "Hardcore"
)

var Modes = []Mode{ModeSurvival, ModeCreative, ModeHardcore}

func (m Mode) Valid() bool {
	for _, v := range Modes {
		if m == v {
			return true
		}
	}
	return false
}

type Style string

const (
	StyleBuilder  Style = "Builder"
	StyleMiner    Style = "Miner"
	StyleFighter  Style = "Fighter"
	StyleExplorer Style = "Explorer"
)

var Styles = []Style{StyleBuilder, StyleMiner, StyleFighter, StyleExplorer}

type Biome string

const (
	BiomeForest    Biome = "Forest"
	BiomePlains    Biome = "Plains"
	BiomeDesert    Biome = "Desert"
	BiomeMountains Biome = "Mountains"
	BiomeSwamp     Biome = "Swamp"
	BiomeNether    Biome = "Nether"
	BiomeEnd       Biome = "End"
)

var Biomes = []Biome{BiomeForest, BiomePlains, BiomeDesert, BiomeMountains, BiomeSwamp, BiomeNether, BiomeEnd}

func (b Biome) Valid() bool {
	for _, v := range Biomes {
		if b == v {
			return true
		}
	}
	return false
}

type Resource string

const (
	ResourceDiamond  Resource = "Diamond"
	ResourceIron     Resource = "Iron"
	ResourceGold     Resource = "Gold"
	ResourceRedstone Resource = "Redstone"
	ResourceCoal     Resource = "Coal"
)

var Resources = []Resource{ResourceDiamond, ResourceIron, ResourceGold, ResourceRedstone, ResourceCoal}

func (r Resource) Valid() bool {
	for _, v := range Resources {
		if r == v {
			return true
		}
	}
	return false
}

type Cause string

const (
	CauseLava     Cause = "Lava"
	CauseCreeper  Cause = "Creeper"
	CauseFall     Cause = "Fall"
	CausePvP      Cause = "PvP"
	CauseSkeleton Cause = "Skeleton"
	CauseVoid     Cause = "Void"
)

var Causes = []Cause{CauseLava, CauseCreeper, CauseFall, CausePvP, CauseSkeleton, CauseVoid}

// ActivityRecord is one play session of one player on one day.
type ActivityRecord struct {
	Day         int     `json:"day"`
	Player      string  `json:"player"`
	HoursPlayed float64 `json:"hours_played"`
	Style       Style   `json:"style"`
	Mode        Mode    `json:"mode"`
}

// MiningRecord is one mining event at a given depth.
type MiningRecord struct {
	Day      int      `json:"day"`
	Player   string   `json:"player"`
	Resource Resource `json:"resource"`
	YLevel   int      `json:"y_level"`
	Biome    Biome    `json:"biome"`
	Mode     Mode     `json:"mode"`
}

// EconomyRecord is one balance observation for a player.
type EconomyRecord struct {
	Day     int     `json:"day"`
	Player  string  `json:"player"`
	Balance float64 `json:"balance"`
	Mode    Mode    `json:"mode"`
	Cheater bool    `json:"cheater"`
}

// DeathRecord is one player death.
type DeathRecord struct {
	Day    int    `json:"day"`
	Player string `json:"player"`
	Cause  Cause  `json:"cause"`
	Mode   Mode   `json:"mode"`
}

// Tables holds the four raw datasets. Generated once per process and treated
// as read-only afterwards; sessions share a single instance.
type Tables struct {
	Players  []string
	MaxDays  int
	Activity []ActivityRecord
	Mining   []MiningRecord
	Economy  []EconomyRecord
	Deaths   []DeathRecord
}
