package engine

import "fmt"

// TileType classifies a board tile.
type TileType string

const (
	TileProperty     TileType = "PROPERTY"
	TileClubhouseHQ  TileType = "CLUBHOUSE_HQ"  // start tile, bonus when passing
	TileProShop      TileType = "PRO_SHOP"      // safe tile
	TileSandTrap     TileType = "SAND_TRAP"     // lose turns or roll doubles to escape
	TileWaterHazard  TileType = "WATER_HAZARD"  // pay penalty to the bank
	TileMembersLounge TileType = "MEMBERS_LOUNGE" // safe tile
)

// CourseGroup identifies one of the six three-property course groups.
type CourseGroup string

const (
	LinksNine        CourseGroup = "LINKS_NINE"
	PrairieNine      CourseGroup = "PRAIRIE_NINE"
	HighlandNine     CourseGroup = "HIGHLAND_NINE"
	CoastalNine      CourseGroup = "COASTAL_NINE"
	ChampionshipNine CourseGroup = "CHAMPIONSHIP_NINE"
	MastersNine      CourseGroup = "MASTERS_NINE"
)

// CourseGroups lists all groups in board order.
var CourseGroups = []CourseGroup{
	LinksNine, PrairieNine, HighlandNine, CoastalNine, ChampionshipNine, MastersNine,
}

// DisplayName returns the human-readable group name.
func (g CourseGroup) DisplayName() string {
	switch g {
	case LinksNine:
		return "Links Nine"
	case PrairieNine:
		return "Prairie Nine"
	case HighlandNine:
		return "Highland Nine"
	case CoastalNine:
		return "Coastal Nine"
	case ChampionshipNine:
		return "Championship Nine"
	case MastersNine:
		return "Masters Nine"
	}
	return string(g)
}

// ImprovementLevel is the graduated building tier on a property.
type ImprovementLevel uint8

const (
	LevelNone ImprovementLevel = iota
	Level1
	Level2
	Level3
	Level4
	LevelResort // terminal
)

// rentMultipliers maps improvement level to the factor applied to base rent.
var rentMultipliers = [LevelResort + 1]int64{1, 5, 10, 15, 20, 25}

// CanUpgrade reports whether the level has a next step.
func (l ImprovementLevel) CanUpgrade() bool { return l < LevelResort }

// Next returns the level one step up. Calling Next on LevelResort is a
// programming error.
func (l ImprovementLevel) Next() ImprovementLevel {
	if !l.CanUpgrade() {
		panic("engine: cannot upgrade beyond RESORT")
	}
	return l + 1
}

func (l ImprovementLevel) String() string {
	switch l {
	case LevelNone:
		return "NONE"
	case LevelResort:
		return "RESORT"
	default:
		return fmt.Sprintf("LEVEL_%d", uint8(l))
	}
}

// PropertyDef is the static pricing definition of a purchasable tile.
// Definitions are immutable and shared across every game.
type PropertyDef struct {
	Position        int
	Name            string
	Group           CourseGroup
	PurchasePrice   Money
	BaseRent        Money
	ImprovementCost Money
}

// MortgageValue is the cash credited when the property is mortgaged.
func (d *PropertyDef) MortgageValue() Money { return d.PurchasePrice / 2 }

// ImprovementSaleValue is the cash credited when one improvement level is sold off.
func (d *PropertyDef) ImprovementSaleValue() Money { return d.ImprovementCost / 2 }

// Tile is a single board position: either a special tile or a property.
type Tile struct {
	Position int
	Type     TileType
	Name     string
	Property *PropertyDef // non-nil iff Type == TileProperty
}

// IsProperty reports whether the tile is purchasable.
func (t *Tile) IsProperty() bool { return t.Type == TileProperty }

// Board layout constants.
const (
	TotalTiles       = 24
	StartPosition    = 0
	SandTrapPosition = 8
)

// Game rule constants.
const (
	StartingCurrency   Money = 1500 * 100 // cents
	PassHQBonus        Money = 200 * 100
	WaterHazardPenalty Money = 50 * 100
	MaxTurnsInSandTrap       = 3
	DoublesForSandTrap       = 3
	MaxPlayers               = 2
)

// board is the fixed 24-tile layout, built once at package init and never
// mutated. Per-game ownership state lives on Game, not here.
var board [TotalTiles]Tile

// groupPositions maps each course group to its three tile positions.
var groupPositions map[CourseGroup][]int

func init() {
	special := func(pos int, typ TileType, name string) {
		board[pos] = Tile{Position: pos, Type: typ, Name: name}
	}
	property := func(pos int, name string, group CourseGroup, price, rent, improve int64) {
		board[pos] = Tile{
			Position: pos,
			Type:     TileProperty,
			Name:     name,
			Property: &PropertyDef{
				Position:        pos,
				Name:            name,
				Group:           group,
				PurchasePrice:   Money(price * 100),
				BaseRent:        Money(rent * 100),
				ImprovementCost: Money(improve * 100),
			},
		}
	}

	special(0, TileClubhouseHQ, "Fairway Start")
	property(1, "Dunes End Hole 1", LinksNine, 60, 2, 50)
	property(2, "Dunes End Hole 2", LinksNine, 60, 4, 50)
	property(3, "Dunes End Hole 3", LinksNine, 80, 6, 50)
	special(4, TileProShop, "Pro Shop")
	property(5, "Meadow Creek Hole 4", PrairieNine, 100, 8, 50)
	property(6, "Meadow Creek Hole 5", PrairieNine, 100, 8, 50)
	property(7, "Meadow Creek Hole 6", PrairieNine, 120, 10, 50)
	special(8, TileSandTrap, "Bunker Beach")
	property(9, "Eagle Ridge Hole 7", HighlandNine, 140, 12, 100)
	property(10, "Eagle Ridge Hole 8", HighlandNine, 140, 12, 100)
	property(11, "Eagle Ridge Hole 9", HighlandNine, 160, 14, 100)
	special(12, TileMembersLounge, "Members Lounge")
	property(13, "Oceanview Hole 10", CoastalNine, 180, 16, 100)
	property(14, "Oceanview Hole 11", CoastalNine, 180, 16, 100)
	property(15, "Oceanview Hole 12", CoastalNine, 200, 18, 100)
	special(16, TileWaterHazard, "Lake Penalty")
	property(17, "Champion Oaks Hole 13", ChampionshipNine, 220, 20, 150)
	property(18, "Champion Oaks Hole 14", ChampionshipNine, 220, 20, 150)
	property(19, "Champion Oaks Hole 15", ChampionshipNine, 240, 22, 150)
	special(20, TileProShop, "Tournament Pro Shop")
	property(21, "Grand Pines Hole 16", MastersNine, 260, 24, 200)
	property(22, "Grand Pines Hole 17", MastersNine, 280, 26, 200)
	property(23, "Grand Pines Hole 18", MastersNine, 300, 30, 200)

	groupPositions = make(map[CourseGroup][]int)
	for i := range board {
		if p := board[i].Property; p != nil {
			groupPositions[p.Group] = append(groupPositions[p.Group], i)
		}
	}
}

// TileAt returns the tile at the given position. An out-of-range position is
// a programming error, not a user-facing failure.
func TileAt(position int) *Tile {
	if position < 0 || position >= TotalTiles {
		panic(fmt.Sprintf("engine: tile position %d out of range", position))
	}
	return &board[position]
}

// PropertyAt returns the static property definition at the position, if the
// tile is purchasable.
func PropertyAt(position int) (*PropertyDef, bool) {
	t := TileAt(position)
	return t.Property, t.Property != nil
}

// GroupPositions returns the tile positions of the group, in board order.
func GroupPositions(group CourseGroup) []int {
	return groupPositions[group]
}

// PropertyPositions returns every purchasable position in board order.
func PropertyPositions() []int {
	out := make([]int, 0, 18)
	for i := range board {
		if board[i].IsProperty() {
			out = append(out, i)
		}
	}
	return out
}
