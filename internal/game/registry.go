// Package game defines the catalog of playable games.
// Games run in the browser; the server only validates the route name,
// checks shop access for paid games and records results.
package game

import "strings"

// Name identifies a game in routes and game_results rows.
type Name string

// Available games.
const (
	Arithmetic     Name = "arithmetic"
	SequenceRecall Name = "sequence_recall"
	ColorRush      Name = "color_rush"
	TappingMemory  Name = "tapping_memory"
)

// Info holds the static configuration of one game.
type Info struct {
	Name          Name
	Title         string
	Description   string
	Free          bool
	DefaultRounds int
}

// catalog contains all playable games. Paid games are matched to their shop
// item by title (see ShopItemName).
var catalog = map[Name]Info{
	Arithmetic: {
		Name:          Arithmetic,
		Title:         "Arithmetic",
		Description:   "Solve quick arithmetic problems against the clock",
		Free:          true,
		DefaultRounds: 1,
	},
	SequenceRecall: {
		Name:          SequenceRecall,
		Title:         "Sequence Recall",
		Description:   "Memorize and repeat growing sequences",
		Free:          true,
		DefaultRounds: 1,
	},
	ColorRush: {
		Name:          ColorRush,
		Title:         "Color Rush",
		Description:   "Test your color recognition speed",
		Free:          false,
		DefaultRounds: 10,
	},
	TappingMemory: {
		Name:          TappingMemory,
		Title:         "Tapping Memory",
		Description:   "Remember and repeat the sequence",
		Free:          false,
		DefaultRounds: 1,
	},
}

// displayOrder fixes the order games are listed in.
var displayOrder = []Name{Arithmetic, SequenceRecall, ColorRush, TappingMemory}

// All returns all games in display order.
func All() []Info {
	games := make([]Info, 0, len(displayOrder))
	for _, name := range displayOrder {
		games = append(games, catalog[name])
	}
	return games
}

// Lookup returns the game registered under the given route name.
func Lookup(name string) (Info, bool) {
	info, ok := catalog[Name(strings.ToLower(name))]
	return info, ok
}

// ShopItemName converts a shop item title to its game route name,
// e.g. "Color Rush" -> "color_rush".
func ShopItemName(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "_")
}
