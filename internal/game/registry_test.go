package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name  string
		query string
		found bool
		free  bool
	}{
		{"arithmetic is free", "arithmetic", true, true},
		{"sequence recall is free", "sequence_recall", true, true},
		{"color rush is paid", "color_rush", true, false},
		{"tapping memory is paid", "tapping_memory", true, false},
		{"lookup is case-insensitive", "ARITHMETIC", true, true},
		{"unknown game", "chess", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := Lookup(tt.query)
			assert.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.free, info.Free)
			}
		})
	}
}

func TestAllOrder(t *testing.T) {
	games := All()
	assert.Len(t, games, 4)
	assert.Equal(t, Arithmetic, games[0].Name)
	assert.Equal(t, TappingMemory, games[3].Name)
}

func TestShopItemName(t *testing.T) {
	assert.Equal(t, "color_rush", ShopItemName("Color Rush"))
	assert.Equal(t, "tapping_memory", ShopItemName("Tapping Memory"))
	assert.Equal(t, "golden_brain", ShopItemName("Golden Brain"))
}

// Every paid game must resolve back from its shop item title, otherwise the
// access check could never unlock it.
func TestPaidGamesResolveFromTitles(t *testing.T) {
	for _, info := range All() {
		if info.Free {
			continue
		}
		resolved, ok := Lookup(ShopItemName(info.Title))
		assert.True(t, ok, "game %s not resolvable from title %q", info.Name, info.Title)
		assert.Equal(t, info.Name, resolved.Name)
	}
}
