package models

// RoomItem is an entry of the cosmetic room catalog
type RoomItem struct {
	ID           string
	Name         string
	Cost         int64
	Description  string
	DefaultX     float64
	DefaultY     float64
	DefaultOwned bool
}

// RoomItemState is a user's ownership and placement of one catalog item
type RoomItemState struct {
	ID     string   `json:"id"`
	Owned  bool     `json:"owned"`
	Placed bool     `json:"placed"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
}

// RoomCatalog lists every purchasable room item in display order
var RoomCatalog = []RoomItem{
	{ID: "dirtyshower", Name: "grimy shower stall", Cost: 0, Description: "where we start, cracked tile and mildew galore", DefaultX: 12, DefaultY: 56, DefaultOwned: true},
	{ID: "bathtub", Name: "fresh soak tub", Cost: 420, Description: "new porcelain fix to finally ditch the grime", DefaultX: 72, DefaultY: 62},
	{ID: "sink", Name: "floating sink", Cost: 240, Description: "speed-run your hand washing with a clean basin", DefaultX: 20, DefaultY: 62},
	{ID: "rug", Name: "sunrise rug", Cost: 180, Description: "warm base so nobody steps onto cold tile", DefaultX: 50, DefaultY: 86},
	{ID: "mirror", Name: "frameless mirror", Cost: 260, Description: "glow-up lighting for post-game selfies", DefaultX: 18, DefaultY: 20},
	{ID: "speaker", Name: "steam-proof speaker", Cost: 220, Description: "pump lo-fi while decorating or grinding", DefaultX: 38, DefaultY: 18},
	{ID: "candle", Name: "lavender candle", Cost: 140, Description: "soft glow for chill-down time after ladders", DefaultX: 64, DefaultY: 40},
	{ID: "rubberduck", Name: "rubber duck", Cost: 90, Description: "personal hype coach floating by the tub", DefaultX: 62, DefaultY: 70},
}

// FindRoomItem looks up a catalog item by id
func FindRoomItem(id string) (RoomItem, bool) {
	for _, item := range RoomCatalog {
		if item.ID == id {
			return item, true
		}
	}
	return RoomItem{}, false
}

// DefaultRoomItems returns the inventory of a brand-new account
func DefaultRoomItems() []RoomItemState {
	return MergeRoomItems(nil)
}

// MergeRoomItems returns one state per catalog item, in catalog order. Stored states win,
// unknown ids are dropped and default-owned items are always owned.
func MergeRoomItems(stored []RoomItemState) []RoomItemState {
	byID := make(map[string]RoomItemState, len(stored))
	for _, s := range stored {
		byID[s.ID] = s
	}

	merged := make([]RoomItemState, 0, len(RoomCatalog))
	for _, item := range RoomCatalog {
		state, ok := byID[item.ID]
		if !ok {
			state = RoomItemState{ID: item.ID, Owned: item.DefaultOwned, Placed: item.DefaultOwned}
		}
		if item.DefaultOwned {
			state.Owned = true
		}
		if !state.Owned {
			state.Placed = false
		}
		merged = append(merged, state)
	}
	return merged
}
