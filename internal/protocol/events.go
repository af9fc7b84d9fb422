package protocol

// Event types emitted toward the presentation layer. The sink is a passive
// consumer: it may render particles, play audio or attach meshes, but it never
// owns or mutates sim state.
const (
	EventTilePlaced         = "TILE_PLACED"
	EventTileRemoved        = "TILE_REMOVED"
	EventBuildModeStarted   = "BUILD_MODE_STARTED"
	EventBuildModeCancelled = "BUILD_MODE_CANCELLED"
	EventPlacementInvalid   = "PLACEMENT_INVALID"
)

type TilePlacedEvent struct {
	Type   string `json:"type"`
	TileID string `json:"tile_id"`
	ItemID string `json:"item_id"`
	Cell   [2]int `json:"cell"`
}

type TileRemovedEvent struct {
	Type string `json:"type"`
	Cell [2]int `json:"cell"`
}

type BuildModeStartedEvent struct {
	Type   string `json:"type"`
	ItemID string `json:"item_id"`
}

type BuildModeCancelledEvent struct {
	Type string `json:"type"`
}

type PlacementInvalidEvent struct {
	Type   string `json:"type"`
	Reason string `json:"reason"` // one of the E_* codes
}
