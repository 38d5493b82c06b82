package protocol

// HELLO (host -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	HostName        string `json:"host_name"`
	WorldID         string `json:"world_id,omitempty"`
	MaxQueue        int    `json:"max_queue,omitempty"`
}

// WELCOME (server -> host)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	WorldID         string      `json:"world_id,omitempty"`
	Limits          HouseLimits `json:"limits"`
	MarkerEdits     []string    `json:"marker_edits"`
}

type HouseLimits struct {
	MaxHousesPerUser int  `json:"max_houses_per_user"`
	MinSize          Size `json:"min_size"`
	MaxSize          Size `json:"max_size"`
}

type Size struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	TotalTiles int `json:"total_tiles"`
}

// LOGIN (host -> server): player bound to an account.
type LoginMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Player          string `json:"player"`
	Account         string `json:"account"`
}

// LOGOUT (host -> server)
type LogoutMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Player          string `json:"player"`
}

// TILE_EDIT (host -> server). The host holds the edit until the ACK says
// whether the house definition consumed it.
type TileEditMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id"`
	Player          string `json:"player"`
	Edit            string `json:"edit"`
	X               int    `json:"x"`
	Y               int    `json:"y"`
}

// COMMAND (host -> server): "/house" arguments typed at tile position X,Y.
type CommandMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	ReqID           string   `json:"req_id"`
	Player          string   `json:"player"`
	X               int      `json:"x"`
	Y               int      `json:"y"`
	Args            []string `json:"args"`
}

type AckMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AckFor          string `json:"ack_for"`
	Accepted        bool   `json:"accepted"`
	Handled         bool   `json:"handled,omitempty"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
}

// NOTICE (server -> host)
type NoticeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Player          string `json:"player"`
	Kind            string `json:"kind"`
	Text            string `json:"text"`
}

// Draw ops.
const (
	DrawCross       = "CROSS"
	DrawOutline     = "OUTLINE"
	DrawRestore     = "RESTORE"
	DrawRestoreArea = "RESTORE_AREA"
)

// DRAW (server -> host): fake wires to show (CROSS, OUTLINE) or real tiles
// to resend (RESTORE, RESTORE_AREA) at Tiles.
type DrawMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	Player          string   `json:"player"`
	Op              string   `json:"op"`
	Tiles           [][2]int `json:"tiles"`
	Area            *Area    `json:"area,omitempty"`
}

type Area struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// REFUND (server -> host)
type RefundMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Player          string `json:"player"`
	Item            string `json:"item"`
	Count           int    `json:"count"`
}
