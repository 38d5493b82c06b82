// Package notify decides what players are shown: chat notices, marker
// previews drawn with fake wires, and their timed removal.
package notify

import "houseregions.ai/internal/housing/geometry"

type Kind string

const (
	KindInfo    Kind = "INFO"
	KindSuccess Kind = "SUCCESS"
	KindWarning Kind = "WARNING"
	KindError   Kind = "ERROR"
	// KindHeading is a highlighted step title ("First Mark").
	KindHeading Kind = "HEADING"
)

type Notice struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

func Info(text string) Notice    { return Notice{Kind: KindInfo, Text: text} }
func Success(text string) Notice { return Notice{Kind: KindSuccess, Text: text} }
func Warning(text string) Notice { return Notice{Kind: KindWarning, Text: text} }
func Error(text string) Notice   { return Notice{Kind: KindError, Text: text} }
func Heading(text string) Notice { return Notice{Kind: KindHeading, Text: text} }

// Presenter delivers output to a single player. Calls must not block on the
// player's connection.
type Presenter interface {
	Notify(player string, n Notice)
	// ShowCross draws a marker cross centered on p.
	ShowCross(player string, p geometry.Point)
	// ShowOutline draws the dotted boundary of r.
	ShowOutline(player string, r geometry.Rect)
	// Restore resends the real tile around p, removing any cross drawn there.
	Restore(player string, p geometry.Point)
	// RestoreArea removes an outline drawn by ShowOutline.
	RestoreArea(player string, r geometry.Rect)
	// RefundWire gives back a wire consumed by a marker edit.
	RefundWire(player string)
}

func NotifyAll(p Presenter, player string, notices ...Notice) {
	for _, n := range notices {
		p.Notify(player, n)
	}
}
