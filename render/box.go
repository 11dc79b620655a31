package render

import (
	"fmt"
	"image"

	"github.com/swdee/go-poseoverlay/tracker"
	"gocv.io/x/gocv"
)

// boxLabel defines where a track label should be rendered on the image
type boxLabel struct {
	text    string
	textPos image.Point
}

// TrackBoxes renders the bounding box and "ID n" label of every tracked
// person
func TrackBoxes(img *gocv.Mat, tracks []*tracker.Person, style Style) {

	font := style.Font

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0, len(tracks))

	for _, p := range tracks {

		boxLeft := int(p.Rect.TLX())
		boxTop := int(p.Rect.TLY())
		boxRight := int(p.Rect.BRX())

		rect := image.Rect(boxLeft, boxTop, boxRight, int(p.Rect.BRY()))
		gocv.Rectangle(img, rect, style.BoxColor, style.BoxThickness)

		text := fmt.Sprintf("ID %d", p.ID)
		textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

		var textX int

		switch font.Alignment {
		case Center:
			textX = (boxLeft+boxRight)/2 - textSize.X/2

		case Right:
			textX = boxRight - textSize.X - font.LeftPad

		case Left:
			fallthrough
		default:
			textX = boxLeft + font.LeftPad
		}

		boxLabels = append(boxLabels, boxLabel{
			text:    text,
			textPos: image.Pt(textX, boxTop-font.BottomPad),
		})
	}

	// draw labels last so they are the top most layer and not overlapped by
	// neighbouring boxes
	for _, lbl := range boxLabels {
		gocv.PutTextWithParams(img, lbl.text, lbl.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}
