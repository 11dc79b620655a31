package render

import "image/color"

// Style defines how tracked persons and their poses are drawn
type Style struct {
	// BoxColor is the bounding box outline color
	BoxColor color.RGBA
	// BoxThickness is the bounding box line thickness in pixels
	BoxThickness int
	// Font is used for the "ID n" label above each box
	Font Font
	// ConnectorColor is the color of lines joining landmarks
	ConnectorColor color.RGBA
	// ConnectorWidth is the skeleton line thickness in pixels
	ConnectorWidth int
	// LandmarkColor is the fill color of landmark points
	LandmarkColor color.RGBA
	// LandmarkRadius is the landmark point radius in pixels
	LandmarkRadius int
	// MinVisibility is the visibility a landmark needs to be drawn.  Connectors
	// are only drawn when both ends are visible.
	MinVisibility float32
}

// DefaultStyle returns the default drawing style:
// - Box: #ff0055, 2px
// - Label: #ff0055 "ID n"
// - Connectors: #00ffcc, 2px
// - Landmarks: white, radius 2
// - Minimum Visibility: 0, all landmarks drawn
func DefaultStyle() Style {
	return Style{
		BoxColor:       Magenta,
		BoxThickness:   2,
		Font:           DefaultFont(),
		ConnectorColor: Aqua,
		ConnectorWidth: 2,
		LandmarkColor:  White,
		LandmarkRadius: 2,
		MinVisibility:  0,
	}
}
