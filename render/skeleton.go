package render

import (
	"image"

	"github.com/swdee/go-poseoverlay/geometry"
	"gocv.io/x/gocv"
)

// Connection is a pair of landmark indexes joined by a line
type Connection struct {
	Start int
	End   int
}

var (
	// BlazePoseConnections joins the 33 landmarks of a BlazePose skeleton
	BlazePoseConnections = []Connection{
		{0, 1}, {1, 2}, {2, 3}, {3, 7}, {0, 4}, {4, 5}, {5, 6}, {6, 8},
		{9, 10}, {11, 12}, {11, 13}, {13, 15}, {15, 17}, {15, 19}, {15, 21},
		{17, 19}, {12, 14}, {14, 16}, {16, 18}, {16, 20}, {16, 22}, {18, 20},
		{11, 23}, {12, 24}, {23, 24}, {23, 25}, {24, 26}, {25, 27}, {26, 28},
		{27, 29}, {28, 30}, {29, 31}, {30, 32}, {27, 31}, {28, 32},
	}

	/* COCO keypoints
	0: Nose
	1: Left Eye
	2: Right Eye
	3: Left Ear
	4: Right Ear
	5: Left Shoulder
	6: Right Shoulder
	7: Left Elbow
	8: Right Elbow
	9: Left Wrist
	10: Right Wrist
	11: Left Hip
	12: Right Hip
	13: Left Knee
	14: Right Knee
	15: Left Ankle
	16: Right Ankle
	*/

	// COCOConnections joins the 17 keypoints of a COCO skeleton as produced
	// by YOLOv8-pose models
	COCOConnections = []Connection{
		{15, 13}, {13, 11}, {16, 14}, {14, 12}, {11, 12}, {5, 11}, {6, 12},
		{5, 6}, {5, 7}, {6, 8}, {7, 9}, {8, 10}, {1, 2}, {0, 1}, {0, 2},
		{1, 3}, {2, 4}, {3, 5}, {4, 6},
	}
)

// ConnectionsFor returns the skeleton connections for a pose with the given
// number of landmarks.  Unknown layouts have no connections and only their
// landmark points are drawn.
func ConnectionsFor(landmarks int) []Connection {
	switch landmarks {
	case 33:
		return BlazePoseConnections
	case 17:
		return COCOConnections
	}
	return nil
}

// Skeletons renders the connectors and landmark points of each pose.
// Landmarks must already be mapped to image pixel coordinates.
func Skeletons(img *gocv.Mat, poses [][]geometry.Landmark, style Style) {

	for _, lms := range poses {

		for _, conn := range ConnectionsFor(len(lms)) {
			a, b := lms[conn.Start], lms[conn.End]

			if a.Visibility < style.MinVisibility || b.Visibility < style.MinVisibility {
				continue
			}

			gocv.Line(img, point(a), point(b), style.ConnectorColor, style.ConnectorWidth)
		}

		// draw circles at joints over the connector lines
		for _, lm := range lms {
			if lm.Visibility < style.MinVisibility {
				continue
			}

			gocv.Circle(img, point(lm), style.LandmarkRadius, style.LandmarkColor, -1)
		}
	}
}

// point converts a landmark to an image point
func point(lm geometry.Landmark) image.Point {
	return image.Pt(int(lm.X), int(lm.Y))
}
