/*
Package render draws the overlay of tracked person bounding boxes, their ID
labels and pose skeletons onto a Surface sized to the video frame.
*/
package render
