// Package source provides the video frames the overlay runs against, read
// with gocv from camera devices, video files or network streams.
package source
