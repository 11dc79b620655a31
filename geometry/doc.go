/*
Package geometry provides the coordinate mapping used by the overlay.  It
computes bounding box overlap (IoU), clips boxes to the frame, builds the
padded crop regions handed to the pose estimator, and maps crop normalised
landmarks back onto full frame pixel coordinates.
*/
package geometry
