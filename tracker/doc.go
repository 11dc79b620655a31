/*
Package tracker keeps stable identities for people detected across frames.

Detections arrive at a slower cadence than frames are rendered, so the Manager
holds each person's last known bounding box and matches every new detection
cycle against it by Intersection over Union.  Tracks which go unmatched for
longer than the TTL are evicted, and a person reappearing after eviction is
given a new ID.
*/
package tracker
