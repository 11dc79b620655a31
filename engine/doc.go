/*
Package engine defines the narrow contracts the overlay uses to consume the
person detector and pose estimator, and the adapters which invoke them.

The adapters never let an engine failure escape.  An error or panic from an
engine is logged and treated as "no detections" or "no landmarks" for that
cycle so a single bad frame does not halt the live overlay.

Both engines are acquired and released together through a Pair.  See the rknn
subpackage for engines running on the Rockchip NPU.
*/
package engine
