/*
Package overlay drives the live person tracking overlay.

Every tick the Engine takes the current video frame and decides, based on
independent throttle timers, whether to run person detection and whether to
estimate poses.  Detections feed the track manager which keeps a stable ID per
person across frames.  Boxes and ID labels are drawn every tick while
skeletons are only drawn on pose ticks.  Tracks not matched for longer than the
TTL are evicted at the end of every tick.

	err := overlay.With(ctx, overlay.DefaultParams(), openDetector, openPose,
		func(ctx context.Context, e *overlay.Engine) error {
			return e.Run(ctx, capture, 16*time.Millisecond, show)
		})
*/
package overlay
