package source

import (
	"errors"
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"
)

// ErrUnknownFeed is returned when switching to a feed ID not configured
var ErrUnknownFeed = errors.New("unknown feed")

// Feed is a video source the overlay can run against
type Feed struct {
	// ID is the unique name of the feed
	ID string `yaml:"id"`
	// URI is a camera device index, video file path or stream URL
	URI string `yaml:"uri"`
}

// Device is an opened video device
type Device interface {
	Read(m *gocv.Mat) bool
	Close() error
}

// OpenFunc opens the video device for a URI
type OpenFunc func(uri string) (Device, error)

// OpenVideoCapture opens the URI with gocv.  A numeric URI is treated as a
// camera device index.
func OpenVideoCapture(uri string) (Device, error) {

	vc, err := gocv.OpenVideoCapture(uri)

	if err != nil {
		return nil, err
	}

	return vc, nil
}

// Capture reads frames from the active feed and supports switching between
// the configured feeds.  It is used from the overlay loop goroutine only.
type Capture struct {
	feeds  []Feed
	active Feed
	device Device
	open   OpenFunc
	log    *slog.Logger
}

// NewCapture opens the feed with the given ID, or the first feed if id is
// empty.  A nil open func uses OpenVideoCapture and a nil logger slog.Default.
func NewCapture(feeds []Feed, id string, open OpenFunc, log *slog.Logger) (*Capture, error) {

	if len(feeds) == 0 {
		return nil, fmt.Errorf("no feeds configured")
	}

	if open == nil {
		open = OpenVideoCapture
	}

	if log == nil {
		log = slog.Default()
	}

	c := &Capture{
		feeds: feeds,
		open:  open,
		log:   log,
	}

	if id == "" {
		id = feeds[0].ID
	}

	if err := c.Switch(id); err != nil {
		return nil, err
	}

	return c, nil
}

// Feeds returns the configured feeds
func (c *Capture) Feeds() []Feed {
	return c.feeds
}

// Active returns the feed currently being read
func (c *Capture) Active() Feed {
	return c.active
}

// Next returns the ID of the feed after the active one, wrapping around
func (c *Capture) Next() string {
	for i, f := range c.feeds {
		if f.ID == c.active.ID {
			return c.feeds[(i+1)%len(c.feeds)].ID
		}
	}
	return c.feeds[0].ID
}

// lookup finds the feed with the given ID
func (c *Capture) lookup(id string) (Feed, bool) {
	for _, f := range c.feeds {
		if f.ID == id {
			return f, true
		}
	}
	return Feed{}, false
}

// Switch closes the active device and opens the feed with the given ID.  If
// the new feed fails to open the previous device remains active.
func (c *Capture) Switch(id string) error {

	feed, ok := c.lookup(id)

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFeed, id)
	}

	dev, err := c.open(feed.URI)

	if err != nil {
		return fmt.Errorf("error opening feed %s: %w", feed.ID, err)
	}

	if c.device != nil {
		if err := c.device.Close(); err != nil {
			c.log.Warn("failed to close feed", "feed", c.active.ID, "error", err)
		}
	}

	c.device = dev
	c.active = feed

	c.log.Info("opened feed", "feed", feed.ID, "uri", feed.URI)

	return nil
}

// Read reads the next frame into dst.  Returns false if no frame is ready,
// the resolution is taken from the frame itself.
func (c *Capture) Read(dst *gocv.Mat) bool {

	if c.device == nil {
		return false
	}

	if !c.device.Read(dst) {
		return false
	}

	return !dst.Empty()
}

// Close closes the active device
func (c *Capture) Close() error {

	if c.device == nil {
		return nil
	}

	err := c.device.Close()
	c.device = nil

	return err
}
