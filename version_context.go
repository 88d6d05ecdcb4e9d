package versioned

// Reentrancy selects how a VersionContext treats Open while another context
// is still open. The ambient version lives in a single slot, never a stack.
type Reentrancy int

const (
	// ReentrancyReject fails a second Open with ErrContextActive. Releasing a
	// handle that no longer owns the slot is a no-op.
	ReentrancyReject Reentrancy = iota
	// ReentrancyOverwrite lets a second Open replace the slot's version and
	// makes every release reset the slot to Base, whichever handle it is.
	ReentrancyOverwrite
)

func (r Reentrancy) String() string {
	switch r {
	case ReentrancyReject:
		return "reject"
	case ReentrancyOverwrite:
		return "overwrite"
	default:
		return "unknown"
	}
}

// VersionContext owns the ambient version slot. Not safe for concurrent use.
type VersionContext struct {
	policy  Reentrancy
	owner   *Handle
	version Version

	onOpen    func(*Handle)
	onRelease func(*Handle, bool)
}

// NewVersionContext constructs a context with no version open.
func NewVersionContext(policy Reentrancy) *VersionContext {
	return &VersionContext{policy: policy}
}

// Policy returns the configured reentrancy policy.
func (c *VersionContext) Policy() Reentrancy {
	return c.policy
}

// Open makes version ambient until the returned handle is released. Callers
// should `defer h.Release()` immediately.
func (c *VersionContext) Open(version Version) (*Handle, error) {
	if version < Base {
		return nil, newStateError(OpOpen, version, c.Current(), ErrNegativeVersion)
	}
	if c.owner != nil && c.policy != ReentrancyOverwrite {
		return nil, newStateError(OpOpen, version, c.version, ErrContextActive)
	}
	h := &Handle{ctx: c, version: version}
	c.owner = h
	c.version = version
	if c.onOpen != nil {
		c.onOpen(h)
	}
	return h, nil
}

// Current returns the ambient version, or Base when no context is open.
func (c *VersionContext) Current() Version {
	if c == nil || c.owner == nil {
		return Base
	}
	return c.version
}

// Active reports whether a context is currently open.
func (c *VersionContext) Active() bool {
	return c != nil && c.owner != nil
}

func (c *VersionContext) release(h *Handle) {
	alreadyReleased := h.released
	h.released = true

	reset := false
	switch c.policy {
	case ReentrancyOverwrite:
		reset = true
	default:
		reset = !alreadyReleased && c.owner == h
	}
	if reset {
		c.owner = nil
		c.version = Base
	}
	if c.onRelease != nil {
		c.onRelease(h, reset)
	}
}

// Handle is the scoped token returned by Open.
type Handle struct {
	ctx      *VersionContext
	version  Version
	released bool
}

// Version returns the version this handle opened.
func (h *Handle) Version() Version {
	if h == nil {
		return Base
	}
	return h.version
}

// Released reports whether Release has been called on h.
func (h *Handle) Released() bool {
	return h == nil || h.released
}

// Release resets the ambient version to Base. Releasing twice is harmless.
func (h *Handle) Release() {
	if h == nil || h.ctx == nil {
		return
	}
	h.ctx.release(h)
}

// Close implements io.Closer by releasing the handle.
func (h *Handle) Close() error {
	h.Release()
	return nil
}
