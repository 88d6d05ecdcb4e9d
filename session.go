package versioned

import (
	"context"
	"time"

	"github.com/goliatone/go-versioned/pkg/activity"
)

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	logger       Logger
	reentrancy   Reentrancy
	metrics      *Metrics
	hooks        activity.Hooks
	activityCfg  *activity.Config
	actorID      string
	tenantID     string
	evaluator    Evaluator
	programCache ProgramCache
	isolate      bool
}

func applyOptions(opts []Option) sessionConfig {
	cfg := sessionConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	return cfg
}

// WithReentrancy selects the policy applied when Open is called while a
// version context is already open. The default is ReentrancyReject.
func WithReentrancy(policy Reentrancy) Option {
	return func(cfg *sessionConfig) {
		cfg.reentrancy = policy
	}
}

// WithValueIsolation makes the session's store deep copy values on write and
// read. Without it the store keeps the written reference.
func WithValueIsolation() Option {
	return func(cfg *sessionConfig) {
		cfg.isolate = true
	}
}

// WithActivityHooks attaches activity hooks. Emission is enabled unless
// WithActivityConfig says otherwise.
func WithActivityHooks(hooks activity.Hooks) Option {
	return func(cfg *sessionConfig) {
		cfg.hooks = append(activity.Hooks(nil), hooks...)
	}
}

// WithActivityConfig overrides the emitter defaults.
func WithActivityConfig(config activity.Config) Option {
	return func(cfg *sessionConfig) {
		c := config
		cfg.activityCfg = &c
	}
}

// WithActivityActor stamps emitted events with the acting user and tenant
// unless WithActivityConfig names its own.
func WithActivityActor(actorID, tenantID string) Option {
	return func(cfg *sessionConfig) {
		cfg.actorID = actorID
		cfg.tenantID = tenantID
	}
}

// Session is the registry, store and version context backing one
// interception session. It routes property access through the store at the
// ambient version. Not safe for concurrent use; wrap the whole session in a
// mutex when sharing it between goroutines.
type Session struct {
	registry *PropertyRegistry
	store    *Store
	context  *VersionContext
	emitter  *activity.Emitter
	cfg      sessionConfig
}

// New constructs an empty Session.
func New(opts ...Option) *Session {
	cfg := applyOptions(opts)
	activityCfg := activity.Config{Enabled: len(cfg.hooks) > 0}
	if cfg.activityCfg != nil {
		activityCfg = *cfg.activityCfg
	}
	if activityCfg.ActorID == "" {
		activityCfg.ActorID = cfg.actorID
	}
	if activityCfg.TenantID == "" {
		activityCfg.TenantID = cfg.tenantID
	}
	var storeOpts []StoreOption
	if cfg.isolate {
		storeOpts = append(storeOpts, IsolateValues())
	}
	s := &Session{
		registry: NewPropertyRegistry(),
		store:    NewStore(storeOpts...),
		context:  NewVersionContext(cfg.reentrancy),
		emitter:  activity.NewEmitter(cfg.hooks, activityCfg),
		cfg:      cfg,
	}
	s.context.onOpen = s.opened
	s.context.onRelease = s.released
	return s
}

// Registry exposes the property registry.
func (s *Session) Registry() *PropertyRegistry {
	return s.registry
}

// Store exposes the value store.
func (s *Session) Store() *Store {
	return s.store
}

// Context exposes the version context.
func (s *Session) Context() *VersionContext {
	return s.context
}

// Version returns the ambient version.
func (s *Session) Version() Version {
	return s.context.Current()
}

// Open makes version ambient until the returned handle is released.
func (s *Session) Open(version Version) (*Handle, error) {
	h, err := s.context.Open(version)
	if err != nil {
		s.cfg.logger.Log(LogEvent{Op: OpOpen, Version: version, Err: err})
		if isContextActive(err) {
			s.cfg.metrics.observeOpen(version, err)
		}
		return nil, err
	}
	return h, nil
}

// WithVersion runs fn with version ambient and releases the context on every
// exit path, panics included.
func (s *Session) WithVersion(version Version, fn func() error) error {
	h, err := s.Open(version)
	if err != nil {
		return err
	}
	defer h.Release()
	if fn == nil {
		return nil
	}
	return fn()
}

// Property resolves the identity of name on obj's type.
func (s *Session) Property(obj Versionable, name string) PropertyID {
	return s.propertyID(TypeKeyFor(obj), name)
}

func (s *Session) propertyID(typeKey TypeKey, name string) PropertyID {
	before := s.registry.Len()
	id := s.registry.GetOrCreate(typeKey, name)
	if s.registry.Len() != before {
		s.cfg.metrics.observeRegistry(s.registry.Len())
	}
	return id
}

// Write stores value for name on obj at the ambient version.
func (s *Session) Write(obj Versionable, name string, value any) {
	key := PropertyKey{Type: TypeKeyFor(obj), Name: name}
	s.write(obj.VersionID(), key, s.propertyID(key.Type, name), value)
}

// WriteBase stores value at Base and fails with ErrOverlayActive when a
// non-base version is ambient.
func (s *Session) WriteBase(obj Versionable, name string, value any) error {
	if current := s.Version(); current != Base {
		err := newStateError(OpWrite, Base, current, ErrOverlayActive)
		s.cfg.logger.Log(LogEvent{Op: OpWrite, ObjectID: obj.VersionID(), Property: PropertyKey{Type: TypeKeyFor(obj), Name: name}, Version: Base, Err: err})
		return err
	}
	s.Write(obj, name, value)
	return nil
}

// Read returns the value of name on obj at the ambient version, falling back
// to Base. ok is false when neither layer holds a value; the caller then uses
// the object's own default, which is not written back.
func (s *Session) Read(obj Versionable, name string) (value any, ok bool) {
	key := PropertyKey{Type: TypeKeyFor(obj), Name: name}
	value, layer := s.read(obj.VersionID(), key, s.propertyID(key.Type, name))
	return value, layer != LayerMiss
}

func (s *Session) write(object ObjectID, key PropertyKey, id PropertyID, value any) {
	start := time.Now()
	version := s.Version()
	s.store.Write(object, version, id, value)
	s.cfg.metrics.observeWrite(version)
	s.cfg.logger.Log(LogEvent{
		Op:       OpWrite,
		ObjectID: object,
		Property: key,
		Version:  version,
		Duration: time.Since(start),
	})
	if !s.emitter.Accepts(activity.VerbValueWritten) {
		return
	}
	s.emit(activity.BuildValueWrittenEvent(activity.VersionEventInput{
		ObjectID:   object.String(),
		ObjectType: string(key.Type),
		Property:   key.Name,
		Version:    int(version),
		NewValue:   s.store.copy(value),
	}))
}

func (s *Session) read(object ObjectID, key PropertyKey, id PropertyID) (any, Layer) {
	start := time.Now()
	version := s.Version()
	value, layer := s.store.ReadLayer(object, version, id)
	s.cfg.metrics.observeRead(layer)
	s.cfg.logger.Log(LogEvent{
		Op:       OpRead,
		ObjectID: object,
		Property: key,
		Version:  version,
		Layer:    layer,
		Duration: time.Since(start),
	})
	return value, layer
}

func (s *Session) opened(h *Handle) {
	s.cfg.metrics.observeOpen(h.Version(), nil)
	s.cfg.logger.Log(LogEvent{Op: OpOpen, Version: h.Version()})
	s.emit(activity.BuildContextOpenedEvent(activity.VersionEventInput{Version: int(h.Version())}))
}

func (s *Session) released(h *Handle, reset bool) {
	s.cfg.metrics.observeRelease(s.Version())
	s.cfg.logger.Log(LogEvent{Op: OpRelease, Version: h.Version()})
	if !reset {
		return
	}
	s.emit(activity.BuildContextReleasedEvent(activity.VersionEventInput{Version: int(h.Version())}))
}

func (s *Session) emit(event activity.Event) {
	if err := s.emitter.Emit(context.Background(), event); err != nil {
		s.cfg.logger.Log(LogEvent{Op: OpActivityHook, Err: err})
	}
}

// TypeKeyFor returns the TypeKey properties of obj are registered under. Types
// may override the reflected key by implementing VersionTypeKey() TypeKey.
func TypeKeyFor(obj any) TypeKey {
	if keyed, ok := obj.(interface{ VersionTypeKey() TypeKey }); ok {
		return keyed.VersionTypeKey()
	}
	return TypeKeyOf(obj)
}
