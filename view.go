package versioned

import "github.com/goliatone/go-versioned/internal/hydrate"

// View returns the effective value of every registered property of obj's type
// at the ambient version. Properties with no stored value in either layer are
// omitted.
func (s *Session) View(obj Versionable) map[string]any {
	return s.ViewAt(obj, s.Version())
}

// ViewAt is View for an explicit version. Overlay values of other versions
// never contribute.
func (s *Session) ViewAt(obj Versionable, version Version) map[string]any {
	object := obj.VersionID()
	view := map[string]any{}
	for _, key := range s.registry.Properties(TypeKeyFor(obj)) {
		id, ok := s.registry.Lookup(key.Type, key.Name)
		if !ok {
			continue
		}
		if value, ok := s.store.Read(object, version, id); ok {
			view[key.Name] = value
		}
	}
	return view
}

// DecodeOption configures Decode.
type DecodeOption[T any] func(*decodeConfig[T])

type decodeConfig[T any] struct {
	options    []hydrate.DecoderOption[T]
	versionSet bool
	version    Version
}

// DecodeAt decodes the view of an explicit version instead of the ambient one.
func DecodeAt[T any](version Version) DecodeOption[T] {
	return func(cfg *decodeConfig[T]) {
		cfg.versionSet = true
		cfg.version = version
	}
}

// DecodeStrict rejects view entries that have no matching field in T.
func DecodeStrict[T any]() DecodeOption[T] {
	return func(cfg *decodeConfig[T]) {
		cfg.options = append(cfg.options, hydrate.WithDisallowUnknownFields[T]())
	}
}

// DecodeValidate runs fn on the decoded value.
func DecodeValidate[T any](fn func(*T) error) DecodeOption[T] {
	return func(cfg *decodeConfig[T]) {
		if fn == nil {
			return
		}
		cfg.options = append(cfg.options, hydrate.WithPostHook[T](func(_ hydrate.Context, out *T) error {
			return fn(out)
		}))
	}
}

// Decode hydrates a plain T from obj's view, matching property names to JSON
// field names. Fields without a stored value keep their zero value.
func Decode[T any](s *Session, obj Versionable, opts ...DecodeOption[T]) (T, error) {
	cfg := decodeConfig[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	version := s.Version()
	if cfg.versionSet {
		version = cfg.version
	}
	view := s.ViewAt(obj, version)
	decoder := hydrate.NewDecoder[T](cfg.options...)
	return decoder.Decode(hydrate.Context{
		ObjectID: obj.VersionID().String(),
		Version:  int(version),
	}, view)
}
