package cache

// ScopedKeyer prefixes every key, giving each HTTP session its own namespace.
//
//	k := NewScopedKeyer(nil, "session:"+id+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (the default keyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) FramesKey(scriptHash string, opts FramesKeyOpts) string {
	return k.prefix + k.inner.FramesKey(scriptHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(framesHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(framesHash, opts)
}
