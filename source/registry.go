package source

import (
	"sort"
	"sync"
)

// Opener locates the codestream inside one input format
type Opener interface {
	// Format returns the format handled by the opener
	Format() Format

	// Open returns the codestream held by in
	Open(in Input, opts Options) (*Source, error)
}

// Registry manages the available openers
type Registry struct {
	mu      sync.RWMutex
	openers map[Format]Opener
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{openers: make(map[Format]Opener)}
}

var defaultRegistry = NewRegistry()

func init() {
	Register(rawOpener{})
	Register(jp2Opener{})
	Register(dicomOpener{})
}

// Register registers an opener in the default registry, replacing any
// opener previously registered for the same format
func Register(o Opener) {
	defaultRegistry.Register(o)
}

// Get retrieves the opener for a format from the default registry
func Get(format Format) (Opener, error) {
	return defaultRegistry.Get(format)
}

// List returns the formats of the default registry
func List() []Format {
	return defaultRegistry.List()
}

// Register registers an opener by its format
func (r *Registry) Register(o Opener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.openers[o.Format()] = o
}

// Get retrieves an opener by format
func (r *Registry) Get(format Format) (Opener, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.openers[format]
	if !ok {
		return nil, ErrOpenerNotFound
	}
	return o, nil
}

// List returns all registered formats in sorted order
func (r *Registry) List() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]Format, 0, len(r.openers))
	for f := range r.openers {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
