package nd

import "github.com/born-ml/dynd/internal/ndt"

// Option configures array construction.
type Option func(*options)

type options struct {
	dtype     ndt.Type
	access    Access
	accessSet bool
}

// WithDType requests a specific type. The type may carry leading fixed
// dimensions, which then become the trailing dimensions of the array.
func WithDType(t ndt.Type) Option {
	return func(o *options) {
		o.dtype = t
	}
}

// WithAccess sets the access level of the result.
func WithAccess(a Access) Option {
	return func(o *options) {
		o.access = a
		o.accessSet = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// dtypeOr returns the requested dtype, or def when none was requested.
func (o options) dtypeOr(def ndt.Type) ndt.Type {
	if o.dtype.IsZero() {
		return def
	}
	return o.dtype
}
