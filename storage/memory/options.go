package memory

import (
	formatcfg "github.com/gitobj/gitobj/plumbing/format/config"
)

type options struct {
	objectFormat formatcfg.ObjectFormat
}

func newOptions() options {
	return options{
		objectFormat: formatcfg.DefaultObjectFormat,
	}
}

// StorageOption configures a Storage at construction time.
type StorageOption func(*options)

// WithObjectFormat sets the hash algorithm used to address objects kept
// in the store.
func WithObjectFormat(of formatcfg.ObjectFormat) StorageOption {
	return func(o *options) {
		o.objectFormat = of
	}
}
