package instrument

import "errors"

// ErrEntryPointMismatch reports that Uninstrument found entry points other
// than the ones Instrument installed. Someone replaced them after activation;
// restoring the saved originals would clobber that party's wrappers, so
// nothing is changed.
var ErrEntryPointMismatch = errors.New("rpc entry points were replaced after instrumentation; refusing to restore")
