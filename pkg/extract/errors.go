package extract

import "errors"

// ErrUnsupported is returned for files whose extension has no registered extractor.
var ErrUnsupported = errors.New("unsupported document type")
