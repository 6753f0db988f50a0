package charset

import "errors"

// ErrUnsupportedDesignator indicates a (0008,0005) Specific Character Set
// value this package does not have a transcoder for: an unrecognized
// defined term, or an ISO 2022 designator combination other than the
// Japanese one this package implements.
var ErrUnsupportedDesignator = errors.New("charset: unsupported character set designator")
