package catalog

import "errors"

// ErrProductNotFound is returned by read paths when the requested product is
// not mirrored locally.
var ErrProductNotFound = errors.New("product not found")
