package translate

import "errors"

var errFillFailed = errors.New("translation fill failed")
