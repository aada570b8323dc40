package utils

import (
	"hash/fnv"
	"strconv"
)

// WeakETag builds a weak validator for a response body.
func WeakETag(body []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(body)
	return `W/"` + strconv.FormatUint(h.Sum64(), 16) + `"`
}
