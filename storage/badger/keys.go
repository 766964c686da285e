package badger

import (
	"encoding/binary"

	"github.com/sjlee-dev/labmatch/core"
)

// Key prefixes for different data types
const (
	labRecordPrefix = "labrec"
)

// makeLabKey generates a key for a lab profile by ID.
// Format: prefix:id, with the ID in BigEndian so lexicographic
// iteration order equals numeric ID order.
func makeLabKey(id core.ID) []byte {
	prefix := labRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
