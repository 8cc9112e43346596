package pos

import (
	"strings"

	"github.com/google/uuid"
)

// NewCode generates a document code: FAC- for sales, OC- for procurement
// orders. A UUID-derived suffix avoids the collision risk of wall-clock
// suffixes under rapid sequential creation.
func NewCode(mode Mode) string {
	prefix := "FAC-"
	if mode == ModeProcurement {
		prefix = "OC-"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return prefix + suffix
}
