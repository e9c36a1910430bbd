package ids

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New returns a prefixed id: "<prefix>_<unix millis>_<8 hex chars>". The
// millisecond component keeps ids roughly sortable by creation time; the
// uuid suffix disambiguates same-millisecond collisions.
func New(prefix string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix)
}
