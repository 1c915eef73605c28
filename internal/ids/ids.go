package ids

import "github.com/segmentio/ksuid"

// New returns a new K-sortable unique id. Newly created ids sort after
// older ones, so created_at ordering has a stable tie-break.
func New() string {
	return ksuid.New().String()
}
