// Package idgen issues collision-free record identifiers of the form
// id_<unix-millis>_<ordinal>. The timestamp component is informational only;
// uniqueness is carried by the ordinal, which is seeded from the identifiers
// already persisted so that restarts never reissue an id.
package idgen

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"
)

var idPattern = regexp.MustCompile(`^id_(\d+)_(\d+)$`)

// Generator hands out process-unique identifiers. Safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	ordinal uint64
}

// New seeds a Generator from every identifier currently held by the stores.
// The next ordinal is one past the highest suffix observed; identifiers that
// do not match the id_<timestamp>_<ordinal> shape contribute zero rather than
// failing the load.
func New(seen ...[]string) *Generator {
	var maxOrdinal uint64
	for _, ids := range seen {
		for _, id := range ids {
			if ordinal := ordinalOf(id); ordinal > maxOrdinal {
				maxOrdinal = ordinal
			}
		}
	}

	return &Generator{ordinal: maxOrdinal}
}

// Next returns a fresh identifier, strictly increasing in its ordinal component.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ordinal++

	return fmt.Sprintf("id_%d_%d", time.Now().UnixMilli(), g.ordinal)
}

func ordinalOf(id string) uint64 {
	match := idPattern.FindStringSubmatch(id)
	if match == nil {
		return 0
	}
	ordinal, err := strconv.ParseUint(match[2], 10, 64)
	if err != nil {
		return 0
	}

	return ordinal
}
