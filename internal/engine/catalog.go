package engine

import (
	"crypto/subtle"
	"strings"
	"sync"

	"github.com/ytsaryk/geoquest/pkg/quest"
)

// Catalog holds the most recently generated batch of public quests and
// the static zone quests. The public batch is replaced wholesale on
// each generation request; zones are loaded once and never change.
// All lookups return copies, so callers can never mutate catalog state
// through a resolved quest.
type Catalog struct {
	mu     sync.RWMutex
	nextID int
	batch  []quest.Quest
	zones  []quest.Zone
}

// NewCatalog creates a catalog over the static zone set.
func NewCatalog(zones []quest.Zone) *Catalog {
	return &Catalog{nextID: 1, zones: zones}
}

// Replace swaps in a new public batch, assigning each quest a fresh
// identifier. The prior batch becomes unreachable for lookup. Readers
// see either the old batch or the new one, never a partial one.
func (c *Catalog) Replace(quests []quest.Quest) []quest.Quest {
	c.mu.Lock()
	defer c.mu.Unlock()
	batch := make([]quest.Quest, len(quests))
	for i, q := range quests {
		q.ID = c.nextID
		c.nextID++
		batch[i] = q
	}
	c.batch = batch
	return append([]quest.Quest(nil), batch...)
}

// Admit appends a quest to the current public batch with a fresh
// identifier and returns the stored copy. Used for evaluator-suggested
// substitutes.
func (c *Catalog) Admit(q quest.Quest) quest.Quest {
	c.mu.Lock()
	defer c.mu.Unlock()
	q.ID = c.nextID
	c.nextID++
	c.batch = append(c.batch, q)
	return q
}

// Quests returns a copy of the current public batch.
func (c *Catalog) Quests() []quest.Quest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]quest.Quest(nil), c.batch...)
}

// ResolveByID finds a quest in the current public batch only.
func (c *Catalog) ResolveByID(id int) (quest.Quest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, q := range c.batch {
		if q.ID == id {
			return q, true
		}
	}
	return quest.Quest{}, false
}

// ResolveByToken finds a zone quest by its secret completion token,
// searching all zones. Tokens are compared in constant time.
func (c *Catalog) ResolveByToken(token string) (quest.Quest, bool) {
	if token == "" {
		return quest.Quest{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, z := range c.zones {
		for _, zq := range z.Quests {
			if subtle.ConstantTimeCompare([]byte(zq.Token), []byte(token)) == 1 {
				return zq.Quest(), true
			}
		}
	}
	return quest.Quest{}, false
}

// Zone finds a zone by its access code.
func (c *Catalog) Zone(code string) (quest.Zone, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, z := range c.zones {
		if z.Code == code {
			return z, true
		}
	}
	return quest.Zone{}, false
}

// PrivateNames returns the lowercased zone names and zone quest place
// names, used to keep generation from duplicating private places.
func (c *Catalog) PrivateNames() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make(map[string]bool)
	for _, z := range c.zones {
		names[strings.ToLower(z.Name)] = true
		for _, q := range z.Quests {
			names[strings.ToLower(q.Place)] = true
		}
	}
	return names
}
