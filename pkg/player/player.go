// Package player owns the player record and its Progression Ledger:
// the only legal mutation paths for experience, level, geobucks, the
// active quest and unlocked achievements.
package player

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/ytsaryk/geoquest/pkg/quest"
)

var (
	// ErrInsufficientFunds is returned when a purchase would drive the
	// geobuck balance negative. State is left unchanged.
	ErrInsufficientFunds = errors.New("not enough geobucks")

	// ErrNoActiveQuest is returned when completing with nothing active,
	// or when the active quest changed between read and completion.
	ErrNoActiveQuest = errors.New("no active quest")

	// ErrUnknownAchievement is returned for achievement IDs outside the
	// static catalog.
	ErrUnknownAchievement = errors.New("unknown achievement")
)

// View is the read-only snapshot of a player handed to callers.
type View struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Level        int          `json:"level"`
	XP           int          `json:"xp"`
	XPToNext     int          `json:"xp_to_next_level"`
	Geobucks     int          `json:"geobucks"`
	ActiveQuest  *quest.Quest `json:"active_quest,omitempty"`
	Achievements []string     `json:"achievements"`
	Items        []string     `json:"items"`
}

// RequiredForLevel returns the experience needed to clear a level.
// Monotonically increasing for level >= 1.
func RequiredForLevel(level int) int {
	return 100 + (level-1)*50
}

// TotalXP returns the lifetime experience the view represents: every
// cleared level's threshold plus the current remainder.
func (v View) TotalXP() int {
	total := v.XP
	for l := 1; l < v.Level; l++ {
		total += RequiredForLevel(l)
	}
	return total
}

// Ledger is the synchronized state machine over a single player record.
// Every mutation runs in one critical section, so concurrent completions
// cannot interleave their level-up or currency updates.
type Ledger struct {
	mu sync.Mutex

	id           uuid.UUID
	name         string
	level        int
	xp           int
	geobucks     int
	active       *quest.Quest
	achievements map[string]Achievement
	unlocked     map[string]bool
	items        []string
}

// NewLedger creates a ledger for a fresh level-1 player. The
// achievement catalog is fixed for the ledger's lifetime.
func NewLedger(name string, achievements []Achievement) *Ledger {
	byID := make(map[string]Achievement, len(achievements))
	for _, a := range achievements {
		byID[a.ID] = a
	}
	return &Ledger{
		id:           uuid.New(),
		name:         name,
		level:        1,
		geobucks:     10,
		achievements: byID,
		unlocked:     make(map[string]bool),
	}
}

// Snapshot returns a defensive copy of the player state.
func (l *Ledger) Snapshot() View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.viewLocked()
}

func (l *Ledger) viewLocked() View {
	v := View{
		ID:           l.id,
		Name:         l.name,
		Level:        l.level,
		XP:           l.xp,
		XPToNext:     RequiredForLevel(l.level),
		Geobucks:     l.geobucks,
		Achievements: make([]string, 0, len(l.unlocked)),
		Items:        append([]string(nil), l.items...),
	}
	if l.active != nil {
		q := *l.active
		v.ActiveQuest = &q
	}
	for id := range l.unlocked {
		v.Achievements = append(v.Achievements, id)
	}
	sort.Strings(v.Achievements)
	return v
}

// ApplyExperience adds experience and rolls any overflow into level-ups.
// A single large reward may clear several levels in one call. Returns
// whether at least one level-up occurred.
func (l *Ledger) ApplyExperience(gained int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.applyExperienceLocked(gained)
}

func (l *Ledger) applyExperienceLocked(gained int) bool {
	if gained <= 0 {
		return false
	}
	l.xp += gained
	leveled := false
	for l.xp >= RequiredForLevel(l.level) {
		l.xp -= RequiredForLevel(l.level)
		l.level++
		leveled = true
	}
	return leveled
}

// ApplyCurrency adjusts the geobuck balance. A delta that would drive
// the balance negative fails without mutating state.
func (l *Ledger) ApplyCurrency(delta int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.applyCurrencyLocked(delta)
}

func (l *Ledger) applyCurrencyLocked(delta int) error {
	if l.geobucks+delta < 0 {
		return ErrInsufficientFunds
	}
	l.geobucks += delta
	return nil
}

// AssignActiveQuest sets the active quest. Assignment always succeeds;
// the latest assignment wins.
func (l *Ledger) AssignActiveQuest(q quest.Quest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = &q
}

// ActiveQuest returns a copy of the active quest, if any.
func (l *Ledger) ActiveQuest() (quest.Quest, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == nil {
		return quest.Quest{}, false
	}
	return *l.active, true
}

// ClearActiveQuest drops the active quest. Idempotent.
func (l *Ledger) ClearActiveQuest() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = nil
}

// CompleteActiveQuest applies the reward for the given active quest and
// clears it, all in one critical section. questID must still be the
// active quest's ID; otherwise another request already completed or
// replaced it and ErrNoActiveQuest is returned with state unchanged.
func (l *Ledger) CompleteActiveQuest(questID int, xp int, geobucks int) (leveledUp bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == nil || l.active.ID != questID {
		return false, ErrNoActiveQuest
	}
	leveledUp = l.applyExperienceLocked(xp)
	l.geobucks += geobucks
	l.active = nil
	return leveledUp, nil
}

// AwardQuest applies a quest reward that does not involve the active
// quest slot (token-gated zone completions).
func (l *Ledger) AwardQuest(xp int, geobucks int) (leveledUp bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	leveledUp = l.applyExperienceLocked(xp)
	l.geobucks += geobucks
	return leveledUp
}

// UnlockAchievement adds an achievement to the unlocked set and applies
// its geobuck reward. Unlocking an already-unlocked achievement is a
// no-op, not an error, and pays out nothing.
func (l *Ledger) UnlockAchievement(id string) (Achievement, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.achievements[id]
	if !ok {
		return Achievement{}, false, ErrUnknownAchievement
	}
	if l.unlocked[id] {
		return a, false, nil
	}
	l.unlocked[id] = true
	l.geobucks += a.RewardGeobucks
	return a, true, nil
}

// Purchase deducts an item's price and records ownership. Items have
// no mechanical effect on the engine.
func (l *Ledger) Purchase(item ShopItem) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.applyCurrencyLocked(-item.Price); err != nil {
		return err
	}
	l.items = append(l.items, item.Name)
	return nil
}
