package services

import (
	"context"

	"github.com/ytsaryk/geoquest/pkg/quest"
)

// Narrator generates narrative quest content. Implementations may fail;
// callers always degrade to the templated fallbacks in pkg/quest and
// never propagate a narrator error upward.
type Narrator interface {
	// GenerateQuest writes a short quest for a place: goal, reward text,
	// educational info, category. The returned quest is already
	// normalized (category set, setting derived from category).
	GenerateQuest(ctx context.Context, place quest.Place) (quest.Quest, error)

	// Recommend writes one motivational sentence for a quest.
	Recommend(ctx context.Context, q quest.Quest) (string, error)

	// EncourageIndoor writes a sentence steering the player from an
	// open-air quest in bad weather toward an enclosed alternative.
	EncourageIndoor(ctx context.Context, from quest.Quest, alt quest.Place, condition string) (string, error)
}
