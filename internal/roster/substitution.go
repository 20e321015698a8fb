package roster

import (
	"fmt"

	"github.com/google/uuid"
)

// Substitute brings a bench player on for an active one. The incoming player takes
// over the outgoing player's slot.
func (t *Team) Substitute(sub Substitution) (Substitution, error) {
	if sub.Minute <= 0 {
		return Substitution{}, fmt.Errorf("%w: minute must be positive", ErrInvalidSubstitution)
	}
	if sub.PlayerInID == "" || sub.PlayerOutID == "" || sub.PlayerInID == sub.PlayerOutID {
		return Substitution{}, fmt.Errorf("%w: two different players required", ErrInvalidSubstitution)
	}

	out := t.Find(sub.PlayerOutID)
	in := t.Find(sub.PlayerInID)
	if out < 0 {
		return Substitution{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, sub.PlayerOutID)
	}
	if in < 0 {
		return Substitution{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, sub.PlayerInID)
	}
	if t.Players[out].IsSubstitute {
		return Substitution{}, fmt.Errorf("%w: %s is not on the pitch", ErrInvalidSubstitution, sub.PlayerOutID)
	}
	if !t.Players[in].IsSubstitute {
		return Substitution{}, fmt.Errorf("%w: %s is not on the bench", ErrInvalidSubstitution, sub.PlayerInID)
	}

	if sub.ID == "" {
		sub.ID = "sub-" + uuid.NewString()
	}
	sub.InSlotKey = t.Players[in].SlotKey

	t.Players[out].IsSubstitute = true
	t.Players[in].IsSubstitute = false
	t.Players[in].SlotKey = t.Players[out].SlotKey
	t.Substitutions = append(t.Substitutions, sub)
	return sub, nil
}

// RemoveSubstitution reverts a recorded swap and drops it from the history.
// Players removed from the roster since are skipped. The undo is refused when the
// incoming player has left the pitch again or the outgoing player's slot has been
// taken by someone else.
func (t *Team) RemoveSubstitution(id string) error {
	idx := -1
	for i, s := range t.Substitutions {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSubstitutionUnknown, id)
	}
	sub := t.Substitutions[idx]

	out, in := t.Find(sub.PlayerOutID), t.Find(sub.PlayerInID)
	if in >= 0 && t.Players[in].IsSubstitute {
		return fmt.Errorf("%w: %s is no longer on the pitch", ErrInvalidSubstitution, sub.PlayerInID)
	}
	if out >= 0 {
		key := t.Players[out].SlotKey
		for _, p := range t.Players {
			if key != "" && !p.IsSubstitute && p.SlotKey == key && p.ID != sub.PlayerOutID && p.ID != sub.PlayerInID {
				return fmt.Errorf("%w: slot %s now held by %s", ErrInvalidSubstitution, key, p.ID)
			}
		}
	}

	if out >= 0 {
		t.Players[out].IsSubstitute = false
	}
	if in >= 0 {
		t.Players[in].IsSubstitute = true
		t.Players[in].SlotKey = sub.InSlotKey
	}

	t.Substitutions = append(t.Substitutions[:idx], t.Substitutions[idx+1:]...)
	return nil
}
