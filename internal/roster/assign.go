package roster

import (
	"fmt"
	"strings"

	"github.com/playmatatu/tactics/internal/formation"
	"github.com/playmatatu/tactics/internal/pitch"
)

// Assign generates placeholder starters for every slot of a formation: goalkeeper
// first, then each line of the formation name from defence to attack. Shirt numbers
// run from 1 in that order.
func Assign(formationName string, size formation.FieldSize, teamColor string, side pitch.Side) ([]Player, error) {
	def, err := formation.Get(size, formationName)
	if err != nil {
		return nil, err
	}

	slots := def.Slots()
	names := def.DisplayNames()
	lines := def.Lines()
	if formation.ExpectedSlots(formationName) != len(slots) {
		return nil, fmt.Errorf("formation %s has %d slots, name implies %d", formationName, len(slots), formation.ExpectedSlots(formationName))
	}

	players := make([]Player, 0, len(slots))
	add := func(i int) {
		s := slots[i]
		players = append(players, Player{
			ID:       playerID(side, s.Key),
			Position: s.Category(),
			Name:     names[i],
			Color:    teamColor,
			Number:   len(players) + 1,
			SlotKey:  s.Key,
		})
	}

	add(0)
	next := 1
	for _, n := range lines {
		for j := 0; j < n; j++ {
			add(next)
			next++
		}
	}
	return players, nil
}

// Regenerate swaps the starters of a team for a freshly assigned formation. The bench
// is carried over untouched, after the new starters.
func Regenerate(team Team, formationName string, size formation.FieldSize) (Team, error) {
	starters, err := Assign(formationName, size, team.Color, team.ID)
	if err != nil {
		return team, err
	}

	bench := team.Substitutes()
	taken := make(map[string]bool, len(bench))
	for _, p := range bench {
		taken[p.ID] = true
	}
	// A starter benched earlier may still carry the id a new starter would get.
	for i := range starters {
		id := starters[i].ID
		for n := 2; taken[id]; n++ {
			id = fmt.Sprintf("%s-%d", starters[i].ID, n)
		}
		starters[i].ID = id
	}

	out := team.Clone()
	out.Formation = formationName
	out.Players = append(starters, bench...)
	return out, nil
}

func playerID(side pitch.Side, slotKey string) string {
	return fmt.Sprintf("%s-%s", side, strings.ToLower(slotKey))
}
