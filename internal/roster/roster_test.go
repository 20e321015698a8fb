package roster

import (
	"testing"

	"github.com/playmatatu/tactics/internal/formation"
	"github.com/playmatatu/tactics/internal/pitch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTeam builds an 11-a-side 4-4-2 home team with the given bench.
func newTeam(t *testing.T, bench ...Player) Team {
	t.Helper()
	starters, err := Assign("4-4-2", formation.ElevenASide, "#2563eb", pitch.Home)
	require.NoError(t, err)
	team := Team{ID: pitch.Home, Name: "Đội nhà", Color: "#2563eb", Formation: "4-4-2"}
	team.Players = append(starters, bench...)
	return team
}

func bencher(id string, number int) Player {
	return Player{
		ID: id, Position: formation.CMF, Name: "Dự bị " + id, Color: "#123456",
		Image: "data:image/png;base64,AAAA", Number: number, IsSubstitute: true,
	}
}

func TestAssign_FourFourTwo(t *testing.T) {
	players, err := Assign("4-4-2", formation.ElevenASide, "#dc2626", pitch.Away)
	require.NoError(t, err)
	require.Len(t, players, 11)

	gk := players[0]
	assert.Equal(t, "away-gk", gk.ID)
	assert.Equal(t, formation.GK, gk.Position)
	assert.Equal(t, "Thủ môn", gk.Name)
	assert.Equal(t, "GK", gk.SlotKey)
	assert.Equal(t, 1, gk.Number)

	keys := make([]string, len(players))
	for i, p := range players {
		keys[i] = p.SlotKey
		assert.Equal(t, i+1, p.Number)
		assert.Equal(t, "#dc2626", p.Color)
		assert.False(t, p.IsSubstitute)
	}
	assert.Equal(t, []string{"GK", "LB", "CB1", "CB2", "RB", "LM", "CM1", "CM2", "RM", "ST1", "ST2"}, keys)

	assert.Equal(t, formation.LWF, players[5].Position, "LM is a left wide player")
	assert.Equal(t, "Trung vệ 2", players[3].Name)
	assert.Equal(t, formation.CF, players[10].Position)
}

func TestAssign_EveryCatalogEntry(t *testing.T) {
	for _, size := range formation.FieldSizes() {
		for _, name := range formation.ListFormations(size) {
			players, err := Assign(name, size, "#000000", pitch.Home)
			require.NoError(t, err, name)
			assert.Len(t, players, formation.ExpectedSlots(name))

			team := Team{ID: pitch.Home, Players: players}
			assert.NoError(t, team.Validate(), name)
		}
	}
}

func TestAssign_UnknownFormation(t *testing.T) {
	_, err := Assign("4-4-2", formation.FiveASide, "#000000", pitch.Home)
	assert.ErrorIs(t, err, formation.ErrUnknownFormation)
}

func TestRegenerate_PreservesSubstitutes(t *testing.T) {
	subs := []Player{bencher("home-sub-1", 12), bencher("home-sub-2", 13)}
	team := newTeam(t, subs...)

	next, err := Regenerate(team, "3-5-2", formation.ElevenASide)
	require.NoError(t, err)

	assert.Equal(t, "3-5-2", next.Formation)
	require.Len(t, next.Players, 13)
	assert.Equal(t, subs, next.Players[11:])
	assert.Equal(t, "CB3", next.Players[3].SlotKey)
}

func TestRegenerate_FieldSizeElevenToFive(t *testing.T) {
	team := newTeam(t, bencher("home-sub-1", 12), bencher("home-sub-2", 13))

	size := formation.FiveASide
	next, err := Regenerate(team, formation.DefaultFormation(size), size)
	require.NoError(t, err)

	assert.Equal(t, "3-1", next.Formation)
	assert.Len(t, next.Starters(), 5)
	assert.Len(t, next.Substitutes(), 2)
	assert.Len(t, next.Players, 7)
}

func TestRegenerate_DoesNotMutateInput(t *testing.T) {
	team := newTeam(t)
	_, err := Regenerate(team, "4-3-3", formation.ElevenASide)
	require.NoError(t, err)
	assert.Equal(t, "4-4-2", team.Formation)
	assert.Equal(t, "ST2", team.Players[10].SlotKey)
}

func TestRegenerate_RenamesStarterCollidingWithBench(t *testing.T) {
	benched := bencher("home-gk", 1)
	team := Team{ID: pitch.Home, Color: "#fff", Players: []Player{benched}}

	next, err := Regenerate(team, "3-1", formation.FiveASide)
	require.NoError(t, err)
	assert.Equal(t, "home-gk-2", next.Players[0].ID)
	assert.Equal(t, benched, next.Players[5])
}

func TestTeam_AddPlayerDefaults(t *testing.T) {
	team := newTeam(t)
	p, err := team.AddPlayer(Player{ID: "home-new"})
	require.NoError(t, err)

	assert.Equal(t, DefaultPlayerName, p.Name)
	assert.Equal(t, formation.GK, p.Position)
	assert.Equal(t, "#2563eb", p.Color)
	assert.Equal(t, 12, p.Number)
	assert.Equal(t, 12, len(team.Players))
}

func TestTeam_AddPlayerRejectsDuplicates(t *testing.T) {
	team := newTeam(t)
	_, err := team.AddPlayer(Player{ID: "home-gk"})
	assert.ErrorIs(t, err, ErrDuplicatePlayer)

	_, err = team.AddPlayer(Player{ID: "home-x", SlotKey: "CB1"})
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = team.AddPlayer(Player{ID: "home-y", SlotKey: "CB1", IsSubstitute: true})
	assert.NoError(t, err, "the bench may carry any slot key")
}

func TestTeam_UpdateAndRemove(t *testing.T) {
	team := newTeam(t)
	p := team.Players[1]
	p.Name = "Nguyễn Văn A"
	p.Number = 3
	require.NoError(t, team.UpdatePlayer(p))
	assert.Equal(t, "Nguyễn Văn A", team.Players[1].Name)

	p.SlotKey = "GK"
	assert.ErrorIs(t, team.UpdatePlayer(p), ErrSlotTaken)

	require.NoError(t, team.RemovePlayer(p.ID))
	assert.Equal(t, -1, team.Find(p.ID))
	assert.ErrorIs(t, team.RemovePlayer(p.ID), ErrPlayerNotFound)
	assert.ErrorIs(t, team.UpdatePlayer(Player{ID: "nobody"}), ErrPlayerNotFound)
}

func TestTeam_SubstituteAndRevert(t *testing.T) {
	team := newTeam(t, bencher("home-sub-1", 12))

	sub, err := team.Substitute(Substitution{PlayerOutID: "home-st1", PlayerInID: "home-sub-1", Minute: 63, Reason: "chấn thương"})
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)

	out := team.Players[team.Find("home-st1")]
	in := team.Players[team.Find("home-sub-1")]
	assert.True(t, out.IsSubstitute)
	assert.False(t, in.IsSubstitute)
	assert.Equal(t, "ST1", in.SlotKey)
	assert.NoError(t, team.Validate())
	require.Len(t, team.Substitutions, 1)

	require.NoError(t, team.RemoveSubstitution(sub.ID))
	out = team.Players[team.Find("home-st1")]
	in = team.Players[team.Find("home-sub-1")]
	assert.False(t, out.IsSubstitute)
	assert.True(t, in.IsSubstitute)
	assert.Empty(t, in.SlotKey)
	assert.Empty(t, team.Substitutions)
	assert.NoError(t, team.Validate())
}

func TestTeam_RemoveSubstitutionOutOfOrder(t *testing.T) {
	team := newTeam(t, bencher("b", 12), bencher("c", 13))

	first, err := team.Substitute(Substitution{PlayerOutID: "home-gk", PlayerInID: "b", Minute: 10})
	require.NoError(t, err)
	second, err := team.Substitute(Substitution{PlayerOutID: "b", PlayerInID: "c", Minute: 20})
	require.NoError(t, err)

	// b is back on the bench, so undoing the first swap would give GK two holders.
	assert.ErrorIs(t, team.RemoveSubstitution(first.ID), ErrInvalidSubstitution)
	assert.NoError(t, team.Validate())
	assert.Len(t, team.Substitutions, 2)

	require.NoError(t, team.RemoveSubstitution(second.ID))
	require.NoError(t, team.RemoveSubstitution(first.ID))
	assert.NoError(t, team.Validate())
	gk := team.Players[team.Find("home-gk")]
	assert.False(t, gk.IsSubstitute)
	assert.Equal(t, "GK", gk.SlotKey)
	assert.True(t, team.Players[team.Find("b")].IsSubstitute)
	assert.True(t, team.Players[team.Find("c")].IsSubstitute)
}

func TestTeam_RemoveSubstitutionSlotRetaken(t *testing.T) {
	team := newTeam(t, bencher("b", 12))

	sub, err := team.Substitute(Substitution{PlayerOutID: "home-gk", PlayerInID: "b", Minute: 10})
	require.NoError(t, err)
	require.NoError(t, team.RemovePlayer("b"))
	_, err = team.AddPlayer(Player{ID: "c", Position: formation.GK, SlotKey: "GK"})
	require.NoError(t, err)

	assert.ErrorIs(t, team.RemoveSubstitution(sub.ID), ErrInvalidSubstitution)
	assert.NoError(t, team.Validate())
}

func TestTeam_SubstituteValidation(t *testing.T) {
	team := newTeam(t, bencher("home-sub-1", 12))

	_, err := team.Substitute(Substitution{PlayerOutID: "home-st1", PlayerInID: "home-sub-1", Minute: 0})
	assert.ErrorIs(t, err, ErrInvalidSubstitution)

	_, err = team.Substitute(Substitution{PlayerOutID: "home-sub-1", PlayerInID: "home-st1", Minute: 10})
	assert.ErrorIs(t, err, ErrInvalidSubstitution)

	_, err = team.Substitute(Substitution{PlayerOutID: "home-st1", PlayerInID: "ghost", Minute: 10})
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	assert.ErrorIs(t, team.RemoveSubstitution("sub-missing"), ErrSubstitutionUnknown)
}

func TestTeam_ValidateDetectsDuplicateSlots(t *testing.T) {
	team := newTeam(t)
	team.Players[2].SlotKey = "CB2"
	assert.ErrorIs(t, team.Validate(), ErrSlotTaken)
}

func TestTeam_CloneIsIndependent(t *testing.T) {
	team := newTeam(t)
	c := team.Clone()
	c.Players[0].Name = "changed"
	assert.Equal(t, "Thủ môn", team.Players[0].Name)

	empty := Team{}
	assert.NotNil(t, empty.Clone().Players)
}
