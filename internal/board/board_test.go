package board

import (
	"math/rand/v2"
	"testing"

	"github.com/playmatatu/tactics/internal/drawing"
	"github.com/playmatatu/tactics/internal/formation"
	"github.com/playmatatu/tactics/internal/pitch"
	"github.com/playmatatu/tactics/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T) *Board {
	t.Helper()
	return New("b-test", 500, 500, WithRand(rand.New(rand.NewPCG(3, 5))))
}

func markerFor(t *testing.T, markers []Marker, id string) Marker {
	t.Helper()
	for _, m := range markers {
		if m.PlayerID == id {
			return m
		}
	}
	t.Fatalf("no marker for %s", id)
	return Marker{}
}

func record(b *Board) *[]Event {
	var events []Event
	b.Subscribe(func(ev Event) { events = append(events, ev) })
	return &events
}

func TestNew_DefaultLineup(t *testing.T) {
	b := newBoard(t)
	s := b.State()

	assert.Equal(t, formation.ElevenASide, s.FieldSize)
	assert.Equal(t, "4-4-2", s.Home.Formation)
	assert.Equal(t, HomeColor, s.Home.Color)
	assert.Equal(t, AwayName, s.Away.Name)
	assert.Len(t, s.Home.Players, 11)
	assert.Len(t, s.Markers, 22)
	assert.Equal(t, drawing.ModeNone, s.Drawing.Mode)
	assert.False(t, s.DragEnabled)

	gk := markerFor(t, s.Markers, "home-gk")
	assert.Equal(t, 50.0, gk.X)
	assert.Equal(t, 250.0, gk.Y)
	assert.Equal(t, SourceSlot, gk.Source)

	away := markerFor(t, s.Markers, "away-gk")
	assert.Equal(t, 450.0, away.X)
	assert.Equal(t, 250.0, away.Y)
}

func TestNew_FallsBackToDefaultSize(t *testing.T) {
	w, h := New("x", 0, -1).Size()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)
}

func TestSetFieldSize_KeepsSubstitutes(t *testing.T) {
	b := newBoard(t)
	for _, id := range []string{"home-sub-1", "home-sub-2"} {
		_, err := b.AddPlayer(pitch.Home, roster.Player{ID: id, Position: formation.CMF, IsSubstitute: true})
		require.NoError(t, err)
	}
	before, err := b.Team(pitch.Home)
	require.NoError(t, err)

	events := record(b)
	require.NoError(t, b.SetFieldSize(formation.FiveASide))

	home, err := b.Team(pitch.Home)
	require.NoError(t, err)
	assert.Equal(t, "3-1", home.Formation)
	assert.Len(t, home.Starters(), 5)
	assert.Len(t, home.Players, 7)
	assert.Equal(t, before.Substitutes(), home.Substitutes())

	away, err := b.Team(pitch.Away)
	require.NoError(t, err)
	assert.Len(t, away.Players, 5)

	require.Len(t, *events, 2)
	assert.Equal(t, EventRoster, (*events)[0].Type)
	assert.Equal(t, EventLayout, (*events)[1].Type)
	assert.Equal(t, "b-test", (*events)[0].BoardID)
	assert.Len(t, b.Layout(), 10)
}

func TestSetFieldSize_RejectsUnknownSize(t *testing.T) {
	b := newBoard(t)
	assert.ErrorIs(t, b.SetFieldSize("9"), formation.ErrUnknownFieldSize)
	assert.Equal(t, formation.ElevenASide, b.FieldSize())
}

func TestSetFormation(t *testing.T) {
	b := newBoard(t)
	require.NoError(t, b.SetFormation(pitch.Away, "4-3-3"))

	away, err := b.Team(pitch.Away)
	require.NoError(t, err)
	assert.Equal(t, "4-3-3", away.Formation)

	cf := markerFor(t, b.Layout(), "away-cf")
	assert.Equal(t, 150.0, cf.X, "away CF at 70% mirrors to 30%")

	err = b.SetFormation(pitch.Home, "3-1")
	assert.ErrorIs(t, err, formation.ErrUnknownFormation)
	assert.Error(t, b.SetFormation("middle", "4-4-2"))
}

func TestFreePlacement_IsStableAndScales(t *testing.T) {
	b := newBoard(t)
	b.ClearPlayers()

	_, err := b.AddPlayer(pitch.Home, roster.Player{ID: "h1", Position: formation.GK})
	require.NoError(t, err)
	_, err = b.AddPlayer(pitch.Away, roster.Player{ID: "a1", Position: formation.GK})
	require.NoError(t, err)

	first := b.Layout()
	require.Len(t, first, 2)
	assert.Equal(t, SourceFree, first[0].Source)
	assert.InDelta(t, 50.0, markerFor(t, first, "h1").X, 1e-9)
	assert.InDelta(t, 450.0, markerFor(t, first, "a1").X, 1e-9)

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, b.Layout())
	}

	require.NoError(t, b.Resize(1000, 500))
	h1 := markerFor(t, b.Layout(), "h1")
	assert.InDelta(t, 100.0, h1.X, 1e-9)
	assert.InDelta(t, 250.0, h1.Y, 1e-9)
}

func TestFreePlacement_RespectsDistanceOrSeed(t *testing.T) {
	b := newBoard(t)
	_, err := b.AddPlayer(pitch.Home, roster.Player{ID: "extra", Position: formation.DMF})
	require.NoError(t, err)

	markers := b.Layout()
	extra := markerFor(t, markers, "extra")
	seed := pitch.SeedPixels(formation.DMF, 500, 500, pitch.Home)
	pos := pitch.Vec2{X: extra.X, Y: extra.Y}
	if pos.DistanceTo(seed) < 1e-9 {
		return
	}
	for _, m := range markers {
		if m.PlayerID != "extra" {
			assert.GreaterOrEqual(t, pos.DistanceTo(pitch.Vec2{X: m.X, Y: m.Y}), pitch.MinMarkerDistance-1e-9)
		}
	}
}

func TestMoveMarker(t *testing.T) {
	b := newBoard(t)
	_, err := b.MoveMarker(pitch.Home, "home-gk", 100, 100)
	assert.ErrorIs(t, err, ErrDragDisabled)

	b.SetDragEnabled(true)
	m, err := b.MoveMarker(pitch.Home, "home-gk", -100, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, m.X, 1e-9)
	assert.InDelta(t, 480.0, m.Y, 1e-9)
	assert.Equal(t, SourceManual, m.Source)
	assert.Equal(t, m, markerFor(t, b.Layout(), "home-gk"))

	_, err = b.MoveMarker(pitch.Home, "nobody", 10, 10)
	assert.ErrorIs(t, err, ErrNotOnPitch)

	_, err = b.SetDrawing(drawing.Config{Mode: drawing.ModePencil, Width: 3, Color: "#ffffff"})
	require.NoError(t, err)
	assert.False(t, b.State().DragEnabled, "drawing turns dragging off")
	_, err = b.MoveMarker(pitch.Home, "home-gk", 100, 100)
	assert.ErrorIs(t, err, ErrDragDisabled)
}

func TestSetFormation_ResetsDraggedStarters(t *testing.T) {
	b := newBoard(t)
	b.SetDragEnabled(true)
	_, err := b.MoveMarker(pitch.Home, "home-gk", 200, 200)
	require.NoError(t, err)

	require.NoError(t, b.SetFormation(pitch.Home, "4-3-3"))
	gk := markerFor(t, b.Layout(), "home-gk")
	assert.Equal(t, SourceSlot, gk.Source)
	assert.Equal(t, 50.0, gk.X)
}

func TestDrawing_PointerAndClear(t *testing.T) {
	b := newBoard(t)
	b.SetDragEnabled(true)
	cfg, err := b.SetDrawing(drawing.Config{Mode: drawing.ModePencil, Width: 40, Color: "#ff0000"})
	require.NoError(t, err)
	assert.Equal(t, float64(drawing.MaxWidth), cfg.Width)

	events := record(b)
	assert.True(t, b.Pointer(drawing.PointerEvent{X: 100, Y: 100, Phase: drawing.PhaseDown}))
	assert.True(t, b.Pointer(drawing.PointerEvent{X: 200, Y: 100, Phase: drawing.PhaseMove}))
	assert.False(t, b.Pointer(drawing.PointerEvent{Phase: drawing.PhaseUp}))

	img := b.DrawingImage()
	assert.Equal(t, uint8(0xff), img.RGBAAt(150, 100).A)
	require.Len(t, *events, 3, "down, move and the stroke end")
	stroke, ok := (*events)[2].Data.(Stroke)
	require.True(t, ok)
	assert.Equal(t, drawing.PhaseUp, stroke.Pointer.Phase)

	b.ClearDrawing()
	assert.Zero(t, b.DrawingImage().RGBAAt(150, 100).A)
	assert.Equal(t, EventDrawingCleared, (*events)[3].Type)
}

func TestSubstitute_ThroughBoard(t *testing.T) {
	b := newBoard(t)
	_, err := b.AddPlayer(pitch.Home, roster.Player{ID: "bench", Position: formation.CF, IsSubstitute: true})
	require.NoError(t, err)

	sub, err := b.Substitute(pitch.Home, roster.Substitution{PlayerOutID: "home-st2", PlayerInID: "bench", Minute: 70})
	require.NoError(t, err)
	assert.Contains(t, sub.ID, "sub-")

	in := markerFor(t, b.Layout(), "bench")
	assert.Equal(t, "ST2", in.SlotKey)
	assert.Equal(t, SourceSlot, in.Source)

	require.NoError(t, b.RemoveSubstitution(pitch.Home, sub.ID))
	_ = markerFor(t, b.Layout(), "home-st2")
	assert.ErrorIs(t, b.RemoveSubstitution(pitch.Home, sub.ID), roster.ErrSubstitutionUnknown)
}

func TestClearPlayers(t *testing.T) {
	b := newBoard(t)
	_, err := b.SetDrawing(drawing.Config{Mode: drawing.ModeEraser})
	require.NoError(t, err)

	b.ClearPlayers()
	s := b.State()
	assert.Empty(t, s.Home.Players)
	assert.Empty(t, s.Away.Substitutions)
	assert.Empty(t, s.Markers)
	assert.Equal(t, drawing.ModeNone, s.Drawing.Mode)
}

func TestRemovePlayer(t *testing.T) {
	b := newBoard(t)
	require.NoError(t, b.RemovePlayer(pitch.Away, "away-lb"))
	assert.Len(t, b.Layout(), 21)
	assert.ErrorIs(t, b.RemovePlayer(pitch.Away, "away-lb"), roster.ErrPlayerNotFound)
}

func TestResize_RejectsOutOfRange(t *testing.T) {
	b := newBoard(t)
	assert.ErrorIs(t, b.Resize(0, 100), ErrInvalidPitch)
	assert.ErrorIs(t, b.Resize(MaxPitchSize+1, 100), ErrInvalidPitch)
	assert.ErrorIs(t, b.Resize(100, 100000), ErrInvalidPitch)
	require.NoError(t, b.Resize(MaxPitchSize, MaxPitchSize))

	w, h := New("big", 100000, 100000).Size()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)
}

func TestRestore_RejectsOversizedPitch(t *testing.T) {
	snap, err := newBoard(t).Snapshot()
	require.NoError(t, err)
	snap.Width = 100000
	_, err = Restore(snap)
	assert.ErrorIs(t, err, ErrInvalidPitch)
}

func TestLayout_SameIDOnBothSides(t *testing.T) {
	b := newBoard(t)
	b.ClearPlayers()
	_, err := b.AddPlayer(pitch.Home, roster.Player{ID: "p1", Position: formation.GK})
	require.NoError(t, err)
	_, err = b.AddPlayer(pitch.Away, roster.Player{ID: "p1", Position: formation.CF})
	require.NoError(t, err)

	var home, away Marker
	for _, m := range b.Layout() {
		if m.Team == pitch.Home {
			home = m
		} else {
			away = m
		}
	}
	wantHome := pitch.SeedPixels(formation.GK, 500, 500, pitch.Home)
	wantAway := pitch.SeedPixels(formation.CF, 500, 500, pitch.Away)
	assert.InDelta(t, wantHome.X, home.X, 1e-9)
	assert.InDelta(t, wantAway.X, away.X, 1e-9)
	assert.InDelta(t, wantAway.Y, away.Y, 1e-9)

	b.SetDragEnabled(true)
	moved, err := b.MoveMarker(pitch.Away, "p1", 200, 200)
	require.NoError(t, err)
	assert.Equal(t, pitch.Away, moved.Team)
	assert.Equal(t, SourceManual, moved.Source)
	for _, m := range b.Layout() {
		if m.Team == pitch.Home {
			assert.Equal(t, SourceFree, m.Source, "dragging the away p1 leaves the home p1 alone")
			assert.InDelta(t, wantHome.X, m.X, 1e-9)
		}
	}
}

func TestRemoveSubstitution_OutOfOrderKeepsBoardRestorable(t *testing.T) {
	b := newBoard(t)
	for _, id := range []string{"b", "c"} {
		_, err := b.AddPlayer(pitch.Home, roster.Player{ID: id, Position: formation.GK, IsSubstitute: true})
		require.NoError(t, err)
	}
	first, err := b.Substitute(pitch.Home, roster.Substitution{PlayerOutID: "home-gk", PlayerInID: "b", Minute: 10})
	require.NoError(t, err)
	_, err = b.Substitute(pitch.Home, roster.Substitution{PlayerOutID: "b", PlayerInID: "c", Minute: 20})
	require.NoError(t, err)

	assert.ErrorIs(t, b.RemoveSubstitution(pitch.Home, first.ID), roster.ErrInvalidSubstitution)

	snap, err := b.Snapshot()
	require.NoError(t, err)
	restored, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, b.State().Home, restored.State().Home)
}

func TestSubscribe_Cancel(t *testing.T) {
	b := newBoard(t)
	count := 0
	cancel := b.Subscribe(func(Event) { count++ })
	b.ClearDrawing()
	cancel()
	b.ClearDrawing()
	assert.Equal(t, 1, count)
}

func TestSnapshot_RestoreRoundTrip(t *testing.T) {
	b := newBoard(t)
	require.NoError(t, b.SetFieldSize(formation.SevenASide))
	_, err := b.AddPlayer(pitch.Home, roster.Player{ID: "free", Position: formation.RWF})
	require.NoError(t, err)
	b.SetDragEnabled(true)
	_, err = b.MoveMarker(pitch.Away, "away-cf", 260, 240)
	require.NoError(t, err)
	_, err = b.SetDrawing(drawing.Config{Mode: drawing.ModePencil, Width: 6, Color: "#00ff00"})
	require.NoError(t, err)
	b.Pointer(drawing.PointerEvent{X: 30, Y: 30, Phase: drawing.PhaseDown})
	b.Pointer(drawing.PointerEvent{Phase: drawing.PhaseUp})

	snap, err := b.Snapshot()
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Raster)

	restored, err := Restore(snap)
	require.NoError(t, err)

	want, got := b.State(), restored.State()
	assert.Equal(t, want.Home, got.Home)
	assert.Equal(t, want.Away, got.Away)
	assert.Equal(t, want.Markers, got.Markers)
	assert.Equal(t, want.Drawing, got.Drawing)
	assert.Equal(t, want.FieldSize, got.FieldSize)
	assert.Equal(t, uint8(0xff), restored.DrawingImage().RGBAAt(30, 30).A)
}

func TestRestore_RejectsBrokenSnapshot(t *testing.T) {
	snap, err := newBoard(t).Snapshot()
	require.NoError(t, err)

	bad := snap
	bad.ID = ""
	_, err = Restore(bad)
	assert.Error(t, err)

	bad = snap
	bad.FieldSize = "6"
	_, err = Restore(bad)
	assert.ErrorIs(t, err, formation.ErrUnknownFieldSize)

	bad = snap
	bad.Home = snap.Home.Clone()
	bad.Home.Players[1].SlotKey = "GK"
	_, err = Restore(bad)
	assert.ErrorIs(t, err, roster.ErrSlotTaken)
}
