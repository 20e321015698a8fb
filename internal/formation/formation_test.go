package formation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_SlotCountMatchesName(t *testing.T) {
	for _, size := range FieldSizes() {
		for _, name := range ListFormations(size) {
			slots := Slots(size, name)
			assert.Len(t, slots, ExpectedSlots(name), "%s on %s-a-side", name, size)
		}
	}
}

func TestCatalog_SlotCountMatchesFieldSize(t *testing.T) {
	for _, size := range FieldSizes() {
		want := map[FieldSize]int{FiveASide: 5, SevenASide: 7, ElevenASide: 11}[size]
		for _, name := range ListFormations(size) {
			assert.Equal(t, want, ExpectedSlots(name), "%s on %s-a-side", name, size)
		}
	}
}

func TestCatalog_CoordinatesInsidePitch(t *testing.T) {
	for _, size := range FieldSizes() {
		for _, name := range ListFormations(size) {
			for _, s := range Slots(size, name) {
				assert.True(t, s.Coord.X >= 0 && s.Coord.X <= 100, "%s %s x=%.1f", name, s.Key, s.Coord.X)
				assert.True(t, s.Coord.Y >= 0 && s.Coord.Y <= 100, "%s %s y=%.1f", name, s.Key, s.Coord.Y)
			}
		}
	}
}

func TestCatalog_GoalkeeperFirstAndKeysUnique(t *testing.T) {
	for _, size := range FieldSizes() {
		for _, name := range ListFormations(size) {
			slots := Slots(size, name)
			require.NotEmpty(t, slots)
			assert.Equal(t, "GK", slots[0].Key, "%s: goalkeeper must lead", name)

			seen := map[string]bool{}
			for _, s := range slots {
				assert.False(t, seen[s.Key], "%s: duplicate key %s", name, s.Key)
				seen[s.Key] = true
			}
		}
	}
}

func TestCatalog_EveryKeyIsTagged(t *testing.T) {
	for _, size := range FieldSizes() {
		for _, name := range ListFormations(size) {
			for _, s := range Slots(size, name) {
				_, ok := CategoryOf(s.Key)
				assert.True(t, ok, "%s: slot %s has no category", name, s.Key)
			}
		}
	}
}

func TestSlots_UnsupportedPairIsNil(t *testing.T) {
	assert.Nil(t, Slots(FiveASide, "4-4-2"))
	assert.Nil(t, Slots(ElevenASide, "3-1"))

	_, err := Get(SevenASide, "4-4-2")
	assert.ErrorIs(t, err, ErrUnknownFormation)
}

func TestListFormations_PerFieldSize(t *testing.T) {
	assert.Equal(t, []string{"3-1", "2-2", "1-2-1"}, ListFormations(FiveASide))
	assert.Equal(t, []string{"3-3", "2-3-1", "3-2-1"}, ListFormations(SevenASide))
	assert.Equal(t, []string{"4-4-2", "4-3-3", "3-5-2", "5-3-2", "4-2-3-1", "3-4-3"}, ListFormations(ElevenASide))
	assert.Empty(t, ListFormations(FieldSize("9")))
}

func TestDefaultFormation_IsSupported(t *testing.T) {
	for _, size := range FieldSizes() {
		assert.True(t, Supported(size, DefaultFormation(size)), "default for %s", size)
	}
}

func TestCategoryOf_PrefixRoles(t *testing.T) {
	cases := map[string]Category{
		"GK": GK, "CB1": CB, "LB": LB, "LWB": LB, "RB": RB, "RWB": RB,
		"DMF2": DMF, "CMF1": CMF, "CM2": CMF, "AMF": CMF,
		"LM": LWF, "LWF": LWF, "RM": RWF, "RWF": RWF, "CF": CF, "ST2": CF,
	}
	for key, want := range cases {
		got, ok := CategoryOf(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestDisplayNames_SuffixSharedRoles(t *testing.T) {
	d, err := Get(ElevenASide, "4-4-2")
	require.NoError(t, err)

	names := d.DisplayNames()
	assert.Equal(t, "Thủ môn", names[0])
	assert.Equal(t, "Hậu vệ trái", names[1])
	assert.Equal(t, "Trung vệ 1", names[2])
	assert.Equal(t, "Trung vệ 2", names[3])
	assert.Equal(t, "Tiền đạo 1", names[9])
	assert.Equal(t, "Tiền đạo 2", names[10])
}

func TestDisplayNames_SingleRoleHasNoSuffix(t *testing.T) {
	d, err := Get(ElevenASide, "4-3-3")
	require.NoError(t, err)

	names := d.DisplayNames()
	assert.Equal(t, "Tiền vệ phòng ngự", names[5])
	assert.Equal(t, "Tiền vệ trung tâm 1", names[6])
	assert.Equal(t, "Tiền đạo cắm", names[9])
}

func TestParseLines(t *testing.T) {
	assert.Equal(t, []int{4, 2, 3, 1}, ParseLines("4-2-3-1"))
	assert.Equal(t, []int{3, 1}, ParseLines("3-1"))
	assert.Equal(t, 5, ExpectedSlots("3-1"))
	assert.Equal(t, 11, ExpectedSlots("4-4-2"))
}

func TestParseFieldSize(t *testing.T) {
	size, err := ParseFieldSize(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, SevenASide, size)

	_, err = ParseFieldSize("9")
	assert.ErrorIs(t, err, ErrUnknownFieldSize)
}

func TestDefinition_SlotsReturnsCopy(t *testing.T) {
	d, err := Get(FiveASide, "3-1")
	require.NoError(t, err)

	slots := d.Slots()
	slots[0].Coord.X = 99

	again, _ := d.Lookup("GK")
	assert.Equal(t, 10.0, again.X)
}
