package formation

// slot is shorthand for catalog authoring.
func slot(key string, x, y float64) Slot {
	return Slot{Key: key, Coord: Coord{X: x, Y: y}}
}

// catalog holds every supported layout, authored for the home side (own goal on the left).
// Within a field size, formations are listed in the order the picker shows them.
var catalog = map[FieldSize][]Definition{
	FiveASide: {
		{FieldSize: FiveASide, Name: "3-1", slots: []Slot{
			slot("GK", 10, 50),
			slot("CB1", 28, 25), slot("CB2", 24, 50), slot("CB3", 28, 75),
			slot("CF", 65, 50),
		}},
		{FieldSize: FiveASide, Name: "2-2", slots: []Slot{
			slot("GK", 10, 50),
			slot("CB1", 25, 35), slot("CB2", 25, 65),
			slot("ST1", 60, 35), slot("ST2", 60, 65),
		}},
		{FieldSize: FiveASide, Name: "1-2-1", slots: []Slot{
			slot("GK", 10, 50),
			slot("CB", 22, 50),
			slot("LM", 42, 25), slot("RM", 42, 75),
			slot("CF", 65, 50),
		}},
	},
	SevenASide: {
		{FieldSize: SevenASide, Name: "3-3", slots: []Slot{
			slot("GK", 10, 50),
			slot("CB1", 25, 25), slot("CB2", 22, 50), slot("CB3", 25, 75),
			slot("LWF", 60, 20), slot("CF", 65, 50), slot("RWF", 60, 80),
		}},
		{FieldSize: SevenASide, Name: "2-3-1", slots: []Slot{
			slot("GK", 10, 50),
			slot("CB1", 25, 35), slot("CB2", 25, 65),
			slot("LM", 45, 20), slot("CM", 42, 50), slot("RM", 45, 80),
			slot("CF", 70, 50),
		}},
		{FieldSize: SevenASide, Name: "3-2-1", slots: []Slot{
			slot("GK", 10, 50),
			slot("CB1", 25, 25), slot("CB2", 22, 50), slot("CB3", 25, 75),
			slot("CM1", 45, 35), slot("CM2", 45, 65),
			slot("CF", 70, 50),
		}},
	},
	ElevenASide: {
		{FieldSize: ElevenASide, Name: "4-4-2", slots: []Slot{
			slot("GK", 10, 50),
			slot("LB", 20, 20), slot("CB1", 20, 40), slot("CB2", 20, 60), slot("RB", 20, 80),
			slot("LM", 40, 20), slot("CM1", 40, 40), slot("CM2", 40, 60), slot("RM", 40, 80),
			slot("ST1", 70, 40), slot("ST2", 70, 60),
		}},
		{FieldSize: ElevenASide, Name: "4-3-3", slots: []Slot{
			slot("GK", 10, 50),
			slot("LB", 20, 20), slot("CB1", 20, 40), slot("CB2", 20, 60), slot("RB", 20, 80),
			slot("DMF", 40, 30), slot("CMF1", 40, 50), slot("CMF2", 40, 70),
			slot("LWF", 70, 20), slot("CF", 70, 50), slot("RWF", 70, 80),
		}},
		{FieldSize: ElevenASide, Name: "3-5-2", slots: []Slot{
			slot("GK", 10, 50),
			slot("CB1", 20, 30), slot("CB2", 20, 50), slot("CB3", 20, 70),
			slot("LWB", 35, 15), slot("CMF1", 50, 30), slot("DMF", 40, 50), slot("CMF2", 50, 70), slot("RWB", 35, 85),
			slot("ST1", 70, 40), slot("ST2", 70, 60),
		}},
		{FieldSize: ElevenASide, Name: "5-3-2", slots: []Slot{
			slot("GK", 10, 50),
			slot("LWB", 20, 10), slot("CB1", 20, 30), slot("CB2", 20, 50), slot("CB3", 20, 70), slot("RWB", 20, 90),
			slot("CMF1", 45, 30), slot("DMF", 45, 50), slot("CMF2", 45, 70),
			slot("ST1", 70, 40), slot("ST2", 70, 60),
		}},
		{FieldSize: ElevenASide, Name: "4-2-3-1", slots: []Slot{
			slot("GK", 10, 50),
			slot("LB", 20, 20), slot("CB1", 20, 40), slot("CB2", 20, 60), slot("RB", 20, 80),
			slot("DMF1", 35, 40), slot("DMF2", 35, 60),
			slot("LWF", 55, 20), slot("AMF", 55, 50), slot("RWF", 55, 80),
			slot("CF", 75, 50),
		}},
		{FieldSize: ElevenASide, Name: "3-4-3", slots: []Slot{
			slot("GK", 10, 50),
			slot("CB1", 20, 30), slot("CB2", 20, 50), slot("CB3", 20, 70),
			slot("LM", 40, 20), slot("CM1", 40, 40), slot("CM2", 40, 60), slot("RM", 40, 80),
			slot("LWF", 70, 20), slot("CF", 70, 50), slot("RWF", 70, 80),
		}},
	},
}
