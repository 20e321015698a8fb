package formation

import "fmt"

// Category is the coarse position group shown on player cards.
type Category string

const (
	GK  Category = "GK"
	CB  Category = "CB"
	LB  Category = "LB"
	RB  Category = "RB"
	DMF Category = "DMF"
	CMF Category = "CMF"
	LWF Category = "LWF"
	RWF Category = "RWF"
	CF  Category = "CF"
)

// Categories lists every category in pitch order.
func Categories() []Category {
	return []Category{GK, CB, LB, RB, DMF, CMF, LWF, RWF, CF}
}

// ParseCategory validates a category string.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type role struct {
	category Category
	name     string // base Vietnamese role name, suffixed when shared within a formation
}

// roles tags every slot key used by the catalog with its category and role name.
var roles = map[string]role{
	"GK": {GK, "Thủ môn"},

	"CB":  {CB, "Trung vệ"},
	"CB1": {CB, "Trung vệ"},
	"CB2": {CB, "Trung vệ"},
	"CB3": {CB, "Trung vệ"},
	"LB":  {LB, "Hậu vệ trái"},
	"LWB": {LB, "Hậu vệ cánh trái"},
	"RB":  {RB, "Hậu vệ phải"},
	"RWB": {RB, "Hậu vệ cánh phải"},

	"DMF":  {DMF, "Tiền vệ phòng ngự"},
	"DMF1": {DMF, "Tiền vệ phòng ngự"},
	"DMF2": {DMF, "Tiền vệ phòng ngự"},
	"CM":   {CMF, "Tiền vệ trung tâm"},
	"CM1":  {CMF, "Tiền vệ trung tâm"},
	"CM2":  {CMF, "Tiền vệ trung tâm"},
	"CMF1": {CMF, "Tiền vệ trung tâm"},
	"CMF2": {CMF, "Tiền vệ trung tâm"},
	"AMF":  {CMF, "Tiền vệ tấn công"},
	"LM":   {LWF, "Tiền vệ cánh trái"},
	"RM":   {RWF, "Tiền vệ cánh phải"},

	"LWF": {LWF, "Tiền đạo cánh trái"},
	"RWF": {RWF, "Tiền đạo cánh phải"},
	"CF":  {CF, "Tiền đạo cắm"},
	"ST1": {CF, "Tiền đạo"},
	"ST2": {CF, "Tiền đạo"},
}

// roleOf treats keys outside the table as central midfielders named after the key.
func roleOf(key string) role {
	if r, ok := roles[key]; ok {
		return r
	}
	return role{category: CMF, name: key}
}

// CategoryOf returns the category tagged on a slot key.
func CategoryOf(key string) (Category, bool) {
	r, ok := roles[key]
	return r.category, ok
}

// DisplayNames returns the human readable name of every slot of the definition, in
// slot order. Slots sharing a base role get a 1-based index suffix.
func (d Definition) DisplayNames() []string {
	counts := make(map[string]int, len(d.slots))
	for _, s := range d.slots {
		counts[roleOf(s.Key).name]++
	}

	seen := make(map[string]int, len(d.slots))
	names := make([]string, len(d.slots))
	for i, s := range d.slots {
		base := roleOf(s.Key).name
		if counts[base] == 1 {
			names[i] = base
			continue
		}
		seen[base]++
		names[i] = fmt.Sprintf("%s %d", base, seen[base])
	}
	return names
}
