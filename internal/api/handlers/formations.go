package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tactics/internal/formation"
)

type formationList struct {
	FieldSize  formation.FieldSize `json:"field_size"`
	Formations []string            `json:"formations"`
	Default    string              `json:"default"`
}

func listFor(size formation.FieldSize) formationList {
	return formationList{
		FieldSize:  size,
		Formations: formation.ListFormations(size),
		Default:    formation.DefaultFormation(size),
	}
}

// ListFormations returns the formation names per field size. ?field_size= narrows the
// answer to one size.
func ListFormations(c *gin.Context) {
	if raw := c.Query("field_size"); raw != "" {
		size, err := formation.ParseFieldSize(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, listFor(size))
		return
	}

	sizes := formation.FieldSizes()
	out := make([]formationList, 0, len(sizes))
	for _, size := range sizes {
		out = append(out, listFor(size))
	}
	c.JSON(http.StatusOK, gin.H{"field_sizes": out})
}

// GetFormation returns the slot layout of one formation.
func GetFormation(c *gin.Context) {
	size, err := formation.ParseFieldSize(c.Param("fieldSize"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	def, err := formation.Get(size, c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	slots := def.Slots()
	names := def.DisplayNames()
	type slotView struct {
		formation.Slot
		Category formation.Category `json:"category"`
		Name     string             `json:"name"`
	}
	views := make([]slotView, len(slots))
	for i, s := range slots {
		views[i] = slotView{Slot: s, Category: s.Category(), Name: names[i]}
	}

	c.JSON(http.StatusOK, gin.H{
		"field_size": def.FieldSize,
		"name":       def.Name,
		"lines":      def.Lines(),
		"slots":      views,
	})
}
