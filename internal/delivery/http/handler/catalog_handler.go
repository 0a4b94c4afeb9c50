package handler

import (
	"net/http"
	"sort"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// RegionResponse is one catalog region with its cities
type RegionResponse struct {
	Name   string   `json:"name"`
	Cities []string `json:"cities"`
}

// CatalogResponse lists the values the client offers in its pickers
type CatalogResponse struct {
	Regions   []RegionResponse `json:"regions"`
	Durations []string         `json:"durations"`
	Budgets   []string         `json:"budgets"`
	Vibes     []domain.Vibe    `json:"vibes"`
}

// Regions handles GET /catalog/regions
// @Summary Catalog
// @Description Regions, cities and listing option labels
// @Tags catalog
// @Produce json
// @Success 200 {object} CatalogResponse
// @Router /catalog/regions [get]
func Regions(c *gin.Context) {
	names := make([]string, 0, len(domain.RegionCities))
	for name := range domain.RegionCities {
		names = append(names, name)
	}
	sort.Strings(names)

	regions := make([]RegionResponse, 0, len(names))
	for _, name := range names {
		regions = append(regions, RegionResponse{Name: name, Cities: domain.RegionCities[name]})
	}

	c.JSON(http.StatusOK, CatalogResponse{
		Regions:   regions,
		Durations: []string{domain.DurationOneMonth, domain.DurationOneTwoMonths, domain.DurationThreeToSixMos},
		Budgets:   []string{domain.Budget300to500, domain.Budget500to700, domain.Budget700to900, domain.Budget900Plus},
		Vibes:     []domain.Vibe{domain.VibeCalm, domain.VibePractical, domain.VibeCollaborative},
	})
}
