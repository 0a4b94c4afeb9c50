package domain

// RegionCities lists the supported regions and their cities. The first city
// of each region is the default selection for that region.
var RegionCities = map[string][]string{
	"Lombardia":      {"Milano", "Bergamo", "Brescia", "Monza", "Como", "Varese"},
	"Lazio":          {"Roma", "Latina", "Viterbo", "Frosinone"},
	"Campania":       {"Napoli", "Salerno", "Caserta", "Avellino", "Benevento"},
	"Piemonte":       {"Torino", "Novara", "Alessandria"},
	"Emilia-Romagna": {"Bologna", "Modena", "Parma", "Reggio Emilia", "Rimini"},
	"Toscana":        {"Firenze", "Pisa", "Prato", "Livorno"},
	"Puglia":         {"Bari", "Lecce", "Taranto", "Foggia"},
	"Sicilia":        {"Palermo", "Catania", "Messina"},
	"Liguria":        {"Genova", "La Spezia", "Savona"},
	"Veneto":         {"Venezia", "Verona", "Padova", "Treviso"},
}

// KnownCity reports whether city belongs to region in the catalog.
func KnownCity(region, city string) bool {
	for _, c := range RegionCities[region] {
		if c == city {
			return true
		}
	}
	return false
}

// DefaultCity returns the first city of region, or "" for unknown regions.
func DefaultCity(region string) string {
	cities := RegionCities[region]
	if len(cities) == 0 {
		return ""
	}
	return cities[0]
}
