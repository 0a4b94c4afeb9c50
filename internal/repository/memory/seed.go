package memory

import (
	"github.com/gdugdh24/transitia-backend/internal/domain"
)

// DemoOwnerID owns the listings created by SeedDemo.
const DemoOwnerID = "00000000-0000-0000-0000-00000000demo"

// SeedDemo fills an empty store with the showcase listings used for local
// runs. It is a no-op when the store already holds listings.
func SeedDemo(s *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.listings) > 0 {
		return
	}

	if _, ok := s.users[DemoOwnerID]; !ok {
		s.users[DemoOwnerID] = &domain.User{ID: DemoOwnerID, Email: "demo@transitia.local", CreatedAt: s.now()}
	}

	budget := func(b string) *string { return &b }
	demo := []domain.Listing{
		{
			Role: domain.RoleHost, Region: "Lombardia", City: "Milano",
			Duration: domain.DurationOneMonth, Budget: budget(domain.Budget500to700),
			HasChildren: domain.ChildrenYes, Vibe: domain.VibeCollaborative,
			Title:       "Posso ospitare per 1 mese (spese chiare)",
			Description: "Casa già avviata. Preferisco accordi semplici, rispetto e comunicazione tranquilla. Ideale come soluzione ponte.",
		},
		{
			Role: domain.RoleHost, Region: "Lazio", City: "Roma",
			Duration: domain.DurationOneTwoMonths, Budget: budget(domain.Budget700to900),
			HasChildren: domain.ChildrenNo, Vibe: domain.VibeCalm,
			Title:       "Condivisione temporanea, ambiente tranquillo",
			Description: "Ritmi regolari, regole chiare e divisione spese trasparente. Mi interessa una convivenza ordinata e rispettosa.",
		},
		{
			Role: domain.RoleSeeker, Region: "Campania", City: "Napoli",
			Duration: domain.DurationOneMonth, Budget: budget(domain.Budget300to500),
			HasChildren: domain.ChildrenYes, Vibe: domain.VibePractical,
			Title:       "Cerco soluzione per 1 mese vicino ai miei",
			Description: "Transizione familiare, bisogno di stabilità temporanea. Priorità: costi sostenibili, rispetto dei ritmi e comunicazione chiara.",
		},
		{
			Role: domain.RoleSeeker, Region: "Lombardia", City: "Milano",
			Duration: domain.DurationOneTwoMonths, Budget: budget(domain.Budget500to700),
			HasChildren: domain.ChildrenNo, Vibe: domain.VibeCollaborative,
			Title:       "Cerco condivisione spese per 1-2 mesi",
			Description: "Compatibilità pratica: regole chiare, divisione spese, clima sereno. Soluzione temporanea, non per sempre.",
		},
	}

	for i := range demo {
		l := demo[i]
		s.nextListingID++
		l.ID = s.nextListingID
		l.OwnerID = DemoOwnerID
		l.CreatedAt = s.now()
		s.listings = append(s.listings, &l)
	}
}
