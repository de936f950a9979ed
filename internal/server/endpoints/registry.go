package endpoints

import (
	"github.com/jackzampolin/booksmith/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Book CRUD endpoints
		&CreateBookEndpoint{},
		&ListBooksEndpoint{},
		&GetBookEndpoint{},
		&DeleteBookEndpoint{},

		// Generation endpoints
		SummaryEndpoint(),
		TitleEndpoint(),
		CharactersEndpoint(),
		ChapterPlanEndpoint(),
		&WriteChapterEndpoint{},
		&RegenerateChapterEndpoint{},
		&GenerateBookEndpoint{},

		// Export endpoints
		&ExportEndpoint{},
	}
}
