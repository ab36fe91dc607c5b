package db

import (
	"log"
	"time"

	"mist/models"
)

// SeedGames loads the demo catalog when the games table is empty. Records keep
// their insertion order, which catalog listings use as the sort tie-breaker.
func SeedGames() {
	var count int64
	DB.Model(&models.Game{}).Count(&count)
	if count > 0 {
		return
	}

	games := []models.Game{
		{
			ID:           101,
			Title:        "Half-Life 3",
			Price:        59.99,
			Description:  "The anticipated conclusion to the Gordon Freeman saga. Fight through the Combine's stronghold in the Arctic.",
			Image:        "https://cdn.cloudflare.steamstatic.com/steam/apps/220/header.jpg",
			Genre:        []string{"FPS", "Action", "Sci-Fi"},
			Tags:         []string{"Singleplayer", "Story Rich", "Atmospheric"},
			Platform:     []string{"Windows", "Linux"},
			ReleaseDate:  time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
			Rating:       5.0,
			Publisher:    "Valve",
			Developer:    "Valve",
			ReviewsCount: 48210,
		},
		{
			ID:           102,
			Title:        "Cyberpunk 2078",
			Price:        69.99,
			Description:  "Return to Night City a year later. More neon, more chrome, and a new legend to become.",
			Image:        "https://cdn.cloudflare.steamstatic.com/steam/apps/1091500/header.jpg",
			Genre:        []string{"RPG", "Cyberpunk", "Open World"},
			Tags:         []string{"Singleplayer", "Futuristic", "Mature"},
			Platform:     []string{"Windows"},
			ReleaseDate:  time.Date(2077, 12, 10, 0, 0, 0, 0, time.UTC),
			Rating:       4.5,
			Publisher:    "CD Projekt Red",
			Developer:    "CD Projekt Red",
			ReviewsCount: 31077,
		},
		{
			ID:           103,
			Title:        "Minecraft 2",
			Price:        32.99,
			Description:  "The ultimate block-building adventure returns with realistic physics and round objects.",
			Image:        "https://cdn.cloudflare.steamstatic.com/steam/apps/1928870/header.jpg",
			Genre:        []string{"Sandbox", "Survival", "Adventure"},
			Tags:         []string{"Multiplayer", "Co-op", "Building"},
			Platform:     []string{"Windows", "Mac", "Linux"},
			ReleaseDate:  time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
			Rating:       4.8,
			Publisher:    "Mojang Studios",
			Developer:    "Mojang Studios",
			ReviewsCount: 92340,
		},
		{
			ID:           104,
			Title:        "Portal 3",
			Price:        44.99,
			Description:  "Chell returns to Aperture Science for one last series of tests. Now with time-travel portals.",
			Image:        "https://cdn.cloudflare.steamstatic.com/steam/apps/620/header.jpg",
			Genre:        []string{"Puzzle", "Platformer", "Sci-Fi"},
			Tags:         []string{"Singleplayer", "Co-op", "Funny"},
			Platform:     []string{"Windows", "Mac", "Linux", "Steam Deck"},
			ReleaseDate:  time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC),
			Rating:       4.9,
			Publisher:    "Valve",
			Developer:    "Valve",
			ReviewsCount: 55800,
		},
		{
			ID:           105,
			Title:        "GTA VI: Vice City Stories",
			Price:        79.99,
			Description:  "Explore the sun-soaked streets of Vice City in the most immersive open world ever created.",
			Image:        "https://cdn.cloudflare.steamstatic.com/steam/apps/271590/header.jpg",
			Genre:        []string{"Action", "Open World", "Crime"},
			Tags:         []string{"Multiplayer", "Mature", "Driving"},
			Platform:     []string{"Windows"},
			ReleaseDate:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			Rating:       4.7,
			Publisher:    "Rockstar Games",
			Developer:    "Rockstar North",
			ReviewsCount: 143002,
		},
		{
			ID:            106,
			Title:         "The Elder Scrolls VI",
			Price:         74.99,
			Description:   "Venture into Hammerfell. A province of deserts, pirates and ancient Redguard magic.",
			Image:         "https://cdn.cloudflare.steamstatic.com/steam/apps/489830/header.jpg",
			Genre:         []string{"RPG", "Open World", "Fantasy"},
			Tags:          []string{"Singleplayer", "Exploration", "Moddable"},
			Platform:      []string{"Windows"},
			ReleaseDate:   time.Date(2026, 11, 11, 0, 0, 0, 0, time.UTC),
			Rating:        4.6,
			Publisher:     "Bethesda Softworks",
			Developer:     "Bethesda Game Studios",
			ReviewsCount:  27540,
			IsEarlyAccess: true,
		},
		{
			ID:           107,
			Title:        "Hollow Knight: Silksong",
			Price:        29.99,
			Description:  "Ascend to the peak of a haunted kingdom as Hornet, princess-protector of Hallownest.",
			Image:        "https://cdn.cloudflare.steamstatic.com/steam/apps/1030300/header.jpg",
			Genre:        []string{"Metroidvania", "Platformer", "Indie"},
			Tags:         []string{"Singleplayer", "Difficult", "Atmospheric"},
			Platform:     []string{"Windows", "Mac", "Linux", "Steam Deck"},
			ReleaseDate:  time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
			Rating:       4.9,
			Publisher:    "Team Cherry",
			Developer:    "Team Cherry",
			ReviewsCount: 68450,
		},
		{
			ID:           108,
			Title:        "Stardew Valley 2",
			Price:        19.99,
			Description:  "Inherit a new farm in a new valley. Seasons, festivals and friendships await.",
			Image:        "https://cdn.cloudflare.steamstatic.com/steam/apps/413150/header.jpg",
			Genre:        []string{"Simulation", "RPG", "Indie"},
			Tags:         []string{"Multiplayer", "Relaxing", "Pixel Graphics"},
			Platform:     []string{"Windows", "Mac", "Linux", "Steam Deck"},
			ReleaseDate:  time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC),
			Rating:       4.8,
			Publisher:    "ConcernedApe",
			Developer:    "ConcernedApe",
			ReviewsCount: 110320,
		},
	}

	if err := DB.Create(&games).Error; err != nil {
		log.Println("failed to seed catalog:", err)
		return
	}
	log.Printf("Seeded catalog with %d games", len(games))
}
