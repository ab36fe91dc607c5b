package db

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mist/models"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=mist dbname=mist password=mist_password sslmode=disable"
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to the database:", err)
	}

	if err := Use(conn); err != nil {
		log.Fatal("failed to migrate:", err)
	}

	log.Println("Database connected and migrated")
}

// Use installs the given connection as the active handle and runs migrations.
// Tests call it with an in-memory database.
func Use(conn *gorm.DB) error {
	DB = conn
	if err := DB.AutoMigrate(&models.User{}, &models.Game{}, &models.Purchase{}); err != nil {
		return err
	}
	// One purchase per (user, game), enforced only for entries tied to a
	// catalog game. Manual and imported entries have NULL game_id and are
	// exempt, so a plain composite unique index would not do. The index also
	// closes the check-then-create race on concurrent buys.
	return DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_purchases_user_game
		 ON purchases (user_id, game_id) WHERE game_id IS NOT NULL`,
	).Error
}
