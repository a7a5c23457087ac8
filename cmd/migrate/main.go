package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"pdf-rag-be/internal/model"
	"pdf-rag-be/internal/repository/implementation"
	"pdf-rag-be/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Extensions first; AutoMigrate cannot create them
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Document{},
		&model.DocumentChunk{},
		&model.DocumentImage{},
		&model.ChatExchange{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	// 5. Similarity index (idempotent; concurrent creation counts as done)
	log.Println("Step 3: Ensuring vector index...")

	chunkRepo := implementation.NewDocumentChunkRepository(db)
	if err := chunkRepo.EnsureVectorIndex(context.Background()); err != nil {
		log.Fatal("Error: Failed to ensure vector index:", err)
	}

	log.Println("✅ Migration complete")
}
