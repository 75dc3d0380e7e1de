package main

import (
	"flag"
	"log"

	"tajer-be/internal/config"
	"tajer-be/internal/db"
	"tajer-be/internal/migrate"
)

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	flag.Parse()

	cfg := config.LoadConfig()
	database := db.InitDB(cfg)
	defer database.Close()

	switch *mode {
	case "up":
		if err := migrate.Up(database); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		log.Println("migrations applied")
	case "down":
		if err := migrate.Down(database); err != nil {
			log.Fatalf("roll back migration: %v", err)
		}
		log.Println("rollback successful")
	default:
		log.Fatalf("unknown mode: %s (use 'up' or 'down')", *mode)
	}
}
