package main

import (
	"flag"
	"fmt"
	"log"

	"codeberg.org/pixelmind/server/internal/auth"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// prints a JWT for local testing; JWT_SECRET must match the server's
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	userID := flag.String("user", "", "user id to embed (random uuid when empty)")
	email := flag.String("email", "test@pixelmind.app", "email to embed")
	flag.Parse()

	if *userID == "" {
		*userID = uuid.New().String()
	}

	token, err := auth.GenerateJWT(*userID, *email)
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("Test user ID: %s\n", *userID)
	fmt.Printf("\nTest JWT Token:\n%s\n\n", token)
	fmt.Printf("Export this token for testing:\nexport PIXELMIND_TOKEN=\"%s\"\n", token)
}
