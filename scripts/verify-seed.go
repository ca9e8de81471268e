package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/phishaware/backend/internal/database"
	"github.com/phishaware/backend/internal/models"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Initialize database connection
	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	fmt.Println("Verifying seed data...")
	fmt.Println()

	var adminCount, employeeCount, campaignCount, enrollmentCount, clickCount, quizCount, scoreCount int64

	database.DB.Model(&models.Admin{}).Count(&adminCount)
	database.DB.Model(&models.Employee{}).Count(&employeeCount)
	database.DB.Model(&models.Campaign{}).Where("deleted_at IS NULL").Count(&campaignCount)
	database.DB.Model(&models.Enrollment{}).Count(&enrollmentCount)
	database.DB.Model(&models.ClickEvent{}).Count(&clickCount)
	database.DB.Model(&models.QuizResult{}).Count(&quizCount)
	database.DB.Model(&models.RiskScore{}).Count(&scoreCount)

	fmt.Println("Record Counts:")
	fmt.Printf("  Admins:       %d\n", adminCount)
	fmt.Printf("  Employees:    %d\n", employeeCount)
	fmt.Printf("  Campaigns:    %d\n", campaignCount)
	fmt.Printf("  Enrollments:  %d\n", enrollmentCount)
	fmt.Printf("  Click events: %d\n", clickCount)
	fmt.Printf("  Quiz results: %d\n", quizCount)
	fmt.Printf("  Risk scores:  %d\n", scoreCount)
	fmt.Println()

	if employeeCount == 0 || campaignCount == 0 || enrollmentCount == 0 {
		fmt.Println("Seed data is missing. Run 'go run cmd/seed/main.go dev' first.")
		os.Exit(1)
	}

	// Sanity check: every click event references an existing enrollment
	var orphanedClicks int64
	database.DB.Model(&models.ClickEvent{}).
		Where("enrollment_id NOT IN (SELECT id FROM enrollments)").
		Count(&orphanedClicks)
	if orphanedClicks > 0 {
		fmt.Printf("WARNING: %d click events without an enrollment\n", orphanedClicks)
		os.Exit(1)
	}

	fmt.Println("Seed data looks good.")
}
