package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/phishaware/backend/internal/database"
	"github.com/phishaware/backend/internal/models"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminUsername == "" || adminEmail == "" || adminPassword == "" {
			return fmt.Errorf("--username, --email, and --password are required")
		}
		if len(adminPassword) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}

		var count int64
		database.DB.Model(&models.Admin{}).
			Where("username = ? OR email = ?", adminUsername, adminEmail).
			Count(&count)
		if count > 0 {
			return fmt.Errorf("an admin with that username or email already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hashStr := string(hash)

		admin := models.Admin{
			Username:     adminUsername,
			Email:        adminEmail,
			PasswordHash: &hashStr,
			IsActive:     true,
		}
		if err := database.DB.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}

		fmt.Printf("Created admin %s (%s)\n", admin.Username, admin.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email address")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
}
