package cmd

import (
	"fmt"
	"log"

	"postline/config"
	"postline/db"
	"postline/model"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long:  `Create the Postline tables if missing and reconcile them with the current models.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("Database: %s@%s:%s/%s\n", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName)

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.DB.Close()

		if err := db.InitDB(); err != nil {
			log.Fatalf("Failed to create schema: %v", err)
		}
		fmt.Println("Base schema created.")

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("Failed to connect GORM: %v", err)
		}
		defer db.CloseGormDB()

		if err := db.AutoMigrateModels(
			&model.User{},
			&model.Post{},
			&model.Comment{},
			&model.Like{},
			&model.Token{},
		); err != nil {
			log.Fatalf("Failed to migrate models: %v", err)
		}
		fmt.Println("Migration complete.")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
