package main

import (
	"Zuno/internal/pkg/database"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err = database.AutoMigrate(db); err != nil {
			return err
		}
		fmt.Println("✓ database migrated")
		return nil
	},
}
