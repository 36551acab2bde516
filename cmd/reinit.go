/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/consent-draft-be/config"
	"github.com/tieubaoca/consent-draft-be/database"
)

// reinitCmd drops and recreates the chunk class. Destructive; meant
// for development and schema changes.
var reinitCmd = &cobra.Command{
	Use:   "reinit",
	Short: "Drop and recreate the retrieval index schema",
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}
		if err := weaviateDb.ReInit(); err != nil {
			log.Fatalf("Failed to reinitialize index: %v", err)
		}
		log.Println("Retrieval index recreated")
	},
}

func init() {
	rootCmd.AddCommand(reinitCmd)
	reinitCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
