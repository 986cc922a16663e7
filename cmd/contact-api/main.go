package main

import (
	"log"

	"portal-client/internal/notion"
	"portal-client/internal/shared/config"
	"portal-client/internal/shim"
)

func main() {
	cfg := config.Load()

	var pages shim.PageCreator
	if cfg.NotionAPIKey != "" && cfg.NotionDatabaseID != "" {
		client, err := notion.NewClient(cfg.NotionAPIKey, cfg.NotionDatabaseID)
		if err != nil {
			log.Fatalf("notion client: %v", err)
		}
		pages = client
	} else {
		log.Printf("NOTION_API_KEY or NOTION_DATABASE_ID not set, contact submissions will fail")
	}

	r := shim.NewRouter(cfg, pages)

	addr := shim.Addr(cfg.Port)
	log.Printf("Starting contact API server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
