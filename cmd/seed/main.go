package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/rollahub/rolla-admin/internal/database"
	"github.com/rollahub/rolla-admin/internal/store"
)

// Seeds the lookup collections the admin screens expect (governorates,
// property and finishing types, categories) plus one city per governorate.
func main() {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Fatal("MONGODB_URI is required")
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "rolla_admin"
	}

	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, uri, 10*time.Second)
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	st := store.NewMongoStore(client.Database(dbName))

	governorates := []store.Document{
		{"name_en": "Cairo", "name_ar": "القاهرة"},
		{"name_en": "Giza", "name_ar": "الجيزة"},
		{"name_en": "Alexandria", "name_ar": "الإسكندرية"},
	}
	lookups := map[string][]store.Document{
		"property_types": {
			{"name_en": "Residential"},
			{"name_en": "Commercial"},
			{"name_en": "Administrative"},
		},
		"finishing_types": {
			{"name_en": "Full Finishing"},
			{"name_en": "Semi Finishing"},
			{"name_en": "Core & Shell"},
		},
		"categories": {
			{"name_en": "Villa"},
			{"name_en": "Chalet"},
			{"name_en": "Apartment"},
		},
	}

	now := time.Now().UTC()
	for _, g := range governorates {
		g["createdAt"] = now
		g["updatedAt"] = now
		id, err := st.Create(ctx, "governorates", g)
		if err != nil {
			log.Fatalf("seed governorates: %v", err)
		}
		city := store.Document{
			"name_en":   g["name_en"],
			"gover":     st.MakeReference("governorates", id),
			"createdAt": now,
			"updatedAt": now,
		}
		if _, err := st.Create(ctx, "cities", city); err != nil {
			log.Fatalf("seed cities: %v", err)
		}
	}
	for col, docs := range lookups {
		for _, d := range docs {
			d["createdAt"] = now
			d["updatedAt"] = now
			if _, err := st.Create(ctx, col, d); err != nil {
				log.Fatalf("seed %s: %v", col, err)
			}
		}
	}
	log.Println("seed complete")
}
