package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"covidstats/database"
	"covidstats/internal/config"
)

func main() {
	replace := flag.Bool("replace", false, "supprime les tables existantes avant l'import")
	flag.Parse()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("❌ Configuration invalide:", err)
	}

	err = database.Init(cfg.DB.DSN())
	if err != nil {
		log.Fatal("❌ Erreur connexion DB:", err)
	}
	defer database.Close()

	fmt.Println("✅ Connexion PostgreSQL établie")
	fmt.Println("🌱 Import des fichiers CSV...")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	ctx := context.Background()
	imports := []struct {
		table string
		path  string
	}{
		{cfg.DeathsTable, cfg.CasesCSV},
		{cfg.VaccinationsTable, cfg.VaccinationsCSV},
	}
	for _, imp := range imports {
		if err := seedFile(ctx, imp.table, imp.path, *replace); err != nil {
			log.Fatal("❌ Erreur lors de l'import:", err)
		}
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("✅ Import terminé avec succès!")
	fmt.Println()
	fmt.Println("Lancer ensuite le serveur sur PostgreSQL avec:")
	fmt.Println("  DATA_SOURCE=postgres go run main.go")
}

func seedFile(ctx context.Context, table, path string, replace bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	fmt.Printf("   📦 %s <- %s\n", table, path)
	count, err := database.SeedTable(ctx, database.DB, table, f, replace)
	if err != nil {
		return err
	}
	fmt.Printf("   ✅ %d lignes copiées en %v\n", count, time.Since(start))
	return nil
}
