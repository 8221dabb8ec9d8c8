package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/locvowork/company_dashboard/internal/config"
	"github.com/locvowork/company_dashboard/internal/database"
	"github.com/locvowork/company_dashboard/internal/logger"
	"github.com/locvowork/company_dashboard/internal/repository"
)

func main() {
	action := flag.String("action", "seed", "Action to perform: seed, clear")
	dialect := flag.String("dialect", "sqlite", "Target database: sqlite, postgres")
	dataDir := flag.String("data-dir", "", "CSV directory to seed from (default DATA_DIR)")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt for clear")
	flag.Parse()

	ctx := context.Background()

	fmt.Println("Company Dashboard Data Seeder")
	fmt.Println(strings.Repeat("=", 50))

	if err := config.LoadEnvConfig(); err != nil {
		log.Fatalf("Failed to load env config: %v", err)
	}
	cfg := config.DefaultEnvConfig
	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)

	d := repository.Dialect(*dialect)
	if d != repository.DialectSQLite && d != repository.DialectPostgres {
		flag.PrintDefaults()
		log.Fatalf("Unknown dialect: %s", *dialect)
	}

	if err := database.RunMigrations(d, database.DSN(cfg, d)); err != nil {
		logger.ErrorLog(ctx, "Migrations failed", err)
		log.Fatal(err)
	}

	db, err := database.Open(ctx, cfg, d)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	seeder := database.NewDataSeeder(db, d)

	switch *action {
	case "seed":
		dir := *dataDir
		if dir == "" {
			dir = cfg.DATA_DIR
		}
		performSeed(ctx, seeder, dir)
	case "clear":
		performClear(ctx, seeder, *yes)
	default:
		fmt.Printf("Unknown action: %s\n", *action)
		flag.PrintDefaults()
		return
	}

	fmt.Println("\nDone!")
}

func performSeed(ctx context.Context, seeder *database.DataSeeder, dir string) {
	fmt.Printf("Seeding from %s\n", dir)
	written, err := seeder.SeedData(ctx, repository.NewCSVLoader(dir))
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	names := make([]string, 0, len(written))
	for name := range written {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-22s %6d rows\n", name, written[name])
	}
}

func performClear(ctx context.Context, seeder *database.DataSeeder, yes bool) {
	if !yes {
		fmt.Println("This will delete all seeded data!")
		fmt.Print("Continue? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		if response != "yes" {
			fmt.Println("Cancelled.")
			return
		}
	}
	if err := seeder.ClearData(ctx); err != nil {
		log.Fatalf("Clear failed: %v", err)
	}
}
