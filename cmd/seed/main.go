package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Apply the database schema and seed demo data",
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Apply the database schema",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "schema-file",
						Usage:   "Path to the schema DDL file",
						Value:   "./migrations/schema.sql",
						EnvVars: []string{"SCHEMA_FILE"},
					},
				},
				Action: runSchema,
			},
			{
				Name:  "demo",
				Usage: "Seed an org with demo restaurant data (ingredients, dishes, batches, 30 days of consumption)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.Int64Flag{
						Name:  "org-id",
						Usage: "Organization ID to populate (created if missing)",
						Value: 1,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "PRNG seed for reproducible demo data",
						Value: 42,
					},
				},
				Action: runDemo,
			},
			{
				Name:  "all",
				Usage: "Apply the schema, then seed demo data",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "schema-file",
						Usage:   "Path to the schema DDL file",
						Value:   "./migrations/schema.sql",
						EnvVars: []string{"SCHEMA_FILE"},
					},
					&cli.Int64Flag{
						Name:  "org-id",
						Usage: "Organization ID to populate (created if missing)",
						Value: 1,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "PRNG seed for reproducible demo data",
						Value: 42,
					},
				},
				Action: func(c *cli.Context) error {
					if err := runSchema(c); err != nil {
						return fmt.Errorf("error applying schema: %w", err)
					}
					if err := runDemo(c); err != nil {
						return fmt.Errorf("error seeding demo data: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runSchema(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ddl, err := os.ReadFile(c.String("schema-file"))
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	log.Printf("Applying schema from %s", c.String("schema-file"))
	if _, err := db.ExecContext(context.Background(), string(ddl)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Println("Schema applied successfully!")
	return nil
}

func runDemo(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	log.Println("Starting demo data seeding...")

	if err := seedDemoData(ctx, tx, c.Int64("org-id"), c.Int64("seed")); err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Demo data seeding completed successfully!")
	return nil
}
