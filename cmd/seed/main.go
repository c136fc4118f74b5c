package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	loremgen "github.com/bozaro/golorem"
	"github.com/joho/godotenv"

	"filedrop/internal/config"
	"filedrop/internal/domain/models"
	"filedrop/internal/domain/services"
	"filedrop/internal/repository/postgres"
	"filedrop/internal/service"
	"filedrop/internal/store"
	"filedrop/internal/upload"
)

// demo MIME types, all allowed by the default policy
var seedTypes = []struct {
	ext      string
	mimeType string
}{
	{"jpg", "image/jpeg"},
	{"png", "image/png"},
	{"pdf", "application/pdf"},
	{"txt", "text/plain"},
	{"mp4", "video/mp4"},
}

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed folders or items")
	rootCount := flag.Int("roots", 3, "Number of top-level demo folders")
	itemsPerFolder := flag.Int("items", 4, "Number of demo items uploaded into each leaf folder")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	logger := config.NewLogger(cfg.Environment, os.Stdout)

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropAll(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	txManager := postgres.NewTransactionManager(pool, logger)

	opts := store.Options{Logger: logger}
	folders := store.NewFolderStore(postgres.NewFolderBackend(repoConfig, txManager), opts)
	items := store.NewItemStore(postgres.NewItemBackend(repoConfig), opts)
	sessions := store.NewSessionStore(postgres.NewSessionBackend(repoConfig), opts)

	if err := folders.Open(ctx); err != nil {
		log.Fatalf("Failed to load folders: %v", err)
	}
	if err := items.Open(ctx); err != nil {
		log.Fatalf("Failed to load items: %v", err)
	}
	if err := sessions.Open(ctx); err != nil {
		log.Fatalf("Failed to load sessions: %v", err)
	}

	if folders.Len() > 0 {
		log.Printf("Database already holds %d folders, skipping seed (use --drop-tables for a fresh start)", folders.Len())
		return
	}

	// No delay: seeding should not wait on simulated progress
	pipeline := upload.NewPipeline(store.NewFiler(folders, items, txManager), upload.Options{
		Transfer: upload.NewSimulatedTransfer(config.DefaultProgressStep, 0),
		Logger:   logger,
	})
	uploads := service.NewUploadService(pipeline, folders, sessions, logger)

	s := &seeder{
		lorem:   loremgen.New(),
		folders: folders,
		uploads: uploads,
		perLeaf: *itemsPerFolder,
	}

	for i := 0; i < *rootCount; i++ {
		if err := s.seedBranch(ctx, nil, 0); err != nil {
			log.Fatalf("Failed to seed folders: %v", err)
		}
	}

	log.Printf("Seeded %d folders, %d items, %d upload sessions", folders.Len(), items.Len(), s.sessions)
}

type seeder struct {
	lorem    *loremgen.Lorem
	folders  *store.FolderStore
	uploads  services.UploadService
	perLeaf  int
	sessions int
}

// seedBranch creates a folder under parentID with two levels of subfolders and
// uploads demo items into each leaf
func (s *seeder) seedBranch(ctx context.Context, parentID *string, depth int) error {
	folder, err := s.folders.Create(ctx, s.folderName(), parentID)
	if err != nil {
		return err
	}

	if depth == 2 {
		return s.seedItems(ctx, folder.ID)
	}
	for i := 0; i < 2; i++ {
		if err := s.seedBranch(ctx, &folder.ID, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedItems(ctx context.Context, folderID string) error {
	raws := make([]models.RawItem, 0, s.perLeaf)
	for i := 0; i < s.perLeaf; i++ {
		t := seedTypes[i%len(seedTypes)]
		name := fmt.Sprintf("%s.%s", strings.ToLower(s.lorem.Word(4, 10)), t.ext)
		raws = append(raws, models.RawItem{
			Name: name,
			Size: int64(1024 * (i + 1) * 37),
			Type: t.mimeType,
			URL:  "https://files.example.com/demo/" + name,
		})
	}

	result, err := s.uploads.UploadBatch(ctx, &folderID, raws)
	if err != nil {
		return err
	}
	s.sessions++
	if len(result.ValidationErrors) > 0 {
		log.Printf("Unexpected validation errors: %v", result.ValidationErrors)
	}
	return nil
}

func (s *seeder) folderName() string {
	word := s.lorem.Word(4, 12)
	return strings.ToUpper(word[:1]) + word[1:]
}
