package main

import (
	"os"

	"github.com/brewstack/coffeecli/internal/cli"
	"github.com/brewstack/coffeecli/internal/config"
	"github.com/brewstack/coffeecli/internal/database"
	"github.com/brewstack/coffeecli/internal/documents"
	"github.com/brewstack/coffeecli/internal/migrations"
	"github.com/brewstack/coffeecli/internal/services"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	docs          *documents.Store
	configuration *config.Config
)

func main() {
	// Load environment variables
	loadDotenvFile()

	// Load configuration
	configuration = loadConfig()

	// Initialize logger
	setUpLogger()

	// Initialize database connection and document store
	setupStores(configuration)

	// Bring the schema (and documents) to the newest revision
	runMigrations()

	// Wire services and start the interactive loop
	users := services.NewUserService(db)
	ingredients := services.NewIngredientService(db)
	reviews := services.NewReviewService(db)
	recipes := services.NewRecipeService(db, docs, ingredients, reviews)

	app := cli.New(os.Stdin, os.Stdout, users, recipes, reviews, ingredients)
	app.Run()
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	return cfg
}

func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	level, err := log.ParseLevel(configuration.LogLevel)
	if err != nil {
		log.WithField("log_level", configuration.LogLevel).Warn("Unknown log level, defaulting to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func setupStores(cfg *config.Config) {
	var err error
	db, err = database.InitDatabase(database.FromAppConfig(cfg))
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	docs, err = documents.NewStore(cfg.RecipesDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize document store")
	}
}

func runMigrations() {
	if err := migrations.EnsureBaseSchema(db); err != nil {
		log.WithError(err).Fatal("Failed to create base schema")
	}

	engine, err := migrations.NewEngine(db, docs)
	if err != nil {
		log.WithError(err).Fatal("Invalid migration chain")
	}
	if err := engine.UpgradeTo(engine.Head()); err != nil {
		log.WithError(err).Fatal("Migration failed")
	}
}
