package main

import (
	"log"
	"os"
	"time"

	"golang-physiobackend/catalog"
	controller "golang-physiobackend/controllers"
	"golang-physiobackend/database"
	"golang-physiobackend/export"
	"golang-physiobackend/helpers"
	"golang-physiobackend/middleware"
	"golang-physiobackend/notify"
	"golang-physiobackend/routes"
	"golang-physiobackend/session"
	"golang-physiobackend/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found, relying on the environment")
	}
}

// buildDocument picks the persistence backend. The whole patient collection
// always lives in one document; only where that document sits differs.
func buildDocument() store.Document {
	switch os.Getenv("STORE_BACKEND") {
	case "", "file":
		path := os.Getenv("DATABASE_FILE")
		if path == "" {
			path = "pazienti_database.json"
		}
		return store.NewFileDocument(path)
	case "mongo", "mongo-versioned":
		return store.NewMongoDocument(database.OpenCollection("patient_record"))
	default:
		log.Fatalf("Unknown STORE_BACKEND %q", os.Getenv("STORE_BACKEND"))
		return nil
	}
}

// buildFactory picks between the historical last-writer-wins store and the
// versioned check-and-swap upgrade.
func buildFactory(doc store.Document) store.Factory {
	if os.Getenv("STORE_BACKEND") == "mongo-versioned" {
		return store.VersionedFactory(doc)
	}
	return store.PlainFactory(doc)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	catalogPath := os.Getenv("CATALOG_FILE")
	if catalogPath == "" {
		catalogPath = "esercizi.csv"
	}

	doc := buildDocument()
	factory := buildFactory(doc)
	cache := store.NewCache(factory, store.DefaultCacheTTL)
	physio := session.New(factory, cache, helpers.NewSpacesStore(), notify.LogNotifier{})

	controller.Init(physio, catalog.NewLoader(catalogPath), export.Unconfigured{})

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "token"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	// Public routes: therapist sign-in plus everything reachable with an
	// access code.
	publicRoutes := router.Group("/")
	{
		publicRoutes.POST("/signup", controller.SignUp())
		publicRoutes.POST("/login", controller.Login())
		publicRoutes.POST("/refresh", controller.RefreshToken())
		routes.ProgramRoutes(publicRoutes)
	}

	// Private routes: the therapist area.
	privateRoutes := router.Group("/")
	privateRoutes.Use(middleware.Authentication())
	{
		routes.CatalogRoutes(privateRoutes)
		routes.PatientRoutes(privateRoutes)
	}

	router.Run(":" + port)
}
