package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"tripweaver/cmd/fx/catalog_fx"
	"tripweaver/cmd/fx/db_fx"
	"tripweaver/cmd/fx/itinerary_fx"
	"tripweaver/cmd/fx/planner_fx"
	"tripweaver/cmd/fx/theming_fx"
	"tripweaver/internal/api/controllers"
	"tripweaver/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		db_fx.Module,
		catalog_fx.Module,
		planner_fx.Module,
		theming_fx.Module,
		itinerary_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	itineraryController *controllers.ItineraryController,
	catalogController *controllers.CatalogController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, itineraryController, catalogController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	itineraryController *controllers.ItineraryController,
	catalogController *controllers.CatalogController) {

	itineraries := r.Group("/itineraries")
	itineraries.POST("/plan", itineraryController.GeneratePlan)
	itineraries.GET("/:id", itineraryController.GetItinerary)

	saved := r.Group("/itineraries", middleware.JWTAuthMiddleware())
	saved.POST("", itineraryController.SaveItinerary)
	saved.GET("", itineraryController.ListItineraries)

	catalog := r.Group("/catalog")
	catalog.GET("/pois", catalogController.ListPOIs)
	catalog.GET("/restaurants", catalogController.ListRestaurants)
	catalog.GET("/hotels", catalogController.ListHotels)
}
