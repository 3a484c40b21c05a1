package main

import (
	"errors"
	"net/http"
	"os"
	"path"

	"drugweb/controllers"
	"drugweb/middleware"
	"drugweb/token"
	"drugweb/utils"

	"github.com/go-michi/michi"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/handlers"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg(".env file not found, using process environment")
	}

	connStr := os.Getenv("DATABASE_CONNECTION_STR")
	if connStr == "" {
		logger.Fatal().Msg("DATABASE_CONNECTION_STR not set")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal().Msg("JWT_SECRET not set")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	// Connect to the database
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		logger.Fatal().Err(utils.ErrorWithTrace(err, err.Error())).Send()
	}
	defer db.Close()

	controllers.SetDB(db)
	controllers.SetJWTSecret([]byte(jwtSecret))

	// Run versioned migrations once at startup
	mig, err := migrate.New(
		"file://"+getRootPath("database/migrations"),
		connStr,
	)
	if err != nil {
		logger.Fatal().Err(utils.ErrorWithTrace(err, err.Error())).Send()
	}
	if err := mig.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal().Err(utils.ErrorWithTrace(err, err.Error())).Send()
		}
		logger.Info().Msgf("migrations: %s", err.Error())
	}

	// Bootstrap the first admin account on an empty deployment
	if err := controllers.EnsureAdmin(os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		logger.Fatal().Err(utils.ErrorWithTrace(err, err.Error())).Send()
	}

	secret := []byte(jwtSecret)
	customerOnly := middleware.RequireRole(secret, token.RoleCustomer)
	adminOnly := middleware.RequireRole(secret, token.RoleAdmin)
	deliveryManOnly := middleware.RequireRole(secret, token.RoleDeliveryMan)

	// Initialize the router and define routes
	r := michi.NewRouter()

	r.Route("/auth", func(sub *michi.Router) {
		sub.HandleFunc("POST signup", controllers.Signup)
		sub.HandleFunc("POST login", controllers.Login)
	})

	r.Route("/customer", func(sub *michi.Router) {
		sub.Handle("GET medicines", customerOnly(http.HandlerFunc(controllers.BrowseMedicines)))
		sub.Handle("GET medicines/{code}", customerOnly(http.HandlerFunc(controllers.GetMedicine)))
		sub.Handle("GET cart", customerOnly(http.HandlerFunc(controllers.ViewCart)))
		sub.Handle("POST cart", customerOnly(http.HandlerFunc(controllers.AddToCart)))
		sub.Handle("PUT cart/{id}", customerOnly(http.HandlerFunc(controllers.UpdateCartLine)))
		sub.Handle("DELETE cart/{id}", customerOnly(http.HandlerFunc(controllers.RemoveCartLine)))
		sub.Handle("POST checkout", customerOnly(http.HandlerFunc(controllers.ProcessPayment)))
		sub.Handle("GET orders", customerOnly(http.HandlerFunc(controllers.CustomerOrders)))
		sub.Handle("POST requests", customerOnly(http.HandlerFunc(controllers.CreateRequest)))
		sub.Handle("GET requests", customerOnly(http.HandlerFunc(controllers.MyRequests)))
		sub.Handle("GET notifications", customerOnly(http.HandlerFunc(controllers.MyNotifications)))
		sub.Handle("PUT notifications/{id}/read", customerOnly(http.HandlerFunc(controllers.MarkNotificationRead)))
		sub.Handle("GET points", customerOnly(http.HandlerFunc(controllers.MyPoints)))
		sub.Handle("POST reviews", customerOnly(http.HandlerFunc(controllers.CreateReview)))
		sub.Handle("GET reviews", customerOnly(http.HandlerFunc(controllers.ListReviews)))
	})

	r.Route("/admin", func(sub *michi.Router) {
		sub.Handle("GET medicines", adminOnly(http.HandlerFunc(controllers.BrowseMedicines)))
		sub.Handle("POST medicines", adminOnly(http.HandlerFunc(controllers.AddMedicine)))
		sub.Handle("PUT medicines/{code}", adminOnly(http.HandlerFunc(controllers.UpdateMedicine)))
		sub.Handle("DELETE medicines/{code}", adminOnly(http.HandlerFunc(controllers.DeleteMedicine)))
		sub.Handle("GET requests", adminOnly(http.HandlerFunc(controllers.ListRequests)))
		sub.Handle("PUT requests/{id}", adminOnly(http.HandlerFunc(controllers.HandleRequestAction)))
		sub.Handle("GET orders", adminOnly(http.HandlerFunc(controllers.AdminOrders)))
		sub.Handle("PUT orders/{id}/assign", adminOnly(http.HandlerFunc(controllers.AssignDeliveryMan)))
		sub.Handle("GET deliverymen", adminOnly(http.HandlerFunc(controllers.ListDeliveryMen)))
		sub.Handle("POST deliverymen", adminOnly(http.HandlerFunc(controllers.AddDeliveryMan)))
		sub.Handle("GET customers", adminOnly(http.HandlerFunc(controllers.ListCustomers)))
	})

	r.Route("/deliveryman", func(sub *michi.Router) {
		sub.Handle("GET orders", deliveryManOnly(http.HandlerFunc(controllers.DeliveryManOrders)))
		sub.Handle("PUT orders/{id}/accept", deliveryManOnly(http.HandlerFunc(controllers.AcceptDelivery)))
		sub.Handle("PUT orders/{id}/decline", deliveryManOnly(http.HandlerFunc(controllers.DeclineDelivery)))
	})

	// Enable CORS
	corsOptions := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	logger.Info().Msgf("Server running on port %s", port)
	if err := http.ListenAndServe(":"+port, corsOptions(r)); err != nil {
		logger.Fatal().Err(utils.ErrorWithTrace(err, err.Error())).Send()
	}
}

func getRootPath(dir string) string {
	ex, err := os.Executable()
	if err != nil {
		logger.Fatal().Err(utils.ErrorWithTrace(err, err.Error())).Send()
	}
	return path.Join(path.Dir(ex), dir)
}
