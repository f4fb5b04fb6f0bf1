package routes

import (
	"github.com/goldenaqar/marketplace/backend/auth"
	"github.com/goldenaqar/marketplace/backend/config"
	"github.com/goldenaqar/marketplace/backend/controllers"
	"github.com/goldenaqar/marketplace/backend/middleware"
	"github.com/goldenaqar/marketplace/backend/queue"
	"github.com/goldenaqar/marketplace/backend/utils"
	email "github.com/goldenaqar/marketplace/backend/utils/email"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

func Routes(router *mux.Router, redisClient *redis.Client, cfg *config.Config, q *queue.Queue) {
	userAuth := auth.NewService(auth.NewMongoStore(config.UserCollection), utils.RoleUser)
	adminAuth := auth.NewService(auth.NewMongoStore(config.AdminCollection), utils.RoleAdmin)
	sender := email.NewSender(cfg)

	// Auth routes
	router.HandleFunc("/register", controllers.RegisterUser(userAuth)).Methods("POST")
	router.HandleFunc("/login", controllers.LoginUser(userAuth)).Methods("POST")
	router.HandleFunc("/admin/login", controllers.LoginAdmin(adminAuth)).Methods("POST")

	// Public routes; listings personalize wishlist flags when a token is sent
	public := router.NewRoute().Subrouter()
	public.Use(middleware.OptionalAuth)
	public.HandleFunc("/properties", controllers.GetProperties(redisClient)).Methods("GET")
	public.HandleFunc("/properties/{id}", controllers.GetPropertyByID()).Methods("GET")
	router.HandleFunc("/properties/{id}/visits", controllers.RecordVisit()).Methods("POST")
	router.HandleFunc("/settings", controllers.GetSiteSettings()).Methods("GET")
	router.HandleFunc("/contact", controllers.SubmitContactForm(sender, cfg)).Methods("POST")

	// Routes that require user authentication
	authenticated := router.PathPrefix("/api").Subrouter()
	authenticated.Use(middleware.AuthMiddleware)
	authenticated.HandleFunc("/wishlist", controllers.AddToWishlist()).Methods("POST")
	authenticated.HandleFunc("/wishlist", controllers.GetWishlist()).Methods("GET")
	authenticated.HandleFunc("/wishlist/{propertyID}", controllers.RemoveFromWishlist()).Methods("DELETE")
	authenticated.HandleFunc("/wishlist/{propertyID}", controllers.InWishlist()).Methods("GET")

	// Admin panel routes
	admin := router.PathPrefix("/admin/api").Subrouter()
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/properties", controllers.CreateProperty(redisClient)).Methods("POST")
	admin.HandleFunc("/properties/{id}", controllers.UpdateProperty(redisClient)).Methods("PUT")
	admin.HandleFunc("/properties/{id}", controllers.DeleteProperty(redisClient)).Methods("DELETE")
	admin.HandleFunc("/properties/{id}/templates", controllers.CreateTemplate()).Methods("POST")
	admin.HandleFunc("/properties/{id}/templates", controllers.ListTemplates()).Methods("GET")
	admin.HandleFunc("/properties/{id}/queue", controllers.EnqueuePost(q)).Methods("POST")
	admin.HandleFunc("/queue", controllers.ListQueue(q)).Methods("GET")
	admin.HandleFunc("/queue/claim", controllers.ClaimPost(q)).Methods("POST")
	admin.HandleFunc("/queue/{postID}/complete", controllers.CompletePost(q)).Methods("POST")
	admin.HandleFunc("/queue/{postID}/fail", controllers.FailPost(q)).Methods("POST")
	admin.HandleFunc("/settings/{key}", controllers.UpsertSiteSetting()).Methods("PUT")
	admin.HandleFunc("/visits", controllers.ListVisits()).Methods("GET")
	admin.HandleFunc("/visits/export", controllers.ExportVisitsCSV()).Methods("GET")
	admin.HandleFunc("/messages", controllers.ListContactMessages()).Methods("GET")
	admin.HandleFunc("/users", controllers.ListUsers()).Methods("GET")
}
