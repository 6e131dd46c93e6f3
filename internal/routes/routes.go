package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/controllers"
	"github.com/iamavinashmourya/FarmCare/internal/middleware"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// Route names. Login and registration are exempt from the revocation
// precheck so a client holding a revoked token can still sign in again.
const (
	RouteUserRegister  = "user_register"
	RouteUserLogin     = "user_login"
	RouteAdminRegister = "admin_register"
	RouteAdminLogin    = "admin_login"
)

// Deps is everything the router needs.
type Deps struct {
	Guard              *auth.Guard
	Clock              auth.Clock
	LoginRatePerMinute int

	Accounts      *controllers.AccountController
	Schemes       *controllers.SchemeController
	Prices        *controllers.PriceController
	Content       *controllers.ContentController
	Diagnosis     *controllers.DiagnosisController
	Notifications *controllers.NotificationController
	Health        *controllers.HealthController
}

func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()
	precheck := middleware.RevocationPrecheck(d.Guard, RouteUserRegister, RouteUserLogin, RouteAdminRegister, RouteAdminLogin)
	router.Use(
		middleware.Recovery,
		middleware.RequestLogger,
		precheck,
	)
	// mux skips Use middleware for unmatched requests, so a revoked token
	// sent to an unknown path is wrapped here to still answer 401.
	router.NotFoundHandler = precheck(http.HandlerFunc(notFoundHandler))
	router.MethodNotAllowedHandler = precheck(http.HandlerFunc(methodNotAllowedHandler))

	protect := func(role auth.Role, h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(d.Guard, d.Clock, role)(h)
	}
	throttle := middleware.LoginRateLimit(d.LoginRatePerMinute)

	//----------------------------------------------------------------------
	// Service info
	//----------------------------------------------------------------------
	router.HandleFunc("/", d.Health.RootHandler).Methods("GET")
	router.HandleFunc("/health", d.Health.HealthCheckHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	//----------------------------------------------------------------------
	// Public reads
	//----------------------------------------------------------------------
	router.HandleFunc("/api/states", controllers.StatesHandler).Methods("GET")
	router.HandleFunc("/api/regions", controllers.RegionsHandler).Methods("GET")
	router.HandleFunc("/schemes", d.Schemes.ListHandler).Methods("GET")
	router.HandleFunc("/api/prices", d.Prices.ListHandler).Methods("GET")
	router.HandleFunc("/api/market-prices", d.Prices.MarketPricesHandler).Methods("GET")
	router.HandleFunc("/expert-articles", d.Content.ListArticlesHandler).Methods("GET")
	router.HandleFunc("/expert-articles/{id}", d.Content.GetArticleHandler).Methods("GET")
	router.HandleFunc("/daily-news", d.Content.ListNewsHandler).Methods("GET")
	router.HandleFunc("/daily-news/{id}", d.Content.GetNewsHandler).Methods("GET")

	//----------------------------------------------------------------------
	// Accounts
	//----------------------------------------------------------------------
	router.HandleFunc("/user/register", d.Accounts.RegisterUserHandler).Methods("POST").Name(RouteUserRegister)
	router.Handle("/user/login", throttle(http.HandlerFunc(d.Accounts.LoginUserHandler))).Methods("POST").Name(RouteUserLogin)
	router.Handle("/user/logout", protect(auth.RoleAny, d.Accounts.LogoutHandler)).Methods("POST")

	router.HandleFunc("/admin/register", d.Accounts.RegisterAdminHandler).Methods("POST").Name(RouteAdminRegister)
	router.Handle("/admin/login", throttle(http.HandlerFunc(d.Accounts.LoginAdminHandler))).Methods("POST").Name(RouteAdminLogin)
	router.Handle("/admin/logout", protect(auth.RoleAdmin, d.Accounts.LogoutHandler)).Methods("POST")

	//----------------------------------------------------------------------
	// Farmer endpoints
	//----------------------------------------------------------------------
	router.Handle("/user/profile", protect(auth.RoleUser, d.Accounts.GetProfileHandler)).Methods("GET")
	router.Handle("/user/profile", protect(auth.RoleUser, d.Accounts.UpdateProfileHandler)).Methods("PUT")
	router.Handle("/user/upload", protect(auth.RoleUser, d.Diagnosis.UploadHandler)).Methods("POST")
	router.Handle("/analysis/history", protect(auth.RoleUser, d.Diagnosis.HistoryHandler)).Methods("GET")
	router.Handle("/user/analysis/count", protect(auth.RoleUser, d.Diagnosis.CountHandler)).Methods("GET")

	router.Handle("/user/notifications/preferences", protect(auth.RoleUser, d.Notifications.GetPreferencesHandler)).Methods("GET")
	router.Handle("/user/notifications/preferences", protect(auth.RoleUser, d.Notifications.UpdatePreferencesHandler)).Methods("PUT")
	router.Handle("/user/notifications/subscribe", protect(auth.RoleUser, d.Notifications.SubscribeHandler)).Methods("POST")
	router.Handle("/user/notifications/unsubscribe", protect(auth.RoleUser, d.Notifications.UnsubscribeHandler)).Methods("POST")

	//----------------------------------------------------------------------
	// Admin endpoints
	//----------------------------------------------------------------------
	admin := router.PathPrefix("/admin").Subrouter()

	admin.Handle("/schemes", protect(auth.RoleAdmin, d.Schemes.CreateHandler)).Methods("POST")
	admin.Handle("/schemes/{id}", protect(auth.RoleAdmin, d.Schemes.UpdateHandler)).Methods("PUT")
	admin.Handle("/schemes/{id}", protect(auth.RoleAdmin, d.Schemes.DeleteHandler)).Methods("DELETE")

	admin.Handle("/prices", protect(auth.RoleAdmin, d.Prices.CreateHandler)).Methods("POST")
	admin.Handle("/prices/{id}", protect(auth.RoleAdmin, d.Prices.UpdateHandler)).Methods("PUT")
	admin.Handle("/prices/{id}", protect(auth.RoleAdmin, d.Prices.DeleteHandler)).Methods("DELETE")

	admin.Handle("/expert-articles", protect(auth.RoleAdmin, d.Content.CreateArticleHandler)).Methods("POST")
	admin.Handle("/expert-articles/{id}", protect(auth.RoleAdmin, d.Content.UpdateArticleHandler)).Methods("PUT")
	admin.Handle("/expert-articles/{id}", protect(auth.RoleAdmin, d.Content.DeleteArticleHandler)).Methods("DELETE")

	admin.Handle("/daily-news", protect(auth.RoleAdmin, d.Content.CreateNewsHandler)).Methods("POST")
	admin.Handle("/daily-news/{id}", protect(auth.RoleAdmin, d.Content.UpdateNewsHandler)).Methods("PUT")
	admin.Handle("/daily-news/{id}", protect(auth.RoleAdmin, d.Content.DeleteNewsHandler)).Methods("DELETE")

	return router
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found", nil)
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondErrorWithCode(w, http.StatusMethodNotAllowed, utils.ErrCodeMethodNotAllowed, "Method not allowed", nil)
}
