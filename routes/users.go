package routes

import (
	"net/http"
	"time"

	"github.com/codexrip/intellectra-hub/controllers/auth"
	"github.com/codexrip/intellectra-hub/controllers/users"
	"github.com/codexrip/intellectra-hub/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers the marketplace and account routes on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Login/register limiter: 60 per IP per 5 minutes.
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// General API limiter: 300 per IP per minute.
	apiLimiter := middleware.NewIPRateLimiter(300, time.Minute)

	authed := func(h http.HandlerFunc) http.Handler {
		return apiLimiter.Middleware(middleware.AuthMiddleware(h))
	}

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/logout", authed(auth.LogoutHandler)).Methods(http.MethodPost)
	api.Handle("/verify-email", loginLimiter.Middleware(http.HandlerFunc(auth.VerifyEmailHandler))).Methods(http.MethodGet)

	// Account
	api.Handle("/users/me", authed(users.InfoHandler)).Methods(http.MethodGet)
	api.Handle("/users/profile", authed(users.UpdateProfileHandler)).Methods(http.MethodPut)
	api.Handle("/users/profile/photo", authed(users.DeleteProfilePhotoHandler)).Methods(http.MethodDelete)
	api.Handle("/users/freeze", authed(users.FreezeAccountHandler)).Methods(http.MethodPost)
	api.Handle("/users/me", authed(users.DeleteAccountHandler)).Methods(http.MethodDelete)

	// Wallet
	api.Handle("/wallet/topup", authed(users.TopupHandler)).Methods(http.MethodPost)
	api.Handle("/wallet/withdraw", authed(users.WithdrawHandler)).Methods(http.MethodPost)
	api.Handle("/wallet/transactions", authed(users.TransactionsHandler)).Methods(http.MethodGet)

	// Marketplace
	api.Handle("/requests", authed(users.MarketplaceHandler)).Methods(http.MethodGet)
	api.Handle("/requests", authed(users.CreateRequestHandler)).Methods(http.MethodPost)
	api.Handle("/requests/{id:[0-9]+}", authed(users.GetRequestHandler)).Methods(http.MethodGet)
	api.Handle("/requests/{id:[0-9]+}", authed(users.DeleteRequestHandler)).Methods(http.MethodDelete)
	api.Handle("/users/requests", authed(users.MyRequestsHandler)).Methods(http.MethodGet)

	// Solutions
	api.Handle("/requests/{id:[0-9]+}/solutions", authed(users.SubmitSolutionHandler)).Methods(http.MethodPost)
	api.Handle("/requests/{id:[0-9]+}/solutions/{solution_id:[0-9]+}/accept", authed(users.AcceptSolutionHandler)).Methods(http.MethodPost)
	api.Handle("/users/solutions", authed(users.MySolutionsHandler)).Methods(http.MethodGet)
}
