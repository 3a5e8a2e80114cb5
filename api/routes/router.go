package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/audiohive/audiohive-backend/api/controllers"
	"github.com/audiohive/audiohive-backend/api/middleware"
	"github.com/audiohive/audiohive-backend/api/responses"
	"github.com/audiohive/audiohive-backend/internal/auth"
	"github.com/audiohive/audiohive-backend/internal/products"
	"github.com/audiohive/audiohive-backend/internal/reviews"
	"github.com/audiohive/audiohive-backend/internal/users"
	"github.com/audiohive/audiohive-backend/pkg/config"
	"github.com/audiohive/audiohive-backend/pkg/db"
	"github.com/audiohive/audiohive-backend/pkg/enums"
	"github.com/audiohive/audiohive-backend/pkg/logger"
	"github.com/audiohive/audiohive-backend/pkg/metrics"
	"github.com/audiohive/audiohive-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	authService auth.Service,
	usersService users.Service,
	productsService products.Service,
	reviewsService reviews.Service,
) http.Handler {
	r := chi.NewRouter()

	ew := responses.NewErrorWriter(logg, !cfg.App.IsProd())

	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	r.Use(
		middleware.Recoverer(ew, logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	requireAuth := middleware.Auth(authService, cfg.JWT, ew, logg)
	requireAdmin := middleware.RequireRole(ew, string(enums.UserRoleAdmin))
	requireUser := middleware.RequireRole(ew, string(enums.UserRoleUser))

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)
	forgotPolicy := middleware.NewAuthRateLimitPolicy(
		"forgot",
		cfg.AuthRateLimit.ForgotWindow,
		cfg.AuthRateLimit.ForgotIPLimit,
		cfg.AuthRateLimit.ForgotEmailLimit,
	)

	readyDeps := map[string]controllers.Pinger{}
	if dbP != nil {
		readyDeps["postgres"] = dbP
	}
	if redisClient != nil {
		readyDeps["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, ew, readyDeps))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	rateLimit := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if redisClient == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.AuthRateLimit(policy, redisClient, ew, logg)
	}

	r.Route("/api/v1/users", func(r chi.Router) {
		r.With(rateLimit(signupPolicy)).
			Post("/signup", controllers.AuthSignup(authService, cfg.JWT, ew))
		r.With(rateLimit(loginPolicy)).
			Post("/login", controllers.AuthLogin(authService, cfg.JWT, ew))
		r.Get("/logout", controllers.AuthLogout(cfg.JWT))
		r.With(rateLimit(forgotPolicy)).
			Post("/forgot-password", controllers.AuthForgotPassword(authService, !cfg.App.IsProd(), ew))
		r.Patch("/password-reset/{token}", controllers.AuthResetPassword(authService, cfg.JWT, ew))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", controllers.Me(usersService, ew))
			r.Patch("/update-my-password", controllers.AuthUpdatePassword(authService, cfg.JWT, ew))
			r.Patch("/update-me", controllers.UpdateMe(usersService, ew))
			r.Patch("/delete-me", controllers.DeleteMe(usersService, ew))
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Get("/", controllers.ListUsers(usersService, ew))
			r.Post("/", controllers.AdminCreateUser(usersService, ew))
			r.Get("/{id}", controllers.GetUser(usersService, ew))
			r.Patch("/{id}", controllers.AdminUpdateUser(usersService, ew))
			r.Delete("/{id}", controllers.AdminDeleteUser(usersService, ew))
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(productsService, ew))
		r.Get("/{id}", controllers.GetProduct(productsService, ew))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/", controllers.CreateProduct(productsService, ew))
			r.Patch("/{id}", controllers.UpdateProduct(productsService, ew))
			r.Delete("/{id}", controllers.DeleteProduct(productsService, ew))
		})

		// The nested review surface targets the caller's own review on the
		// product from the path; there is no review id in these routes.
		r.Route("/{productId}/reviews", func(r chi.Router) {
			r.Use(requireAuth, requireUser)
			r.Post("/", controllers.CreateReview(reviewsService, ew))
			r.Patch("/", controllers.UpdateReview(reviewsService, ew))
			r.Delete("/", controllers.DeleteReview(reviewsService, ew))
		})
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Get("/{id}", controllers.GetReview(reviewsService, ew))
		r.Get("/product/{id}", controllers.ListProductReviews(reviewsService, ew))
		r.Get("/user/{id}", controllers.ListUserReviews(reviewsService, ew))
	})

	return r
}
