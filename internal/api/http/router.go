// Package http exposes the club services as a JSON API under /api.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/metrics"
	"sailing-club-backend/internal/security"
	"sailing-club-backend/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Auth           service.AuthService
	Users          service.UserService
	Boats          service.BoatService
	Rentals        service.RentalService
	Activities     service.ActivityService
	Ledger         service.LedgerService
	Notices        service.NoticeService
	Forum          service.ForumService
	Stats          service.StatsService
	Tokens         security.TokenManager
	Metrics        *metrics.Metrics
	Store          Pinger
	AllowedOrigins []string
}

type handlers struct {
	Dependencies
	validate *validator.Validate
}

// NewRouter wires every route. Route names double as keys into
// config.RouteAccessConfig.
func NewRouter(deps Dependencies) http.Handler {
	h := &handlers{Dependencies: deps, validate: validator.New()}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, domain.NotFound("route not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, messageResponse{Status: "error", Message: "method not allowed"})
	})
	r.Use(instrument(deps.Metrics), authenticate(deps.Tokens))

	r.HandleFunc("/health", h.health).Methods(http.MethodGet).Name("health")
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet).Name("metrics")
	}

	api := r.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.register).Methods(http.MethodPost).Name("auth.register")
	auth.HandleFunc("/login", h.login).Methods(http.MethodPost).Name("auth.login")
	auth.HandleFunc("/refresh", h.refresh).Methods(http.MethodPost).Name("auth.refresh")
	auth.HandleFunc("/me", h.me).Methods(http.MethodGet).Name("auth.me")

	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("", h.listUsers).Methods(http.MethodGet).Name("users.list")
	users.HandleFunc("/me", h.me).Methods(http.MethodGet).Name("users.me")
	users.HandleFunc("/{id:[0-9]+}", h.getUser).Methods(http.MethodGet).Name("users.get")
	users.HandleFunc("/{id:[0-9]+}", h.updateUser).Methods(http.MethodPut).Name("users.update")
	users.HandleFunc("/{id:[0-9]+}", h.deleteUser).Methods(http.MethodDelete).Name("users.delete")
	users.HandleFunc("/{id:[0-9]+}/balance", h.adjustBalance).Methods(http.MethodPost).Name("users.balance")

	boats := api.PathPrefix("/boats").Subrouter()
	boats.HandleFunc("", h.listBoats).Methods(http.MethodGet).Name("boats.list")
	boats.HandleFunc("", h.createBoat).Methods(http.MethodPost).Name("boats.create")
	boats.HandleFunc("/rentals", h.myRentals).Methods(http.MethodGet).Name("boats.my_rentals")
	boats.HandleFunc("/all/rentals", h.allRentals).Methods(http.MethodGet).Name("boats.all_rentals")
	boats.HandleFunc("/return", h.returnBoat).Methods(http.MethodPost).Name("boats.return")
	boats.HandleFunc("/{id:[0-9]+}", h.getBoat).Methods(http.MethodGet).Name("boats.get")
	boats.HandleFunc("/{id:[0-9]+}", h.updateBoat).Methods(http.MethodPut).Name("boats.update")
	boats.HandleFunc("/{id:[0-9]+}", h.deleteBoat).Methods(http.MethodDelete).Name("boats.delete")
	boats.HandleFunc("/{id:[0-9]+}/rent", h.rentBoat).Methods(http.MethodPost).Name("boats.rent")

	activities := api.PathPrefix("/activities").Subrouter()
	activities.HandleFunc("", h.listActivities).Methods(http.MethodGet).Name("activities.list")
	activities.HandleFunc("", h.createActivity).Methods(http.MethodPost).Name("activities.create")
	activities.HandleFunc("/signup", h.signUp).Methods(http.MethodPost).Name("activities.signup")
	activities.HandleFunc("/signup/{id:[0-9]+}", h.cancelSignUp).Methods(http.MethodDelete).Name("activities.cancel")
	activities.HandleFunc("/my/signups", h.mySignups).Methods(http.MethodGet).Name("activities.my_signups")
	activities.HandleFunc("/{id:[0-9]+}", h.getActivity).Methods(http.MethodGet).Name("activities.get")
	activities.HandleFunc("/{id:[0-9]+}", h.updateActivity).Methods(http.MethodPut).Name("activities.update")
	activities.HandleFunc("/{id:[0-9]+}", h.deleteActivity).Methods(http.MethodDelete).Name("activities.delete")
	activities.HandleFunc("/{id:[0-9]+}/checkin", h.checkIn).Methods(http.MethodPost).Name("activities.checkin")
	activities.HandleFunc("/{id:[0-9]+}/signups", h.activitySignups).Methods(http.MethodGet).Name("activities.signups")

	finances := api.PathPrefix("/finances").Subrouter()
	finances.HandleFunc("", h.listFinances).Methods(http.MethodGet).Name("finances.list")
	finances.HandleFunc("", h.createFinance).Methods(http.MethodPost).Name("finances.create")
	finances.HandleFunc("/balance", h.balance).Methods(http.MethodGet).Name("finances.balance")
	finances.HandleFunc("/deposit", h.deposit).Methods(http.MethodPost).Name("finances.deposit")
	finances.HandleFunc("/report", h.report).Methods(http.MethodGet).Name("finances.report")

	notices := api.PathPrefix("/notices").Subrouter()
	notices.HandleFunc("", h.listNotices).Methods(http.MethodGet).Name("notices.list")
	notices.HandleFunc("", h.createNotice).Methods(http.MethodPost).Name("notices.create")
	notices.HandleFunc("/{id:[0-9]+}", h.getNotice).Methods(http.MethodGet).Name("notices.get")
	notices.HandleFunc("/{id:[0-9]+}", h.updateNotice).Methods(http.MethodPut).Name("notices.update")
	notices.HandleFunc("/{id:[0-9]+}", h.deleteNotice).Methods(http.MethodDelete).Name("notices.delete")

	forum := api.PathPrefix("/forum").Subrouter()
	forum.HandleFunc("/tags", h.listTags).Methods(http.MethodGet).Name("forum.tags")
	forum.HandleFunc("/tags", h.createTag).Methods(http.MethodPost).Name("forum.create_tag")
	forum.HandleFunc("/posts", h.listPosts).Methods(http.MethodGet).Name("forum.posts")
	forum.HandleFunc("/posts", h.createPost).Methods(http.MethodPost).Name("forum.create_post")
	forum.HandleFunc("/posts/{id:[0-9]+}", h.getPost).Methods(http.MethodGet).Name("forum.get_post")
	forum.HandleFunc("/posts/{id:[0-9]+}", h.updatePost).Methods(http.MethodPut).Name("forum.update_post")
	forum.HandleFunc("/posts/{id:[0-9]+}", h.deletePost).Methods(http.MethodDelete).Name("forum.delete_post")
	forum.HandleFunc("/posts/{id:[0-9]+}/comments", h.listComments).Methods(http.MethodGet).Name("forum.comments")
	forum.HandleFunc("/posts/{id:[0-9]+}/comments", h.createComment).Methods(http.MethodPost).Name("forum.create_comment")
	forum.HandleFunc("/comments/{id:[0-9]+}", h.deleteComment).Methods(http.MethodDelete).Name("forum.delete_comment")

	api.HandleFunc("/stats", h.clubStats).Methods(http.MethodGet).Name("stats")

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return corsHandler(requestID(r))
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	if h.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Store.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, messageResponse{Status: "unhealthy", Message: "database unreachable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, messageResponse{Status: "healthy", Message: "ok"})
}

// principal is only called on authenticated routes; the middleware
// guarantees it is present.
func principal(r *http.Request) domain.Principal {
	p, _ := principalFrom(r.Context())
	return p
}
