package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/intramural-stats/handlers"
	"github.com/Dosada05/intramural-stats/metrics"
	"github.com/Dosada05/intramural-stats/middleware"
	"github.com/Dosada05/intramural-stats/models"
)

type Handlers struct {
	Sport      *handlers.SportHandler
	League     *handlers.LeagueHandler
	Team       *handlers.TeamHandler
	Game       *handlers.GameHandler
	Stats      *handlers.StatsHandler
	Player     *handlers.PlayerHandler
	StatKeeper *handlers.StatKeeperHandler
	StatEvent  *handlers.StatEventHandler
	Award      *handlers.AwardHandler
	Reminder   *handlers.ReminderHandler
	Dashboard  *handlers.DashboardHandler
	WebSocket  *handlers.WebSocketHandler
}

type Options struct {
	Logger             *slog.Logger
	Metrics            *metrics.Recorder
	CORSAllowedOrigins []string
	// Ping checks the database for /health; nil skips the check.
	Ping func(r *http.Request) error
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(middleware.Metrics(opts.Metrics))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RoleHeader, middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", healthHandler(opts.Ping))
	router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	router.Get("/ws/leagues/{leagueID}", h.WebSocket.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Get("/sports", h.Sport.GetAllSports)
		r.Get("/sports/{sportID}", h.Sport.GetSportByID)
		r.Get("/stat-types", h.StatEvent.StatTypes)

		r.Route("/leagues", func(r chi.Router) {
			r.Get("/", h.League.ListLeagues)
			r.Route("/{leagueID}", func(r chi.Router) {
				r.Get("/", h.League.GetLeague)
				r.Get("/standings", h.Stats.Standings)
				r.Get("/teams", h.Team.ListLeagueTeams)
				r.Get("/games", h.Game.ListLeagueGames)
				r.Get("/awards", h.Award.ListLeagueAwards)
				r.Get("/champion", h.League.GetChampion)
			})
		})

		r.Route("/teams/{teamID}", func(r chi.Router) {
			r.Get("/", h.Team.GetTeam)
			r.Get("/roster", h.Team.ListRoster)
			r.Get("/games", h.Game.ListTeamGames)
			r.Get("/splits", h.Stats.HomeAwaySplits)
			r.Get("/head-to-head/{opponentID}", h.Stats.HeadToHead)
			r.Get("/comparison", h.Stats.LeagueComparison)
			r.Get("/performance", h.Stats.PerformanceSeries)
		})

		r.Route("/games/{gameID}", func(r chi.Router) {
			r.Get("/", h.Game.GetGame)
			r.Get("/stats", h.StatEvent.ListGameStats)
			r.Get("/lineup", h.Game.ListLineup)
		})

		r.Get("/awards/{awardID}", h.Award.GetAward)

		r.Route("/statkeeper", func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleStatKeeper))

			r.Get("/keepers/{keeperID}/games", h.StatKeeper.ListAssignedGames)
			r.Patch("/games/{gameID}", h.Game.UpdateGame)
			r.Post("/games/{gameID}/stats", h.StatEvent.RecordStat)
			r.Put("/stats/{statID}", h.StatEvent.UpdateStat)
			r.Delete("/stats/{statID}", h.StatEvent.DeleteStat)
		})

		r.Route("/player", func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RolePlayer))

			r.Post("/players", h.Player.CreatePlayer)
			r.Route("/players/{playerID}", func(r chi.Router) {
				r.Get("/", h.Player.GetPlayer)
				r.Patch("/", h.Player.UpdatePlayer)
				r.Get("/teams", h.Player.ListPlayerTeams)
				r.Get("/stats", h.StatEvent.ListPlayerStats)
				r.Get("/stats/summary", h.StatEvent.PlayerSummary)
			})
		})

		r.Route("/captain", func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleTeamCaptain))

			r.Post("/games", h.Game.CreateGame)
			r.Patch("/games/{gameID}", h.Game.UpdateGame)
			r.Put("/games/{gameID}/teams", h.Game.AssignTeams)
			r.Put("/games/{gameID}/lineup/{playerID}", h.Game.SetLineupEntry)

			r.Post("/teams/{teamID}/players/{playerID}", h.Team.AddPlayer)
			r.Delete("/teams/{teamID}/players/{playerID}", h.Team.RemovePlayer)
			r.Post("/teams/{teamID}/reminders", h.Reminder.CreateReminder)
			r.Get("/teams/{teamID}/reminders", h.Reminder.ListReminders)
			r.Post("/teams/{teamID}/logo", h.Team.UploadLogo)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/dashboard", h.Dashboard.GetStats)

			r.Post("/sports", h.Sport.CreateSport)
			r.Put("/sports/{sportID}", h.Sport.UpdateSport)
			r.Delete("/sports/{sportID}", h.Sport.DeleteSport)

			r.Post("/leagues", h.League.CreateLeague)
			r.Patch("/leagues/{leagueID}", h.League.UpdateLeague)
			r.Delete("/leagues/{leagueID}", h.League.DeleteLeague)
			r.Put("/leagues/{leagueID}/champion", h.League.SetChampion)
			r.Post("/leagues/{leagueID}/rebuild-records", h.Game.RebuildRecords)
			r.Post("/leagues/{leagueID}/schedule", h.Game.GenerateSchedule)

			r.Post("/teams", h.Team.CreateTeam)
			r.Patch("/teams/{teamID}", h.Team.UpdateTeam)
			r.Delete("/teams/{teamID}", h.Team.DeleteTeam)

			r.Delete("/games/{gameID}", h.Game.DeleteGame)

			r.Get("/keepers", h.StatKeeper.ListKeepers)
			r.Post("/keepers", h.StatKeeper.CreateKeeper)
			r.Get("/keepers/{keeperID}", h.StatKeeper.GetKeeper)
			r.Patch("/keepers/{keeperID}", h.StatKeeper.UpdateKeeper)
			r.Delete("/keepers/{keeperID}", h.StatKeeper.DeleteKeeper)
			r.Post("/keepers/{keeperID}/games/{gameID}", h.StatKeeper.AssignGame)
			r.Delete("/keepers/{keeperID}/games/{gameID}", h.StatKeeper.UnassignGame)

			r.Get("/players", h.Player.ListPlayers)
			r.Delete("/players/{playerID}", h.Player.DeletePlayer)

			r.Post("/awards", h.Award.CreateAward)
			r.Patch("/awards/{awardID}", h.Award.UpdateAward)
			r.Delete("/awards/{awardID}", h.Award.DeleteAward)
		})
	})
}

func healthHandler(ping func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if ping != nil {
			if err := ping(r); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
