// internal/handlers/router.go
package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"

	accountsvc "github.com/planora/planora-server/internal/account"
	"github.com/planora/planora-server/internal/auth"
	flagsvc "github.com/planora/planora-server/internal/flags"
	accounthdl "github.com/planora/planora-server/internal/handlers/account"
	flagshdl "github.com/planora/planora-server/internal/handlers/flags"
	schedulerhdl "github.com/planora/planora-server/internal/handlers/scheduler"
	teamhdl "github.com/planora/planora-server/internal/handlers/team"
	usershdl "github.com/planora/planora-server/internal/handlers/users"
	"github.com/planora/planora-server/internal/middleware"
	"github.com/planora/planora-server/internal/ratelimit"
	schedulersvc "github.com/planora/planora-server/internal/scheduler"
	"github.com/planora/planora-server/internal/store"
	teamsvc "github.com/planora/planora-server/internal/team"
	usersvc "github.com/planora/planora-server/internal/users"
)

// Public endpoints have no identity to key limits on, so they get a
// per-IP budget instead.
const (
	publicRateLimit  = 30
	publicRateWindow = time.Minute
)

func RegisterRoutes(mux *chi.Mux, st store.Store, resolver *auth.Resolver, limiter *ratelimit.Limiter) {
	teams := teamhdl.New(teamsvc.New(st))
	accounts := accounthdl.New(accountsvc.New(st))
	sched := schedulerhdl.New(schedulersvc.New(st))
	flags := flagshdl.New(flagsvc.New(st))
	users := usershdl.New(usersvc.New(st))

	requireAuth := middleware.RequireAuth(resolver)

	// Team membership / invite lifecycle
	mux.Group(func(sr chi.Router) {
		sr.Use(requireAuth)

		sr.Post("/invite", teams.Invite)
		sr.Get("/invite", teams.List)
		sr.Post("/accept", teams.Accept)
		sr.Delete("/remove", teams.Remove)
	})

	// Accounts
	mux.Group(func(sr chi.Router) {
		sr.Use(requireAuth)

		sr.Post("/accounts", accounts.Create)
		sr.Post("/update-currency", accounts.UpdateCurrency)
	})

	// Scheduler: link validation, booking submission and slot listing are
	// public (vendors follow a shared link, unauthenticated); link creation
	// and booking resolution are for signed-in admins.
	mux.Route("/scheduler", func(sr chi.Router) {
		sr.Group(func(pub chi.Router) {
			if limiter != nil {
				pub.Use(middleware.RateLimit(limiter, publicRateLimit, publicRateWindow))
			}
			pub.Get("/link/{token}", sched.ValidateLink)
			pub.Post("/book", sched.Book)
			pub.Get("/slots", sched.Slots)
		})
		sr.Group(func(priv chi.Router) {
			priv.Use(requireAuth)
			priv.Post("/links", sched.CreateLink)
			priv.Post("/bookings/{bookingID}/resolve", sched.Resolve)
		})
	})

	// Feature flags
	mux.Group(func(sr chi.Router) {
		sr.Use(requireAuth)

		sr.Get("/flags", flags.List)
		sr.Post("/flags", flags.Set)
	})

	// User-type registration
	mux.With(requireAuth).Post("/users/register-type", users.RegisterType)
}
