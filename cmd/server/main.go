package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/hiredronepilots/api/internal/auth"
	"github.com/hiredronepilots/api/internal/config"
	"github.com/hiredronepilots/api/internal/database"
	"github.com/hiredronepilots/api/internal/handler"
	"github.com/hiredronepilots/api/internal/middleware"
	"github.com/hiredronepilots/api/internal/queue"
	"github.com/hiredronepilots/api/internal/repository"
	"github.com/hiredronepilots/api/internal/router"
	"github.com/hiredronepilots/api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	identities := repository.NewIdentityRepo(db)
	links := repository.NewMagicLinkRepo(db)
	sessions := repository.NewSessionRepo(db)
	enquiries := repository.NewEnquiryRepo(db)
	invitations := repository.NewInvitationRepo(db)
	pilots := repository.NewPilotRepo(db)
	applications := repository.NewApplicationRepo(db)
	audit := repository.NewAuditRepo(db)

	mailer := service.NewMailer(cfg.AppBaseURL)
	// The magic-link throttle shares the link TTL as its rolling window.
	limiter := auth.NewLimiter(cfg.MagicLinkMaxPerWin,
		time.Duration(cfg.MagicLinkTTLMin)*time.Minute)

	authH := handler.NewAuthHandler(cfg, db, identities, links, sessions, limiter, mailer)
	enquiryH := handler.NewEnquiryHandler(db, enquiries, audit, mailer)
	applicationH := handler.NewApplicationHandler(applications, mailer)
	inviteH := handler.NewPilotInviteHandler(cfg, invitations)
	backlinkH := handler.NewBacklinkHandler(cfg, applications, pilots)
	adminEnquiryH := handler.NewAdminEnquiryHandler(db, enquiries, invitations, pilots, audit, mailer)
	adminApplicationH := handler.NewAdminApplicationHandler(db, applications, pilots, identities, audit, mailer)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowCredentials: true,
		}))
	}

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, enquiryH, applicationH, inviteH, backlinkH, rateLimit)
	router.RegisterAuth(e, authH, rateLimit)
	router.RegisterAdmin(e, adminEnquiryH, adminApplicationH, sessions, identities)
	router.RegisterPilot(e, inviteH, sessions, identities)

	// Drains email.outbound into the mail log; reconnects on broker loss.
	go func() {
		if err := queue.StartEmailConsumer(); err != nil {
			log.Printf("email consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
