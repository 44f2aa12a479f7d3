package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"

	"owltrack/internal/config"
	"owltrack/internal/database"
	"owltrack/internal/domain/application"
	"owltrack/internal/domain/auth"
	"owltrack/internal/domain/notification"
	"owltrack/internal/domain/opportunity"
	"owltrack/internal/pkg/logger"
)

type seedOpportunity struct {
	typ     opportunity.Type
	slug    string
	title   string
	desc    string
	details map[string]any
}

var opportunities = []seedOpportunity{
	{
		typ:   opportunity.TypeProject,
		slug:  "p-weather",
		title: "Weather Dashboard",
		desc:  "Build a dashboard that shows a five day forecast for saved cities.",
		details: map[string]any{
			"difficulty": "beginner",
			"stack":      []string{"html", "css", "javascript"},
		},
	},
	{
		typ:   opportunity.TypeProject,
		slug:  "p-kanban",
		title: "Kanban Board",
		desc:  "Drag and drop task board with persistence.",
		details: map[string]any{
			"difficulty": "intermediate",
			"stack":      []string{"react", "node"},
		},
	},
	{
		typ:   opportunity.TypeProject,
		slug:  "p-url-shortener",
		title: "URL Shortener",
		desc:  "HTTP service that shortens links and counts visits.",
		details: map[string]any{
			"difficulty": "intermediate",
			"stack":      []string{"go", "postgres"},
		},
	},
	{
		typ:   opportunity.TypeInternship,
		slug:  "i-frontend",
		title: "Frontend Intern",
		desc:  "Twelve week remote internship on the web team.",
		details: map[string]any{
			"duration_weeks": 12,
			"remote":         true,
		},
	},
	{
		typ:   opportunity.TypeInternship,
		slug:  "i-backend",
		title: "Backend Intern",
		desc:  "Work on APIs and data pipelines with a mentor.",
		details: map[string]any{
			"duration_weeks": 10,
			"remote":         false,
		},
	},
}

func main() {
	adminEmail := flag.String("admin-email", "admin@owltrack.local", "admin e-mail")
	adminPassword := flag.String("admin-password", "admin123", "admin password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Get().Error("config", "error", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.AppEnv, cfg.Log).With("module", "seed")

	db, err := database.Connect(cfg.Database.URL, log)
	if err != nil {
		log.Error("database connect failed", "error", err)
		os.Exit(1)
	}

	users := auth.NewUserRepository(db)
	opportunityRepo := opportunity.NewRepository(db)
	if err := database.Migrate(
		users,
		opportunityRepo,
		application.NewRepository(db),
		notification.NewRepository(db),
	); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	hash, err := auth.HashPassword(*adminPassword)
	if err != nil {
		log.Error("hash admin password", "error", err)
		os.Exit(1)
	}
	admin := &auth.User{
		Email:        *adminEmail,
		Username:     auth.AdminAlias,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	}
	switch err := users.Create(ctx, admin); {
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		log.Info("admin already exists", "email", *adminEmail)
	case err != nil:
		log.Error("create admin", "error", err)
		os.Exit(1)
	default:
		log.Info("admin created", "email", *adminEmail, "username", auth.AdminAlias)
	}

	service := opportunity.NewService(opportunityRepo, log)
	for _, o := range opportunities {
		details, err := json.Marshal(o.details)
		if err != nil {
			log.Error("encode details", "id", o.slug, "error", err)
			os.Exit(1)
		}
		_, err = service.Create(ctx, o.typ, opportunity.CreateRequest{
			Slug:        o.slug,
			Title:       o.title,
			Description: o.desc,
			Details:     details,
		})
		switch {
		case errors.Is(err, opportunity.ErrSlugTaken):
			log.Info("opportunity exists, skipping", "type", o.typ, "id", o.slug)
		case err != nil:
			log.Error("create opportunity", "id", o.slug, "error", err)
			os.Exit(1)
		}
	}

	log.Info("seed complete", "opportunities", len(opportunities))
}
