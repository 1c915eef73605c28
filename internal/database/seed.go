package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"miniportfolio/api/internal/config"
	"miniportfolio/api/internal/ids"
	"miniportfolio/api/internal/models"
	"miniportfolio/api/internal/repository"
	"miniportfolio/api/internal/security"
)

// Seed creates the bootstrap accounts once, at startup, before the server
// accepts traffic. Existing accounts are left untouched.
func Seed(ctx context.Context, store repository.UserStore, cfg config.SeedConfig, bcryptCost int, log zerolog.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	adminItems := []models.PortfolioItem{
		{
			ID:          1,
			Title:       "System Administrator",
			Company:     "Mini Portfolio Timeline",
			Date:        "Jan 2024 - Present",
			Description: "Managing the portfolio timeline system and user accounts.",
			Tags:        []string{"Admin", "Management", "System"},
			Category:    models.CategoryExperience,
		},
	}

	if err := seedUser(ctx, store, log, bcryptCost, models.User{
		Name:           cfg.AdminName,
		Email:          cfg.AdminEmail,
		Role:           models.UserRoleAdmin,
		PortfolioItems: adminItems,
	}, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if !cfg.DemoUsers {
		return nil
	}

	if err := seedUser(ctx, store, log, bcryptCost, models.User{
		Name:           "Demo User",
		Email:          "demo@example.com",
		Role:           models.UserRoleUser,
		PortfolioItems: demoPortfolio(),
	}, "demo123"); err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}

	return nil
}

func seedUser(ctx context.Context, store repository.UserStore, log zerolog.Logger, bcryptCost int, user models.User, password string) error {
	if _, err := store.FindByEmail(ctx, user.Email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hash, err := security.HashPassword(password, bcryptCost)
	if err != nil {
		return err
	}

	user.ID = ids.New()
	user.PasswordHash = hash
	user.IsActive = true

	if err := store.Create(ctx, user); err != nil {
		// Another instance may have seeded concurrently.
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil
		}
		return err
	}

	log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("seeded user")
	return nil
}

func demoPortfolio() []models.PortfolioItem {
	return []models.PortfolioItem{
		{
			ID:          1,
			Title:       "Full Stack Developer",
			Company:     "Tech Solutions Inc.",
			Date:        "Jan 2023 - Present",
			Description: "Developing web applications using React, Node.js, and MongoDB. Leading a team of 3 developers.",
			Tags:        []string{"React", "Node.js", "MongoDB", "Leadership"},
			Category:    models.CategoryExperience,
		},
		{
			ID:          2,
			Title:       "Bachelor of Computer Science",
			Company:     "University of Technology",
			Date:        "Sep 2019 - Jun 2022",
			Description: "Graduated with honors. Specialized in software engineering and database systems.",
			Tags:        []string{"Computer Science", "Software Engineering", "Databases"},
			Category:    models.CategoryEducation,
		},
		{
			ID:          3,
			Title:       "E-commerce Platform",
			Company:     "Personal Project",
			Date:        "Mar 2023 - May 2023",
			Description: "Built a full-stack e-commerce platform with payment integration and admin dashboard.",
			Tags:        []string{"React", "Express", "Stripe", "PostgreSQL"},
			Category:    models.CategoryProject,
		},
		{
			ID:          4,
			Title:       "AWS Certified Developer",
			Company:     "Amazon Web Services",
			Date:        "Aug 2023",
			Description: "Certified in AWS cloud services and serverless architecture.",
			Tags:        []string{"AWS", "Cloud", "Serverless"},
			Category:    models.CategoryCertification,
		},
		{
			ID:          5,
			Title:       "JavaScript & TypeScript",
			Date:        "Expert Level",
			Description: "Advanced proficiency in modern JavaScript and TypeScript development.",
			Tags:        []string{"JavaScript", "TypeScript", "ES6+"},
			Category:    models.CategorySkill,
		},
		{
			ID:          6,
			Title:       "First Open Source Contribution",
			Date:        "Dec 2022",
			Description: "Made my first contribution to a popular React library with 10k+ stars.",
			Tags:        []string{"Open Source", "React", "Community"},
			Category:    models.CategoryMilestone,
		},
	}
}
