// Package seed populates a development database with a small project that
// exercises every membership kind.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Marga-Ghale/softdesk-backend/internal/service"
	"github.com/Marga-Ghale/softdesk-backend/internal/types"
)

const seedPassword = "password123"

type seedUser struct {
	email, firstName, lastName string
}

var (
	alice = seedUser{"alice@softdesk.dev", "Alice", "Martin"}
	bob   = seedUser{"bob@softdesk.dev", "Bob", "Durand"}
	carol = seedUser{"carol@softdesk.dev", "Carol", "Petit"}
)

// SeedData creates three users and the "Alpha" project: Alice authors it,
// Bob is a limited contributor with an issue and a comment, Carol is not a
// member. Running it against a seeded database is a no-op.
func SeedData(ctx context.Context, services *service.Services, log *logrus.Logger) error {
	log.Info("[Seed] Creating development data...")

	a, err := services.Auth.Signup(ctx, alice.email, alice.firstName, alice.lastName, seedPassword, seedPassword)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) && verr.Field == "email" {
			log.Info("[Seed] Data already exists, skipping...")
			return nil
		}
		return fmt.Errorf("seed alice: %w", err)
	}

	b, err := services.Auth.Signup(ctx, bob.email, bob.firstName, bob.lastName, seedPassword, seedPassword)
	if err != nil {
		return fmt.Errorf("seed bob: %w", err)
	}
	if _, err := services.Auth.Signup(ctx, carol.email, carol.firstName, carol.lastName, seedPassword, seedPassword); err != nil {
		return fmt.Errorf("seed carol: %w", err)
	}

	alpha, err := services.Project.Create(ctx, a.ID, "Alpha", "Issue tracker backend", types.ProjectBackend)
	if err != nil {
		return fmt.Errorf("seed project: %w", err)
	}
	if _, err := services.Contributor.Add(ctx, a.ID, alpha.ID, b.ID); err != nil {
		return fmt.Errorf("seed contributor: %w", err)
	}

	bug, err := services.Issue.Create(ctx, b.ID, alpha.ID, service.CreateIssueInput{
		Title:       "Bug1",
		Description: "Login fails when the email has uppercase letters",
		Tag:         types.TagBug,
		Priority:    types.PriorityHigh,
	})
	if err != nil {
		return fmt.Errorf("seed issue: %w", err)
	}
	if _, err := services.Comment.Create(ctx, a.ID, alpha.ID, bug.ID, "Reproduced on staging."); err != nil {
		return fmt.Errorf("seed comment: %w", err)
	}

	log.WithFields(logrus.Fields{
		"users":    []string{alice.email, bob.email, carol.email},
		"project":  alpha.ID,
	}).Info("[Seed] Development data created")
	return nil
}
