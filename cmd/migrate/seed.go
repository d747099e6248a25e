package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/config"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/container"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/domain"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/service"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/logger"
)

var demoActors = []domain.Actor{
	{ID: "admin", Role: domain.RoleAdmin, ShortCode: "ADM", Name: "Demo Admin"},
	{ID: "sup-1", Role: domain.RoleSupervisor, ShortCode: "S1", Name: "Demo Supervisor"},
	{ID: "lead-1", Role: domain.RoleTeamLeader, SupervisorID: "sup-1", ShortCode: "L1", Name: "Demo Leader One"},
	{ID: "lead-2", Role: domain.RoleTeamLeader, SupervisorID: "sup-1", ShortCode: "L2", Name: "Demo Leader Two"},
}

const demoMembers = 10

func newSeedCmd() *cobra.Command {
	var tokenTTL time.Duration

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo hierarchy and print a bearer token per actor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c, err := container.New(cmd.Context(), cfg, logger.Nop())
			if err != nil {
				return err
			}
			defer c.Close()

			return seed(cmd.Context(), c.Repos, c.Services.Auth, tokenTTL, cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "lifetime of the printed tokens")
	return cmd
}

// seed inserts the demo actors and members. Existing rows are left alone so
// the command can be rerun.
func seed(ctx context.Context, repos *repository.Repositories, tokens service.AuthService, ttl time.Duration, out io.Writer) error {
	for _, a := range demoActors {
		existing, err := repos.Actor.GetByID(ctx, a.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			actor := a
			actor.CreatedAt = time.Now().UTC()
			if err := repos.Actor.Create(ctx, &actor); err != nil {
				return fmt.Errorf("failed to seed actor %s: %w", a.ID, err)
			}
		}
	}

	for i := 1; i <= demoMembers; i++ {
		member := &domain.Member{ID: fmt.Sprintf("m-%03d", i), FullName: fmt.Sprintf("Demo Member %d", i)}
		if err := repos.Member.Upsert(ctx, member); err != nil {
			return fmt.Errorf("failed to seed member %s: %w", member.ID, err)
		}
	}
	fmt.Fprintf(out, "seeded %d actors and %d members\n", len(demoActors), demoMembers)

	for _, a := range demoActors {
		token, err := tokens.IssueToken(a.ID, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-12s %-12s %s\n", a.ID, a.Role, token)
	}
	return nil
}
