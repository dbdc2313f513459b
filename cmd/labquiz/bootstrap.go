package main

import (
	"context"
	"database/sql"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/labquiz/internal/gate"
	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/repository"
)

func bootstrapCmd() *cobra.Command {
	var userID uint64
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Register every capability and optionally grant them all to a user",
		Long: `Create the access rows the API checks against.  Existing rows are left
untouched, so the command can be run on every deploy.

With --user, the given user is granted every capability.  Use this once to
create the first administrator.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(cmd.Context(), userID)
		},
	}
	cmd.Flags().Uint64Var(&userID, "user", 0, "Grant every capability to this user id")
	return cmd
}

func runBootstrap(ctx context.Context, userID uint64) error {
	s, err := newSetup()
	if err != nil {
		return errors.Trace(err)
	}
	defer func() { _ = s.logger.Sync() }()

	db, err := s.openDB(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() { _ = db.Close() }()

	return repository.WithTx(ctx, db, func(tx *sql.Tx) error {
		access := repository.NewAccessRepo(tx)
		grants := repository.NewUserAccessRepo(tx, s.logger)
		for _, name := range gate.Capabilities() {
			a, err := access.Ensure(ctx, name)
			if err != nil {
				return errors.Annotatef(err, "registering %q", name)
			}
			if userID == 0 {
				continue
			}
			_, err = grants.Create(ctx, model.NewUserAccess{UserID: userID, AccessID: a.ID})
			if err != nil && !errors.Is(err, repository.ErrConflict) {
				return errors.Annotatef(err, "granting %q to user %d", name, userID)
			}
		}
		s.logger.Info("capabilities registered",
			zap.Int("count", len(gate.Capabilities())), zap.Uint64("granted_to", userID))
		return nil
	})
}
