package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/application"
	"github.com/JonMunkholm/roster/internal/core"
)

func (a *app) runMenu(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	deps := application.Deps{Service: a.service}

	if a.cfg.Database.Enabled() {
		syncer, closeFn, err := a.openSyncer(ctx)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "database sync disabled:", core.FormatUserError(err))
		} else {
			defer closeFn()
			deps.Syncer = syncer
		}
	}

	return application.Run(ctx, deps, a.logger)
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Display all characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roster, err := a.service.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), application.FormatRoster(roster))
			return nil
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	var in core.NewCharacter

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new character",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.service.Add(cmd.Context(), in); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Character added.")
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "character name")
	cmd.Flags().StringVar(&in.Profession, "class", "", "character class")
	cmd.Flags().StringVar(&in.Level, "level", "", "character level (number)")
	cmd.Flags().StringVar(&in.HP, "hp", "", "character HP (number)")
	cmd.Flags().StringVar(&in.Equipment, "equipment", "", "equipment items separated by '|'")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("level")
	_ = cmd.MarkFlagRequired("hp")
	return cmd
}

func (a *app) levelUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levelup N",
		Short: "Level up the Nth character shown by list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selection, err := core.ParseSelection(args[0])
			if err != nil {
				return err
			}
			result, err := a.service.LevelUp(cmd.Context(), selection)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), application.FormatLevelUp(result))
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the roster as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := core.ParseExportFormat(format)
			if err != nil {
				return err
			}
			return a.service.Export(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(core.FormatJSON), "json or yaml")
	return cmd
}

func (a *app) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Copy the roster to PostgreSQL (requires DATABASE_URL)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			roster, err := a.service.List(ctx)
			if err != nil {
				return err
			}

			syncer, closeFn, err := a.openSyncer(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := syncer.Sync(ctx, a.store.Path(), roster)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), application.FormatSync(result))
			return nil
		},
	}
}
