package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/target/saarevents/internal/bootstrap"
)

// favoritesView is the local favorite set after a command.
type favoritesView struct {
	State string  `json:"state"`
	IDs   []int64 `json:"ids"`
}

func (r *runner) favoritesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		GroupID: groupAccount,
		Short:   "Show and change your favorite events",
		Long: `Show and change your favorite events.

Changes are applied locally first and then sent to the server. When the server
rejects a change it is kept locally unless SESSION_ROLLBACK_ON_FAILURE=true.

Examples:
  saarevents favorites ids
  saarevents favorites list --query '[].id'
  saarevents favorites toggle 12`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ids",
			Short: "Print the ids in the local favorite set",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.withApp(cmd, func(_ context.Context, app *bootstrap.App) error {
					return r.printFavorites(cmd, app)
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List your favorite events with details",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
					events, err := app.Session.FavoriteEvents(ctx)
					if err != nil {
						return err
					}
					return r.printJSON(cmd.OutOrStdout(), events)
				})
			},
		},
		r.favoriteMutation("add", "Add an event to your favorites", func(ctx context.Context, app *bootstrap.App, id int64) error {
			return app.Session.AddFavorite(ctx, id)
		}),
		r.favoriteMutation("remove", "Remove an event from your favorites", func(ctx context.Context, app *bootstrap.App, id int64) error {
			return app.Session.RemoveFavorite(ctx, id)
		}),
		r.favoriteMutation("toggle", "Add or remove an event depending on its current state", func(ctx context.Context, app *bootstrap.App, id int64) error {
			_, err := app.Session.ToggleFavorite(ctx, id)
			return err
		}),
	)
	return cmd
}

func (r *runner) favoriteMutation(
	name, short string,
	apply func(ctx context.Context, app *bootstrap.App, eventID int64) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <event-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("event-id", args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				if err := apply(ctx, app, id); err != nil {
					return err
				}
				return r.printFavorites(cmd, app)
			})
		},
	}
}

func (r *runner) printFavorites(cmd *cobra.Command, app *bootstrap.App) error {
	favs := app.Session.Favorites()
	ids := favs.IDs()
	if ids == nil {
		ids = []int64{}
	}
	return r.printJSON(cmd.OutOrStdout(), favoritesView{State: favs.State().String(), IDs: ids})
}
