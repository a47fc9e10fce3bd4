package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/target/saarevents/internal/bootstrap"
	"github.com/target/saarevents/internal/domain/model"
)

// deletedView confirms a removal.
type deletedView struct {
	Deleted string `json:"deleted"`
	ID      int64  `json:"id"`
}

// runJSON runs fn inside an app and prints its result.
func (r *runner) runJSON(cmd *cobra.Command, fn func(context.Context, *bootstrap.App) (any, error)) error {
	return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
		out, err := fn(ctx, app)
		if err != nil {
			return err
		}
		return r.printJSON(cmd.OutOrStdout(), out)
	})
}

// deleteCommand builds "delete <id>" for one kind of resource.
func (r *runner) deleteCommand(kind, short string, del func(context.Context, *bootstrap.App, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <" + kind + "-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(kind+"-id", args[0])
			if err != nil {
				return err
			}
			return r.runJSON(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
				if err := del(ctx, app, id); err != nil {
					return nil, err
				}
				return deletedView{Deleted: kind, ID: id}, nil
			})
		},
	}
}

func (r *runner) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "admin",
		GroupID: groupAdmin,
		Short:   "Moderation and reference data commands (requires the admin role)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show moderation statistics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.runJSON(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
					return app.Catalog.AdminStats(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "status <event-id> <APPROVED|REJECTED>",
			Short: "Approve or reject a submitted event",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("event-id", args[0])
				if err != nil {
					return err
				}
				status, ok := model.ParseModerationStatus(args[1])
				if !ok {
					return usageError("status must be APPROVED or REJECTED, got %q", args[1])
				}
				return r.runJSON(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
					return app.Catalog.ModerateEvent(ctx, id, status)
				})
			},
		},
		r.adminUsersCommand(),
		r.adminEventsCommand(),
		r.adminCategoriesCommand(),
		r.adminCitiesCommand(),
	)
	return cmd
}

func (r *runner) adminUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage registered users",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List registered users",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.runJSON(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
					return app.Catalog.AdminUsers(ctx)
				})
			},
		},
		r.deleteCommand("user", "Delete an account", func(ctx context.Context, app *bootstrap.App, id int64) error {
			return app.Catalog.DeleteUser(ctx, id)
		}),
	)
	return cmd
}

func (r *runner) adminEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage events in every moderation state",
	}

	var createFlags eventFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish an event without moderation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := createFlags.input()
			return r.runJSON(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
				return app.Catalog.CreateEvent(ctx, in)
			})
		},
	}
	createFlags.bind(create)

	var updateFlags eventFlags
	update := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Replace an event",
		Long: `Replace an event. Every field is sent, so pass the complete event.

Example:
  saarevents admin events update 12 --date 2025-07-01T19:00:00 --category-id 1 \
    --city-id 2 --name "Sommerfest" --description "Open air"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("event-id", args[0])
			if err != nil {
				return err
			}
			in := updateFlags.input()
			return r.runJSON(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
				return app.Catalog.UpdateEvent(ctx, id, in)
			})
		},
	}
	updateFlags.bind(update)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all events including pending and rejected ones",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.runJSON(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
					return app.Catalog.AdminEvents(ctx)
				})
			},
		},
		create,
		update,
		r.deleteCommand("event", "Delete an event", func(ctx context.Context, app *bootstrap.App, id int64) error {
			return app.Catalog.DeleteEvent(ctx, id)
		}),
	)
	return cmd
}

func (r *runner) adminCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage event categories",
	}

	var in model.CategoryInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.runJSON(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
				return app.Catalog.CreateCategory(ctx, in)
			})
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "category name")
	create.Flags().StringVar(&in.Description, "description", "", "category description")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(create,
		r.deleteCommand("category", "Delete a category", func(ctx context.Context, app *bootstrap.App, id int64) error {
			return app.Catalog.DeleteCategory(ctx, id)
		}),
	)
	return cmd
}

func (r *runner) adminCitiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cities",
		Short: "Manage cities",
	}

	var name string
	var lat, lon float64
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a city",
		Long: `Add a city. Coordinates are optional but must be given together.

Example:
  saarevents admin cities create --name Homburg --lat 49.32 --lon 7.34`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := model.CityInput{Name: name}
			if cmd.Flags().Changed("lat") {
				in.Latitude = &lat
			}
			if cmd.Flags().Changed("lon") {
				in.Longitude = &lon
			}
			return r.runJSON(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
				return app.Catalog.CreateCity(ctx, in)
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "city name")
	create.Flags().Float64Var(&lat, "lat", 0, "latitude")
	create.Flags().Float64Var(&lon, "lon", 0, "longitude")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(create,
		r.deleteCommand("city", "Delete a city", func(ctx context.Context, app *bootstrap.App, id int64) error {
			return app.Catalog.DeleteCity(ctx, id)
		}),
	)
	return cmd
}
