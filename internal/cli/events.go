package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/target/saarevents/internal/bootstrap"
	"github.com/target/saarevents/internal/domain/model"
)

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

func (r *runner) eventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		GroupID: groupEvents,
		Short:   "Browse approved events",
	}

	var filter model.EventFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List events, optionally filtered",
		Long: `List events, optionally filtered.

Examples:
  saarevents events list --city Homburg --category Music
  saarevents events list --search jazz --page 1 --size 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				events, err := app.Catalog.Events(ctx, filter)
				if err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), events)
			})
		},
	}
	list.Flags().StringVar(&filter.CategoryName, "category", "", "category name")
	list.Flags().StringVar(&filter.City, "city", "", "city name")
	list.Flags().StringVar(&filter.Search, "search", "", "free-text search")
	list.Flags().StringVar(&filter.Date, "date", "", "event date (YYYY-MM-DD)")
	list.Flags().IntVar(&filter.Page, "page", 0, "page number")
	list.Flags().IntVar(&filter.Size, "size", 0, "page size")

	show := &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("event-id", args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				ev, err := app.Catalog.Event(ctx, id)
				if err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), ev)
			})
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func (r *runner) categoriesCommand() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:     "categories",
		GroupID: groupEvents,
		Short:   "List event categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				if refresh {
					if err := app.Catalog.RefreshReferenceData(ctx); err != nil {
						return err
					}
				}
				out, err := app.Catalog.Categories(ctx)
				if err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-fetch categories and cities and re-warm the cache")
	return cmd
}

func (r *runner) citiesCommand() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:     "cities",
		GroupID: groupEvents,
		Short:   "List cities with events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				if refresh {
					if err := app.Catalog.RefreshReferenceData(ctx); err != nil {
						return err
					}
				}
				out, err := app.Catalog.Cities(ctx)
				if err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-fetch categories and cities and re-warm the cache")
	return cmd
}

func (r *runner) reviewsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reviews",
		GroupID: groupEvents,
		Short:   "Read and write event reviews",
	}

	list := &cobra.Command{
		Use:   "list <event-id>",
		Short: "List reviews for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("event-id", args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.Catalog.Reviews(ctx, id)
				if err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	var in model.ReviewInput
	create := &cobra.Command{
		Use:   "create <event-id>",
		Short: "Post a review (requires sign-in)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("event-id", args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.Catalog.CreateReview(ctx, id, in)
				if err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	create.Flags().IntVar(&in.Rating, "rating", 0, "rating from 1 to 5")
	create.Flags().StringVar(&in.Comment, "comment", "", "review text")
	_ = create.MarkFlagRequired("rating")

	cmd.AddCommand(list, create)
	return cmd
}

func (r *runner) remindCommand() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:     "remind <event-id>",
		GroupID: groupEvents,
		Short:   "Schedule a reminder e-mail for an event (requires sign-in)",
		Long: `Schedule a reminder e-mail for an event.

Example:
  saarevents remind 12 --at 2025-07-01T09:00:00+02:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("event-id", args[0])
			if err != nil {
				return err
			}
			when, err := time.Parse(time.RFC3339, strings.TrimSpace(at))
			if err != nil {
				return usageError("--at must be an RFC 3339 timestamp: %v", err)
			}
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.Catalog.SetReminder(ctx, id, when)
				if err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "when to send the reminder (RFC 3339)")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

// eventFlags collects the fields of an event body from the command line.
type eventFlags struct {
	date        string
	image       string
	categoryID  int64
	cityID      int64
	locale      string
	name        string
	description string
}

func (f *eventFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "event start (YYYY-MM-DDTHH:MM:SS)")
	cmd.Flags().StringVar(&f.image, "image", "", "image URL")
	cmd.Flags().Int64Var(&f.categoryID, "category-id", 0, "category id")
	cmd.Flags().Int64Var(&f.cityID, "city-id", 0, "city id")
	cmd.Flags().StringVar(&f.locale, "locale", "de", "locale of name and description")
	cmd.Flags().StringVar(&f.name, "name", "", "event name")
	cmd.Flags().StringVar(&f.description, "description", "", "event description")
}

func (f *eventFlags) input() model.CreateEventInput {
	return model.CreateEventInput{
		EventDate:  f.date,
		ImageURL:   f.image,
		CategoryID: f.categoryID,
		CityID:     f.cityID,
		Translations: []model.Translation{{
			Locale:      f.locale,
			Name:        f.name,
			Description: f.description,
		}},
	}
}

func (r *runner) submitCommand() *cobra.Command {
	var f eventFlags
	cmd := &cobra.Command{
		Use:     "submit",
		GroupID: groupEvents,
		Short:   "Submit a new event for moderation (requires sign-in)",
		Long: `Submit a new event. It stays PENDING until an administrator approves it.

Example:
  saarevents submit --date 2025-07-01T19:00:00 --category-id 1 --city-id 2 \
    --name "Sommerfest" --description "Open air"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := f.input()
			return r.withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.Catalog.SubmitEvent(ctx, in)
				if err != nil {
					return err
				}
				return r.printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	f.bind(cmd)
	return cmd
}
