package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/newsdigest/digestsync/client"
	"github.com/newsdigest/digestsync/cmd/digestctl/internal/config"
)

var (
	apiURL string
	userID string
	debug  bool

	cfg *config.Config
)

const commandTimeout = 30 * time.Second

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Stack().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "digestctl",
		Short:         "Inspect and drive the news digest state (date, profile, topics)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.New()
			if err != nil {
				return err
			}
			if apiURL != "" {
				loaded.APIURL = apiURL
			}
			if userID != "" {
				loaded.UserID = userID
			}
			loaded.Init()
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			}
			cfg = loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Base URL of the digest backend (default $DIGEST_API_URL)")
	rootCmd.PersistentFlags().StringVar(&userID, "user-id", "", "User id (default $DIGEST_USER_ID)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newDateCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newVisitCmd())
	rootCmd.AddCommand(newSummarizeCmd())

	return rootCmd
}

// clientOptions maps the loaded config and flags onto SDK options.
func clientOptions() []client.Option {
	opts := []client.Option{client.WithHTTPTimeout(cfg.HTTPTimeout), client.WithRequestIDs()}
	if debug {
		opts = append(opts, client.WithDebugLogging(true))
	}
	return opts
}

// withSession runs fn against a fresh session and flushes pending writes
// before returning.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *client.Session) error) error {
	c, err := client.New(cfg.APIURL, clientOptions()...)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	s := client.NewSession(c, cfg.Profile())
	start := time.Now()
	runErr := fn(ctx, s)
	if err := s.Close(ctx); err != nil && runErr == nil {
		runErr = err
	}
	log.Debug().Str("command", cmd.CommandPath()).Dur("elapsed", time.Since(start)).Msg("command completed")
	return runErr
}

// ------------------------- date -------------------------

func newDateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "date", Short: "Read or move the simulated reference date"}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the reference date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				if err := s.Clock.Fetch(ctx); err != nil {
					return err
				}
				return printDate(cmd.OutOrStdout(), s.Clock)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <date>",
		Short: "Set the reference date (ISO-8601 or YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := client.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", args[0], err)
			}
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				// a failed fetch only means Set cannot skip an unchanged value
				_ = s.Clock.Fetch(ctx)
				if err := s.Clock.Set(ctx, t); err != nil {
					return err
				}
				return printDate(cmd.OutOrStdout(), s.Clock)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "advance <duration>",
		Short: "Move the reference date by a duration such as 7d or -36h",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseStep(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				if err := s.Clock.Fetch(ctx); err != nil {
					return err
				}
				if err := s.Clock.Advance(ctx, d); err != nil {
					return err
				}
				return printDate(cmd.OutOrStdout(), s.Clock)
			})
		},
	})
	return cmd
}

func printDate(w io.Writer, clock *client.ReferenceClock) error {
	now, ok := clock.Now()
	if !ok {
		return client.ErrNoReferenceDate
	}
	_, err := fmt.Fprintln(w, client.FormatDate(now))
	return err
}

// parseStep accepts Go durations plus a whole-day suffix ("7d").
func parseStep(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

// ------------------------- profile -------------------------

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "profile", Short: "Show or edit the user profile"}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Load (creating if absent) and print the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				if err := s.Profile.Load(ctx); err != nil {
					return err
				}
				printProfile(cmd.OutOrStdout(), s.Profile.Snapshot())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-level <name|index>",
		Short: "Change the comprehension level (Beginner, Intermediate, Expert or 0-2)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevelArg(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				if err := s.Profile.Load(ctx); err != nil {
					return err
				}
				if err := s.Profile.SetLevel(ctx, level); err != nil {
					return err
				}
				printProfile(cmd.OutOrStdout(), s.Profile.Snapshot())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <name>",
		Short: "Change the display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				if err := s.Profile.Load(ctx); err != nil {
					return err
				}
				if err := s.Profile.SetDisplayName(ctx, args[0]); err != nil {
					return err
				}
				printProfile(cmd.OutOrStdout(), s.Profile.Snapshot())
				return nil
			})
		},
	})
	return cmd
}

func parseLevelArg(s string) (client.Level, error) {
	if i, err := strconv.Atoi(s); err == nil {
		return client.LevelFromIndex(i)
	}
	return client.ParseLevel(s)
}

func printProfile(w io.Writer, p client.UserProfile) {
	fmt.Fprintf(w, "id:        %s\n", p.ID)
	fmt.Fprintf(w, "name:      %s\n", p.DisplayName)
	fmt.Fprintf(w, "level:     %s (%d)\n", p.Level, p.Level.Index())
	fmt.Fprintf(w, "joined:    %s\n", p.JoinDate.Format("2006-01-02"))
	for _, in := range p.Interests {
		fmt.Fprintf(w, "interest:  %s [%s]\n", in.Topic, in.Level)
	}
}

// ------------------------- topics -------------------------

func newVisitCmd() *cobra.Command {
	var levelArg string
	cmd := &cobra.Command{
		Use:   "visit <topic>",
		Short: "Open a topic: record history and list articles up to the reference date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevelArg(levelArg)
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				if err := s.Start(ctx); err != nil {
					return err
				}
				visit := s.VisitTopic(ctx, args[0], level)
				printVisit(cmd.OutOrStdout(), visit)
				return visit.Err()
			})
		},
	}
	cmd.Flags().StringVar(&levelArg, "level", "Intermediate", "Comprehension level for the topic")
	return cmd
}

func newSummarizeCmd() *cobra.Command {
	var levelArg string
	cmd := &cobra.Command{
		Use:   "summarize <topic>",
		Short: "Visit a topic and summarize its articles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevelArg(levelArg)
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *client.Session) error {
				if err := s.Start(ctx); err != nil {
					return err
				}
				visit := s.VisitTopic(ctx, args[0], level)
				if visit.ArticlesErr != nil {
					return visit.ArticlesErr
				}
				summary, err := s.Summarize(ctx, visit.Articles)
				if client.IsSkipped(err) {
					fmt.Fprintln(cmd.OutOrStdout(), "no article summaries to combine")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), summary.Text)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&levelArg, "level", "Intermediate", "Comprehension level for the topic")
	return cmd
}

func printVisit(w io.Writer, v client.TopicVisit) {
	switch {
	case v.HistoryErr != nil:
		fmt.Fprintf(w, "history:   unavailable (%v)\n", v.HistoryErr)
	case v.History.Initialized:
		fmt.Fprintln(w, "history:   first visit, record created")
	default:
		fmt.Fprintln(w, "history:   record updated")
	}
	fmt.Fprintf(w, "articles:  %d\n", len(v.Articles))
	for _, a := range v.Articles {
		date := "undated"
		if !a.PublishDate.IsZero() {
			date = a.PublishDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "  - %s  %s\n    %s\n", date, a.Title, a.URL)
	}
}
