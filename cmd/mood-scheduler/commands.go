package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"mood-scheduler/internal/config"
	"mood-scheduler/internal/database"
	"mood-scheduler/internal/history"
	"mood-scheduler/internal/mentor"
	"mood-scheduler/internal/metrics"
	"mood-scheduler/internal/mood"
	"mood-scheduler/internal/parse"
	"mood-scheduler/internal/render"
	"mood-scheduler/internal/schedule"

	"github.com/spf13/cobra"
)

// The CLI runs single-user against the local database.
const localUserID = "local"

// runtime holds everything a subcommand needs, built once per invocation.
type runtime struct {
	cfg          *config.Config
	prefs        config.Preferences
	db           *database.DB
	historyRepo  *history.Repository
	metricsStore *metrics.Store
	client       mentor.Client
}

func newRuntime() (*runtime, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, err
	}
	prefs, err := config.LoadPreferences(cfg.PreferencesPath)
	if err != nil {
		return nil, err
	}
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	metricsStore := metrics.NewStore(db.SQL)
	return &runtime{
		cfg:          cfg,
		prefs:        prefs,
		db:           db,
		historyRepo:  history.NewRepository(db.SQL),
		metricsStore: metricsStore,
		client:       mentor.NewClient(cfg, metricsStore),
	}, nil
}

func (rt *runtime) close() {
	if rt.db != nil {
		rt.db.Close()
	}
}

// latestSchedule loads the most recent schedule result and normalizes it.
func (rt *runtime) latestSchedule(ctx context.Context) (*schedule.Envelope, *schedule.View, error) {
	var env schedule.Envelope
	found, err := rt.historyRepo.LatestInto(ctx, localUserID, history.KindSchedule, &env)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, nil
	}
	view, ok := schedule.Normalize(&env)
	if !ok {
		return &env, nil, nil
	}
	return &env, view, nil
}

func (rt *runtime) latestMood(ctx context.Context) (*mood.Analysis, error) {
	var analysis mood.Analysis
	found, err := rt.historyRepo.LatestInto(ctx, localUserID, history.KindMood, &analysis)
	if err != nil || !found {
		return nil, err
	}
	return &analysis, nil
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mood-scheduler",
		Short:         "Mood-driven daily scheduling from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		moodCmd(),
		planCmd(),
		customCmd(),
		scheduleCmd(),
		adjustCmd(),
		nutritionCmd(),
		historyCmd(),
		metricsCmd(),
		statusCmd(),
	)
	return root
}

func moodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mood <text>",
		Short: "Analyze how you're feeling",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()
			ctx := cmd.Context()

			analysis, err := rt.client.AnalyzeMood(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := rt.historyRepo.Save(ctx, localUserID, history.KindMood, analysis); err != nil {
				config.Logger.Warnf("Failed to save mood analysis: %v", err)
			}
			fmt.Println(render.Mood(analysis))
			return nil
		},
	}
}

func planCmd() *cobra.Command {
	var moodText string
	var goals []string
	var eventSpecs []string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a schedule around your mood and goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()
			ctx := cmd.Context()

			env, err := rt.client.CreateSchedule(ctx, mentor.ScheduleRequest{
				MoodText:       moodText,
				DailyGoals:     goals,
				CalendarEvents: parse.Events(eventSpecs),
				Preferences:    &rt.prefs,
			})
			if err != nil {
				return err
			}
			if err := rt.historyRepo.Save(ctx, localUserID, history.KindSchedule, env); err != nil {
				config.Logger.Warnf("Failed to save schedule: %v", err)
			}

			view, ok := schedule.Normalize(env)
			if !ok {
				fmt.Println(render.NoSchedule())
				return nil
			}
			fmt.Println(render.Schedule(view, nil))
			return nil
		},
	}
	cmd.Flags().StringVar(&moodText, "mood", "", "how you're feeling")
	cmd.Flags().StringArrayVar(&goals, "goal", nil, "daily goal (repeatable)")
	cmd.Flags().StringArrayVar(&eventSpecs, "event", nil, `calendar event as "title|start|end[|flexible]" (repeatable)`)
	cmd.MarkFlagRequired("mood")
	return cmd
}

func customCmd() *cobra.Command {
	var taskSpecs []string
	var timeRange string
	var moodText string

	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Build a schedule around explicit tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := parse.Tasks(taskSpecs)
			if len(tasks) == 0 {
				return fmt.Errorf("at least one --task is required, in the form \"name|minutes|priority\"")
			}

			var tr *mentor.TimeRange
			if timeRange != "" {
				tr = parse.TimeRange(timeRange)
				if tr == nil {
					return fmt.Errorf("invalid --range %q, expected HH:MM-HH:MM", timeRange)
				}
			}

			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()
			ctx := cmd.Context()

			env, err := rt.client.CreateCustomSchedule(ctx, mentor.CustomScheduleRequest{
				Tasks:           tasks,
				TimeRange:       tr,
				UserPreferences: &rt.prefs,
				MoodText:        moodText,
			})
			if err != nil {
				return err
			}
			if err := rt.historyRepo.Save(ctx, localUserID, history.KindSchedule, env); err != nil {
				config.Logger.Warnf("Failed to save schedule: %v", err)
			}

			view, ok := schedule.Normalize(env)
			if !ok {
				fmt.Println(render.NoSchedule())
				return nil
			}
			fmt.Println(render.Schedule(view, nil))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&taskSpecs, "task", nil, `task as "name|minutes|priority" (repeatable)`)
	cmd.Flags().StringVar(&timeRange, "range", "", "time window as HH:MM-HH:MM")
	cmd.Flags().StringVar(&moodText, "mood", "", "optional mood text to shape the plan")
	return cmd
}

func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Show the most recent schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			_, view, err := rt.latestSchedule(cmd.Context())
			if err != nil {
				return err
			}
			if view == nil {
				fmt.Println(render.NoSchedule())
				return nil
			}
			fmt.Println(render.Schedule(view, nil))
			return nil
		},
	}
}

func adjustCmd() *cobra.Command {
	var moodText string
	var done []string
	var eventSpecs []string

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Re-plan the rest of the day",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()
			ctx := cmd.Context()

			_, view, err := rt.latestSchedule(ctx)
			if err != nil {
				return err
			}

			completions := schedule.NewCompletionSet()
			for _, name := range done {
				if !completions.IsCompleted(name) {
					completions.Toggle(name)
				}
			}

			req, err := schedule.BuildAdjustmentRequest(view, moodText, completions, parse.Events(eventSpecs))
			if err != nil {
				switch err {
				case schedule.ErrNoSchedule:
					fmt.Println(render.NoSchedule())
					return nil
				case schedule.ErrBlankMood:
					return fmt.Errorf("--mood must not be blank")
				}
				return err
			}

			env, err := rt.client.AdjustSchedule(ctx, *req)
			if err != nil {
				return err
			}
			if err := rt.historyRepo.Save(ctx, localUserID, history.KindSchedule, env); err != nil {
				config.Logger.Warnf("Failed to save adjusted schedule: %v", err)
			}

			// Completion marks carry over to the adjusted schedule.
			adjusted, ok := schedule.Normalize(env)
			if !ok {
				fmt.Println(render.NoSchedule())
				return nil
			}
			fmt.Println(render.Schedule(adjusted, completions))
			return nil
		},
	}
	cmd.Flags().StringVar(&moodText, "mood", "", "how you're feeling now")
	cmd.Flags().StringArrayVar(&done, "done", nil, "completed activity name (repeatable)")
	cmd.Flags().StringArrayVar(&eventSpecs, "event", nil, `new event as "title|start|end[|flexible]" (repeatable)`)
	cmd.MarkFlagRequired("mood")
	return cmd
}

func nutritionCmd() *cobra.Command {
	var conditions, diets, allergies []string
	var goals string

	cmd := &cobra.Command{
		Use:   "nutrition",
		Short: "One-day meal plan from your last mood analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()
			ctx := cmd.Context()

			analysis, err := rt.latestMood(ctx)
			if err != nil {
				return err
			}
			if analysis == nil {
				return fmt.Errorf("no mood analysis yet, run `mood-scheduler mood` first")
			}

			plan, err := rt.client.NutritionPlan(ctx, mentor.NutritionRequest{
				MoodData:           analysis,
				MedicalConditions:  conditions,
				DietaryPreferences: diets,
				Allergies:          allergies,
				Goals:              goals,
			})
			if err != nil {
				return err
			}
			if err := rt.historyRepo.Save(ctx, localUserID, history.KindNutrition, plan); err != nil {
				config.Logger.Warnf("Failed to save nutrition plan: %v", err)
			}
			fmt.Println(render.Nutrition(plan))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&conditions, "condition", nil, "medical condition (repeatable)")
	cmd.Flags().StringSliceVar(&diets, "diet", nil, "dietary preference (repeatable)")
	cmd.Flags().StringSliceVar(&allergies, "allergy", nil, "allergy (repeatable)")
	cmd.Flags().StringVar(&goals, "goals", "", "what the plan should optimize for")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int
	var kind string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent results",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			entries, err := rt.historyRepo.ListRecent(cmd.Context(), localUserID, kind, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No results yet.")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%-10s %s\n", e.Kind, e.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum entries to show")
	cmd.Flags().StringVar(&kind, "kind", "", "filter by kind (mood, schedule, nutrition)")
	return cmd
}

func metricsCmd() *cobra.Command {
	var days int
	var cleanupDays int

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show service call usage and local health",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			if cleanupDays > 0 {
				deleted, err := rt.metricsStore.Cleanup(cleanupDays)
				if err != nil {
					return fmt.Errorf("failed to clean up metrics: %w", err)
				}
				fmt.Printf("Deleted %d metric rows older than %d days.\n", deleted, cleanupDays)
			}

			usage, err := rt.metricsStore.GetDailyUsage(days)
			if err != nil {
				return err
			}
			if len(usage) == 0 {
				fmt.Println("No call data yet.")
			}
			for _, d := range usage {
				fmt.Printf("%s  %3d calls  %2d failed  avg %dms\n",
					d.Date, d.TotalCalls, d.FailedCalls, d.AvgLatencyMS)
			}

			health := metrics.GetSysHealth(filepath.Dir(rt.cfg.DatabasePath))
			fmt.Printf("\nRAM %s alloc / %s sys, %d goroutines, data %s\n",
				health.Alloc, health.Sys, health.Goroutines, health.DataSize)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "days of usage to report")
	cmd.Flags().IntVar(&cleanupDays, "cleanup-days", 0, "delete metric rows older than this many days before reporting")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the scheduling service is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.client.Status(cmd.Context()); err != nil {
				return fmt.Errorf("service unreachable: %w", err)
			}
			fmt.Println("Service is up.")
			return nil
		},
	}
}
