package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pbaille/mindmate/internal/api"
	"github.com/pbaille/mindmate/internal/domain"
	"github.com/pbaille/mindmate/internal/journal"
	"github.com/pbaille/mindmate/internal/metrics"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			collector := metrics.NewCollector("mindmate")
			return withJournal(collector, func(svc *journal.Service) error {
				server := api.New(svc, cfg.Server, collector, logger)
				return server.Run(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8000", "server address (overrides config)")
	return cmd
}

func logCmd() *cobra.Command {
	var (
		intensity  float64
		note       string
		triggers   []string
		activities []string
	)

	cmd := &cobra.Command{
		Use:   "log [emotion]",
		Short: "Record a mood entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := journal.LogRequest{
				UserInput:     note,
				TriggerNames:  triggers,
				ActivityNames: activities,
			}
			if len(args) == 1 {
				req.EmotionName = &args[0]
			}
			if cmd.Flags().Changed("intensity") {
				req.Intensity = &intensity
			}

			return withJournal(nil, func(svc *journal.Service) error {
				res, err := svc.LogMood(req)
				if err != nil {
					return err
				}

				fmt.Printf("Logged %s (%.2f) at %s\n",
					emphasis.Render(res.Entry.EmotionName), res.Entry.Intensity, res.Entry.Timestamp)
				fmt.Printf("Total entries: %d\n\n", res.Total)
				printSuggestions(res.Suggestions)
				return nil
			})
		},
	}

	cmd.Flags().Float64VarP(&intensity, "intensity", "i", journal.DefaultLogIntensity, "intensity, usually 0.0 to 1.0")
	cmd.Flags().StringVarP(&note, "note", "n", "", "free-text note")
	cmd.Flags().StringSliceVarP(&triggers, "trigger", "t", nil, "trigger name (repeatable)")
	cmd.Flags().StringSliceVar(&activities, "activity", nil, "activity name (repeatable)")
	return cmd
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Show mood trends",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(nil, func(svc *journal.Service) error {
				r, err := svc.Analyze()
				if err != nil {
					return err
				}

				fmt.Println(heading.Render("Mood trends"))
				printField("Entries", fmt.Sprint(r.TotalEntries))
				printField("Most common", r.MostCommon)
				printField("Top triggers", joinOrNone(r.TopTriggers))
				printField("Top activities", joinOrNone(r.TopActivities))
				fmt.Println()
				fmt.Println(r.Trend)
				return nil
			})
		},
	}
}

func suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [emotion]",
		Short: "Show self-care suggestions for an emotion",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var emotion *string
			if len(args) == 1 {
				emotion = &args[0]
			}
			return withJournal(nil, func(svc *journal.Service) error {
				res := svc.Suggestions(emotion, nil)
				printSuggestions(res.Suggestions)
				return nil
			})
		},
	}
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all entries as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(nil, func(svc *journal.Service) error {
				exp, err := svc.Export()
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(exp, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal export: %w", err)
				}
				data = append(data, '\n')

				if out == "" || out == "-" {
					_, err = os.Stdout.Write(data)
					return err
				}
				if err := os.WriteFile(out, data, 0644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", exp.TotalEntries, out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import entries from a JSON array or an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			entries, err := decodeImportFile(raw)
			if err != nil {
				return err
			}

			return withJournal(nil, func(svc *journal.Service) error {
				res, err := svc.Import(entries, replace)
				if err != nil {
					return err
				}
				fmt.Println(res.Message)
				fmt.Printf("Total entries: %d\n", res.TotalEntries)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "replace existing entries instead of appending")
	return cmd
}

// decodeImportFile accepts a bare array or an object with a "data" array,
// which is what export writes
func decodeImportFile(raw []byte) ([]domain.MoodEntry, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return journal.DecodeEntries(envelope.Data)
	}
	return journal.DecodeEntries(raw)
}

func deleteCmd() *cobra.Command {
	var (
		all      bool
		index    int
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete all entries, one entry by index, or a timestamp range",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			byIndex := flags.Changed("index")
			byRange := flags.Changed("from") || flags.Changed("to")

			modes := 0
			for _, set := range []bool{all, byIndex, byRange} {
				if set {
					modes++
				}
			}
			if modes != 1 {
				return errors.New("choose exactly one of --all, --index, or --from/--to")
			}

			return withJournal(nil, func(svc *journal.Service) error {
				var (
					res journal.MutationResult
					err error
				)
				switch {
				case all:
					res, err = svc.DeleteAll()
				case byIndex:
					res, err = svc.DeleteAt(index)
				default:
					res, err = svc.DeleteRange(from, to)
				}
				if err != nil {
					return err
				}
				fmt.Println(res.Message)
				fmt.Printf("Total entries: %d\n", res.TotalEntries)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "delete every entry")
	cmd.Flags().IntVar(&index, "index", 0, "delete the entry at this position (0-based)")
	cmd.Flags().StringVar(&from, "from", "", "range start timestamp, inclusive")
	cmd.Flags().StringVar(&to, "to", "", "range end timestamp, inclusive")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(nil, func(svc *journal.Service) error {
				st, err := svc.Stats()
				if err != nil {
					return err
				}

				fmt.Println(heading.Render("Store"))
				printField("Driver", cfg.Storage.Driver)
				printField("Path", cfg.Storage.Path)
				printField("Entries", fmt.Sprint(st.TotalEntries))
				printField("First entry", derefOr(st.FirstEntry, "-"))
				printField("Last entry", derefOr(st.LastEntry, "-"))
				if st.FileExists {
					printField("Size", fmt.Sprintf("%.1f KB", st.FileSizeKB))
				} else {
					printField("Size", "no file yet")
				}
				return nil
			})
		},
	}
}
