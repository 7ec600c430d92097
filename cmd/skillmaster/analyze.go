package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zen-systems/skillmaster/pkg/adapter"
	"github.com/zen-systems/skillmaster/pkg/evidence"
	"github.com/zen-systems/skillmaster/pkg/report"
	"github.com/zen-systems/skillmaster/pkg/server"
	"github.com/zen-systems/skillmaster/pkg/stages"
	"github.com/zen-systems/skillmaster/pkg/workflow"
)

func analyzeCmd() *cobra.Command {
	var levelFlag string
	var outFlag string
	var saveFlag bool
	var evidenceDir string

	cmd := &cobra.Command{
		Use:   "analyze [skill]",
		Short: "Analyze a skill and print the results",
		Long: `Runs the skill analysis workflow once and prints a summary.

	--level accepts beginner, intermediate or advanced, or 1, 2 or 3.
	--save writes the full JSON result to skillmaster_<skill>.json, or to the
	path given with --out. --evidence-dir records per-stage outcomes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skill := strings.TrimSpace(args[0])
			if skill == "" {
				return fmt.Errorf("skill name must not be empty")
			}

			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			opts, err := stageOptions(cfg)
			if err != nil {
				return err
			}
			gateway, err := gatewayFactory(cfg, log)()
			if err != nil {
				return err
			}
			meter := adapter.NewMeter(gateway)

			level := workflow.ParseLevel(levelFlag)
			pipe := stages.NewPipeline(meter, opts)
			out := cmd.OutOrStdout()

			observers := []workflow.Observer{progress(out, len(pipe.Stages()))}

			var ev *evidence.Writer
			if evidenceDir != "" {
				runID := uuid.NewString()
				ev, err = evidence.NewWriter(evidenceDir, runID)
				if err != nil {
					return fmt.Errorf("failed to create evidence writer: %w", err)
				}
				if err := ev.WriteRun(evidence.RunRecord{
					ID:        runID,
					Timestamp: time.Now().UTC(),
					Pipeline:  pipe.Name(),
					SkillName: skill,
					Level:     string(level),
					Provider:  cfg.Provider,
					Model:     opts.Model,
					Stages:    pipe.Stages(),
					Versions:  map[string]string{"skillmaster": server.Version},
				}); err != nil {
					return err
				}
				observers = append(observers, ev.Observe)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			fmt.Fprintf(out, "Analyzing %q at %s level...\n", skill, level)
			final, runErr := pipe.Run(ctx, workflow.NewContext(skill, level), observers...)

			if ev != nil {
				if err := ev.WriteUsage(evidence.UsageReport{Total: meter.Total(), Calls: meter.Calls()}); err != nil {
					log.Warn("write usage", "error", err.Error())
				}
				if err := ev.Err(); err != nil {
					log.Warn("evidence incomplete", "dir", ev.RunDir(), "error", err.Error())
				}
				fmt.Fprintf(out, "Evidence written to %s\n", ev.RunDir())
			}
			if runErr != nil {
				return fmt.Errorf("analysis failed: %w", runErr)
			}

			if err := report.Render(out, final); err != nil {
				return err
			}
			if total := meter.Total(); total.TotalTokens > 0 {
				fmt.Fprintf(out, "\nTokens used: %d (prompt %d, completion %d)\n", total.TotalTokens, total.PromptTokens, total.CompletionTokens)
			}

			resp, err := report.Assemble(final, cfg.Catalog)
			if err != nil {
				return err
			}
			if ev != nil {
				if err := ev.WriteResult(resp); err != nil {
					return err
				}
			}
			if saveFlag || outFlag != "" {
				path := outFlag
				if path == "" {
					path = defaultSavePath(skill)
				}
				if err := saveJSON(path, resp); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nResults saved to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&levelFlag, "level", "l", "beginner", "proficiency level (beginner, intermediate, advanced or 1-3)")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "write the JSON result to this path")
	cmd.Flags().BoolVar(&saveFlag, "save", false, "save the JSON result next to the working directory")
	cmd.Flags().StringVar(&evidenceDir, "evidence-dir", "", "evidence output base directory")
	return cmd
}

func progress(w io.Writer, total int) workflow.Observer {
	return func(e workflow.Event) {
		switch e.Status {
		case workflow.StatusRunning:
			fmt.Fprintf(w, "[%d/%d] %s...\n", e.Index+1, total, e.Stage)
		case workflow.StatusCompleted:
			fmt.Fprintf(w, "      done in %s\n", e.Duration.Round(time.Millisecond))
		case workflow.StatusFailed:
			fmt.Fprintf(w, "      failed: %v\n", e.Err)
		}
	}
}

// defaultSavePath names the --save file after the skill, keeping only
// characters that are safe in a single path element.
func defaultSavePath(skill string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(skill)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '+', r == '-', r == '#':
			b.WriteRune(r)
			underscore = false
		case !underscore && b.Len() > 0:
			b.WriteByte('_')
			underscore = true
		}
	}
	name := strings.TrimSuffix(b.String(), "_")
	if name == "" {
		name = "skill"
	}
	return fmt.Sprintf("skillmaster_%s.json", name)
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
