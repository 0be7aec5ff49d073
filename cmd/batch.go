package main

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hearthside-group/prequal-cli/internal/model"
	"github.com/hearthside-group/prequal-cli/internal/mortgage"
	"github.com/hearthside-group/prequal-cli/internal/notify"
	"github.com/hearthside-group/prequal-cli/internal/preapproval"
	"github.com/hearthside-group/prequal-cli/internal/store"
)

var (
	batchCSV         string
	batchLimit       int
	batchConcurrency int
	batchDryRun      bool
	batchOutput      string
	batchSave        bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run pre-approvals for a CSV of leads",
	Long: `Reads a lead-export CSV and runs the pre-approval engine for each
lead concurrently.

Examples:
  # Dry run - parse CSV only, no engine
  prequal batch --csv leads.csv --dry-run

  # Process and persist all leads
  prequal batch --csv leads.csv --save

  # First 10 leads, results to file
  prequal batch --csv leads.csv --limit 10 --output results.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		leads, err := preapproval.ParseLeadsCSV(batchCSV)
		if err != nil {
			return eris.Wrap(err, "batch: parse csv")
		}
		zap.L().Info("batch: parsed csv", zap.Int("leads", len(leads)))

		if batchLimit > 0 && batchLimit < len(leads) {
			leads = leads[:batchLimit]
		}

		if batchDryRun {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(leads)
		}

		rates, err := loadRates()
		if err != nil {
			return err
		}
		engine := preapproval.NewEngine(cfg.Engine)

		var st store.Store
		if batchSave {
			if st, err = initStore(ctx); err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}
		notifier := notify.NewNotifier(cfg.Webhook)

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrentLeads
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		var mu sync.Mutex
		var results []model.Lead
		var approved, declined, failed atomic.Int64

		for _, raw := range leads {
			g.Go(func() error {
				profile, normErr := preapproval.Normalize(raw)
				if normErr != nil {
					failed.Add(1)
					zap.L().Error("batch: lead rejected",
						zap.String("email", raw.Email),
						zap.Error(normErr),
					)
					return nil // don't abort batch on individual failure
				}

				policy := mortgage.DerivePolicy(profile, cfg.Engine, rates)
				result, calcErr := engine.Calculate(profile, policy)
				if calcErr != nil {
					failed.Add(1)
					zap.L().Error("batch: lead failed",
						zap.String("email", raw.Email),
						zap.Error(calcErr),
					)
					return nil
				}

				if result.Status == model.StatusApproved {
					approved.Add(1)
				} else {
					declined.Add(1)
				}

				lead := model.Lead{
					Name:    raw.Name,
					Email:   raw.Email,
					Phone:   raw.Phone,
					Profile: profile,
					Result:  result,
				}

				if st != nil {
					created, saveErr := st.CreateLead(gCtx, lead)
					if saveErr != nil {
						zap.L().Error("batch: save lead failed",
							zap.String("email", raw.Email),
							zap.Error(saveErr),
						)
					} else {
						lead = *created
						if notifier.Enabled() {
							if notifyErr := notifier.NotifyPreApproval(gCtx, created); notifyErr != nil {
								zap.L().Error("batch: webhook notify failed",
									zap.String("lead_id", created.ID),
									zap.Error(notifyErr),
								)
							}
						}
					}
				}

				mu.Lock()
				results = append(results, lead)
				mu.Unlock()
				return nil
			})
		}

		_ = g.Wait()

		zap.L().Info("batch: complete",
			zap.Int("total", len(leads)),
			zap.Int64("approved", approved.Load()),
			zap.Int64("declined", declined.Load()),
			zap.Int64("failed", failed.Load()),
		)

		return writeBatchResults(results)
	},
}

// writeBatchResults writes results to the output file or stdout.
func writeBatchResults(results []model.Lead) error {
	var w *os.File
	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return eris.Wrap(err, "batch: create output file")
		}
		defer f.Close() //nolint:errcheck
		w = f
	} else {
		w = os.Stdout
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func init() {
	batchCmd.Flags().StringVar(&batchCSV, "csv", "", "path to lead CSV file (required)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max leads to process (0 = all)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max leads to process concurrently (default from config)")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "parse CSV and print leads, skip engine")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write results JSON to file (default: stdout)")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist each lead and result")
	_ = batchCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(batchCmd)
}
