package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hearthside-group/prequal-cli/internal/model"
	"github.com/hearthside-group/prequal-cli/internal/store"
)

var (
	leadsStatus string
	leadsEmail  string
	leadsLimit  int
	leadsOffset int
	leadsJSON   bool
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List stored pre-approval leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		filter := store.LeadFilter{
			Status: model.PreApprovalStatus(leadsStatus),
			Email:  leadsEmail,
			Limit:  leadsLimit,
			Offset: leadsOffset,
		}
		leads, err := st.ListLeads(ctx, filter)
		if err != nil {
			return err
		}

		if leadsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(leads)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tSTATUS\tMAX PRICE\tCREATED")
		for _, l := range leads {
			status := "pending"
			maxPrice := "-"
			if l.Result != nil {
				status = string(l.Result.Status)
				if l.Result.Status == model.StatusApproved {
					maxPrice = fmtUSD(l.Result.MaxPurchasePrice)
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				l.ID, l.Email, status, maxPrice, l.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	leadsCmd.Flags().StringVar(&leadsStatus, "status", "", "filter by status (APPROVED, DECLINED)")
	leadsCmd.Flags().StringVar(&leadsEmail, "email", "", "filter by email")
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 0, "max leads to list (default 100)")
	leadsCmd.Flags().IntVar(&leadsOffset, "offset", 0, "pagination offset")
	leadsCmd.Flags().BoolVar(&leadsJSON, "json", false, "print leads as JSON")
	rootCmd.AddCommand(leadsCmd)
}
