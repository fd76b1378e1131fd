package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"survival-coach/internal/models"
)

const commandTimeout = 30 * time.Second

// addTradeCommands adds trade journal commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Trade journal management",
		Long:  "Record trade entries and exits for coaching analysis.",
	}

	cmd.AddCommand(newTradeOpenCmd(app))
	cmd.AddCommand(newTradeCloseCmd(app))
	cmd.AddCommand(newTradeListCmd(app))

	rootCmd.AddCommand(cmd)
}

func newTradeOpenCmd(app *App) *cobra.Command {
	var (
		direction string
		entry     float64
		size      float64
		reasoning string
		decision  string
	)

	cmd := &cobra.Command{
		Use:   "open <asset>",
		Short: "Record a new trade entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			dir := models.DirectionBuy
			if strings.EqualFold(direction, "sell") {
				dir = models.DirectionSell
			}

			trade, err := app.Session.OpenTrade(ctx, args[0], dir, entry, size, reasoning,
				models.Decision(strings.ToUpper(decision)))
			if err != nil {
				output.Error("Failed to open trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}

			output.Success("Trade recorded: %s %s @ %s", trade.Direction, trade.Asset, FormatCurrency(trade.EntryPrice))
			output.Dim("id: %s", trade.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "buy", "Trade direction: buy or sell")
	cmd.Flags().Float64VarP(&entry, "entry", "e", 0, "Entry price")
	cmd.Flags().Float64VarP(&size, "size", "s", 0, "Position size in currency units")
	cmd.Flags().StringVarP(&reasoning, "reason", "r", "", "Reason for entering the trade")
	cmd.Flags().StringVar(&decision, "decision", "ALLOW", "Pre-trade gate verdict: ALLOW, WARN, BLOCK")

	return cmd
}

func newTradeCloseCmd(app *App) *cobra.Command {
	var pnl float64

	cmd := &cobra.Command{
		Use:   "close <trade-id>",
		Short: "Close a trade with its realized P&L",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := app.Session.CloseTrade(ctx, args[0], pnl); err != nil {
				output.Error("Failed to close trade: %v", err)
				return err
			}

			output.Success("Trade closed with P&L %s", output.FormatPnL(pnl))
			output.Dim("Run 'coach reflect %s' to complete your process reflection.", args[0])
			return nil
		},
	}

	cmd.Flags().Float64VarP(&pnl, "pnl", "p", 0, "Realized profit or loss")

	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)

			trades := app.Session.Trades()
			if limit > 0 && len(trades) > limit {
				trades = trades[:limit]
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				output.Info("No trades recorded yet.")
				return nil
			}

			table := NewTable(output, "Time", "Asset", "Side", "Size", "P&L", "Status", "Process")
			for _, t := range trades {
				process := "-"
				if t.ProcessEvaluation != nil {
					process = output.FormatScore(t.ProcessEvaluation.TotalProcessScore)
				}
				table.AddRow(
					output.FormatDate(t.Timestamp),
					t.Asset,
					string(t.Direction),
					FormatCurrency(t.PositionSize),
					output.FormatPnL(t.PnL),
					string(t.Status),
					process,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of trades to show")

	return cmd
}
