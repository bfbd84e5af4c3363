package cmd

import (
	"curvance/core"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "manage market tokens",
}

// market add --address xx --symbol xx --underlying xx [--ctoken]
var marketAddCmd = &cobra.Command{
	Use:   "add",
	Short: "create an unlisted market token record",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		address, _ := cmd.Flags().GetString("address")
		symbol, _ := cmd.Flags().GetString("symbol")
		underlying, _ := cmd.Flags().GetString("underlying")
		isCToken, _ := cmd.Flags().GetBool("ctoken")

		token := &core.MarketToken{
			Address:          address,
			Symbol:           symbol,
			Underlying:       underlying,
			IsCToken:         isCToken,
			InitExchangeRate: decimal.New(1, 0),
			BorrowIndex:      decimal.New(1, 0),
		}

		if err := provideMarketTokenStore(database).Save(ctx, token); err != nil {
			cmd.PrintErrln("save market token error:", err)
			return
		}

		cmd.Println("market token created:", address)
	},
}

// market list --address xx --by admin
var marketListCmd = &cobra.Command{
	Use:   "list",
	Short: "list a market token into the manager",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		address, _ := cmd.Flags().GetString("address")
		by, _ := cmd.Flags().GetString("by")
		if by == "" && len(cfg.Admins) > 0 {
			by = cfg.Admins[0]
		}

		manager := provideMarketManager(database, provideOracleRouter(database))
		if err := manager.ListToken(ctx, by, address); err != nil {
			cmd.PrintErrln("list market token error:", err)
			return
		}

		cmd.Println("market token listed:", address)
	},
}

// market risk --address xx --cr 0.8 ...
var marketRiskCmd = &cobra.Command{
	Use:   "risk",
	Short: "update the risk record of a collateral token",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		address, _ := cmd.Flags().GetString("address")
		by, _ := cmd.Flags().GetString("by")
		if by == "" && len(cfg.Admins) > 0 {
			by = cfg.Admins[0]
		}

		params := core.RiskParams{
			CollateralizationRatio: decimalFlag(cmd, "cr"),
			CollReqSoft:            decimalFlag(cmd, "req-soft"),
			CollReqHard:            decimalFlag(cmd, "req-hard"),
			LiqIncentiveSoft:       decimalFlag(cmd, "inc-soft"),
			LiqIncentiveHard:       decimalFlag(cmd, "inc-hard"),
			LiqFee:                 decimalFlag(cmd, "fee"),
			BaseCFactor:            decimalFlag(cmd, "base-cfactor"),
			CFactorCurve:           decimalFlag(cmd, "cfactor-curve"),
		}

		manager := provideMarketManager(database, provideOracleRouter(database))
		if err := manager.UpdateCollateralToken(ctx, by, address, params); err != nil {
			cmd.PrintErrln("update risk record error:", err)
			return
		}

		cmd.Println("risk record updated:", address)
	},
}

func decimalFlag(cmd *cobra.Command, name string) decimal.Decimal {
	v, _ := cmd.Flags().GetString(name)
	d, _ := decimal.NewFromString(v)
	return d
}

func init() {
	rootCmd.AddCommand(marketCmd)
	marketCmd.AddCommand(marketAddCmd)
	marketCmd.AddCommand(marketListCmd)
	marketCmd.AddCommand(marketRiskCmd)

	marketAddCmd.Flags().String("address", "", "market token address")
	marketAddCmd.Flags().String("symbol", "", "market token symbol")
	marketAddCmd.Flags().String("underlying", "", "underlying asset id")
	marketAddCmd.Flags().Bool("ctoken", false, "collateral token")

	marketListCmd.Flags().String("address", "", "market token address")
	marketListCmd.Flags().String("by", "", "admin address, default the first configured admin")

	marketRiskCmd.Flags().String("address", "", "market token address")
	marketRiskCmd.Flags().String("by", "", "admin address, default the first configured admin")
	marketRiskCmd.Flags().String("cr", "0", "collateralization ratio")
	marketRiskCmd.Flags().String("req-soft", "0", "soft collateral requirement premium")
	marketRiskCmd.Flags().String("req-hard", "0", "hard collateral requirement premium")
	marketRiskCmd.Flags().String("inc-soft", "0", "soft liquidation incentive")
	marketRiskCmd.Flags().String("inc-hard", "0", "hard liquidation incentive")
	marketRiskCmd.Flags().String("fee", "0", "protocol liquidation fee")
	marketRiskCmd.Flags().String("base-cfactor", "0", "base close factor")
	marketRiskCmd.Flags().String("cfactor-curve", "0", "close factor curve")
}
