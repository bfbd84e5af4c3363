package cmd

import (
	"context"

	"curvance/worker"
	"curvance/worker/keeper"
	"curvance/worker/pricesync"

	"github.com/drone/signal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "curvance job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		ctx = signal.WithContext(ctx)

		database := provideDatabase()
		defer database.Close()

		oracleRouter := provideOracleRouter(database)

		workers := []worker.Worker{
			keeper.New(
				provideSystem(),
				provideMarketTokenStore(database),
				providePositionStore(database),
				provideAccountService(database, oracleRouter),
				provideMarketTokenService(),
				provideLiquidationService(database, oracleRouter),
			),
		}

		priceSync := pricesync.New(
			provideConfig(),
			provideMarketTokenStore(database),
			providePriceStore(database),
			provideFeedAdaptor(),
			provideStoredAdaptor(database),
		)
		priceSync.Start()
		defer priceSync.Stop()

		g, ctx := errgroup.WithContext(ctx)
		for _, w := range workers {
			w := w
			g.Go(func() error {
				return w.Run(ctx)
			})
		}

		if err := g.Wait(); err != nil && err != context.Canceled {
			cmd.PrintErrln("worker aborted:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
