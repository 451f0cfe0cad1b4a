package cmd

import (
	"github.com/rptrscope/rptrscope/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the repeater data over HTTP",
	Long: `Serve the repeater data over HTTP.

Routes:
  GET  /api/repeaters   records from the export file as JSON (?band= filter)
  POST /api/scrape      start a background scrape (409 while one is running)
  GET  /api/status      in-progress flag and last run outcome
  GET  /api/download    the export file as CSV`,
	RunE: func(cmd *cobra.Command, args []string) error {
		coord, err := newCoordinator()
		if err != nil {
			return err
		}
		defer coord.Wait()

		return server.New(coord).Start(cmd.Context(), viper.GetString("server.listen"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	_ = viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}
