package cmd

import (
	"fmt"

	"github.com/rptrscope/rptrscope/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// scrapeCmd runs one ingestion pass and rewrites the export file.
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the repeater directory and rewrite the export file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command: '%s'. See 'rptrscope scrape --help'", args[0])
		}

		coord, err := newCoordinator()
		if err != nil {
			return err
		}

		utils.Log.Infof("Scraping in %s mode", viper.GetString("scrape.mode"))
		count, err := coord.RunIngestion(cmd.Context())
		if err != nil {
			return fmt.Errorf("scrape failed: %w", err)
		}

		if last := coord.Status().Last; last != nil {
			s := last.Stats
			fmt.Printf("Processed %d entries: %d retained, %d discarded, %d malformed\n", s.Total, s.Retained, s.Discarded, s.Malformed)
			if s.DetailFetched+s.DetailFailed > 0 {
				fmt.Printf("Detail pages: %d fetched, %d failed\n", s.DetailFetched, s.DetailFailed)
			}
		}
		if count == 0 {
			fmt.Println("No repeater data retrieved, export left unchanged.")
			return nil
		}
		fmt.Printf("Saved %d repeaters to %s\n", count, viper.GetString("output.path"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.Flags().StringP("mode", "m", "feed", "Ingestion strategy: feed or listing")
	scrapeCmd.Flags().Duration("pace", 0, "Delay between detail-page requests in listing mode (minimum 500ms)")
	_ = viper.BindPFlag("scrape.mode", scrapeCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("scrape.pace", scrapeCmd.Flags().Lookup("pace"))
}
