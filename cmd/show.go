package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rptrscope/rptrscope/pkg/repeater"
	"github.com/rptrscope/rptrscope/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showCmd prints records from the export file.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print repeaters from the export file",
	Long: `Print repeaters from the export file.

Output flags:
  c  call sign
  f  frequency
  o  offset
  b  band name
  l  location
  s  site name
  t  tone (CTCSS in, or listing CTCSS)
  p  position as lat,lon`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFlags, _ := cmd.Flags().GetString("output")
		delimiter, _ := cmd.Flags().GetString("delimiter")
		band, _ := cmd.Flags().GetString("band")

		if err := repeater.ValidateOutputFlags(outputFlags); err != nil {
			return err
		}

		path := viper.GetString("output.path")
		exp, err := storage.Read(path)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no export found at %s, run 'rptrscope scrape' first", path)
		}
		if err != nil {
			return err
		}

		records := exp.Records
		if band != "" {
			var filtered []repeater.Record
			for _, rec := range records {
				if strings.EqualFold(rec.Get(repeater.AttrBandName), band) {
					filtered = append(filtered, rec)
				}
			}
			records = filtered
		}
		return repeater.PrintRecords(os.Stdout, records, outputFlags, delimiter)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringP("output", "o", "cfobl", "Output flags. Supported: c (call), f (frequency), o (offset), b (band), l (location), s (site), t (tone), p (position)")
	showCmd.Flags().StringP("delimiter", "d", " ", "Delimiter character to use for txt output format")
	showCmd.Flags().StringP("band", "b", "", "Only show repeaters in this band (e.g. 2m, 70cm)")
}
