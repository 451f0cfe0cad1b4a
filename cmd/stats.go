package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rptrscope/rptrscope/internal/utils"
	"github.com/rptrscope/rptrscope/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints summary statistics about the exported repeaters.",
	Long:  "Prints summary statistics about the exported repeaters: counts by band, active state and coordinate coverage.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("output.path")
		exp, err := storage.Read(path)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("export file not found: %s", path)
			}
			return err
		}

		if len(exp.Records) == 0 {
			fmt.Println("No data in the export file to generate stats.")
			return nil
		}

		s := storage.Summarize(exp.Records)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "BAND\tREPEATERS\t")
		for _, band := range utils.SortedKeys(s.ByBand) {
			fmt.Fprintf(w, "%s\t%d\t\n", band, s.ByBand[band])
		}

		fmt.Fprintln(w, " \t \t")
		fmt.Fprintf(w, "Active (Y)\t%d\t\n", s.Active)
		fmt.Fprintf(w, "Temporarily off air (T)\t%d\t\n", s.OffAir)
		fmt.Fprintf(w, "With coordinates\t%d (%s%%)\t\n", s.WithPosition, utils.Percent(s.WithPosition, s.Total))

		fmt.Fprintln(w, " \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t\n", s.Total)

		w.Flush()

		fmt.Printf("\nSchema %s, updated %s ago\n", exp.SchemaVersion, formatAge(exp.LastModified))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
