package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rptrscope/rptrscope/pkg/ingest"
	"github.com/rptrscope/rptrscope/pkg/repeater"
	"github.com/rptrscope/rptrscope/pkg/storage"
	"github.com/rptrscope/rptrscope/pkg/whttp"
)

func main() {
	// Usage: go run *.go -feed "https://utahvhfs.org/rptrraw.txt" -out repeaters.csv

	feedFlag := flag.String("feed", "https://utahvhfs.org/rptrraw.txt", "Raw feed URL")
	outFlag := flag.String("out", "", "Optional export file")

	// Parse the command-line flags
	flag.Parse()

	client, err := whttp.NewClient(whttp.Options{})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	// The listing strategy is used the same way through ingest.ListingSource
	src := &ingest.FeedSource{Client: client, FeedURL: *feedFlag}
	records, stats, err := src.Fetch(context.Background())
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Printf("%d of %d rows retained\n", stats.Retained, stats.Total)

	if err := repeater.PrintRecords(os.Stdout, records, "cfobp", "\t"); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *outFlag != "" {
		if err := storage.Export(records, *outFlag, nil); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
}
