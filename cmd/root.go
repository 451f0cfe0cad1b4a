package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rptrscope/rptrscope/internal/utils"
	"github.com/rptrscope/rptrscope/pkg/ingest"
	"github.com/rptrscope/rptrscope/pkg/whttp"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `                _
 _ __ _ __ | |_ _ __ ___  ___ ___  _ __   ___
| '__| '_ \| __| '__/ __|/ __/ _ \| '_ \ / _ \
| |  | |_) | |_| |  \__ \ (_| (_) | |_) |  __/
|_|  | .__/ \__|_|  |___/\___\___/| .__/ \___|
     |_|                          |_|
`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rptrscope",
	Short: "Utah amateur radio repeater directory scraper.",
	Long: LOGO + `rptrscope collects the Utah VHF Society repeater directory, normalizes it
into one canonical record set and exports it as CSV.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rptrscope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringP("export", "e", "", "Export file path (default utah_repeaters.csv)")

	_ = viper.BindPFlag("http.proxy", rootCmd.PersistentFlags().Lookup("proxy"))
	_ = viper.BindPFlag("output.path", rootCmd.PersistentFlags().Lookup("export"))
}

func setDefaults() {
	viper.SetDefault("source.base_url", "https://utahvhfs.org/")
	viper.SetDefault("source.listing_url", "https://utahvhfs.org/rptr.html")
	viper.SetDefault("source.feed_url", "https://utahvhfs.org/rptrraw.txt")
	viper.SetDefault("scrape.mode", "feed")
	viper.SetDefault("scrape.pace", whttp.MinPace.String())
	viper.SetDefault("http.timeout", whttp.DefaultTimeout.String())
	viper.SetDefault("http.user_agent", whttp.DefaultUserAgent)
	viper.SetDefault("http.proxy", "")
	viper.SetDefault("output.path", "utah_repeaters.csv")
	viper.SetDefault("server.listen", ":8080")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("Error loading .env file: %s\n", err)
	}

	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".rptrscope")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("RPTRSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := filepath.Join(home, ".rptrscope.yaml")
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

func newClient() (*whttp.Client, error) {
	return whttp.NewClient(whttp.Options{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
		Proxy:     viper.GetString("http.proxy"),
	})
}

func newSource(mode string) (ingest.Source, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(mode) {
	case "feed":
		return &ingest.FeedSource{
			Client:  client,
			FeedURL: viper.GetString("source.feed_url"),
			Log:     utils.Log,
		}, nil
	case "listing":
		pace := viper.GetDuration("scrape.pace")
		if pace < whttp.MinPace {
			utils.Log.Warnf("scrape.pace %s is below %s, using %s", pace, whttp.MinPace, whttp.MinPace)
		}
		return &ingest.ListingSource{
			Client:     client,
			Pacer:      whttp.NewPacer(pace),
			ListingURL: viper.GetString("source.listing_url"),
			BaseURL:    viper.GetString("source.base_url"),
			Log:        utils.Log,
		}, nil
	default:
		return nil, fmt.Errorf("unknown scrape mode %q (want feed or listing)", mode)
	}
}

func newCoordinator() (*ingest.Coordinator, error) {
	src, err := newSource(viper.GetString("scrape.mode"))
	if err != nil {
		return nil, err
	}
	return ingest.NewCoordinator(src, viper.GetString("output.path"), utils.Log)
}

func formatAge(t time.Time) string {
	return time.Since(t).Round(time.Second).String()
}
