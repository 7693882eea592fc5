package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	noProgress   bool
	verbose      bool
	metricsFile  string
	traceName    string
	otlpEndpoint string
	otlpInsecure bool
)

var rootCmd = &cobra.Command{
	Use:   "webpify",
	Short: "webpify - batch convert images to WebP",
	Long: "webpify converts every JPEG, PNG, BMP, TIFF and GIF in a directory to WebP,\n" +
		"optionally flattening transparency onto white, trimming solid borders and scaling down.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file (default $WEBPIFY_CONFIG)")
	flags.BoolVar(&noProgress, "no-progress", false, "disable the live progress view")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log each file to stderr (implies --no-progress)")
	flags.StringVar(&metricsFile, "metrics-file", "", "write batch metrics in Prometheus text format to this file")
	flags.StringVar(&traceName, "trace", "", "trace exporter: none, stdout or otlp")
	flags.StringVar(&otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP collector endpoint (host:port)")
	flags.BoolVar(&otlpInsecure, "otlp-insecure", false, "use plain HTTP for the OTLP exporter")
}
