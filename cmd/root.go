package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tanq16/splitdl/internal/output"
	"github.com/tanq16/splitdl/internal/utils"
)

var (
	configPath  string
	outputPath  string
	connections int
	threshold   string
	bufferSize  string
	algorithms  string
	progress    string
	timeout     time.Duration
	kaTimeout   time.Duration
	userAgent   string
	proxyURL    string
	headers     []string
	awsProfile  string
	debug       bool
)

var SplitdlVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "splitdl [URL]",
	Short:   "splitdl downloads a file over parallel byte ranges and verifies its checksums",
	Version: SplitdlVersion,
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			output.PrintError(os.Stderr, err.Error())
			os.Exit(1)
		}
		url := ""
		if len(args) > 0 {
			url = args[0]
		} else {
			url, err = readURL(os.Stdin, os.Stderr)
			if err != nil {
				output.PrintError(os.Stderr, err.Error())
				os.Exit(1)
			}
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := runDownload(ctx, cfg, url, os.Stdout); err != nil {
			stop()
			if errors.Is(err, context.Canceled) {
				output.PrintWarning(os.Stderr, "Download interrupted")
			} else {
				output.PrintError(os.Stderr, fmt.Sprintf("Download failed: %v", err))
			}
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	registerFlags(rootCmd)
	rootCmd.AddCommand(newChecksumCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func registerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&algorithms, "algorithms", "md5,sha1", "Comma separated checksum algorithms")
	cmd.PersistentFlags().StringVar(&bufferSize, "buffer-size", "8KB", "Read buffer size (eg. 8KB, 1MB)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (inferred from the URL if not provided)")
	cmd.Flags().IntVarP(&connections, "connections", "c", utils.DefaultWorkers, "Number of parallel range requests")
	cmd.Flags().StringVar(&threshold, "threshold", "16MB", "Largest size downloaded over a single connection")
	cmd.Flags().StringVar(&progress, "progress", output.ProgressLines, "Progress display: lines, bar, auto or none")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 3*time.Minute, "Connection timeout (eg. 5s, 10m)")
	cmd.Flags().DurationVarP(&kaTimeout, "keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for client (eg. 10s, 1m, 80s)")
	cmd.Flags().StringVarP(&userAgent, "user-agent", "a", utils.ToolUserAgent, "User agent")
	cmd.Flags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'Authorization: Basic dXNlcjpwYXNz'); can be specified multiple times")
	cmd.Flags().StringVar(&awsProfile, "aws-profile", "", "AWS profile for s3:// URLs")
}
