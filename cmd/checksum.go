package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanq16/splitdl/internal/checksum"
	"github.com/tanq16/splitdl/internal/output"
)

func newChecksumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checksum [FILE] [--algorithms md5,sha1]",
		Short: "Compute checksums of a local file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runChecksum(cmd, args[0], os.Stdout); err != nil {
				output.PrintError(os.Stderr, err.Error())
				os.Exit(1)
			}
		},
	}
	return cmd
}

// runChecksum uses the same config layering as a download, limited to the
// algorithm list and buffer size.
func runChecksum(cmd *cobra.Command, path string, stdout io.Writer) error {
	cfg, err := baseConfig()
	if err != nil {
		return err
	}
	if err := applyDigestFlags(cmd, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	digests, err := checksum.ComputeDigests(path, cfg.Algorithms, cfg.BufferSize)
	if err != nil {
		return err
	}
	for i, digest := range digests {
		output.PrintDigest(stdout, i, digest.Algorithm, digest.HexDigest)
	}
	return nil
}
