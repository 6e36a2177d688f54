package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jcz-project/jcz/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "jcz",
	Short: "Compress and authenticate-encrypt files in one pipeline",
	Long: `jcz wraps gzip, bzip2, xz, zip and tar behind a single command and
layers authenticated encryption (password-based Argon2id+AES-256-GCM, or
RSA-OAEP hybrid) on top of the compressed output.

Examples:
  # Compress and encrypt with a password (prompts, hidden input)
  jcz -c gzip -e a.txt

  # Compress a directory into a tar.gz and encrypt with an RSA public key
  jcz -c tgz --encrypt-key pub.pem dir/

  # Decrypt and decompress back to the original
  jcz -d a.txt.gz.jcze

  # Validate a batch without running it
  jcz -c gzip -e --dry-run a.txt b.txt c.txt`,
	Version:      "dev",
	RunE:         runRoot,
	SilenceUsage: true,
}

var globalReporter *Reporter

func init() {
	rootCmd.SilenceErrors = true

	rootCmd.Flags().StringVarP(&optFormat, "compress", "c", "", "compress with this format: gzip|bzip2|xz|zip|tar|tgz|tbz2|txz")
	rootCmd.Flags().BoolVarP(&optDecompress, "decompress", "d", false, "decompress (and decrypt, if the input is a container)")
	rootCmd.Flags().IntVarP(&optLevel, "level", "l", 6, "compression level 1-9, where the format supports one")
	rootCmd.Flags().IntVarP(&optTimestamp, "timestamp", "t", 0, "timestamp suffix mode: 0=none 1=date 2=datetime 3=nanoseconds")
	rootCmd.Flags().StringVarP(&optDest, "dest", "C", "", "destination directory for output")
	rootCmd.Flags().StringVarP(&optCollectFlat, "collect-flat", "a", "", "name a flat collection; inputs must have distinct basenames (each input is still compressed to its own output)")
	rootCmd.Flags().StringVarP(&optCollectParent, "collect-parent", "A", "", "name a collection keeping parent directories; inputs must have distinct basenames (each input is still compressed to its own output)")
	rootCmd.Flags().BoolVarP(&optEncryptPassword, "encrypt-password", "e", false, "encrypt output with a password (prompted)")
	rootCmd.Flags().StringVar(&optEncryptKey, "encrypt-key", "", "encrypt output with this RSA public key (PEM)")
	rootCmd.Flags().StringVar(&optDecryptKey, "decrypt-key", "", "decrypt input with this RSA private key (PEM)")
	rootCmd.Flags().BoolVar(&optRemoveEncrypted, "remove-encrypted", false, "remove the .jcze input after successful decryption")
	rootCmd.Flags().BoolVarP(&optForce, "force", "f", false, "overwrite existing destination files without prompting")
	rootCmd.Flags().BoolVarP(&optQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.Flags().BoolVar(&optDryRun, "dry-run", false, "validate inputs without running the pipeline")
	rootCmd.Flags().StringVar(&optLogLevel, "log-level", "", "override JCZ_LOG_LEVEL for this invocation (error|warn|info|debug)")
}

// Execute runs the CLI, returning the process exit code.
func Execute(v string) int {
	rootCmd.Version = v

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		if globalReporter != nil {
			globalReporter.Cancel()
			fmt.Fprintln(os.Stderr, "\ncancelling...")
		}
		os.Exit(1)
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return exitCode
}

// exitCode lets runRoot report "some batch members failed" (per spec.md
// §6, implementations MAY exit 1 in that case) without making cobra's
// error path print a duplicate error line.
var exitCode int

func configureLogging() {
	level := os.Getenv("JCZ_LOG_LEVEL")
	if optLogLevel != "" {
		level = optLogLevel
	}
	if level == "" {
		return
	}
	log.SetLogger(log.NewSimpleLogger(os.Stderr, log.ParseLevel(level)))
}
