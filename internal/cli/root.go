// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagDir     string
	flagBackend string
	flagConfig  string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "vault",
	Short: "go-life-vault - an encrypted personal vault for records and documents",
	Long: `go-life-vault stores personal records and document attachments as
encrypted containers, unlocked by a single master password.

Records live in named collections (one encrypted container each) and may
reference document blobs stored and decrypted individually.

Usage:
  vault <command> [flags]

Run 'vault help <command>' for more details on a specific command.
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Run 'vault --help' to see available commands.")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "vault directory (env: VAULT_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "persistence backend: files or sqlite (env: VAULT_BACKEND)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to a JSON config file (env: CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(thumbCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
