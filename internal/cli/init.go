package cli

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-life-vault/internal/service"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initializes a new encrypted vault",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		vault, err := openVault(ctx)
		if err != nil {
			printError("Failed to open vault", err)
			return
		}
		defer vault.Close()

		password, err := promptNewPassword()
		if err != nil {
			printError("Failed to read password", err)
			return
		}

		s, cleanup := startSpinner("Initializing vault...", verbose)
		defer cleanup()

		if err := vault.Init(ctx, password); err != nil {
			if errors.Is(err, service.ErrAlreadyInitialized) {
				s.FinalMSG = color.RedString("✗") + " A vault already exists in this directory"
				return
			}
			printError("Failed to initialize vault", err)
			return
		}

		s.FinalMSG = color.GreenString("✓") + " Vault initialized\n" +
			color.CyanString("→") + " Run " + color.YellowString("vault add <collection> <json>") + " to store your first record"
	},
}
