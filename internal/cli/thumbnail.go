package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-life-vault/internal/service"
	"github.com/MKhiriev/go-life-vault/internal/store"
	"github.com/MKhiriev/go-life-vault/models"
)

var (
	thumbExistingID string
	thumbOutPath    string
)

var thumbCmd = &cobra.Command{
	Use:   "thumb",
	Short: "Manage document thumbnails",
}

func init() {
	thumbRegenCmd.Flags().StringVar(&thumbExistingID, "thumbnail", "", "existing thumbnail id to overwrite in place")
	thumbLoadCmd.Flags().StringVarP(&thumbOutPath, "out", "o", "", "write the decrypted thumbnail to this path (default: stdout)")

	thumbCmd.AddCommand(thumbRegenCmd)
	thumbCmd.AddCommand(thumbRegenAllCmd)
	thumbCmd.AddCommand(thumbLoadCmd)
}

var thumbRegenAllCmd = &cobra.Command{
	Use:   "regen-all <collection>",
	Short: "Regenerates previews for every document a collection references",
	Long: `Scans every record of a collection for document references and
re-derives their previews on a worker pool. Documents without a
rasterizable type are skipped.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		collection := args[0]

		vault, err := openUnlockedVault(ctx)
		if err != nil {
			printError("Failed to unlock vault", err)
			return
		}
		defer vault.Close()

		records, err := vault.Get(ctx, collection)
		if err != nil {
			printError("Failed to load collection", err)
			return
		}

		var refs []models.DocumentReference
		for _, record := range records {
			refs = append(refs, models.ExtractDocumentReferences(record)...)
		}
		if len(refs) == 0 {
			fmt.Printf("Collection %s references no documents\n", collection)
			return
		}

		s, cleanup := startSpinner(fmt.Sprintf("Rendering %d thumbnails...", len(refs)), verbose)
		defer cleanup()

		updated, err := vault.RegenerateThumbnails(ctx, collection, refs)
		if err != nil {
			printError("Some thumbnails failed", err)
		}

		var lines string
		for i, ref := range updated {
			if ref.ThumbnailID == "" || ref.ThumbnailID == refs[i].ThumbnailID {
				continue
			}
			lines += fmt.Sprintf("  %s: %s\n", ref.Filename, ref.ThumbnailID)
		}

		s.FinalMSG = color.GreenString("✓") + " Thumbnails regenerated"
		if lines != "" {
			s.FinalMSG += "\n" + color.CyanString("→") + " New thumbnail ids to record:\n" + lines
		}
	},
}

var thumbRegenCmd = &cobra.Command{
	Use:   "regen <category> <id>",
	Short: "Generates (or regenerates) the preview for a document blob",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		vault, err := openUnlockedVault(ctx)
		if err != nil {
			printError("Failed to unlock vault", err)
			return
		}
		defer vault.Close()

		s, cleanup := startSpinner("Rendering thumbnail...", verbose)
		defer cleanup()

		ref := models.DocumentReference{ID: args[1], ThumbnailID: thumbExistingID}
		ref, err = vault.RegenerateThumbnail(ctx, args[0], ref)
		if err != nil {
			if errors.Is(err, service.ErrThumbnailUnsupported) {
				s.FinalMSG = color.RedString("✗") + " No thumbnail for this document type"
				return
			}
			printError("Failed to render thumbnail", err)
			return
		}

		s.FinalMSG = color.GreenString("✓") + " Thumbnail stored as " + ref.ThumbnailID
	},
}

var thumbLoadCmd = &cobra.Command{
	Use:   "load <category> <thumbnail-id>",
	Short: "Decrypts a stored thumbnail",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		vault, err := openUnlockedVault(ctx)
		if err != nil {
			printError("Failed to unlock vault", err)
			return
		}
		defer vault.Close()

		data, err := vault.LoadThumbnail(ctx, args[0], args[1])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Println("No thumbnail stored under this id")
				return
			}
			printError("Failed to load thumbnail", err)
			return
		}

		if thumbOutPath == "" {
			os.Stdout.Write(data)
			return
		}

		if err := os.WriteFile(thumbOutPath, data, 0o600); err != nil {
			printError("Failed to write output file", err)
			return
		}
		printSuccess(fmt.Sprintf("Wrote %d bytes to %s", len(data), thumbOutPath))
	},
}
