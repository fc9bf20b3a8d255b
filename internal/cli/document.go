package cli

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-life-vault/models"
)

var (
	docMIMEType string
	docOutPath  string
	docThumbID  string
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage encrypted document blobs",
}

func init() {
	docSaveCmd.Flags().StringVar(&docMIMEType, "mime", "", "MIME type of the document (default: derived from the file extension)")
	docLoadCmd.Flags().StringVarP(&docOutPath, "out", "o", "", "write the decrypted document to this path (default: stdout)")
	docDeleteCmd.Flags().StringVar(&docThumbID, "thumbnail", "", "thumbnail id recorded in the reference, deleted alongside the blob")

	docCmd.AddCommand(docSaveCmd)
	docCmd.AddCommand(docLoadCmd)
	docCmd.AddCommand(docDeleteCmd)
}

var docSaveCmd = &cobra.Command{
	Use:   "save <category> <file>",
	Short: "Encrypts a file as a document blob",
	Long: `Encrypts a file as its own blob under the given category and prints
the reference to embed in a record. The record stays small; document
bytes are only ever read when the blob itself is loaded.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		category, path := args[0], args[1]

		data, err := os.ReadFile(path)
		if err != nil {
			printError("Failed to read file", err)
			return
		}

		mimeType := docMIMEType
		if mimeType == "" {
			mimeType = mime.TypeByExtension(filepath.Ext(path))
		}

		vault, err := openUnlockedVault(ctx)
		if err != nil {
			printError("Failed to unlock vault", err)
			return
		}
		defer vault.Close()

		ref, err := vault.SaveDocument(ctx, category, filepath.Base(path), mimeType, data, time.Time{})
		if err != nil {
			printError("Failed to save document", err)
			return
		}

		printSuccess("Document saved as " + ref.ID)
		printHint("Embed this reference in a record:")

		encoded, err := json.Marshal(ref)
		if err != nil {
			printError("Failed to encode reference", err)
			return
		}
		fmt.Println(indentJSON(encoded))
	},
}

var docLoadCmd = &cobra.Command{
	Use:   "load <category> <id>",
	Short: "Decrypts a document blob",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		vault, err := openUnlockedVault(ctx)
		if err != nil {
			printError("Failed to unlock vault", err)
			return
		}
		defer vault.Close()

		data, mimeType, err := vault.LoadDocument(ctx, args[0], models.DocumentReference{ID: args[1]})
		if err != nil {
			printError("Failed to load document", err)
			return
		}

		if docOutPath == "" {
			os.Stdout.Write(data)
			return
		}

		if err := os.WriteFile(docOutPath, data, 0o600); err != nil {
			printError("Failed to write output file", err)
			return
		}
		printSuccess(fmt.Sprintf("Wrote %d bytes (%s) to %s", len(data), mimeType, docOutPath))
	},
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete <category> <id>",
	Short: "Permanently deletes a document blob and its thumbnail",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		vault, err := openUnlockedVault(ctx)
		if err != nil {
			printError("Failed to unlock vault", err)
			return
		}
		defer vault.Close()

		ref := models.DocumentReference{ID: args[1], ThumbnailID: docThumbID}
		if err := vault.DeleteDocument(ctx, args[0], ref); err != nil {
			printError("Failed to delete document", err)
			return
		}

		printSuccess("Document " + args[1] + " deleted")
	},
}
