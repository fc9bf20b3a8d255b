package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-life-vault/models"
)

var listCmd = &cobra.Command{
	Use:   "list <collection>",
	Short: "Lists the records of a collection in insertion order",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		vault, err := openUnlockedVault(ctx)
		if err != nil {
			printError("Failed to unlock vault", err)
			return
		}
		defer vault.Close()

		records, err := vault.Get(ctx, args[0])
		if err != nil {
			printError("Failed to load collection", err)
			return
		}

		if len(records) == 0 {
			fmt.Printf("Collection %s is empty\n", color.YellowString(args[0]))
			return
		}

		for i, record := range records {
			fmt.Printf("%s %s\n", color.CyanString("[%d]", i), indentJSON(record))
		}
	},
}

var addCmd = &cobra.Command{
	Use:   "add <collection> <json>",
	Short: "Appends a record to a collection",
	Long: `Appends a JSON record to a collection and reseals it.
Pass "-" as the record to read JSON from stdin.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		raw, err := readRecordArg(args[1])
		if err != nil {
			printError("Failed to read record", err)
			return
		}

		vault, err := openUnlockedVault(ctx)
		if err != nil {
			printError("Failed to unlock vault", err)
			return
		}
		defer vault.Close()

		if err := vault.Add(ctx, args[0], models.Record(raw)); err != nil {
			printError("Failed to add record", err)
			return
		}

		printSuccess("Record added to " + args[0])
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <collection> <id> <json>",
	Short: "Replaces the record with the given id",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		raw, err := readRecordArg(args[2])
		if err != nil {
			printError("Failed to read record", err)
			return
		}

		vault, err := openUnlockedVault(ctx)
		if err != nil {
			printError("Failed to unlock vault", err)
			return
		}
		defer vault.Close()

		if err := vault.Update(ctx, args[0], args[1], models.Record(raw)); err != nil {
			printError("Failed to update record", err)
			return
		}

		printSuccess("Record " + args[1] + " updated in " + args[0])
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <collection> <id>",
	Short: "Removes the record with the given id",
	Long: `Removes the record with the given id from a collection.
Document blobs and thumbnails the record references are deleted with it.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		vault, err := openUnlockedVault(ctx)
		if err != nil {
			printError("Failed to unlock vault", err)
			return
		}
		defer vault.Close()

		if err := vault.Delete(ctx, args[0], args[1]); err != nil {
			printError("Failed to remove record", err)
			return
		}

		printSuccess("Record " + args[1] + " removed from " + args[0])
	},
}

// readRecordArg resolves a record argument: "-" reads stdin, anything else
// is taken as inline JSON.
func readRecordArg(arg string) ([]byte, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		arg = string(data)
	}

	raw := []byte(strings.TrimSpace(arg))
	if !json.Valid(raw) {
		return nil, fmt.Errorf("record is not valid JSON")
	}
	return raw, nil
}
