package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// promptPassword reads the master password from the terminal without echo.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}

// promptNewPassword reads and confirms a fresh master password.
func promptNewPassword() (string, error) {
	password, err := promptPassword("Choose a master password: ")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password must not be empty")
	}

	confirm, err := promptPassword("Repeat the master password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// startSpinner creates and starts a spinner with the given message when not
// in verbose mode. Returns the spinner and a function that should be
// deferred to clean up. The cleanup function prints spinner.FinalMSG after
// clearing the spinner line.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Best effort; a terminal without color support still spins.
	_ = s.Color("cyan")

	if !verbose {
		s.Start()
	}

	cleanup := func() {
		finalMsg := s.FinalMSG
		s.FinalMSG = ""
		if !verbose {
			s.Stop()
		}
		if finalMsg != "" {
			if !strings.HasSuffix(finalMsg, "\n") {
				finalMsg += "\n"
			}
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// printError reports a failed command step on stderr.
func printError(message string, err error) {
	fmt.Fprintln(os.Stderr, color.RedString("✗")+" "+message+": "+err.Error())
}

// printSuccess reports a completed command step.
func printSuccess(message string) {
	fmt.Println(color.GreenString("✓") + " " + message)
}

// printHint suggests a follow-up command.
func printHint(message string) {
	fmt.Println(color.CyanString("→") + " " + message)
}

// indentJSON pretty-prints raw JSON for terminal output, falling back to
// the input when it does not indent cleanly.
func indentJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
