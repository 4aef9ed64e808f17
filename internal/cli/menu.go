// Package cli drives the interactive menu: it collects the user's
// filters, invokes the extractors and hands the results to the exporter.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/avolkov/tgexport/internal/config"
	"github.com/avolkov/tgexport/internal/export"
	"github.com/avolkov/tgexport/internal/extract"
)

// Session is everything the menu needs from the authenticated client.
type Session interface {
	extract.ChatLister
	extract.FolderSource
	extract.NameResolver
}

type Controller struct {
	log      *slog.Logger
	cfg      *config.Config
	session  Session
	prompter Prompter
	outDir   string
}

func NewController(log *slog.Logger, cfg *config.Config, session Session, prompter Prompter) *Controller {
	return &Controller{
		log:      log,
		cfg:      cfg,
		session:  session,
		prompter: prompter,
		outDir:   ".",
	}
}

// Run loops over the main menu until the user exits. Fetch and export
// failures abort the current operation only; the menu comes back.
// A prompt error (Ctrl+C, EOF) exits the loop.
func (c *Controller) Run(ctx context.Context) error {
	for {
		fmt.Println("\n==================== MAIN MENU ====================")
		fmt.Println("1. Master Chat List (Extract all chats by type)")
		fmt.Println("2. Folder Information (Export specific folder data)")
		fmt.Println("3. Exit")

		choice, err := c.prompter.Prompt("Enter your choice: ")
		if err != nil {
			fmt.Println()
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			if err := c.masterList(ctx); err != nil {
				return nil
			}
		case "2":
			if err := c.folders(ctx); err != nil {
				return nil
			}
		case "3":
			return nil
		default:
			fmt.Println("Invalid choice. Please enter 1, 2, or 3.")
		}
	}
}

// masterList is menu entry 1: chat-type filter, fetch, export. The
// returned error is non-nil only when a prompt was aborted.
func (c *Controller) masterList(ctx context.Context) error {
	fmt.Println("\n--- Master Chat List Extractor ---")
	fmt.Println("Choose chat types to include:")
	fmt.Println("  1. Personal Chats (DMs)")
	fmt.Println("  2. Groups & Supergroups")
	fmt.Println("  3. Channels")
	fmt.Println("  4. Bots")
	fmt.Println("  5. All (include everything)")

	var wanted []extract.ChatType
	for {
		input, err := c.prompter.Prompt("Enter your choice (e.g., 1,3,4 or 5): ")
		if err != nil {
			return err
		}
		wanted, err = parseChatTypeSelection(input)
		if err == nil {
			break
		}
		fmt.Println("Invalid input. Please enter numbers from 1 to 5, separated by commas.")
	}

	c.log.Info("fetching chats", "types", wanted)
	records, err := extract.Chats(ctx, c.session, wanted)
	if err != nil {
		c.log.Error("could not fetch chats", "error", err)
		return nil
	}
	if len(records) == 0 {
		fmt.Println("No chats found matching your criteria.")
		return nil
	}
	c.log.Info("found matching chats", "count", len(records))

	rows := lo.Map(records, func(r extract.ChatRecord, _ int) export.Record { return r })

	return c.export(rows, c.cfg.MasterListOutput)
}

// folders is menu entry 2: folder selection, fetch, export.
func (c *Controller) folders(ctx context.Context) error {
	c.log.Info("fetching folder information")
	infos, err := c.session.ChatFolders(ctx)
	if err != nil {
		c.log.Error("could not fetch chat folders", "error", err)
		return nil
	}
	if len(infos) == 0 {
		fmt.Println("No chat folders found in your account.")
		return nil
	}

	fmt.Println("\n--- Folder Information Extractor ---")
	fmt.Println("Available folders:")
	for i, info := range infos {
		fmt.Printf("  %d. %s\n", i+1, info.Name)
	}
	fmt.Printf("  %d. All Folders\n", len(infos)+1)

	var selected []extract.FolderInfo
	for {
		input, err := c.prompter.Prompt(fmt.Sprintf("Choose folders to export (e.g., 1,3 or %d for all): ", len(infos)+1))
		if err != nil {
			return err
		}
		all, indices, perr := parseFolderSelection(input, len(infos))
		if perr != nil {
			fmt.Println("Invalid input. Please enter valid numbers.")
			continue
		}
		if all {
			selected = infos
		} else {
			selected = lo.Map(indices, func(i int, _ int) extract.FolderInfo { return infos[i] })
		}
		break
	}

	records, err := extract.Folders(ctx, c.session, c.session, selected)
	if err != nil {
		c.log.Error("could not fetch folder definitions", "error", err)
		return nil
	}

	rows := lo.Map(records, func(r extract.FolderRecord, _ int) export.Record { return r })

	return c.export(rows, c.cfg.FolderOutput)
}

// export asks for the format and writes the file. Write failures abort
// the export, no retry.
func (c *Controller) export(records []export.Record, base string) error {
	fmt.Println("\n--- Export Data ---")
	fmt.Println("  1. CSV (Recommended for spreadsheets)")
	fmt.Println("  2. JSON (For developers & archiving)")

	var format export.Format
	for {
		input, err := c.prompter.Prompt("Enter your choice (1 or 2): ")
		if err != nil {
			return err
		}
		switch strings.TrimSpace(input) {
		case "1":
			format = export.FormatCSV
		case "2":
			format = export.FormatJSON
		default:
			fmt.Println("Invalid input. Please enter 1 or 2.")
			continue
		}
		break
	}

	path, err := export.WriteFile(c.outDir, base, format, records)
	if err != nil {
		c.log.Error("export failed", "error", err)
		return nil
	}
	fmt.Printf("Successfully exported data to %s\n", path)

	return nil
}
