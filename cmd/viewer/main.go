package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"agro-chat/domain"
)

// Offline inspector for persisted conversations. Opens the snapshot store in
// read-only mode so it can run next to a live client and prints one table per
// viewer.
func main() {
	_ = godotenv.Load()

	defaultPath := os.Getenv("BADGER_FILEPATH")
	dbPath := flag.String("db", defaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "agrobot_chat_", "Prefix to scan")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			viewerID := strings.TrimPrefix(string(item.Key()), *prefix)

			err := item.Value(func(v []byte) error {
				var messages []domain.Message
				if err := json.Unmarshal(v, &messages); err != nil {
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}
				printConversation(viewerID, messages)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
}

func printConversation(viewerID string, messages []domain.Message) {
	color.Green.Printf("\nConversation: %s (%d messages)\n", viewerID, len(messages))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"At", "Sender", "Text"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, m := range messages {
		sender := string(m.Sender)
		if m.Sender == domain.SenderAssistant {
			sender = color.Cyan.Sprint(sender)
		} else {
			sender = color.Yellow.Sprint(sender)
		}
		text := m.Text
		if len(text) > 80 {
			text = text[:77] + "..."
		}
		table.Append([]string{m.At.Format("2006-01-02 15:04:05"), sender, text})
	}
	table.Render()
}
