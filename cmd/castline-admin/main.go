// ABOUTME: Admin CLI for the castline document store
// ABOUTME: Inspects collections, edits documents, seeds data, and tails the live feed

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/castline/castline/internal/client"
	"github.com/castline/castline/internal/document"
)

const banner = `
                    _   _ _                            _           _
   ___ __ _ ___ ___| |_| (_)_ __   ___        __ _  __| |_ __ ___ (_)_ __
  / __/ _' / __|___| __| | | '_ \ / _ \_____ / _' |/ _' | '_ ' _ \| | '_ \
 | (_| (_| \__ \   | |_| | | | | |  __/_____| (_| | (_| | | | | | | | | | |
  \___\__,_|___/    \__|_|_|_| |_|\___|      \__,_|\__,_|_| |_| |_|_|_| |_|
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	remote := client.New(cfg.Server.URL, client.Options{})
	defer remote.Close()

	cmd := os.Args[1]
	args := os.Args[2:]

	// The watch command runs until interrupted; everything else gets the
	// configured request timeout.
	if cmd != "watch" && cfg.Server.TimeoutDuration > 0 {
		var timedCancel context.CancelFunc
		ctx, timedCancel = context.WithTimeout(ctx, cfg.Server.TimeoutDuration)
		defer timedCancel()
	}

	switch cmd {
	case "collections":
		err = cmdCollections(ctx, remote)
	case "list":
		err = cmdList(ctx, remote, args)
	case "get":
		err = cmdGet(ctx, remote, args)
	case "put":
		err = cmdPut(ctx, remote, args)
	case "delete":
		err = cmdDelete(ctx, remote, args)
	case "seed":
		err = cmdSeed(ctx, remote, args)
	case "watch":
		err = cmdWatch(ctx, remote, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: castline-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  collections                 List non-empty collections")
	fmt.Println("  list <collection>           List documents in a collection")
	fmt.Println("  get <collection> <id>       Print one document as JSON")
	fmt.Println("  put <collection> <id> [json]  Merge a JSON patch into a document ('-' or omitted reads stdin)")
	fmt.Println("  delete <collection> <id>    Delete a document")
	fmt.Println("  seed <file.json>            Load {collection: [docs]} fixtures from a file")
	fmt.Println("  watch <collection>          Tail live feed snapshots (Ctrl-C to stop)")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  CASTLINE_SERVER_URL         Server base URL (default: http://localhost:8080)")
	fmt.Println("  CASTLINE_ADMIN_CONFIG       Path to admin.toml (default: ~/.config/castline/admin.toml)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  castline-admin collections")
	fmt.Println("  castline-admin list projects")
	fmt.Println("  castline-admin put projects p-1 '{\"name\":\"Overpass 14\",\"status\":\"active\"}'")
	fmt.Println("  castline-admin seed fixtures.json")
	fmt.Println()
}

func cmdCollections(ctx context.Context, remote *client.Remote) error {
	names, err := remote.Collections(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No collections.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func cmdList(ctx context.Context, remote *client.Remote, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: list <collection>")
	}
	collection := args[0]

	docs, err := remote.FetchAll(ctx, collection)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Printf("Collection %q is empty.\n", collection)
		return nil
	}

	printDocTable(docs)
	return nil
}

func printDocTable(docs []document.Document) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tUPDATED")
	for _, doc := range docs {
		id, _ := doc[document.FieldID].(string)
		name, _ := doc["name"].(string)
		if name == "" {
			if batch, ok := doc["batchId"].(string); ok {
				name = batch
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, name, formatMillis(doc[document.FieldUpdatedAt]))
	}
	w.Flush()
	fmt.Printf("\n%d document(s)\n", len(docs))
}

func formatMillis(v any) string {
	var ms int64
	switch t := v.(type) {
	case int64:
		ms = t
	case float64:
		ms = int64(t)
	default:
		return "-"
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05")
}

func cmdGet(ctx context.Context, remote *client.Remote, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: get <collection> <id>")
	}
	docs, err := remote.FetchAll(ctx, args[0])
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if id, _ := doc[document.FieldID].(string); id == args[1] {
			return printJSON(doc)
		}
	}
	return fmt.Errorf("document %s/%s not found", args[0], args[1])
}

func cmdPut(ctx context.Context, remote *client.Remote, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: put <collection> <id> [json]")
	}
	collection, id := args[0], args[1]

	var raw []byte
	if len(args) >= 3 && args[2] != "-" {
		raw = []byte(args[2])
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		raw = data
	}

	var doc document.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parsing document JSON: %w", err)
	}

	if err := remote.Set(ctx, collection, id, doc); err != nil {
		return err
	}
	color.Green("Wrote %s/%s", collection, id)
	return nil
}

func cmdDelete(ctx context.Context, remote *client.Remote, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: delete <collection> <id>")
	}
	if err := remote.Delete(ctx, args[0], args[1]); err != nil {
		return err
	}
	color.Green("Deleted %s/%s", args[0], args[1])
	return nil
}

// cmdSeed loads a JSON file of the form {"collection": [ {...}, ... ]} and
// writes every document. Documents missing an "id" field are rejected.
func cmdSeed(ctx context.Context, remote *client.Remote, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: seed <file.json>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var fixtures map[string][]document.Document
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("parsing seed file: %w", err)
	}

	collections := make([]string, 0, len(fixtures))
	for name := range fixtures {
		collections = append(collections, name)
	}
	sort.Strings(collections)

	total := 0
	for _, collection := range collections {
		for _, doc := range fixtures[collection] {
			id, _ := doc[document.FieldID].(string)
			if id == "" {
				return fmt.Errorf("collection %q: document without an id", collection)
			}
			if err := remote.Set(ctx, collection, id, doc); err != nil {
				return fmt.Errorf("seeding %s/%s: %w", collection, id, err)
			}
			total++
		}
		fmt.Printf("  %s: %d document(s)\n", collection, len(fixtures[collection]))
	}
	color.Green("Seeded %d document(s) across %d collection(s)", total, len(collections))
	return nil
}

func cmdWatch(ctx context.Context, remote *client.Remote, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: watch <collection>")
	}
	collection := args[0]

	gray := color.New(color.FgHiBlack)
	cancel, err := remote.Subscribe(collection, func(docs []document.Document) {
		gray.Printf("--- %s · %s · %d document(s)\n",
			time.Now().Format("15:04:05"), collection, len(docs))
		printDocTable(docs)
		fmt.Println()
	})
	if err != nil {
		return err
	}
	defer cancel()

	<-ctx.Done()
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
