package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	bright "github.com/nnstd/bright-go"
)

// Version is set via ldflags during build
var Version = "dev"

var CLI struct {
	URL    string `help:"Bright server URL (overrides BRIGHT_URL env var)" env:"BRIGHT_URL"`
	APIKey string `help:"API key for authentication (overrides BRIGHT_API_KEY env var)" env:"BRIGHT_API_KEY"`
	Debug  bool   `help:"Enable debug logging"`

	Index     IndexCmd     `cmd:"" help:"Manage indexes"`
	Documents DocumentsCmd `cmd:"" help:"Manage documents"`
	Search    SearchCmd    `cmd:"" help:"Search an index"`
	Ingress   IngressCmd   `cmd:"" help:"Manage ingresses"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

type app struct {
	client *bright.Client
	logger *zap.Logger
}

type IndexCmd struct {
	Create IndexCreateCmd `cmd:"" help:"Create an index"`
	Get    IndexGetCmd    `cmd:"" help:"Show an index configuration"`
	Update IndexUpdateCmd `cmd:"" help:"Update an index configuration"`
	Delete IndexDeleteCmd `cmd:"" help:"Delete an index"`
	List   IndexListCmd   `cmd:"" help:"List indexes"`
}

type IndexCreateCmd struct {
	ID         string `arg:"" help:"Index ID"`
	PrimaryKey string `help:"Primary key field of the documents"`
}

func (cmd *IndexCreateCmd) Run(a *app) error {
	config, err := a.client.CreateIndex(context.Background(), cmd.ID, cmd.PrimaryKey)
	if err != nil {
		return err
	}
	return printJSON(config)
}

type IndexGetCmd struct {
	ID string `arg:"" help:"Index ID"`
}

func (cmd *IndexGetCmd) Run(a *app) error {
	config, err := a.client.GetIndex(context.Background(), cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(config)
}

type IndexUpdateCmd struct {
	ID         string `arg:"" help:"Index ID"`
	PrimaryKey string `help:"New primary key field"`
}

func (cmd *IndexUpdateCmd) Run(a *app) error {
	config, err := a.client.UpdateIndex(context.Background(), cmd.ID, bright.IndexConfig{PrimaryKey: cmd.PrimaryKey})
	if err != nil {
		return err
	}
	return printJSON(config)
}

type IndexDeleteCmd struct {
	ID string `arg:"" help:"Index ID"`
}

func (cmd *IndexDeleteCmd) Run(a *app) error {
	if err := a.client.DeleteIndex(context.Background(), cmd.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted index %s\n", cmd.ID)
	return nil
}

type IndexListCmd struct {
	Limit  int `help:"Maximum number of indexes to return"`
	Offset int `help:"Number of indexes to skip"`
	Page   int `help:"Page number (overrides offset)"`
}

func (cmd *IndexListCmd) Run(a *app) error {
	items, err := a.client.ListIndexes(context.Background(), bright.ListIndexesParams{
		Limit:  cmd.Limit,
		Offset: cmd.Offset,
		Page:   cmd.Page,
	})
	if err != nil {
		return err
	}
	return printJSON(items)
}

type DocumentsCmd struct {
	Add    DocumentsAddCmd    `cmd:"" help:"Upload documents from a JSON Lines file"`
	Update DocumentsUpdateCmd `cmd:"" help:"Apply a partial update to one document"`
	Delete DocumentsDeleteCmd `cmd:"" help:"Delete documents by ID"`
}

type DocumentsAddCmd struct {
	Index      string `arg:"" help:"Index ID"`
	File       string `arg:"" type:"existingfile" help:"JSON Lines file, one document per line"`
	Format     string `help:"Upload format" enum:"jsoneachrow,msgpack" default:"jsoneachrow"`
	PrimaryKey string `help:"Primary key override for this batch"`
}

func (cmd *DocumentsAddCmd) Run(a *app) error {
	docs, err := readDocuments(cmd.File)
	if err != nil {
		return err
	}

	idx := a.client.Index(cmd.Index)
	var indexed int
	if cmd.Format == "msgpack" {
		indexed, err = idx.AddDocumentsMsgpack(context.Background(), docs, cmd.PrimaryKey)
	} else {
		indexed, err = idx.AddDocuments(context.Background(), docs, cmd.PrimaryKey)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d documents\n", indexed)
	return nil
}

type DocumentsUpdateCmd struct {
	Index string `arg:"" help:"Index ID"`
	ID    string `arg:"" help:"Document ID"`
	Patch string `arg:"" help:"Partial document as a JSON object"`
}

func (cmd *DocumentsUpdateCmd) Run(a *app) error {
	var updates map[string]any
	if err := sonic.UnmarshalString(cmd.Patch, &updates); err != nil {
		return fmt.Errorf("invalid patch JSON: %w", err)
	}

	merged, err := a.client.Index(cmd.Index).UpdateDocument(context.Background(), cmd.ID, updates)
	if err != nil {
		return err
	}
	return printJSON(merged)
}

type DocumentsDeleteCmd struct {
	Index string   `arg:"" help:"Index ID"`
	IDs   []string `arg:"" help:"Document IDs"`
}

func (cmd *DocumentsDeleteCmd) Run(a *app) error {
	idx := a.client.Index(cmd.Index)
	ctx := context.Background()

	var err error
	if len(cmd.IDs) == 1 {
		err = idx.DeleteDocument(ctx, cmd.IDs[0])
	} else {
		err = idx.DeleteDocuments(ctx, bright.DeleteDocumentsParams{IDs: cmd.IDs})
	}
	if err != nil {
		return err
	}

	fmt.Printf("Deleted documents: %s\n", strings.Join(cmd.IDs, ", "))
	return nil
}

type SearchCmd struct {
	Index    string            `arg:"" help:"Index ID"`
	Query    string            `arg:"" optional:"" help:"Free-text query"`
	Filter   map[string]string `help:"Equality filters as field=value pairs"`
	Limit    int               `help:"Maximum number of hits"`
	Offset   int               `help:"Number of hits to skip"`
	Page     int               `help:"Page number (overrides offset)"`
	Sort     []string          `help:"Sort fields, prefix with - for descending"`
	Retrieve []string          `help:"Fields to include in hits"`
	Exclude  []string          `help:"Fields to omit from hits"`
}

func (cmd *SearchCmd) Run(a *app) error {
	params := bright.SearchParams{
		Query:                cmd.Query,
		Limit:                cmd.Limit,
		Offset:               cmd.Offset,
		Page:                 cmd.Page,
		AttributesToRetrieve: cmd.Retrieve,
		AttributesToExclude:  cmd.Exclude,
	}

	if len(cmd.Filter) > 0 {
		params.Filter = bright.Filter{}
		for field, value := range cmd.Filter {
			params.Filter[field] = bright.Eq(value)
		}
	}

	for _, field := range cmd.Sort {
		params.Sort = append(params.Sort, bright.SortField{Field: field})
	}

	resp, err := a.client.Index(cmd.Index).Search(context.Background(), params)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

type IngressCmd struct {
	List   IngressListCmd   `cmd:"" help:"List ingresses of an index"`
	Create IngressCreateCmd `cmd:"" help:"Create an ingress"`
	Get    IngressGetCmd    `cmd:"" help:"Show one ingress"`
	Pause  IngressPauseCmd  `cmd:"" help:"Pause an ingress"`
	Resume IngressResumeCmd `cmd:"" help:"Resume a paused ingress"`
	Resync IngressResyncCmd `cmd:"" help:"Trigger a full resynchronization"`
	Delete IngressDeleteCmd `cmd:"" help:"Delete an ingress"`
}

type IngressListCmd struct {
	Index string `arg:"" help:"Index ID"`
}

func (cmd *IngressListCmd) Run(a *app) error {
	ingresses, err := a.client.Index(cmd.Index).ListIngresses(context.Background())
	if err != nil {
		return err
	}
	return printJSON(ingresses)
}

type IngressCreateCmd struct {
	Index      string `arg:"" help:"Index ID"`
	ConfigFile string `arg:"" type:"existingfile" help:"Connector configuration as a JSON file"`
	Type       string `help:"Connector type" default:"postgres"`
	ID         string `help:"Ingress ID (generated when omitted)"`
}

func (cmd *IngressCreateCmd) Run(a *app) error {
	raw, err := os.ReadFile(cmd.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	params := bright.CreateIngressParams{
		ID:   cmd.ID,
		Type: bright.IngressType(cmd.Type),
	}

	if params.Type == bright.IngressTypePostgres {
		var cfg bright.PostgresConfig
		if err := sonic.Unmarshal(raw, &cfg); err != nil {
			return fmt.Errorf("invalid postgres config: %w", err)
		}
		params.Config = cfg
	} else {
		params.Config = json.RawMessage(raw)
	}

	ing, err := a.client.Index(cmd.Index).CreateIngress(context.Background(), params)
	if err != nil {
		return err
	}
	return printJSON(ing)
}

type IngressGetCmd struct {
	Index string `arg:"" help:"Index ID"`
	ID    string `arg:"" help:"Ingress ID"`
}

func (cmd *IngressGetCmd) Run(a *app) error {
	ing, err := a.client.Index(cmd.Index).GetIngress(context.Background(), cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(ing)
}

type IngressPauseCmd struct {
	Index string `arg:"" help:"Index ID"`
	ID    string `arg:"" help:"Ingress ID"`
}

func (cmd *IngressPauseCmd) Run(a *app) error {
	ing, err := a.client.Index(cmd.Index).PauseIngress(context.Background(), cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(ing)
}

type IngressResumeCmd struct {
	Index string `arg:"" help:"Index ID"`
	ID    string `arg:"" help:"Ingress ID"`
}

func (cmd *IngressResumeCmd) Run(a *app) error {
	ing, err := a.client.Index(cmd.Index).ResumeIngress(context.Background(), cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(ing)
}

type IngressResyncCmd struct {
	Index string `arg:"" help:"Index ID"`
	ID    string `arg:"" help:"Ingress ID"`
}

func (cmd *IngressResyncCmd) Run(a *app) error {
	ing, err := a.client.Index(cmd.Index).ResyncIngress(context.Background(), cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(ing)
}

type IngressDeleteCmd struct {
	Index string `arg:"" help:"Index ID"`
	ID    string `arg:"" help:"Ingress ID"`
}

func (cmd *IngressDeleteCmd) Run(a *app) error {
	if err := a.client.Index(cmd.Index).DeleteIngress(context.Background(), cmd.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted ingress %s\n", cmd.ID)
	return nil
}

type VersionCmd struct{}

func (v *VersionCmd) Run(a *app) error {
	fmt.Printf("brightctl %s\n", Version)
	return nil
}

// readDocuments reads a JSON Lines file into a document batch
func readDocuments(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var docs []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		var doc map[string]any
		if err := sonic.UnmarshalString(line, &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", lineNum, err)
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return docs, nil
}

func printJSON(v any) error {
	out, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func buildClient(logger *zap.Logger) (*bright.Client, error) {
	opts := []bright.Option{bright.WithLogger(logger)}
	if CLI.APIKey != "" {
		opts = append(opts, bright.WithAPIKey(CLI.APIKey))
	}
	if CLI.URL != "" {
		return bright.New(CLI.URL, opts...)
	}
	return bright.NewFromEnv(opts...)
}

func main() {
	// A .env file is optional
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name("brightctl"),
		kong.Description("Command-line client for the Bright search server"),
		kong.UsageOnError(),
	)

	logger, err := newLogger(CLI.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client, err := buildClient(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = ctx.Run(&app{client: client, logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
