package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/dpshade/format-weaver/internal/clipboard"
	apperrors "github.com/dpshade/format-weaver/internal/errors"
	"github.com/dpshade/format-weaver/internal/exporter"
	"github.com/dpshade/format-weaver/internal/importer"
	"github.com/dpshade/format-weaver/internal/models"
	"github.com/dpshade/format-weaver/internal/service"
	"github.com/dpshade/format-weaver/internal/session"
	"github.com/dpshade/format-weaver/internal/suggest"
)

// CLI provides headless command-line interface functionality
type CLI struct {
	service *service.Service
}

// NewCLI creates a new CLI instance
func NewCLI(svc *service.Service) *CLI {
	return &CLI{service: svc}
}

func (c *CLI) ExecuteCommand(args []string) error {
	if len(args) == 0 {
		return c.printUsage()
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "init":
		return c.initLibrary()
	case "list", "ls":
		return c.listTemplates(commandArgs)
	case "search":
		return c.searchTemplates(commandArgs)
	case "get", "show":
		return c.showTemplate(commandArgs)
	case "create", "new":
		return c.createTemplate(commandArgs)
	case "rename":
		return c.renameTemplate(commandArgs)
	case "move":
		return c.moveTemplate(commandArgs)
	case "delete", "rm":
		return c.deleteTemplate(commandArgs)
	case "render":
		return c.renderTemplate(commandArgs)
	case "render-csv":
		return c.renderCSV(commandArgs)
	case "suggest":
		return c.applySuggestions(commandArgs)
	case "demo":
		return c.runDemo(commandArgs)
	case "workspace":
		return c.handleWorkspace(commandArgs)
	case "folder":
		return c.handleFolder(commandArgs)
	case "help":
		return c.printUsage()
	default:
		return fmt.Errorf("unknown command: %s. Use 'help' for usage information", command)
	}
}

// initLibrary initializes the template library directory
func (c *CLI) initLibrary() error {
	if err := c.service.InitLibrary(); err != nil {
		return fmt.Errorf("failed to initialize library: %w", err)
	}
	fmt.Printf("Initialized template library at %s\n", c.service.GetBaseDir())
	return nil
}

// listTemplates lists all saved templates
func (c *CLI) listTemplates(args []string) error {
	var format string
	var workspaceID string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--format", "-f":
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		case "--workspace", "-w":
			if i+1 < len(args) {
				workspaceID = args[i+1]
				i++
			}
		}
	}

	var templates []*models.SavedTemplate
	var err error
	if workspaceID != "" {
		templates, err = c.service.ListTemplatesInWorkspace(workspaceID)
	} else {
		templates, err = c.service.ListTemplates()
	}
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	return c.formatOutput(templates, format)
}

// searchTemplates searches saved templates by query string
func (c *CLI) searchTemplates(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("search requires a query")
	}

	var format string
	var queryParts []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--format", "-f":
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		default:
			queryParts = append(queryParts, args[i])
		}
	}

	templates, err := c.service.SearchTemplates(strings.Join(queryParts, " "))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return c.formatOutput(templates, format)
}

// showTemplate displays a specific template
func (c *CLI) showTemplate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("show requires a template ID")
	}

	id := args[0]
	var format string
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--format", "-f":
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		}
	}

	t, err := c.service.GetTemplate(id)
	if err != nil {
		return fmt.Errorf("failed to get template: %w", err)
	}

	return c.formatSingleTemplate(t, format)
}

var placeholderNames = regexp.MustCompile(`{{\s*(\w+)\s*}}`)

// createTemplate creates a new saved template from text containing
// {{name}} placeholders. Each distinct placeholder becomes a text
// variable.
func (c *CLI) createTemplate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("create requires a template name")
	}

	name := args[0]
	var file, text, workspaceID string
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--file":
			if i+1 < len(args) {
				file = args[i+1]
				i++
			}
		case "--text":
			if i+1 < len(args) {
				text = args[i+1]
				i++
			}
		case "--workspace", "-w":
			if i+1 < len(args) {
				workspaceID = args[i+1]
				i++
			}
		}
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read template file: %w", err)
		}
		text = string(data)
	}
	if text == "" {
		return fmt.Errorf("create requires --file or --text")
	}

	var vars []models.AISuggestion
	seen := make(map[string]bool)
	for _, match := range placeholderNames.FindAllStringSubmatch(text, -1) {
		if seen[match[1]] {
			continue
		}
		seen[match[1]] = true
		vars = append(vars, models.AISuggestion{
			Name:         match[1],
			Type:         models.TypeText,
			OriginalText: match[0],
		})
	}

	sess := session.New()
	if err := sess.LoadGenerated(models.GeneratedTemplate{TemplateString: text, Variables: vars}); err != nil {
		return fmt.Errorf("failed to build template: %w", err)
	}

	seq, variables := sess.Snapshot()
	t := &models.SavedTemplate{
		Name:        name,
		WorkspaceID: workspaceID,
		Tokens:      seq,
		Variables:   variables,
	}
	if err := c.service.SaveTemplate(t); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	fmt.Printf("Created template %s (%d variables)\n", t.ID, len(variables))
	return nil
}

// renameTemplate changes a saved template's display name
func (c *CLI) renameTemplate(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("rename requires a template ID and a new name")
	}
	if err := c.service.RenameTemplate(args[0], strings.Join(args[1:], " ")); err != nil {
		return fmt.Errorf("failed to rename template: %w", err)
	}
	fmt.Println("Template renamed")
	return nil
}

// moveTemplate moves a template into a folder or back to the
// workspace root
func (c *CLI) moveTemplate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("move requires a template ID")
	}

	id := args[0]
	var folderID *string
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--folder":
			if i+1 < len(args) {
				folderID = &args[i+1]
				i++
			}
		case "--root":
			folderID = nil
		}
	}

	if err := c.service.MoveTemplate(id, folderID); err != nil {
		return fmt.Errorf("failed to move template: %w", err)
	}
	fmt.Println("Template moved")
	return nil
}

// deleteTemplate deletes a saved template
func (c *CLI) deleteTemplate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("delete requires a template ID")
	}
	if err := c.service.DeleteTemplate(args[0]); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	fmt.Println("Template deleted")
	return nil
}

// renderTemplate renders a template with values supplied via --var
// flags. List values separate items with newlines.
func (c *CLI) renderTemplate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("render requires a template ID")
	}

	id := args[0]
	var copyOut bool
	var outFile string
	values := make(map[string]string)
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--var", "-v":
			if i+1 < len(args) {
				key, value, ok := strings.Cut(args[i+1], "=")
				if !ok {
					return fmt.Errorf("invalid --var %q, expected name=value", args[i+1])
				}
				values[key] = value
				i++
			}
		case "--copy":
			copyOut = true
		case "--out", "-o":
			if i+1 < len(args) {
				outFile = args[i+1]
				i++
			}
		}
	}

	sess, err := c.loadSession(id)
	if err != nil {
		return err
	}
	for name, value := range values {
		if err := sess.SetValue(name, value); err != nil {
			return fmt.Errorf("failed to set variable %q: %w", name, err)
		}
	}

	output := sess.Output()
	if outFile != "" {
		if err := os.WriteFile(outFile, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Output written to %s\n", outFile)
		return nil
	}
	if copyOut {
		statusMsg, err := clipboard.CopyWithFallback(output)
		if err != nil {
			fmt.Printf("Warning: %v\n", err)
		} else {
			fmt.Println(statusMsg)
		}
		return nil
	}
	fmt.Println(output)
	return nil
}

// renderCSV renders a template once per CSV row. Columns are mapped to
// variables automatically by header name; --map overrides individual
// bindings.
func (c *CLI) renderCSV(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("render-csv requires a template ID and a CSV file")
	}

	id := args[0]
	csvPath := args[1]
	var zipPath, csvOut string
	var copyOut bool
	overrides := make(models.Mapping)
	for i := 2; i < len(args); i++ {
		switch args[i] {
		case "--map", "-m":
			if i+1 < len(args) {
				key, value, ok := strings.Cut(args[i+1], "=")
				if !ok {
					return fmt.Errorf("invalid --map %q, expected variable=column", args[i+1])
				}
				overrides[key] = value
				i++
			}
		case "--zip":
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				zipPath = args[i+1]
				i++
			} else {
				zipPath = exporter.ZipFileName
			}
		case "--csv":
			if i+1 < len(args) {
				csvOut = args[i+1]
				i++
			}
		case "--copy":
			copyOut = true
		}
	}

	sess, err := c.loadSession(id)
	if err != nil {
		return err
	}

	table, err := importer.ParseCSVFile(csvPath)
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}

	mapping := sess.StageImport(table)
	for name, column := range overrides {
		mapping[name] = column
	}

	if err := sess.ApplyMapping(mapping); err != nil {
		if missing := apperrors.MissingVariables(err); missing != nil {
			return fmt.Errorf("no CSV column mapped for: %s (use --map variable=column)",
				strings.Join(missing, ", "))
		}
		return fmt.Errorf("failed to apply mapping: %w", err)
	}

	outputs := sess.Outputs()

	switch {
	case zipPath != "":
		f, err := os.Create(zipPath)
		if err != nil {
			return fmt.Errorf("failed to create zip file: %w", err)
		}
		defer f.Close()
		if err := exporter.WriteZip(f, outputs); err != nil {
			return fmt.Errorf("failed to write zip: %w", err)
		}
		fmt.Printf("Wrote %d outputs to %s\n", len(outputs), zipPath)
	case csvOut != "":
		f, err := os.Create(csvOut)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		defer f.Close()
		if err := exporter.WriteCSV(f, sess.Variables(), sess.Rows(), outputs); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		fmt.Printf("Wrote %d rows to %s\n", len(outputs), csvOut)
	case copyOut:
		statusMsg, err := exporter.CopyAll(outputs)
		if err != nil {
			fmt.Printf("Warning: %v\n", err)
		} else {
			fmt.Println(statusMsg)
		}
	default:
		fmt.Println(exporter.AggregateText(outputs))
	}
	return nil
}

// applySuggestions reads variable suggestions from a JSON file and
// applies them to a saved template. Suggestions whose text no longer
// appears in the template are dropped.
func (c *CLI) applySuggestions(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("suggest requires a template ID and a suggestions JSON file")
	}

	id := args[0]
	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read suggestions file: %w", err)
	}

	var suggestions []models.AISuggestion
	if err := json.Unmarshal(data, &suggestions); err != nil {
		return fmt.Errorf("failed to parse suggestions JSON: %w", err)
	}

	sess, err := c.loadSession(id)
	if err != nil {
		return err
	}

	kept := suggest.Filter(suggestions, sess.TemplateString())
	created := sess.ApplySuggestions(kept)

	t, err := c.service.GetTemplate(id)
	if err != nil {
		return err
	}
	t.Tokens, t.Variables = sess.Snapshot()
	if err := c.service.SaveTemplate(t); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	fmt.Printf("Applied %d of %d suggestions\n", len(created), len(suggestions))
	return nil
}

// runDemo loads the built-in demo template and prints its rendered
// output. With --save the demo is stored in the library.
func (c *CLI) runDemo(args []string) error {
	save := false
	for _, arg := range args {
		if arg == "--save" {
			save = true
		}
	}

	sess := session.New()
	sess.LoadDemo()

	if save {
		seq, vars := sess.Snapshot()
		t := &models.SavedTemplate{
			Name:      "Demo: Status Report",
			Tokens:    seq,
			Variables: vars,
		}
		if err := c.service.SaveTemplate(t); err != nil {
			return fmt.Errorf("failed to save demo template: %w", err)
		}
		fmt.Printf("Saved demo template %s\n", t.ID)
		return nil
	}

	fmt.Println("Template:")
	fmt.Println(sess.TemplateString())
	fmt.Println()
	fmt.Println("Rendered:")
	fmt.Println(sess.Output())
	return nil
}

// handleWorkspace handles workspace subcommands
func (c *CLI) handleWorkspace(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("workspace requires a subcommand: list, create, rename, delete")
	}

	switch args[0] {
	case "list", "ls":
		for _, ws := range c.service.ListWorkspaces() {
			fmt.Printf("%s - %s\n", ws.ID, ws.Name)
		}
		return nil
	case "create", "new":
		if len(args) < 2 {
			return fmt.Errorf("workspace create requires a name")
		}
		ws, err := c.service.CreateWorkspace(strings.Join(args[1:], " "))
		if err != nil {
			return fmt.Errorf("failed to create workspace: %w", err)
		}
		fmt.Printf("Created workspace %s\n", ws.ID)
		return nil
	case "rename":
		if len(args) < 3 {
			return fmt.Errorf("workspace rename requires an ID and a new name")
		}
		if err := c.service.RenameWorkspace(args[1], strings.Join(args[2:], " ")); err != nil {
			return fmt.Errorf("failed to rename workspace: %w", err)
		}
		fmt.Println("Workspace renamed")
		return nil
	case "delete", "rm":
		if len(args) < 2 {
			return fmt.Errorf("workspace delete requires an ID")
		}
		if err := c.service.DeleteWorkspace(args[1]); err != nil {
			return fmt.Errorf("failed to delete workspace: %w", err)
		}
		fmt.Println("Workspace deleted")
		return nil
	default:
		return fmt.Errorf("unknown workspace subcommand: %s", args[0])
	}
}

// handleFolder handles folder subcommands
func (c *CLI) handleFolder(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("folder requires a subcommand: list, create, rename, delete")
	}

	switch args[0] {
	case "list", "ls":
		if len(args) < 2 {
			return fmt.Errorf("folder list requires a workspace ID")
		}
		for _, f := range c.service.ListFolders(args[1]) {
			if f.ParentID != nil {
				fmt.Printf("%s - %s (parent %s)\n", f.ID, f.Name, *f.ParentID)
			} else {
				fmt.Printf("%s - %s\n", f.ID, f.Name)
			}
		}
		return nil
	case "create", "new":
		if len(args) < 3 {
			return fmt.Errorf("folder create requires a workspace ID and a name")
		}
		workspaceID := args[1]
		name := args[2]
		var parentID *string
		for i := 3; i < len(args); i++ {
			if args[i] == "--parent" && i+1 < len(args) {
				parentID = &args[i+1]
				i++
			}
		}
		folder, err := c.service.CreateFolder(name, workspaceID, parentID)
		if err != nil {
			return fmt.Errorf("failed to create folder: %w", err)
		}
		fmt.Printf("Created folder %s\n", folder.ID)
		return nil
	case "rename":
		if len(args) < 3 {
			return fmt.Errorf("folder rename requires an ID and a new name")
		}
		if err := c.service.RenameFolder(args[1], strings.Join(args[2:], " ")); err != nil {
			return fmt.Errorf("failed to rename folder: %w", err)
		}
		fmt.Println("Folder renamed")
		return nil
	case "delete", "rm":
		if len(args) < 2 {
			return fmt.Errorf("folder delete requires an ID")
		}
		if err := c.service.DeleteFolder(args[1]); err != nil {
			return fmt.Errorf("failed to delete folder: %w", err)
		}
		fmt.Println("Folder deleted")
		return nil
	default:
		return fmt.Errorf("unknown folder subcommand: %s", args[0])
	}
}

// loadSession loads a saved template into a fresh editing session
func (c *CLI) loadSession(id string) (*session.Session, error) {
	t, err := c.service.GetTemplate(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	sess := session.New()
	sess.Load(*t)
	return sess, nil
}

// formatOutput formats templates for output
func (c *CLI) formatOutput(templates []*models.SavedTemplate, format string) error {
	switch format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(templates)
	case "ids":
		for _, t := range templates {
			fmt.Println(t.ID)
		}
	case "table":
		fmt.Printf("%-36s %-30s %s\n", "ID", "Name", "Created")
		fmt.Println(strings.Repeat("-", 78))
		for _, t := range templates {
			name := t.Name
			if len(name) > 30 {
				name = name[:27] + "..."
			}
			fmt.Printf("%-36s %-30s %s\n", t.ID, name, t.CreatedAt.Format("2006-01-02"))
		}
	default:
		for _, t := range templates {
			fmt.Printf("%s - %s\n", t.ID, t.Name)
		}
	}
	return nil
}

// formatSingleTemplate formats a single template for output
func (c *CLI) formatSingleTemplate(t *models.SavedTemplate, format string) error {
	switch format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(t)
	default:
		sess := session.New()
		sess.Load(*t)
		fmt.Printf("ID: %s\n", t.ID)
		fmt.Printf("Name: %s\n", t.Name)
		fmt.Printf("Workspace: %s\n", t.WorkspaceID)
		if t.FolderID != nil {
			fmt.Printf("Folder: %s\n", *t.FolderID)
		}
		fmt.Printf("Created: %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
		if len(t.Variables) > 0 {
			fmt.Println("Variables:")
			for _, v := range t.Variables {
				fmt.Printf("  %s (%s)\n", v.Name, v.Type)
			}
		}
		fmt.Printf("\nTemplate:\n%s\n", sess.TemplateString())
	}
	return nil
}

func (c *CLI) printUsage() error {
	fmt.Println(`format-weaver - turn example documents into reusable templates

Usage: format-weaver <command> [arguments]

Library:
  init                                Initialize the template library
  list [--format json|ids|table]      List saved templates
  search <query>                      Fuzzy-search templates by name
  show <id> [--format json]           Show a template
  create <name> --file <path>         Create a template from text with
                                      {{name}} placeholders
  rename <id> <name>                  Rename a template
  move <id> --folder <id>|--root      Move a template
  delete <id>                         Delete a template
  suggest <id> <suggestions.json>     Apply variable suggestions

Rendering:
  render <id> [--var name=value]...   Render with supplied values
         [--copy] [--out <file>]
  render-csv <id> <file.csv>          Render once per CSV row
         [--map variable=column]...
         [--zip [path]|--csv <path>|--copy]
  demo [--save]                       Show the built-in demo template

Organization:
  workspace list|create|rename|delete
  folder list|create|rename|delete`)
	return nil
}
