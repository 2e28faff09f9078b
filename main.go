package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/dpshade/format-weaver/internal/cli"
	"github.com/dpshade/format-weaver/internal/config"
	"github.com/dpshade/format-weaver/internal/service"
)

var version = "0.1.0"

func printHelp() {
	fmt.Printf(`format-weaver - turn example documents into reusable templates

USAGE:
    format-weaver [OPTIONS] [COMMAND]

OPTIONS:
    --help          Show this help information
    --version       Print version information
    --init          Initialize a new template library

COMMANDS:
    list, ls           List saved templates
    search <query>     Fuzzy-search templates by name
    get, show <id>     Show a specific template
    create, new <name> Create a template from placeholder text
    rename <id>        Rename a template
    move <id>          Move a template between folders
    delete, rm <id>    Delete a template
    render <id>        Render a template with variable values
    render-csv <id>    Render a template once per CSV row
    suggest <id>       Apply variable suggestions from a JSON file
    demo               Show the built-in demo template
    workspace          Workspace management (list, create, rename, delete)
    folder             Folder management (list, create, rename, delete)
    help               Show CLI command help

EXAMPLES:
    format-weaver --init                                  # Initialize new library
    format-weaver create invite --file invite.txt         # Create from placeholder text
    format-weaver list --format table                     # List templates in table format
    format-weaver render <id> --var guest_name=Ada        # Render with a value
    format-weaver render-csv <id> guests.csv --zip out.zip
    format-weaver render-csv <id> guests.csv --map guest_name=Name

STORAGE:
    Default directory: ~/.format-weaver
    Override with: FORMAT_WEAVER_DIR=<path>
`)
}

func main() {
	var showVersion bool
	var initLib bool
	var showHelp bool

	flag.BoolVar(&showVersion, "version", false, "Print version information")
	flag.BoolVar(&initLib, "init", false, "Initialize a new template library")
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.Parse()

	if showHelp {
		printHelp()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("format-weaver version %s\n", version)
		os.Exit(0)
	}

	// A local .env can set FORMAT_WEAVER_DIR; missing files are fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	svc, err := service.NewService(cfg.LibraryDir, cfg.SubscriptionPlan())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if initLib {
		if err := svc.InitLibrary(); err != nil {
			fmt.Fprintln(os.Stderr, "Error initializing library:", err)
			os.Exit(1)
		}
		fmt.Println("Initialized format-weaver library")
		return
	}

	cliHandler := cli.NewCLI(svc)
	if err := cliHandler.ExecuteCommand(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
