package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

var version = "dev"

type CLI struct {
	Config   string           `short:"c" help:"Configuration file path (YAML or TOML)" default:"config.yaml" type:"path"`
	LogLevel string           `name:"log-level" help:"Override logging.level"`
	Language string           `short:"l" help:"Content language tag, overriding content.language and the saved preference"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Status    StatusCmd    `cmd:"" help:"Show session and content status"`
	Show      ShowCmd      `cmd:"" help:"Render the console view, or the raw snapshot with --json"`
	Preview   PreviewCmd   `cmd:"" help:"Preview the published mission and about copy"`
	Login     LoginCmd     `cmd:"" help:"Check credentials against the content service"`
	Copy      CopyCmd      `cmd:"" help:"Edit mission and about copy"`
	Notice    NoticeCmd    `cmd:"" help:"Publish notices"`
	Theme     ThemeCmd     `cmd:"" help:"Show or set the seasonal theme"`
	Collage   CollageCmd   `cmd:"" help:"Upload collage photos"`
	Shell     ShellCmd     `cmd:"" help:"Interactive console"`
	Devserver DevserverCmd `cmd:"" help:"Run an in-memory content service for local development"`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Error loading .env file:", err)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("homeadmin"),
		kong.Description("Admin console for the parish home page."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	a, err := newApp(&cli, os.Stdin, os.Stdout)
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(a))
}
