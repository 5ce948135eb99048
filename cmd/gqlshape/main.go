// Command gqlshape prints GraphQL schemas derived from YAML descriptions or
// database tables.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Verbose bool `help:"Log derivation steps." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     GenCmd     `cmd:"" help:"Derive a schema from a YAML description file."`
	Inspect InspectCmd `cmd:"" help:"Derive a schema from database tables."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(w io.Writer) error {
	_, err := io.WriteString(w, Version()+"\n")
	return err
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("gqlshape"),
		kong.Description("Derive GraphQL object types from structural descriptions."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	setupLogging(cli.Verbose)
	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}
