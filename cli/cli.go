package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/calc/cli/cmd"
	"github.com/ardnew/calc/pkg"
)

// CLI is the top-level command-line interface for calc.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source   []string `help:"Prelude file(s) evaluated before the command, or '-' for stdin" name:"source" short:"s" type:"existingfile"`
	MaxDepth int      `default:"10000" help:"Maximum nested function calls (0 for no limit)" name:"max-depth"`

	Eval    cmd.Eval    `cmd:"" default:"withargs" help:"Evaluate lines (default)"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Print the syntax tree of lines"`
	Init    cmd.Init    `cmd:""                    help:"Write the configuration file"`
	Version cmd.Version `cmd:""                    help:"Print the version"`
}

// Run executes the calc CLI with the given context and arguments.
// The exit function is called with the exit code when kong exits early,
// such as after printing help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before parsing so that parse errors are logged
	// the way the user asked, whatever the flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(baseConfig), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithMaxDepth(ctx, cli.MaxDepth)

	cli.Log.start(ctx)

	defer cmd.LogCacheStats(ctx)

	// No-op unless built with the pprof tag and a mode is set.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
