package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ghform/internal"
	pkgconfig "github.com/starford/ghform/pkg/config"
)

var version = "dev"

// loadConfig reads the config file and applies flag overrides. A missing
// file is only an error when the path was given explicitly.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	load := pkgconfig.LoadOptional[internal.Config]
	if cmd.IsSet("config") {
		load = pkgconfig.Load[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("dir") {
		cfg.Source.Kind = internal.SourceKindFS
		cfg.Source.Path = cmd.String("dir")
	}
	if cmd.IsSet("port") {
		cfg.App.HTTP.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("live-reload") {
		cfg.App.LiveReload = cmd.Bool("live-reload")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func preview(_ context.Context, cmd *cli.Command) error {
	file := cmd.Args().First()
	if file == "" {
		return cli.Exit("preview: a template file is required", 2)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{internal.WithConfig(cfg)}
	if out := cmd.String("output"); out != "" && out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		opts = append(opts, internal.WithOutput(f))
	}
	return internal.Preview(file, opts...)
}

func check(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := cmd.Args().First()
	if dir == "" {
		dir = cfg.Source.Path
	}
	return internal.Check(ctx, dir, internal.WithConfig(cfg))
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
}

func main() {
	cmd := &cli.Command{
		Name:    "ghform",
		Usage:   "Preview GitHub issue forms and the template chooser as HTML",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("GHFORM_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Template directory (overrides source.path)",
				Sources: cli.EnvVars("GHFORM_DIR"),
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "HTTP port",
				Sources: cli.EnvVars("GHFORM_PORT"),
			},
			&cli.BoolFlag{
				Name:    "live-reload",
				Usage:   "Reload open pages when templates change",
				Sources: cli.EnvVars("GHFORM_LIVE_RELOAD"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the template listing and previews over HTTP",
				Action: serve,
			},
			{
				Name:      "preview",
				Usage:     "Render one template to a standalone HTML page",
				ArgsUsage: "<file>",
				Action:    preview,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the page to this file instead of stdout",
					},
				},
			},
			{
				Name:      "check",
				Usage:     "Decode and lint every template in a directory",
				ArgsUsage: "[dir]",
				Action:    check,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
