package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/sonce/newsctl/internal/config"
	"github.com/sonce/newsctl/internal/errors"
	"github.com/sonce/newsctl/internal/ops"
	"github.com/sonce/newsctl/internal/post"
	"github.com/sonce/newsctl/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "newsctl",
		Usage:   "News content pipeline for static sites",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "Site root directory (default: $NEWSCTL_ROOT or cwd)"},
		},
		Commands: []*cli.Command{
			createCmd(),
			rebuildIndexCmd(),
			slugCmd(),
			validateCmd(),
			importCmd(),
			checkBundleCmd(),
			watchCmd(),
			previewCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// site loads the configuration and resolves paths for the selected root.
func site(c *cli.Context) (*config.Config, config.Paths, error) {
	root, err := resolveRoot(c.String("root"))
	if err != nil {
		return nil, config.Paths{}, errors.NewFatal("could not determine site root", err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, config.Paths{}, errors.NewFatal("failed to load config", err)
	}
	paths, err := cfg.Resolve(root)
	if err != nil {
		return nil, config.Paths{}, errors.NewFatal("failed to resolve site paths", err)
	}
	return cfg, paths, nil
}

// createCmd creates the create command.
func createCmd() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a news post and rebuild the index (optionally reads the body from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Post title (required)"},
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Publication date YYYY-MM-DD (default: today)"},
			&cli.StringFlag{Name: "slug", Aliases: []string{"s"}, Usage: "URL slug (default: derived from title)"},
			&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "Author name"},
			&cli.StringFlag{Name: "summary", Usage: "Short summary used for the excerpt"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.StringFlag{Name: "image", Aliases: []string{"i"}, Usage: "Local image file to copy as the hero image"},
			&cli.StringFlag{Name: "image-alt", Usage: "Alt text for the hero image (default: title)"},
			&cli.BoolFlag{Name: "draft", Usage: "Mark the post as a draft"},
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing post with the same date and slug"},
			&cli.BoolFlag{Name: "bundle", Aliases: []string{"b"}, Usage: "Also write an upload zip into the output directory"},
		},
		Action: func(c *cli.Context) error {
			cfg, paths, err := site(c)
			if err != nil {
				return outputError(err)
			}

			input := ops.CreateInput{
				Title:     c.String("title"),
				Date:      c.String("date"),
				Slug:      c.String("slug"),
				Author:    c.String("author"),
				Summary:   c.String("summary"),
				Tags:      parseTags(c.String("tags")),
				ImagePath: c.String("image"),
				ImageAlt:  c.String("image-alt"),
				Draft:     c.Bool("draft"),
				Force:     c.Bool("force"),
				Bundle:    c.Bool("bundle"),
			}

			// Read the body from stdin if piped
			if stdinHasData() {
				body, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.Body = body
			}

			output, err := ops.Create(cfg, paths, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// rebuildIndexCmd creates the rebuild-index command.
func rebuildIndexCmd() *cli.Command {
	return &cli.Command{
		Name:  "rebuild-index",
		Usage: "Re-scan the content directory and rewrite the index document",
		Action: func(c *cli.Context) error {
			cfg, paths, err := site(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.BuildIndex(cfg, paths)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{
				"indexed": output.Indexed,
				"reports": output.Reports,
			})
		},
	}
}

// slugCmd creates the slug command.
func slugCmd() *cli.Command {
	return &cli.Command{
		Name:      "slug",
		Usage:     "Print the URL slug derived from a title",
		ArgsUsage: "<title>",
		Action: func(c *cli.Context) error {
			title := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if title == "" {
				return outputError(errors.NewInvalidRequest("title is required"))
			}
			fmt.Println(post.Slugify(title))
			return nil
		},
	}
}

// validateCmd creates the validate command.
func validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate every post, print per-file errors and warnings, and rebuild the index",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output the full report as JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, paths, err := site(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.ValidateAll(cfg, paths)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				if err := outputJSON(output); err != nil {
					return err
				}
			} else {
				fmt.Println(ops.FormatReports(output.Reports, output.Indexed))
			}

			// Warnings alone keep the exit status at zero.
			if output.Errors > 0 {
				return cli.Exit(fmt.Sprintf("%d validation error(s)", output.Errors), 1)
			}
			return nil
		},
	}
}

// importCmd creates the import command.
func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import upload bundles (a single zip, or everything waiting in incoming)",
		ArgsUsage: "[bundle.zip]",
		Action: func(c *cli.Context) error {
			cfg, paths, err := site(c)
			if err != nil {
				return outputError(err)
			}

			var output *ops.ImportOutput
			if c.NArg() > 0 {
				output, err = ops.ImportBundles(cfg, paths, c.Args().Slice())
			} else {
				output, err = ops.ImportIncoming(cfg, paths)
			}
			if err != nil {
				return outputError(err)
			}

			if err := outputJSON(output); err != nil {
				return err
			}
			if !output.Succeeded() {
				return cli.Exit("one or more bundles failed", 1)
			}
			return nil
		},
	}
}

// checkBundleCmd creates the check-bundle command.
func checkBundleCmd() *cli.Command {
	return &cli.Command{
		Name:      "check-bundle",
		Usage:     "Inspect bundles without importing them (a single zip, or everything in incoming)",
		ArgsUsage: "[bundle.zip]",
		Action: func(c *cli.Context) error {
			cfg, paths, err := site(c)
			if err != nil {
				return outputError(err)
			}

			var checks []*ops.CheckBundleOutput
			if c.NArg() > 0 {
				for _, bundle := range c.Args().Slice() {
					check, err := ops.CheckBundle(cfg, bundle)
					if err != nil {
						return outputError(err)
					}
					checks = append(checks, check)
				}
			} else {
				checks, err = ops.CheckIncoming(cfg, paths)
				if err != nil {
					return outputError(err)
				}
			}

			if err := outputJSON(checks); err != nil {
				return err
			}
			for _, check := range checks {
				if !check.OK {
					return cli.Exit("one or more bundles have problems", 1)
				}
			}
			return nil
		},
	}
}

// watchCmd creates the watch command.
func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Poll the incoming directory and import bundles as they arrive (Ctrl-C to stop)",
		Action: func(c *cli.Context) error {
			cfg, paths, err := site(c)
			if err != nil {
				return outputError(err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(os.Stderr, "watching %s every %ds\n", paths.IncomingDir, cfg.WatchIntervalSeconds)

			err = ops.Watch(ctx, cfg, paths, func(run *ops.ImportOutput, err error) {
				if err != nil {
					fmt.Fprintf(os.Stderr, "import error: %v\n", err)
					return
				}
				_ = outputJSON(run)
			})
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
}

// previewCmd creates the preview command.
func previewCmd() *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "Serve a local preview of the indexed posts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8080, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			cfg, paths, err := site(c)
			if err != nil {
				return outputError(err)
			}

			srv := web.NewServer(cfg, paths, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// outputJSON writes indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if nErr, ok := err.(*errors.NewsError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", nErr.Code, nErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
