package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/disiqueira/gotree/v3"
	"github.com/urfave/cli/v3"

	"github.com/starford/qvlib/internal"
	"github.com/starford/qvlib/internal/markup"
)

// Output formats accepted by show.
const (
	formatMarkup   = "markup"
	formatDocument = "document"
	formatJSON     = "json"
	formatHTML     = "html"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the REST API",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := internal.Run(ctx,
				internal.WithConfig(cfg),
				internal.WithLogger(internal.NewLogger(cmd.Root().ErrWriter, cfg.App.LogLevel)),
				internal.WithVersion(version),
			); err != nil {
				return fmt.Errorf("app run error: %w", err)
			}
			return nil
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve MCP tools on stdin/stdout",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return internal.RunMCP(ctx,
				internal.WithConfig(cfg),
				internal.WithLogger(internal.NewLogger(cmd.Root().ErrWriter, cfg.App.LogLevel)),
				internal.WithVersion(version),
			)
		},
	}
}

func notebooksCommand() *cli.Command {
	return &cli.Command{
		Name:  "notebooks",
		Usage: "List notebooks",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ws, err := openWorkspace(cmd, internal.WithoutIndex())
			if err != nil {
				return err
			}
			defer ws.Close()

			items, err := ws.Service.Notebooks(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "UUID\tNAME")
			for _, nb := range items {
				fmt.Fprintf(tw, "%s\t%s\n", nb.UUID, nb.Name)
			}
			return tw.Flush()
		},
	}
}

func notesCommand() *cli.Command {
	return &cli.Command{
		Name:  "notes",
		Usage: "List notes of the notebooks whose name matches a glob",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "notebook",
				Usage: "Notebook name glob",
				Value: "*",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ws, err := openWorkspace(cmd, internal.WithoutIndex())
			if err != nil {
				return err
			}
			defer ws.Close()

			notebooks, err := ws.Resolver.MatchNotebooks(ctx, ws.Service.LibraryPath(), cmd.String("notebook"))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "UUID\tNOTEBOOK\tTITLE\tUPDATED")
			for _, nb := range notebooks {
				notes, err := ws.Resolver.ListNotes(ctx, nb)
				if err != nil {
					return err
				}
				for _, n := range notes {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.UUID, nb.Name, n.Title, n.Updated().Format("2006-01-02 15:04"))
				}
			}
			return tw.Flush()
		},
	}
}

func treeCommand() *cli.Command {
	return &cli.Command{
		Name:  "tree",
		Usage: "Print the library as a tree of notebooks and notes",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ws, err := openWorkspace(cmd, internal.WithoutIndex())
			if err != nil {
				return err
			}
			defer ws.Close()

			root := ws.Service.LibraryPath()
			notebooks, err := ws.Resolver.ListNotebooks(ctx, root)
			if err != nil {
				return err
			}
			tree := gotree.New(root)
			for _, nb := range notebooks {
				branch := tree.Add(nb.Name)
				notes, err := ws.Resolver.ListNotes(ctx, nb)
				if err != nil {
					return err
				}
				for _, n := range notes {
					branch.Add(fmt.Sprintf("%s [%s]", n.Title, n.UUID))
				}
			}
			_, err = io.WriteString(cmd.Root().Writer, tree.Print())
			return err
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print one note",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "note",
				Aliases:  []string{"n"},
				Usage:    "Note uuid",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: markup, document, json or html",
				Value:   formatDocument,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ws, err := openWorkspace(cmd, internal.WithoutIndex())
			if err != nil {
				return err
			}
			defer ws.Close()

			uuid := cmd.String("note")
			out := cmd.Root().Writer
			switch format := cmd.String("format"); format {
			case formatDocument:
				md, err := ws.Service.Markup(ctx, uuid)
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, md.Text)
				return err
			case formatMarkup:
				c, err := ws.Service.Content(ctx, uuid)
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, markup.Serialize(c.Cells))
				return err
			case formatJSON:
				c, err := ws.Service.Content(ctx, uuid)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(c)
			case formatHTML:
				html, err := ws.Service.HTML(ctx, uuid)
				if err != nil {
					return err
				}
				_, err = out.Write(html)
				return err
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
}

func applyCommand() *cli.Command {
	return &cli.Command{
		Name:  "apply",
		Usage: "Replace a note's cells from a markup document",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "note",
				Aliases:  []string{"n"},
				Usage:    "Note uuid",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Markup file to read (default stdin)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			text, err := readInput(cmd)
			if err != nil {
				return err
			}
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			defer ws.Close()

			md, err := ws.Service.SaveMarkup(ctx, cmd.String("note"), text)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.Root().Writer, "updated %s %s\n", md.UUID, md.Checksum)
			return err
		},
	}
}

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Bring the search index up to date",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			defer ws.Close()

			stats, err := ws.Service.Reindex(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.Root().Writer, "indexed %d, unchanged %d, removed %d, failed %d\n",
				stats.Indexed, stats.Skipped, stats.Removed, stats.Failed)
			return err
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Full-text search",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: 20,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			query := cmd.Args().First()
			if query == "" {
				return errors.New("search: query is required")
			}
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			defer ws.Close()

			ws.Sync(ctx)
			results, err := ws.Service.Search(ctx, query, int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "UUID\tNOTEBOOK\tTITLE")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.UUID, r.Notebook, r.Title)
			}
			return tw.Flush()
		},
	}
}

func readInput(cmd *cli.Command) (string, error) {
	if path := cmd.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read markup: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.Root().Reader)
	if err != nil {
		return "", fmt.Errorf("read markup: %w", err)
	}
	return string(data), nil
}
