package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"recipe-shopper/internal/app"
	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/metrics"
	"recipe-shopper/internal/shopping"
)

const defaultOwner = "local"

var errUsage = errors.New("usage")

type cli struct {
	app     *app.App
	metrics *metrics.Store
	out     io.Writer
}

func (c *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "ingest":
		res, err := c.app.IngestRecipes(ctx)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
		fmt.Fprintf(c.out, "Fetched %d recipes: %d updated, %d up to date, %d failed.\n",
			res.Fetched, res.Updated, res.UpToDate, res.Failed)
	case "search":
		return c.search(ctx, args)
	case "show":
		return c.show(ctx, args)
	case "add":
		return c.add(ctx, args)
	case "add-line":
		return c.addLine(ctx, args)
	case "parse":
		if len(args) == 0 {
			return errUsage
		}
		c.printParsed(c.app.Parse(strings.Join(args, " ")))
	case "list":
		return c.list(ctx, args)
	case "update":
		return c.update(ctx, args)
	case "delete":
		return c.delete(ctx, args)
	case "clear":
		fs := flag.NewFlagSet("clear", flag.ExitOnError)
		owner := fs.String("owner", defaultOwner, "List owner")
		fs.Parse(args)
		if err := c.app.ClearList(ctx, *owner); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Shopping list cleared.")
	case "like":
		if len(args) != 1 {
			return errUsage
		}
		liked, err := c.app.ToggleLike(ctx, args[0])
		if err != nil {
			return err
		}
		if liked {
			fmt.Fprintln(c.out, "Recipe liked.")
		} else {
			fmt.Fprintln(c.out, "Recipe unliked.")
		}
	case "likes":
		ls := c.app.Likes()
		if len(ls) == 0 {
			fmt.Fprintln(c.out, "No liked recipes.")
		}
		for _, l := range ls {
			fmt.Fprintf(c.out, "%s\t%s\n", l.ID, l.Title)
		}
	case "export":
		return c.export(ctx, args)
	case "clip":
		return c.clip(ctx, args)
	case "metrics-cleanup":
		fs := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := fs.Int("days", 30, "Keep records for the last N days")
		fs.Parse(args)

		affected, err := c.metrics.Cleanup(ctx, *days)
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
		fmt.Fprintf(c.out, "Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Fprintf(c.out, "Unknown command: %s\n", command)
		return errUsage
	}
	return nil
}

func (c *cli) search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	results, err := c.app.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(c.out, "No recipes found.")
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\n", r.ID, r.Title)
	}
	return tw.Flush()
}

func (c *cli) show(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	servings := fs.Int("servings", 0, "Rescale to this many servings")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errUsage
	}

	rec, err := c.app.Recipe(ctx, fs.Arg(0), *servings)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s\n", rec.Title)
	if rec.Publisher != "" {
		fmt.Fprintf(c.out, "by %s\n", rec.Publisher)
	}
	fmt.Fprintf(c.out, "%d servings, about %d min\n\n", rec.Servings, int(rec.CookingTime.Minutes()))
	for _, line := range rec.Lines() {
		fmt.Fprintf(c.out, "  - %s\n", line)
	}
	return nil
}

func (c *cli) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	servings := fs.Int("servings", 0, "Rescale to this many servings before adding")
	owner := fs.String("owner", defaultOwner, "List owner")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errUsage
	}

	added, err := c.app.AddRecipeToList(ctx, *owner, fs.Arg(0), *servings)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added %d ingredients.\n", len(added))
	return c.printList(ctx, *owner)
}

func (c *cli) addLine(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-line", flag.ExitOnError)
	owner := fs.String("owner", defaultOwner, "List owner")
	fs.Parse(args)
	if fs.NArg() == 0 {
		return errUsage
	}

	item, err := c.app.AddLine(ctx, *owner, strings.Join(fs.Args(), " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added: %s\n", item)
	return nil
}

func (c *cli) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	owner := fs.String("owner", defaultOwner, "List owner")
	asJSON := fs.Bool("json", false, "Print the list as JSON")
	fs.Parse(args)

	if *asJSON {
		items, err := c.app.List(ctx, *owner)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	return c.printList(ctx, *owner)
}

func (c *cli) update(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	owner := fs.String("owner", defaultOwner, "List owner")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return errUsage
	}

	count, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		return fmt.Errorf("invalid count %q", fs.Arg(1))
	}
	id, err := c.resolveItem(ctx, *owner, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := c.app.UpdateItem(ctx, *owner, id, count); err != nil {
		return err
	}
	return c.printList(ctx, *owner)
}

func (c *cli) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	owner := fs.String("owner", defaultOwner, "List owner")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errUsage
	}

	id, err := c.resolveItem(ctx, *owner, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := c.app.DeleteItem(ctx, *owner, id); err != nil {
		return err
	}
	return c.printList(ctx, *owner)
}

// resolveItem accepts either the position printed by list or an item ID.
func (c *cli) resolveItem(ctx context.Context, owner, ref string) (string, error) {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return ref, nil
	}
	items, err := c.app.List(ctx, owner)
	if err != nil {
		return "", err
	}
	if n < 1 || n > len(items) {
		return "", fmt.Errorf("%w: no item %d on the list", shopping.ErrNotFound, n)
	}
	return items[n-1].ID, nil
}

func (c *cli) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	owner := fs.String("owner", defaultOwner, "List owner")
	outPath := fs.String("out", "", "Output file path (.xlsx) (required)")
	fs.Parse(args)
	if *outPath == "" {
		return errUsage
	}

	f, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *outPath, err)
	}
	if err := c.app.ExportList(ctx, *owner, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Wrote %s\n", *outPath)
	return nil
}

func (c *cli) clip(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("clip", flag.ExitOnError)
	publish := fs.Bool("publish", false, "Also publish the recipe to Ghost")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errUsage
	}

	rec, err := c.app.ClipURL(ctx, fs.Arg(0), *publish)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Saved %q as %s (%d ingredients).\n", rec.Title, rec.ID, len(rec.Ingredients))
	return nil
}

func (c *cli) printList(ctx context.Context, owner string) error {
	items, err := c.app.List(ctx, owner)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(c.out, "Shopping list is empty.")
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCOUNT\tUNIT\tINGREDIENT")
	for i, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, ingredient.FormatCount(it.Count), it.Unit, it.Ingredient)
	}
	return tw.Flush()
}

func (c *cli) printParsed(ing ingredient.Ingredient) {
	count := "-"
	if ing.Count != nil {
		count = ingredient.FormatCount(*ing.Count)
	}
	unit := ing.Unit
	if unit == "" {
		unit = "-"
	}
	fmt.Fprintf(c.out, "count: %s\nunit:  %s\nname:  %s\n", count, unit, ing.Name)
}
