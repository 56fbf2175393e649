package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/stackdio/console/internal/screens"
)

type listOptions struct {
	Screen   string
	Search   string
	Sort     string
	Desc     bool
	Page     int
	Filter   string
	JSON     bool
	Advanced bool
	Timeout  time.Duration
}

func parseListFlags(args []string) (listOptions, error) {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts listOptions
	fs.StringVar(&opts.Search, "search", "", "Search term sent as the q parameter")
	fs.StringVar(&opts.Sort, "sort", "", "Sort the page by this key")
	fs.BoolVar(&opts.Desc, "desc", false, "Sort in descending order")
	fs.IntVar(&opts.Page, "page", 1, "Page number to print")
	fs.StringVar(&opts.Filter, "filter", "", "JMESPath expression every result must satisfy")
	fs.BoolVar(&opts.JSON, "json", false, "Print rows as JSON")
	fs.BoolVar(&opts.Advanced, "advanced", false, "Turn the advanced view on")
	fs.DurationVar(&opts.Timeout, "timeout", time.Minute, "Overall command timeout")

	positional, err := parseWithPositionals(fs, args, 1)
	if err != nil {
		return listOptions{}, err
	}
	if len(positional) == 0 {
		return listOptions{}, errors.New("screen name is required")
	}
	opts.Screen = positional[0]

	if opts.Page < 1 {
		return listOptions{}, fmt.Errorf("--page must be at least 1, got %d", opts.Page)
	}
	if opts.Desc && opts.Sort == "" {
		return listOptions{}, errors.New("--desc requires --sort")
	}
	return opts, nil
}

// parseWithPositionals accepts up to n positional arguments before or after the flags.
func parseWithPositionals(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	var positional []string
	for len(args) > 0 && len(positional) < n && !strings.HasPrefix(args[0], "-") {
		positional = append(positional, args[0])
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	positional = append(positional, fs.Args()...)
	if len(positional) > n {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(positional[n:], " "))
	}
	return positional, nil
}

func runList(cmdCtx *commandContext, args []string) error {
	opts, err := parseListFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()
	cmdCtx = &commandContext{Ctx: ctx, Logger: cmdCtx.Logger, Config: cmdCtx.Config, Out: cmdCtx.Out}

	sess, err := openSession(cmdCtx, opts.Screen, screens.OpenOptions{
		Filter:             opts.Filter,
		DisableAutoRefresh: true,
		Advanced:           opts.Advanced,
	})
	if err != nil {
		return err
	}
	defer sess.Close(cmdCtx.Logger)

	if err := loadPage(ctx, sess, opts); err != nil {
		return err
	}

	table := sess.Table()
	if opts.JSON {
		return renderJSON(cmdCtx.Out, table)
	}
	return renderTable(cmdCtx.Out, table)
}

// loadPage initializes the session and moves it to the requested page and order.
func loadPage(ctx context.Context, sess *session, opts listOptions) error {
	sess.Init(ctx)
	if opts.Search != "" {
		sess.Search(ctx, opts.Search)
	}
	if err := sess.recorder.Err(); err != nil {
		return err
	}

	for sess.Table().Pagination.Page < opts.Page {
		before := sess.Table().Pagination.Page
		if !sess.Table().Pagination.HasNext {
			return fmt.Errorf("page %d does not exist (last page is %d)", opts.Page, before)
		}
		sess.GoToNextPage(ctx)
		if err := sess.recorder.Err(); err != nil {
			return err
		}
		if sess.Table().Pagination.Page == before {
			return fmt.Errorf("could not move past page %d", before)
		}
	}

	if opts.Sort != "" {
		if err := sess.ChangeSortKey(opts.Sort); err != nil {
			return err
		}
		if opts.Desc {
			if err := sess.ChangeSortKey(opts.Sort); err != nil {
				return err
			}
		}
	}
	return nil
}

func runScreens(cmdCtx *commandContext, _ []string) error {
	return renderScreens(cmdCtx.Out, screens.All())
}

func renderScreens(w io.Writer, all []screens.Screen) error {
	tw := newTabWriter(w)
	if err := writef(tw, "NAME\tALIASES\tTITLE\tREFRESH\tSORT KEYS\n"); err != nil {
		return err
	}
	for _, s := range all {
		refresh := "no"
		if s.AutoRefresh() {
			refresh = "yes"
		}
		title := s.Title()
		if s.AdvancedOnly() {
			title += " (advanced)"
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.Name(), strings.Join(s.Aliases(), ","), title, refresh, strings.Join(s.SortKeys(), ",")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
