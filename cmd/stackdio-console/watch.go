package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stackdio/console/internal/screens"
	"github.com/stackdio/console/internal/viewmodel"
	"golang.org/x/sync/errgroup"
)

type watchOptions struct {
	Screen   string
	Search   string
	Sort     string
	Desc     bool
	Filter   string
	Advanced bool
	Interval time.Duration
	Duration time.Duration
}

func parseWatchFlags(args []string) (watchOptions, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts watchOptions
	fs.StringVar(&opts.Search, "search", "", "Search term sent as the q parameter")
	fs.StringVar(&opts.Sort, "sort", "", "Sort the page by this key")
	fs.BoolVar(&opts.Desc, "desc", false, "Sort in descending order")
	fs.StringVar(&opts.Filter, "filter", "", "JMESPath expression every result must satisfy")
	fs.BoolVar(&opts.Advanced, "advanced", false, "Turn the advanced view on")
	fs.DurationVar(&opts.Interval, "interval", 0, "Refresh interval (defaults to LIST_REFRESH_INTERVAL)")
	fs.DurationVar(&opts.Duration, "for", 0, "Stop after this long (0 runs until interrupted)")

	positional, err := parseWithPositionals(fs, args, 1)
	if err != nil {
		return watchOptions{}, err
	}
	if len(positional) == 0 {
		return watchOptions{}, errors.New("screen name is required")
	}
	opts.Screen = positional[0]
	if opts.Desc && opts.Sort == "" {
		return watchOptions{}, errors.New("--desc requires --sort")
	}
	return opts, nil
}

func runWatch(cmdCtx *commandContext, args []string) error {
	opts, err := parseWatchFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}
	cmdCtx = &commandContext{Ctx: ctx, Logger: cmdCtx.Logger, Config: cmdCtx.Config, Out: cmdCtx.Out}

	sess, err := openSession(cmdCtx, opts.Screen, screens.OpenOptions{
		Filter:          opts.Filter,
		RefreshInterval: opts.Interval,
		Advanced:        opts.Advanced,
	})
	if err != nil {
		return err
	}
	defer sess.Close(cmdCtx.Logger)

	if err := loadPage(ctx, sess, listOptions{Search: opts.Search, Sort: opts.Sort, Desc: opts.Desc, Page: 1}); err != nil {
		// Later failures are left to the refresh loop.
		return err
	}

	tables := make(chan viewmodel.Table, 1)
	tables <- sess.Table()
	unsubscribe := sess.Subscribe(func(t viewmodel.Table) {
		if t.Loading {
			return
		}
		// Keep only the newest table when the printer falls behind.
		select {
		case <-tables:
		default:
		}
		tables <- t
	})
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return printTables(gctx, cmdCtx, tables)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func printTables(ctx context.Context, cmdCtx *commandContext, tables <-chan viewmodel.Table) error {
	var last uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-tables:
			if t.Version <= last {
				continue
			}
			last = t.Version
			if err := writef(cmdCtx.Out, "--- %s\n", time.Now().Format(time.TimeOnly)); err != nil {
				return err
			}
			if err := renderTable(cmdCtx.Out, t); err != nil {
				return err
			}
		}
	}
}
