package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/stackdio/console/internal/screens"
)

type showOptions struct {
	Screen   string
	ID       string
	Advanced bool
	Timeout  time.Duration
}

func parseShowFlags(args []string) (showOptions, error) {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts showOptions
	fs.BoolVar(&opts.Advanced, "advanced", false, "Turn the advanced view on")
	fs.DurationVar(&opts.Timeout, "timeout", time.Minute, "Overall command timeout")

	positional, err := parseWithPositionals(fs, args, 2)
	if err != nil {
		return showOptions{}, err
	}
	if len(positional) < 2 {
		return showOptions{}, errors.New("usage: show <screen> <id>")
	}
	opts.Screen, opts.ID = positional[0], positional[1]
	return opts, nil
}

func runShow(cmdCtx *commandContext, args []string) error {
	opts, err := parseShowFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()
	cmdCtx = &commandContext{Ctx: ctx, Logger: cmdCtx.Logger, Config: cmdCtx.Config, Out: cmdCtx.Out}

	sess, err := openSession(cmdCtx, opts.Screen, screens.OpenOptions{
		DisableAutoRefresh: true,
		Advanced:           opts.Advanced,
	})
	if err != nil {
		return err
	}
	defer sess.Close(cmdCtx.Logger)

	sess.Init(ctx)
	if err := sess.recorder.Err(); err != nil {
		return err
	}
	return sess.GoToDetail(ctx, opts.ID)
}
