package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/sablefm/sable/internal/fileop"
	"github.com/sablefm/sable/internal/notify"
	"github.com/sablefm/sable/internal/progress"
	"github.com/sablefm/sable/internal/queue"
)

// taskIDs mints the task ids that group operations and events per request.
var taskIDs atomic.Uint64

func nextID() fileop.ID {
	return fileop.ID(taskIDs.Add(1))
}

// runEngine wires queue, planner, worker pool, and aggregator together,
// runs plan to schedule work, and blocks until everything drains. Fatal
// leaf failures surface as notifications and a non-zero exit.
func runEngine(ctx context.Context, plan func(p *fileop.Planner) error) error {
	ops := queue.New[fileop.Op]()
	events := make(chan fileop.Progress, 256)

	agg := progress.New()
	center := notify.NewCenter()

	var consumerWg sync.WaitGroup
	consumerWg.Add(1)
	go func() {
		defer consumerWg.Done()
		for ev := range events {
			agg.Apply(ev)
			if ev.Kind == fileop.ProgressFail {
				center.Push(notify.Message{
					Title:   "Task failed",
					Content: ev.Message,
					Level:   notify.Error,
					Timeout: 5 * time.Second,
				})
			}
		}
	}()

	worker := fileop.NewWorker(ops, events, fileop.WorkerConfig{
		RetryMax: engineCfg.Tasks.BizarreRetry,
		Verify:   engineCfg.Tasks.Verify,
	})
	pool := fileop.NewPool(ops, events, worker, engineCfg.Tasks.Workers)

	poolDone := make(chan struct{})
	go func() {
		defer close(poolDone)
		pool.Run(ctx)
	}()

	planErr := plan(fileop.NewPlanner(ops, events))

	ops.Close()
	<-poolDone
	close(events)
	consumerWg.Wait()

	totals := agg.Totals()
	fmt.Fprintln(os.Stderr, totals)
	for _, msg := range center.Pending() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", msg.Title, msg.Content)
	}

	if planErr != nil {
		return planErr
	}
	if totals.Failed > 0 {
		return &exitError{code: 1}
	}
	return nil
}

// resolvePaste expands "src... dst" argument lists into absolute
// from/to pairs, copying into dst when it is an existing directory.
func resolvePaste(args []string) ([][2]string, error) {
	dst, err := filepath.Abs(args[len(args)-1])
	if err != nil {
		return nil, err
	}
	sources := args[:len(args)-1]

	dstInfo, statErr := os.Stat(dst)
	dstIsDir := statErr == nil && dstInfo.IsDir()
	if len(sources) > 1 && !dstIsDir {
		return nil, fmt.Errorf("destination %s must be an existing directory", dst)
	}

	pairs := make([][2]string, 0, len(sources))
	for _, src := range sources {
		from, err := filepath.Abs(src)
		if err != nil {
			return nil, err
		}
		to := dst
		if dstIsDir {
			to = filepath.Join(dst, filepath.Base(from))
		}
		pairs = append(pairs, [2]string{from, to})
	}
	return pairs, nil
}

func pasteCmd(use, short string, cut bool) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   use + " <source>... <destination>",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := resolvePaste(args)
			if err != nil {
				return err
			}
			err = runEngine(cmd.Context(), func(p *fileop.Planner) error {
				for _, pair := range pairs {
					op := fileop.PasteOp{
						ID:     nextID(),
						From:   pair[0],
						To:     pair[1],
						Cut:    cut,
						Follow: follow,
					}
					if err := p.Paste(op); err != nil {
						return err
					}
				}
				return nil
			})
			if cut {
				// A directory move is copy-then-delete; once the leaf
				// deletions have drained, sweep out the emptied tree.
				for _, pair := range pairs {
					fileop.RemoveEmptyDirs(pair[0])
				}
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "L", false, "follow symlinks instead of copying them")
	return cmd
}

func cpCmd() *cobra.Command {
	return pasteCmd("cp", "Copy files and directories", false)
}

func mvCmd() *cobra.Command {
	return pasteCmd("mv", "Move files and directories", true)
}

func lnCmd() *cobra.Command {
	var resolve, relative, deleteSource bool
	cmd := &cobra.Command{
		Use:   "ln <target> <link>",
		Short: "Create a symbolic link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			to, err := filepath.Abs(args[1])
			if err != nil {
				return err
			}
			return runEngine(cmd.Context(), func(p *fileop.Planner) error {
				return p.Link(fileop.LinkOp{
					ID:       nextID(),
					From:     from,
					To:       to,
					Resolve:  resolve,
					Relative: relative,
					Delete:   deleteSource,
				})
			})
		},
	}
	cmd.Flags().BoolVar(&resolve, "resolve", false, "link to the real target of a source symlink")
	cmd.Flags().BoolVar(&relative, "relative", false, "store the target relative to the link's directory")
	cmd.Flags().BoolVar(&deleteSource, "delete", false, "remove the source after linking")
	return cmd
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <target>...",
		Short: "Delete files and directory contents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := make([]string, len(args))
			for i, arg := range args {
				abs, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				targets[i] = abs
			}
			err := runEngine(cmd.Context(), func(p *fileop.Planner) error {
				for _, target := range targets {
					if err := p.Delete(fileop.DeleteOp{ID: nextID(), Target: target}); err != nil {
						return err
					}
				}
				return nil
			})
			// Delete only schedules files; emptied directories are the
			// pruner's job.
			for _, target := range targets {
				fileop.RemoveEmptyDirs(target)
			}
			return err
		},
	}
}

func trashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trash <target>...",
		Short: "Move entries to the system trash",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd.Context(), func(p *fileop.Planner) error {
				for _, arg := range args {
					target, err := filepath.Abs(arg)
					if err != nil {
						return err
					}
					if err := p.Trash(fileop.TrashOp{ID: nextID(), Target: target}); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
