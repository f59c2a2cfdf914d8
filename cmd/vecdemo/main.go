package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/vec"
	"github.com/pavanmanishd/vec/alloc"
	"github.com/pavanmanishd/vec/internal/config"
)

var (
	configFile string
	count      int
	allocator  string
	chunkSize  int
	logLevel   string
	logFormat  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "vecdemo",
		Short:        "exercise a growable vector over raw allocators",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().IntVar(&count, "count", config.DefaultCount, "number of elements to push")
	rootCmd.PersistentFlags().StringVar(&allocator, "allocator", config.DefaultAllocator, "allocator: heap, arena or mmap")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", 0, "arena chunk size in bytes (0 for default)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format: text or json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "push 1..count and report length, capacity and lookups",
		Args:  cobra.NoArgs,
		RunE:  runDemo,
	}

	growthCmd := &cobra.Command{
		Use:   "growth",
		Short: "print the capacity each time it changes",
		Args:  cobra.NoArgs,
		RunE:  runGrowth,
	}

	rootCmd.AddCommand(runCmd, growthCmd)
	return rootCmd
}

// loadConfig merges the config file, if any, with flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("allocator") {
		cfg.Allocator = allocator
	}
	if flags.Changed("chunk-size") {
		cfg.ArenaChunkSize = chunkSize
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Log, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// openAllocator is swapped in tests.
var openAllocator = newAllocator

// newAllocator builds the configured backend and a function releasing it.
func newAllocator(cfg *config.Config) (alloc.Allocator, func() error, error) {
	switch cfg.Allocator {
	case config.AllocatorArena:
		a := alloc.NewArena(cfg.ArenaChunkSize)
		return a, func() error { a.Release(); return nil }, nil
	case config.AllocatorMmap:
		m, err := alloc.NewMmap()
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	default:
		return alloc.Heap{}, func() error { return nil }, nil
	}
}

// fill builds a vector from cfg and pushes 1..cfg.Count, calling observe
// after each push and done once the vector is full, before it is released.
func fill(cmd *cobra.Command, observe func(v *vec.Vec[int64], pushed int), done func(cfg *config.Config, v *vec.Vec[int64])) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a, closeAlloc, err := openAllocator(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeAlloc(); cerr != nil {
			logger.Error("vecdemo: close allocator", "allocator", cfg.Allocator, "error", cerr)
			err = errors.Join(err, cerr)
		}
	}()

	v := vec.New[int64](vec.WithAllocator(a), vec.WithLogger(logger))
	defer v.Release()
	for i := 1; i <= cfg.Count; i++ {
		v.Push(int64(i))
		if observe != nil {
			observe(v, i)
		}
	}
	logger.Info("vecdemo: filled", "allocator", cfg.Allocator, "len", v.Len(), "capacity", v.Cap())
	if done != nil {
		done(cfg, v)
	}
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	return fill(cmd, nil, func(cfg *config.Config, v *vec.Vec[int64]) {
		m := v.Metrics()
		fmt.Fprintf(out, "length: %d\ncapacity: %d\n", m.Len, m.Cap)
		for _, i := range cfg.Lookups {
			if x, ok := v.Get(i); ok {
				fmt.Fprintf(out, "get(%d): %d\n", i, x)
			} else {
				fmt.Fprintf(out, "get(%d): none\n", i)
			}
		}
		fmt.Fprintf(out, "bytes allocated: %d\nutilization: %.2f%%\ngrows: %d, relocations: %d\n",
			m.BytesAllocated, m.Utilization*100, m.Grows, m.Relocations)
	})
}

func runGrowth(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PUSH\tCAPACITY\tBYTES\tRELOCATIONS")
	last := 0
	err := fill(cmd, func(v *vec.Vec[int64], pushed int) {
		if v.Cap() == last {
			return
		}
		last = v.Cap()
		m := v.Metrics()
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", pushed, m.Cap, m.BytesAllocated, m.Relocations)
	}, nil)
	if err != nil {
		return err
	}
	return w.Flush()
}
