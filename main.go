package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Meander-Cloud/go-timerqueue/owner"
	"github.com/Meander-Cloud/go-timerqueue/timerqueue"
	"github.com/Meander-Cloud/go-timerqueue/workload"
)

type rootOptions struct {
	Verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "timerqueue",
		Short: "Ordered timer queue with O(1) earliest lookup",
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every queue operation")

	cmd.AddCommand(newScenarioCommand(opts))
	cmd.AddCommand(newSoakCommand(opts))
	cmd.AddCommand(newDumpCommand(opts))

	return cmd
}

func newScenarioCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "scenario",
		Short:        "Add timers 5, 1, 3, 1 then remove them, printing each signal",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd.OutOrStdout(), opts.Verbose)
		},
	}
}

// runScenario drives the queue through an owner so every earliest change is reported.
func runScenario(w io.Writer, verbose bool) error {
	h := timerqueue.NewHead[int64, string]()
	o := owner.NewOwner(
		&owner.Options[int64, string]{
			EventChannelLength: 16,
			LogPrefix:          "scenario",
			LogDebug:           verbose,
			OnEarliestChanged: func(n *timerqueue.Node[int64, string]) {
				if n == nil {
					fmt.Fprintln(w, "earliest: none")
					return
				}
				fmt.Fprintf(w, "earliest: expires=%d value=%s\n", n.Expires(), n.Value)
			},
		},
		h,
	)

	nodes := []*timerqueue.Node[int64, string]{
		timerqueue.NewNode[int64](5, "a"),
		timerqueue.NewNode[int64](1, "b"),
		timerqueue.NewNode[int64](3, "c"),
		timerqueue.NewNode[int64](1, "d"),
	}

	for _, n := range nodes {
		fmt.Fprintf(w, "add expires=%d value=%s\n", n.Expires(), n.Value)
		o.ProcessSync(&owner.AddEvent[int64, string]{Node: n})
	}

	reply := make(chan owner.Snapshot[int64], 1)
	o.ProcessSync(&owner.QueryEvent[int64]{Reply: reply})
	s := <-reply
	fmt.Fprintf(w, "len=%d earliest=%d\n", s.Len, s.Earliest)

	// no loop is running, so the head may be read here
	var order []string
	for n := range h.All() {
		order = append(order, fmt.Sprintf("%d/%s", n.Expires(), n.Value))
	}
	fmt.Fprintf(w, "order: %s\n", strings.Join(order, " "))

	for _, i := range []int{1, 3, 2, 0} {
		n := nodes[i]
		fmt.Fprintf(w, "del expires=%d value=%s\n", n.Expires(), n.Value)
		o.ProcessSync(&owner.DelEvent[int64, string]{Node: n})
	}

	o.ProcessSync(&owner.QueryEvent[int64]{Reply: reply})
	s = <-reply
	fmt.Fprintf(w, "len=%d adds=%d dels=%d earliest changes=%d\n", s.Len, s.AddCount, s.DelCount, s.EarliestChangedCount)
	return nil
}

type soakOptions struct {
	*rootOptions
	Config string
	Seed   int64
}

func newSoakCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &soakOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "soak",
		Short: "Run a randomized add/del workload against a reference tree",
		Long: `Run a deterministic add/del workload and cross-check every signal,
the earliest node and the full traversal against a reference tree.

Example:
  timerqueue soak --config soak.yaml
  timerqueue soak --config soak.yaml --seed 7 --verbose`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := workload.Load(opts.Config)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = opts.Seed
			}
			if opts.Verbose {
				cfg.LogDebug = true
			}

			report, err := workload.Run(cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(
				cmd.OutOrStdout(),
				"adds=%d dels=%d earliest_changes=%d max_len=%d verifications=%d drained=%d\n",
				report.Adds,
				report.Dels,
				report.EarliestChanges,
				report.MaxLen,
				report.Verifications,
				report.Drained,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "soak.yaml", "path to workload YAML, defaults apply when missing")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "override the configured seed")

	return cmd
}

type dumpOptions struct {
	*rootOptions
	Expires string
}

func newDumpCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &dumpOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:          "dump",
		Short:        "Queue the given expirations and print the head in order",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			expires, err := parseExpires(opts.Expires)
			if err != nil {
				return err
			}

			h := timerqueue.NewHead[int64, int]()
			for i, e := range expires {
				earliest := h.Add(timerqueue.NewNode(e, i))
				if opts.Verbose {
					log.Printf("dump: add expires=%d value=%d, earliest=%t", e, i, earliest)
				}
			}
			return h.Dump(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Expires, "expires", "", "comma separated expirations, the value of each node is its position")
	_ = cmd.MarkFlagRequired("expires")

	return cmd
}

func parseExpires(s string) ([]int64, error) {
	var out []int64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid expiration %q: %w", field, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func main() {
	// enable microsecond and file line logging
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
