package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/elbywan/balises-sub001/balise"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	iterationsKey = "iterations"
	cpuProfileKey = "cpuprofile"
)

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Benchmark balise dirty propagation across w*h computed grids",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  iterationsKey,
				Usage: "Writes per grid shape",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  cpuProfileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Uint(iterationsKey))

	if profilePath := cmd.String(cpuProfileKey); profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	log.Printf("propagation benchmark, %s iterations per shape", humanize.Comma(int64(iters)))

	tbl := table.NewWriter()
	tbl.SetTitle("Balise Signals")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "checksum"})

	for _, w := range ww {
		for _, h := range hh {
			row, err := benchmarkGrid(w, h, iters)
			if err != nil {
				return err
			}
			tbl.AppendRows([]table.Row{row})
		}
	}

	tbl.Render()
	return nil
}

// benchmarkGrid wires one root signal into w independent chains of h
// computeds each, subscribes at every tail, then times iters root writes.
// The xxhash checksum over every tail value observed catches regressions
// that alter propagation results rather than just speed.
func benchmarkGrid(w, h, iters int) (table.Row, error) {
	rs := balise.CreateReactiveSystem(func(from balise.SignalAware, err error) {
		log.Panic(err)
	})

	src := balise.Signal(rs, 1)
	digest := xxhash.New()

	tails := make([]*balise.ReadonlySignal[int], 0, w)
	for i := 0; i < w; i++ {
		var last balise.Readable[int] = src
		for j := 0; j < h; j++ {
			prev := last
			last = balise.Computed(rs, func(oldValue int) (int, error) {
				return prev.Value() + 1, nil
			})
		}
		tail := last.(*balise.ReadonlySignal[int])
		tail.Subscribe(func(v int) {
			var buf [8]byte
			for b := 0; b < 8; b++ {
				buf[b] = byte(v >> (8 * b))
			}
			digest.Write(buf[:])
		})
		tails = append(tails, tail)
	}

	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		start := time.Now()
		src.SetValue(src.Value() + 1)
		tach.AddTime(time.Since(start))
	}

	for _, tail := range tails {
		if want, got := src.Value()+h, tail.Value(); want != got {
			return nil, fmt.Errorf("grid %dx%d: tail yielded %d, want %d", w, h, got, want)
		}
	}

	calc := tach.Calc()
	return table.Row{
		fmt.Sprintf("propagate: %d * %d", w, h),
		calc.Time.Avg,
		calc.Time.Min,
		calc.Time.P75,
		calc.Time.P99,
		calc.Time.Max,
		fmt.Sprintf("%016x", digest.Sum64()),
	}, nil
}
