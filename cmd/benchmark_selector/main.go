package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/elbywan/balises-sub001/balise"
	"github.com/olekukonko/tablewriter"
)

// Compares the cost of N row computeds watching a shared selection signal
// through Is(key) slots against the same N rows depending on the raw value.
// With slots a selection move recomputes two rows; with the raw value it
// recomputes all of them.

var (
	rowCounts = []int{100, 1_000, 10_000}
	moves     = 1_000
)

func main() {
	log.Print("Starting selector benchmark, please wait...")
	defer log.Print("Finished selector benchmark")

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{"rows", "mode", "moves", "recomputes", "elapsed"})

	for _, rows := range rowCounts {
		for _, slotted := range []bool{true, false} {
			recomputes, elapsed := runScenario(rows, moves, slotted)
			mode := "raw"
			if slotted {
				mode = "is(key)"
			}
			tbl.Append([]string{
				humanize.Comma(int64(rows)),
				mode,
				humanize.Comma(int64(moves)),
				humanize.Comma(int64(recomputes)),
				elapsed.String(),
			})
		}
	}

	tbl.Render()
}

func runScenario(rows, moves int, slotted bool) (int, time.Duration) {
	rs := balise.CreateReactiveSystem(func(from balise.SignalAware, err error) {
		log.Panic(err)
	})

	selected := balise.Signal(rs, -1)
	recomputes := 0

	cells := make([]*balise.ReadonlySignal[string], rows)
	for i := 0; i < rows; i++ {
		rowID := i
		cells[i] = balise.Computed(rs, func(oldValue string) (string, error) {
			recomputes++
			on := false
			if slotted {
				on = selected.Is(rowID)
			} else {
				on = selected.Value() == rowID
			}
			if on {
				return "on", nil
			}
			return "off", nil
		})
	}
	recomputes = 0

	start := time.Now()
	for m := 0; m < moves; m++ {
		selected.SetValue(m % rows)
		for _, c := range cells {
			c.Value()
		}
	}
	elapsed := time.Since(start)

	if got := cells[(moves-1)%rows].Value(); got != "on" {
		panic(fmt.Sprintf("selected row reads %q, want \"on\"", got))
	}
	return recomputes, elapsed
}
