package main

import (
	"fmt"
	"math/bits"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	chessperm "github.com/chessperm/chessperm-go"
)

const statsBaseTranscript = "1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 Nf6 5. O-O Be7"

var samplesFlag = cli.IntFlag{
	Name:  "samples",
	Usage: "Number of inputs for the collision and timing runs",
	Value: 200,
}

// engineStats summarizes one engine.
type engineStats struct {
	Name        string
	AvalancheN  int
	MeanFlipped float64
	MinFlipped  int
	MaxFlipped  int
	Collisions  int
	MeanTime    time.Duration
}

type deriveFunc func(input string) (chessperm.MasterKey, error)

func (cfg *Config) statsCommand() cli.Command {
	return cli.Command{
		Name:  "stats",
		Usage: "Measure avalanche, collisions and timing for each engine",
		Flags: []cli.Flag{samplesFlag},
		Action: func(ctx *cli.Context) error {
			n := ctx.Int(samplesFlag.Name)
			if n < 1 {
				return fmt.Errorf("--samples must be positive")
			}
			return cfg.stats(n)
		},
	}
}

func (cfg *Config) stats(samples int) error {
	engines := []struct {
		name   string
		derive deriveFunc
	}{
		{"spn", func(s string) (chessperm.MasterKey, error) {
			return chessperm.DeriveFromTranscript(s)
		}},
		{"game", func(s string) (chessperm.MasterKey, error) {
			return chessperm.DeriveFromTranscript(s, chessperm.WithEngine(chessperm.EngineGame))
		}},
		{"robust", func(s string) (chessperm.MasterKey, error) {
			return chessperm.DeriveRobust(s, chessperm.WithIterations(100))
		}},
	}

	table := tablewriter.NewWriter(cfg.Stdout)
	table.SetHeader([]string{"Engine", "Flips", "Mean bits", "Min", "Max", "Collisions", "Mean time"})
	for _, e := range engines {
		st, err := measure(e.name, e.derive, statsBaseTranscript, samples)
		if err != nil {
			return err
		}
		table.Append([]string{
			st.Name,
			fmt.Sprint(st.AvalancheN),
			fmt.Sprintf("%.2f", st.MeanFlipped),
			fmt.Sprint(st.MinFlipped),
			fmt.Sprint(st.MaxFlipped),
			fmt.Sprintf("%d/%d", st.Collisions, samples),
			st.MeanTime.Round(time.Microsecond).String(),
		})
	}
	table.Render()
	fmt.Fprintln(cfg.Stdout, "Mean bits near 128 of 256 indicate good diffusion.")
	return nil
}

// measure flips the low bit of each byte of base and counts how many key
// bits change, then derives samples distinct passwords to count collisions
// and time the engine.
func measure(name string, derive deriveFunc, base string, samples int) (engineStats, error) {
	st := engineStats{Name: name, MinFlipped: 256}

	baseKey, err := derive(base)
	if err != nil {
		return st, err
	}
	total := 0
	for i := range len(base) {
		b := []byte(base)
		b[i] ^= 1
		k, err := derive(string(b))
		if err != nil {
			return st, err
		}
		d := hamming(baseKey, k)
		total += d
		st.MinFlipped = min(st.MinFlipped, d)
		st.MaxFlipped = max(st.MaxFlipped, d)
		st.AvalancheN++
	}
	if st.AvalancheN > 0 {
		st.MeanFlipped = float64(total) / float64(st.AvalancheN)
	}

	seen := make(map[chessperm.MasterKey]struct{}, samples)
	start := time.Now()
	for i := range samples {
		k, err := derive(fmt.Sprintf("password%d", i))
		if err != nil {
			return st, err
		}
		if _, dup := seen[k]; dup {
			st.Collisions++
		}
		seen[k] = struct{}{}
	}
	st.MeanTime = time.Since(start) / time.Duration(samples)
	return st, nil
}

func hamming(a, b chessperm.MasterKey) int {
	n := 0
	for i := range a {
		n += bits.OnesCount8(a[i] ^ b[i])
	}
	return n
}
