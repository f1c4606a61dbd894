// Command wininfo prints properties of the synthesis window functions.
//
// Usage:
//
//	wininfo [flags] [window-name ...]
//
// Without arguments it prints info for all known window types.
//
// Examples:
//
//	wininfo hann
//	wininfo -size 1024 tukey
//	wininfo -size 4096 -alpha 0.8 tukey
//	wininfo -list
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-psola/dsp/window"
)

type windowEntry struct {
	name     string
	typ      window.Type
	hasAlpha bool
	defAlpha float64
}

var registry = []windowEntry{
	{"rectangular", window.TypeRectangular, false, 0},
	{"hann", window.TypeHann, false, 0},
	{"hamming", window.TypeHamming, false, 0},
	{"blackman", window.TypeBlackman, false, 0},
	{"tukey", window.TypeTukey, true, 0.5},
}

func main() {
	size := flag.Int("size", 1024, "window length in samples")
	alpha := flag.Float64("alpha", math.NaN(), "alpha parameter for the tukey window")
	list := flag.Bool("list", false, "list available window names")
	periodic := flag.Bool("periodic", false, "use periodic (FFT) form instead of symmetric")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wininfo [flags] [window-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints properties of the synthesis window functions.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints info for all windows.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	names := flag.Args()
	if len(names) == 0 {
		for _, e := range registry {
			names = append(names, e.name)
		}
	}

	entries := resolveEntries(names, *alpha)
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching window types\n")
		os.Exit(1)
	}

	var opts []window.Option
	if *periodic {
		opts = append(opts, window.WithPeriodic())
	}

	printAnalysis(entries, *size, opts)
}

func printList() {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
}

type resolvedEntry struct {
	windowEntry
	alphaOverride float64
}

func resolveEntries(names []string, alphaFlag float64) []resolvedEntry {
	byName := make(map[string]windowEntry, len(registry))
	for _, e := range registry {
		byName[e.name] = e
	}

	var result []resolvedEntry
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		e, ok := byName[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: unknown window %q (use -list to see available)\n", name)
			continue
		}
		a := e.defAlpha
		if e.hasAlpha && !math.IsNaN(alphaFlag) {
			a = alphaFlag
		}
		result = append(result, resolvedEntry{e, a})
	}
	return result
}

func printAnalysis(entries []resolvedEntry, size int, baseOpts []window.Option) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tSize\tCoherent Gain\tENBW [bins]\tOverlap Gain 50%%\n")
	fmt.Fprintf(tw, "------\t----\t-------------\t-----------\t----------------\n")

	for _, e := range entries {
		opts := append([]window.Option(nil), baseOpts...)
		if e.hasAlpha {
			opts = append(opts, window.WithAlpha(e.alphaOverride))
		}

		coeffs := window.Generate(e.typ, size, opts...)

		label := e.name
		if e.hasAlpha {
			label = fmt.Sprintf("%s (a=%.2f)", e.name, e.alphaOverride)
		}

		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\t%.4f\n",
			label,
			size,
			coherentGain(coeffs),
			enbw(coeffs),
			overlapGain(coeffs),
		)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

// coherentGain is the DC gain of the window, sum(w)/N.
func coherentGain(coeffs []float64) float64 {
	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs))
}

// enbw is the equivalent noise bandwidth in bins, N*sum(w^2)/sum(w)^2.
func enbw(coeffs []float64) float64 {
	var sum, sumSq float64
	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}
	if sum == 0 {
		return math.Inf(1)
	}
	return float64(len(coeffs)) * sumSq / (sum * sum)
}

// overlapGain is the mean gain of the window overlap-added with itself at a
// half-length hop, the worst-case density used by the pitch-shift synthesis.
func overlapGain(coeffs []float64) float64 {
	n := len(coeffs)
	if n == 0 {
		return 0
	}

	hop := n / 2
	if hop == 0 {
		hop = 1
	}

	sum := 0.0
	for i := 0; i < hop; i++ {
		v := coeffs[i]
		if i+hop < n {
			v += coeffs[i+hop]
		}
		sum += v
	}
	return sum / float64(hop)
}
