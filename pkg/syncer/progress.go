package syncer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressSample is one parsed progress observation from the sync tool's
// output. Recomputed per line, never persisted.
type ProgressSample struct {
	Transferred int64
	Total       int64
	TotalKnown  bool
	Rate        float64 // bytes per second, 0 when the line carries none
	Remaining   int
	Elapsed     time.Duration
}

// ETA estimates the remaining transfer time from the sample's own rate.
func (s ProgressSample) ETA() time.Duration {
	if !s.TotalKnown || s.Rate <= 0 || s.Transferred >= s.Total {
		return 0
	}
	return time.Duration(float64(s.Total-s.Transferred) / s.Rate * float64(time.Second))
}

// The AWS CLI emits carriage-return progress lines of the form
//
//	Completed 523.2 KiB/1.4 MiB (217.1 KiB/s) with 4 file(s) remaining
//
// where the total and remaining count are prefixed with ~ while the
// listing is still underway.
var progressRe = regexp.MustCompile(
	`^Completed ([0-9.]+) ([A-Za-z]+)/(~?)([0-9.]+) ([A-Za-z]+)` +
		`(?: \(([0-9.]+) ([A-Za-z]+)/s\))?` +
		`(?: with ~?([0-9]+) file\(s\) remaining)?\s*$`)

// objectRe matches the per-object completion lines, dryrun variant
// included.
var objectRe = regexp.MustCompile(`^(?:\(dryrun\) )?(download|copy|delete): (\S+)(?: to (\S+))?`)

var unitScale = map[string]float64{
	"B":     1,
	"Byte":  1,
	"Bytes": 1,
	"KiB":   1 << 10,
	"MiB":   1 << 20,
	"GiB":   1 << 30,
	"TiB":   1 << 40,
	"KB":    1e3,
	"MB":    1e6,
	"GB":    1e9,
	"TB":    1e12,
}

// ParseProgressLine parses a single output line into a ProgressSample.
// Returns false for lines that are not progress lines.
func ParseProgressLine(line string) (ProgressSample, bool) {
	m := progressRe.FindStringSubmatch(line)
	if m == nil {
		return ProgressSample{}, false
	}

	transferred, err := parseBytes(m[1], m[2])
	if err != nil {
		return ProgressSample{}, false
	}
	total, err := parseBytes(m[4], m[5])
	if err != nil {
		return ProgressSample{}, false
	}

	sample := ProgressSample{
		Transferred: transferred,
		Total:       total,
		TotalKnown:  m[3] != "~",
	}
	if m[6] != "" {
		if rate, err := parseBytes(m[6], m[7]); err == nil {
			sample.Rate = float64(rate)
		}
	}
	if m[8] != "" {
		if n, err := strconv.Atoi(m[8]); err == nil {
			sample.Remaining = n
		}
	}
	return sample, true
}

// ParseObjectLine extracts the remote key from a per-object line such as
// "download: s3://bucket/key to dest/key". Returns false for other lines.
func ParseObjectLine(line string) (string, bool) {
	m := objectRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[2], true
}

func parseBytes(value, unit string) (int64, error) {
	scale, ok := unitScale[unit]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return int64(v * scale), nil
}

// Renderer receives parsed progress and owns the terminal display.
type Renderer interface {
	Update(sample ProgressSample)
	Object(key string)
	Finish()
}

// BarRenderer renders a single mutable progress line.
type BarRenderer struct {
	out io.Writer
	bar *progressbar.ProgressBar
	max int64
}

// NewBarRenderer creates a renderer writing to out.
func NewBarRenderer(out io.Writer) *BarRenderer {
	return &BarRenderer{out: out}
}

func (r *BarRenderer) ensureBar(max int64) {
	if r.bar != nil {
		return
	}
	r.max = max
	r.bar = progressbar.NewOptions64(max,
		progressbar.OptionSetDescription("syncing"),
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(r.out)
		}),
	)
}

// Update moves the bar to the sample's position, growing the total when
// the listing reveals more data.
func (r *BarRenderer) Update(sample ProgressSample) {
	total := sample.Total
	if total <= 0 {
		total = -1
	}
	r.ensureBar(total)
	if total > 0 && total != r.max {
		r.bar.ChangeMax64(total)
		r.max = total
	}
	_ = r.bar.Set64(sample.Transferred)
}

// Object updates the description with the object currently transferring.
func (r *BarRenderer) Object(key string) {
	r.ensureBar(-1)
	r.bar.Describe(fmt.Sprintf("syncing %s", key))
}

// Finish completes the bar.
func (r *BarRenderer) Finish() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
}
