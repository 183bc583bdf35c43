package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// evalLog appends one CSV row per evaluation and prints progress.
type evalLog struct {
	f     *os.File
	w     *csv.Writer
	total int
	start time.Time

	count int
	best  float64
	bestX []float64
}

func newEvalLog(path string, names []string, total int) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	l := &evalLog{f: f, w: csv.NewWriter(f), total: total, start: time.Now(), best: 1e18}
	if err := l.w.Write(append([]string{"eval", "fitness", "quality"}, names...)); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

// record logs one evaluation and keeps the best parameters seen so far.
// survival is the mean run length in seconds.
func (l *evalLog) record(x []float64, fitness, quality, survival float64) {
	l.count++
	if fitness < l.best {
		l.best = fitness
		l.bestX = append(l.bestX[:0], x...)
	}

	row := make([]string, 0, 3+len(x))
	row = append(row, strconv.Itoa(l.count), strconv.FormatFloat(fitness, 'f', 6, 64), strconv.FormatFloat(quality, 'f', 4, 64))
	for _, v := range x {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	l.w.Write(row)
	l.w.Flush()

	elapsed := time.Since(l.start)
	remaining := time.Duration(l.total-l.count) * (elapsed / time.Duration(l.count))
	fmt.Printf("Eval %d/%d: survived=%.0fs quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
		l.count, l.total, survival, quality, l.best, formatDuration(elapsed), formatDuration(remaining))
}

func (l *evalLog) elapsed() time.Duration { return time.Since(l.start) }

func (l *evalLog) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}

// formatDuration renders d as 1h02m03s, or 2m03s below an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
