package micromoment

import (
	"sort"

	"github.com/yungbote/vitality-backend/internal/config"
	"github.com/yungbote/vitality-backend/internal/domain/health"
)

type WindowKind string

const (
	WindowLearned    WindowKind = "learned"
	WindowPreference WindowKind = "preference"
)

// Window is a local hour range [Start, End].
type Window struct {
	Start      int
	End        int
	Confidence float64
	Kind       WindowKind
}

// CandidateWindows pads each optimal hour and adds the user's preferred
// windows, clamping every range to [0,24].
func CandidateWindows(p Pattern, preferred []health.TimeWindow, cfg config.SchedulingConfig) []Window {
	out := make([]Window, 0, len(p.OptimalHours)+len(preferred))
	for _, h := range p.OptimalHours {
		out = append(out, Window{
			Start:      clampHour(h - cfg.WindowPaddingHours),
			End:        clampHour(h + cfg.WindowPaddingHours),
			Confidence: p.ResponseRate,
			Kind:       WindowLearned,
		})
	}
	for _, tw := range preferred {
		start, end := clampHour(tw.Start), clampHour(tw.End)
		if end < start {
			continue
		}
		out = append(out, Window{Start: start, End: end, Confidence: cfg.PreferenceConfidence, Kind: WindowPreference})
	}
	return out
}

// MergeWindows sorts by start and folds each window into its predecessor
// when it starts at or before the predecessor's end. The result is a
// minimal non-overlapping cover; merged windows keep the highest confidence.
func MergeWindows(in []Window) []Window {
	if len(in) == 0 {
		return nil
	}
	sorted := append([]Window(nil), in...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	out := []Window{sorted[0]}
	for _, w := range sorted[1:] {
		last := &out[len(out)-1]
		if w.Start <= last.End {
			if w.End > last.End {
				last.End = w.End
			}
			if w.Confidence > last.Confidence {
				last.Confidence = w.Confidence
				last.Kind = w.Kind
			}
			continue
		}
		out = append(out, w)
	}
	return out
}

func clampHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > 24 {
		return 24
	}
	return h
}
