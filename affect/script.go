package affect

import (
	"fmt"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
)

// Keyframe is one row of a scripted emotion track.
type Keyframe struct {
	TimeSec   float64 `csv:"time"`
	Valence   float64 `csv:"valence"`
	Arousal   float64 `csv:"arousal"`
	Dominance float64 `csv:"dominance"`
}

// Script plays a CSV keyframe track into a Slot, looping when it runs out.
// Values hold between keyframes; staleness smoothing is the filter's job,
// so no interpolation happens here.
type Script struct {
	frames   []Keyframe
	duration float64
	elapsed  float64
}

// LoadScript reads a keyframe CSV with columns time,valence,arousal,dominance.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()

	var frames []Keyframe
	if err := gocsv.UnmarshalFile(f, &frames); err != nil {
		return nil, fmt.Errorf("parsing script %s: %w", path, err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("script %s has no keyframes", path)
	}

	sort.Slice(frames, func(i, j int) bool { return frames[i].TimeSec < frames[j].TimeSec })
	return &Script{
		frames:   frames,
		duration: frames[len(frames)-1].TimeSec,
	}, nil
}

// Advance moves the playhead by dt seconds and publishes the active keyframe.
func (s *Script) Advance(dt float64, slot *Slot) {
	s.elapsed += dt
	if s.duration > 0 {
		for s.elapsed > s.duration {
			s.elapsed -= s.duration
		}
	}
	slot.Publish(s.At(s.elapsed))
}

// At returns the keyframe value active at time t (last frame whose time <= t).
func (s *Script) At(t float64) Sample {
	cur := s.frames[0]
	for _, fr := range s.frames {
		if fr.TimeSec > t {
			break
		}
		cur = fr
	}
	return Sample{Valence: cur.Valence, Arousal: cur.Arousal, Dominance: cur.Dominance}
}
