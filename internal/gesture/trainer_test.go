package gesture

import (
	"testing"

	"github.com/ayusman/handtrace/internal/finger"
	"github.com/ayusman/handtrace/internal/vector"
)

func tipAt(x float64) finger.Fingertip {
	return finger.Fingertip{Position: vector.New(x, 0, 0)}
}

func handOf(xs ...float64) finger.Hand {
	var tips []finger.Fingertip
	for _, x := range xs {
		tips = append(tips, tipAt(x))
	}
	return finger.Assemble(tips)
}

func TestTrainerAverageIdenticalRecordings(t *testing.T) {
	rec := Gesture{Frames: []finger.Hand{handOf(0), handOf(2), handOf(4)}}
	trainer := NewTrainer()

	avg, err := trainer.Average("swipe", []Gesture{rec, rec})
	if err != nil {
		t.Fatalf("Average() error = %v", err)
	}
	if len(avg.Frames) != 3 {
		t.Fatalf("len(Frames) = %d, want 3", len(avg.Frames))
	}
	if got := avg.Frames[1].Fingers[0].Position.X; got != 2 {
		t.Errorf("frame 1 thumb X = %v, want 2", got)
	}
}

func TestTrainerAverageResamplesToLongest(t *testing.T) {
	short := Gesture{Frames: []finger.Hand{handOf(0), handOf(10)}}
	long := Gesture{Frames: []finger.Hand{handOf(0), handOf(5), handOf(10)}}
	trainer := NewTrainer()

	avg, err := trainer.Average("g", []Gesture{short, long})
	if err != nil {
		t.Fatalf("Average() error = %v", err)
	}
	if len(avg.Frames) != 3 {
		t.Fatalf("len(Frames) = %d, want 3 (resampled to longest)", len(avg.Frames))
	}
	if got := avg.Frames[0].Fingers[0].Position.X; got != 0 {
		t.Errorf("first frame X = %v, want 0", got)
	}
	if got := avg.Frames[2].Fingers[0].Position.X; got != 10 {
		t.Errorf("last frame X = %v, want 10", got)
	}
}

func TestTrainerAverageKeepsSentinelWhenAllMissing(t *testing.T) {
	// handOf with 4 tips leaves slot 4 (little) as FingerNotFound in every
	// recording.
	rec := Gesture{Frames: []finger.Hand{handOf(0, 0, 0, 0)}}
	trainer := NewTrainer()

	avg, err := trainer.Average("g", []Gesture{rec, rec})
	if err != nil {
		t.Fatalf("Average() error = %v", err)
	}
	if avg.Frames[0].HasFinger(4) {
		t.Error("expected slot 4 to stay FingerNotFound when every recording was missing it")
	}
}

func TestTrainerAverageEmptyRecordings(t *testing.T) {
	trainer := NewTrainer()
	_, err := trainer.Average("g", nil)
	if err != ErrNoRecordings {
		t.Errorf("error = %v, want ErrNoRecordings", err)
	}
}

func TestResampleFramesSinglePointBroadcasts(t *testing.T) {
	out := resampleFrames([]finger.Hand{handOf(3)}, 4)
	if len(out) != 4 {
		t.Fatalf("len = %d, want 4", len(out))
	}
	for _, h := range out {
		if h.Fingers[0].Position.X != 3 {
			t.Errorf("expected broadcast value 3, got %v", h.Fingers[0].Position.X)
		}
	}
}
