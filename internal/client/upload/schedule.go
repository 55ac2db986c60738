package upload

import (
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Step counts per kind. Step 0 is the initial progress written at creation;
// the last step clears progress.
const (
	ImageSteps = 21
	VideoSteps = 31
	FileSteps  = 26
)

// Schedule is the tick plan of one attachment kind.
type Schedule struct {
	Steps    int
	Interval time.Duration
}

// Schedules builds the per-kind plan from tick intervals.
func Schedules(image, video, file time.Duration) map[models.Kind]Schedule {
	return map[models.Kind]Schedule{
		models.KindImage: {Steps: ImageSteps, Interval: image},
		models.KindVideo: {Steps: VideoSteps, Interval: video},
		models.KindFile:  {Steps: FileSteps, Interval: file},
	}
}

// DefaultSchedules is the plan used when none is configured.
func DefaultSchedules() map[models.Kind]Schedule {
	return Schedules(80*time.Millisecond, 100*time.Millisecond, 100*time.Millisecond)
}

// ProgressAt returns the progress written at step of steps. The final step
// (and anything past it) yields nil, never 1.0.
func ProgressAt(step, steps int) *float64 {
	if steps < 2 || step >= steps-1 {
		return nil
	}
	if step < 0 {
		step = 0
	}
	return models.Progress(float64(step) / float64(steps-1))
}

// stepOf maps a stored progress back to the step that produced it, so a
// restarted job resumes instead of moving backwards. The result is at most
// steps-2, leaving the clearing step to run.
func stepOf(p float64, steps int) int {
	if steps < 2 || p <= 0 {
		return 0
	}
	s := int(p*float64(steps-1) + 0.5)
	if s > steps-2 {
		s = steps - 2
	}
	return s
}
