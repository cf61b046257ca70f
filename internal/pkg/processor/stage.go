package processor

// Stage is a step of one invocation.
type Stage int

const (
	StageIdle Stage = iota
	StageLoading
	StageTransforming
	StageCompositing
	StageOverlaid
	StageOverlayFailed
	StagePublished
)

var stageNames = map[Stage]string{
	StageIdle:          "idle",
	StageLoading:       "loading",
	StageTransforming:  "transforming",
	StageCompositing:   "compositing",
	StageOverlaid:      "overlaid",
	StageOverlayFailed: "overlay_failed",
	StagePublished:     "published",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// StageObserver is called on every transition. It may be nil.
type StageObserver func(stage Stage)

func (o StageObserver) notify(stage Stage) {
	if o != nil {
		o(stage)
	}
}
