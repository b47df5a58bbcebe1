package subtitle

// Subtitle is a single cue. Start and End share the unit chosen by the producer,
// the companion server emits milliseconds.
type Subtitle struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Mode tells the UI how a cue is rendered.
type Mode string

const (
	ModeDefault Mode = "Default"
	ModeReading Mode = "Reading"
	ModeRecall  Mode = "Recall"
	ModeHidden  Mode = "Hidden"
)

// SubModes lists every display mode in presentation order.
var SubModes = []Mode{ModeDefault, ModeReading, ModeRecall, ModeHidden}
