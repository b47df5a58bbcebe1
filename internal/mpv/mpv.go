package mpv

// docs: https://mpv.io/manual/stable/#json-ipc

// Request is one JSON IPC command line, e.g. {"command":["set_property","pause",true]}.
type Request struct {
	Command []any `json:"command"` // https://mpv.io/manual/stable/#list-of-input-commands

	RequestID int  `json:"request_id,omitempty"`
	Async     bool `json:"async,omitempty"`
}

// NewRequest builds the request for command followed by args.
func NewRequest(command string, args ...any) Request {
	return Request{Command: append([]any{command}, args...)}
}

type Response struct {
	RequestID int    `json:"request_id,omitempty"`
	Error     string `json:"error"`

	Data  any    `json:"data,omitempty"`
	Event string `json:"event,omitempty"`
	Name  string `json:"name,omitempty"`
}

// OK reports whether mpv accepted the command.
func (r Response) OK() bool { return r.Error == "success" }
