package warmup

// Request is a single warm-up target pulled from the URL source.
// Index records submission order, starting at 0; it is assigned once by the
// source and never changes.
type Request struct {
	Index int
	Path  string
}

// Outcome is the terminal result of one submitted Request. Exactly one
// Outcome is produced per Request, in completion order.
//
// Success reports the final HTTP status after redirects. Failures carry a
// short reason ("timeout", "status 503", or the transport error text) and
// the fully resolved target URI.
type Outcome struct {
	Index      int
	Path       string
	StatusCode int
	Failed     bool
	Reason     string
	TargetURI  string
}

// Reporter receives outcomes as they arrive. Implementations must not drop
// outcomes; a slow Reporter degrades throughput but never loses results.
type Reporter interface {
	Report(Outcome)
}

// ReporterFunc adapts a plain function to the Reporter interface.
type ReporterFunc func(Outcome)

// Report implements Reporter.
func (f ReporterFunc) Report(o Outcome) { f(o) }
