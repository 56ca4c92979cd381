package render

import (
	"log"

	"github.com/hypebeast/go-osc/osc"

	"github.com/relanote-lang/relanote/internal/eval"
)

// OSCBroadcaster streams a Performance's playback data to an external audio
// host as a series of `/relanote/note` messages, the concrete realization of
// spec.md §4.8's "playback data used by an external audio host" and the
// domain-stack addition named in SPEC_FULL.md §3. It mirrors the tracker's
// oscClient field: a nil client turns every Send into a no-op rather than an
// error, so a program can always construct a broadcaster and only pay for
// the network round trip when OSC is actually enabled (the CLI's
// `render --osc` flag is the on/off switch).
type OSCBroadcaster struct {
	client *osc.Client
}

// NewOSCBroadcaster dials host:port. It does not itself validate
// reachability; go-osc's Client is a thin UDP wrapper and the first Send
// call is where a real network error would surface.
func NewOSCBroadcaster(host string, port int) *OSCBroadcaster {
	return &OSCBroadcaster{client: osc.NewClient(host, port)}
}

// Broadcast sends every note in perf as one `/relanote/note` message each,
// in the NoteEvent order they appear in the Performance (already
// start-time ordered by the evaluator's flattening pass). Errors are
// logged and otherwise swallowed, matching the tracker's
// "log and continue" treatment of OSC send failures (internal/model's
// sendOSCInstrumentMessage) — a dropped OSC packet should never abort
// rendering.
func (b *OSCBroadcaster) Broadcast(perf *eval.Performance) {
	if b == nil || b.client == nil || perf == nil {
		return
	}
	for _, n := range perf.Notes {
		msg := osc.NewMessage("/relanote/note")
		start, _ := n.StartBeat.Float64()
		dur, _ := n.DurationBeats.Float64()
		msg.Append(int32(n.PitchMIDI))
		msg.Append(int32(n.PitchCentsOffset))
		msg.Append(float32(start))
		msg.Append(float32(dur))
		msg.Append(int32(n.Velocity))
		msg.Append("synth")
		if n.Synth != nil {
			msg.Append(n.Synth.Name)
		} else {
			msg.Append("none")
		}
		if err := b.client.Send(msg); err != nil {
			log.Printf("[OSC] note broadcast failed: %v", err)
		}
	}
}

// BroadcastPlaybackData sends data's notes and summary exactly as
// Broadcast/BroadcastSummary would, but starting from the already-flattened
// PlaybackData record instead of an *eval.Performance — the form the CLI's
// `render --osc` flag has on hand after a render_midi-style compile, so it
// need not re-run evaluation a second time just to re-derive a Performance.
func (b *OSCBroadcaster) BroadcastPlaybackData(data PlaybackData) {
	if b == nil || b.client == nil {
		return
	}
	summary := osc.NewMessage("/relanote/performance")
	summary.Append(float32(data.Tempo))
	summary.Append(int32(data.TimeSigNum))
	summary.Append(int32(data.TimeSigDen))
	summary.Append(float32(data.TotalBeats))
	if err := b.client.Send(summary); err != nil {
		log.Printf("[OSC] performance summary broadcast failed: %v", err)
	}
	for _, n := range data.Notes {
		msg := osc.NewMessage("/relanote/note")
		msg.Append(int32(n.Pitch))
		msg.Append(int32(n.CentsOffset))
		msg.Append(float32(n.Start))
		msg.Append(float32(n.Duration))
		msg.Append(int32(n.Velocity))
		msg.Append("synth")
		if n.Synth != nil {
			msg.Append(n.Synth.Name)
		} else {
			msg.Append("none")
		}
		if err := b.client.Send(msg); err != nil {
			log.Printf("[OSC] note broadcast failed: %v", err)
		}
	}
}

// BroadcastSummary sends one `/relanote/performance` message describing
// the process-level context (tempo/meter/total beats) ahead of the
// per-note stream, so a listening host can prepare playback before the
// first note arrives.
func (b *OSCBroadcaster) BroadcastSummary(perf *eval.Performance) {
	if b == nil || b.client == nil || perf == nil {
		return
	}
	msg := osc.NewMessage("/relanote/performance")
	total, _ := perf.TotalBeats.Float64()
	msg.Append(float32(perf.TempoBPM))
	msg.Append(int32(perf.TimeSigNum))
	msg.Append(int32(perf.TimeSigDen))
	msg.Append(float32(total))
	if err := b.client.Send(msg); err != nil {
		log.Printf("[OSC] performance summary broadcast failed: %v", err)
	}
}
