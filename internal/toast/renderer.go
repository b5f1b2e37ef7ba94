package toast

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/remsfal/remsfal-frontend-sub001/internal/notify"
)

// Renderer writes notification events as single lines.
type Renderer struct {
	out io.Writer
	tr  *Translator

	// JSON switches to one JSON object per line.
	JSON bool

	mu sync.Mutex
}

// NewRenderer creates a renderer writing to out. A nil translator uses the
// default language.
func NewRenderer(out io.Writer, tr *Translator) *Renderer {
	if tr == nil {
		tr = NewTranslator()
	}
	return &Renderer{out: out, tr: tr}
}

type jsonToast struct {
	Severity notify.Severity `json:"severity"`
	Summary  string          `json:"summary"`
	Detail   string          `json:"detail,omitempty"`
}

// Render writes msg. Events on notify.TopicTranslate carry message keys and
// are translated first; other events are written verbatim.
func (r *Renderer) Render(msg notify.Message) error {
	ev := msg.Event
	if msg.Topic == notify.TopicTranslate {
		ev.Summary = r.tr.Translate(ev.Summary)
		ev.Detail = r.tr.Translate(ev.Detail)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.JSON {
		return json.NewEncoder(r.out).Encode(jsonToast(ev))
	}
	line := fmt.Sprintf("[%s] %s", ev.Severity, ev.Summary)
	if ev.Detail != "" {
		line += ": " + ev.Detail
	}
	_, err := fmt.Fprintln(r.out, line)
	return err
}

// Attach subscribes r to both toast topics on bus and renders events in
// the background. The returned function unsubscribes, renders anything
// still buffered, and waits for the goroutine to exit.
func (r *Renderer) Attach(bus *notify.MemoryBus) (stop func()) {
	sub := bus.Subscribe(notify.TopicShow, notify.TopicTranslate)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub.C() {
			_ = r.Render(msg)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = sub.Close()
			<-done
		})
	}
}
