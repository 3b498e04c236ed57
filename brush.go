package glyphbrush

import (
	"slices"
	"sync"
)

// Brush collects sections over a frame and draws them as one batch.
// It is safe for concurrent use.
type Brush struct {
	builder *Builder

	mu    sync.Mutex
	queue []Section
}

// NewBrush creates a Brush drawing with a Builder configured by config.
func NewBrush(config Config) *Brush {
	return &Brush{builder: NewBuilder(config)}
}

// Queue appends sections to the pending batch. Sections are drawn in the
// order they were queued.
func (b *Brush) Queue(sections ...Section) {
	b.mu.Lock()
	b.queue = append(b.queue, sections...)
	b.mu.Unlock()
}

// QueueRun queues a run of placements drawn with one color at one depth.
func (b *Brush) QueueRun(r Run) {
	b.Queue(r.Section())
}

// Len returns the number of queued sections.
func (b *Brush) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Draw builds one submission from every queued section and empties the
// queue. The queue is emptied even when building fails, so a bad section
// does not poison later frames.
func (b *Brush) Draw(bind Bindings) (DrawSubmission, error) {
	b.mu.Lock()
	queued := b.queue
	b.queue = nil
	b.mu.Unlock()

	sub, err := b.builder.Draw(bind, slices.Values(queued))
	if err != nil {
		Logger().Warn("glyph batch dropped", "sections", len(queued), "err", err)
		return DrawSubmission{}, err
	}
	return sub, nil
}
