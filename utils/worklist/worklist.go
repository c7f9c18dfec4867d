package worklist

type item[T any] struct {
	el    T
	depth int
}

// Worklist is a FIFO queue of pending elements. Every element remembers the
// depth at which it was discovered: seeds sit at depth 0 and elements added
// while processing an element at depth d sit at depth d+1.
type Worklist[T any] struct {
	list []item[T]
}

// Start worklist execution with provided `starting` element and an iteration
// function. The iteration function exposes the next element and a function with
// which to add more elements to the worklist.
func Start[T any](start T, do func(next T, add func(el T))) {
	StartV([]T{start}, do)
}

// Start worklist execution with a preloaded queue and an iteration
// function. The iteration function exposes the next element and a function with
// which to add more elements to the worklist.
func StartV[T any](start []T, do func(next T, add func(el T))) {
	W := Empty[T]()
	for _, e := range start {
		W.Add(e)
	}

	W.Process(func(next T, _ int, add func(T)) {
		do(next, add)
	})
}

func Empty[T any]() *Worklist[T] {
	return &Worklist[T]{}
}

// Add seeds the worklist with an element at depth 0.
func (w *Worklist[T]) Add(el T) {
	w.list = append(w.list, item[T]{el, 0})
}

func (w *Worklist[T]) IsEmpty() bool {
	return len(w.list) == 0
}

func (w *Worklist[T]) next() item[T] {
	next := w.list[0]
	w.list = w.list[1:]
	return next
}

// Process drains the worklist. Elements handed to add are queued one level
// below the element being processed.
func (w *Worklist[T]) Process(
	do func(
		next T,
		depth int,
		add func(element T))) {
	for !w.IsEmpty() {
		cur := w.next()
		do(cur.el, cur.depth, func(el T) {
			w.list = append(w.list, item[T]{el, cur.depth + 1})
		})
	}
}
