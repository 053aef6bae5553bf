package input

// Unbounded forwards events from in to the returned channel without ever
// blocking the producer. Pending events are buffered in memory; the output
// is closed after in is closed and the buffer drained.
func Unbounded(in <-chan Event) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		var pending []Event
		for {
			if len(pending) == 0 {
				ev, ok := <-in
				if !ok {
					return
				}
				pending = append(pending, ev)
				continue
			}

			select {
			case ev, ok := <-in:
				if !ok {
					for _, p := range pending {
						out <- p
					}
					return
				}
				pending = append(pending, ev)
			case out <- pending[0]:
				pending = pending[1:]
			}
		}
	}()
	return out
}
