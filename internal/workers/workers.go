package workers

type Workers struct {
	workers []Worker
}

// NewWorkers aggregates the given workers. Nil entries are skipped.
func NewWorkers(workers ...Worker) *Workers {
	ws := &Workers{}
	for _, worker := range workers {
		if worker != nil {
			ws.workers = append(ws.workers, worker)
		}
	}
	return ws
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// Stop stops workers in reverse start order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
