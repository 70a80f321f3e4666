package infrastructure

import (
	"context"
	"errors"
	"sync"
)

// Task représente une tâche à exécuter
type Task func() error

// ErrPoolStopped est retournée par Submit après Stop ou Wait
var ErrPoolStopped = errors.New("worker pool is stopped")

// WorkerPool gère un pool borné de workers; utilisé pour agréger
// les partitions (une par location) en parallèle
type WorkerPool struct {
	workerCount int
	tasks       chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	mu     sync.Mutex
	errs   []error
	closed bool
}

// NewWorkerPool crée un nouveau pool de workers (au moins un)
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workerCount: workerCount,
		tasks:       make(chan Task, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// worker est la routine d'exécution des tâches
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case task, ok := <-wp.tasks:
			if !ok {
				return
			}
			if err := task(); err != nil {
				wp.mu.Lock()
				wp.errs = append(wp.errs, err)
				wp.mu.Unlock()
			}
		}
	}
}

// Start démarre les workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Submit soumet une tâche au pool; bloque si la file est pleine.
// Submit et Wait doivent être appelés depuis la même goroutine.
func (wp *WorkerPool) Submit(task Task) error {
	wp.mu.Lock()
	closed := wp.closed
	wp.mu.Unlock()
	if closed {
		return ErrPoolStopped
	}

	select {
	case <-wp.ctx.Done():
		return ErrPoolStopped
	case wp.tasks <- task:
		return nil
	}
}

// Wait ferme la file, attend la fin de toutes les tâches et
// retourne les erreurs collectées (errors.Join)
func (wp *WorkerPool) Wait() error {
	wp.mu.Lock()
	if !wp.closed {
		wp.closed = true
		close(wp.tasks)
	}
	wp.mu.Unlock()

	wp.wg.Wait()
	wp.cancel()

	wp.mu.Lock()
	defer wp.mu.Unlock()
	return errors.Join(wp.errs...)
}

// Stop arrête le pool immédiatement; les tâches en file sont abandonnées
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	wp.closed = true
	wp.mu.Unlock()

	wp.cancel()
	wp.wg.Wait()
}

// WorkerCount retourne la taille du pool
func (wp *WorkerPool) WorkerCount() int {
	return wp.workerCount
}
