package mailer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Publisher puts a job on the outbound queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Dispatcher decouples request handling from queue publishing. Enqueue never
// blocks; jobs that do not fit the buffer are dropped and logged. Publish failures
// are logged and not retried.
type Dispatcher struct {
	pub     Publisher
	logger  *logrus.Logger
	jobs    chan EmailJob
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(pub Publisher, logger *logrus.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Dispatcher{
		pub:     pub,
		logger:  logger,
		jobs:    make(chan EmailJob, buffer),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
}

// Start launches the publishing loop. It returns when Close is called and the buffer is drained.
func (d *Dispatcher) Start() {
	go func() {
		defer close(d.done)
		for job := range d.jobs {
			d.publish(job)
		}
	}()
}

func (d *Dispatcher) publish(job EmailJob) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.pub.PublishJSON(ctx, job); err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"to":       job.To,
			"template": job.Template,
		}).Error("failed to publish email job")
		return
	}
	d.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Debug("email job published")
}

// Enqueue hands a job to the publishing loop and reports whether it was accepted.
func (d *Dispatcher) Enqueue(job EmailJob) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.WithField("to", job.To).Warn("email dispatcher closed, dropping job")
		return false
	}
	select {
	case d.jobs <- job:
		return true
	default:
		d.logger.WithField("to", job.To).Warn("email queue full, dropping job")
		return false
	}
}

// Close stops accepting jobs and waits up to wait for pending ones to be published.
func (d *Dispatcher) Close(wait time.Duration) {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	select {
	case <-d.done:
	case <-time.After(wait):
		d.logger.Warn("email dispatcher closed with jobs still pending")
	}
}
