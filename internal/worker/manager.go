package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skillswap/internal/logx"
	"skillswap/internal/queue"
)

const (
	// DefaultWorkerCount is the default number of worker goroutines
	DefaultWorkerCount = 2

	// DefaultBatchSize is the number of messages to read per batch
	DefaultBatchSize = 10

	// DefaultBlockTimeout is how long to block waiting for new messages
	DefaultBlockTimeout = 5 * time.Second
)

// Manager orchestrates worker goroutines that consume from Redis Streams.
type Manager struct {
	consumer    queue.Consumer
	handler     *Handler
	workerCount int
	batchSize   int64
	blockTime   time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	WorkerCount  int           // Number of worker goroutines
	BatchSize    int64         // Messages per read
	BlockTimeout time.Duration // Block time for XREADGROUP
}

// NewManager creates a new worker manager.
func NewManager(consumer queue.Consumer, handler *Handler, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}

	return &Manager{
		consumer:    consumer,
		handler:     handler,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
	}
}

// Start begins the worker goroutines.
// Call Stop() to gracefully shut down.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	if err := m.consumer.EnsureGroup(m.ctx, queue.StreamSwaps, queue.ConsumerGroupStats); err != nil {
		return err
	}

	logx.Info("starting workers",
		"count", m.workerCount, "stream", queue.StreamSwaps, "group", queue.ConsumerGroupStats)

	for i := 0; i < m.workerCount; i++ {
		workerID := i + 1
		consumerName := consumerNameForWorker(workerID)

		m.wg.Add(1)
		go m.runWorker(workerID, consumerName)
	}

	return nil
}

// Stop gracefully shuts down all workers.
// Blocks until all workers have finished.
func (m *Manager) Stop() {
	logx.Info("stopping workers")
	m.cancel()
	m.wg.Wait()
	logx.Info("all workers stopped")
}

// runWorker is the main loop for a single worker goroutine.
func (m *Manager) runWorker(workerID int, consumerName string) {
	defer m.wg.Done()

	logx.Info("worker started", "worker", workerID, "consumer", consumerName)

	// Messages delivered before a crash are still pending for this consumer;
	// drain them before reading new ones.
	m.processPending(workerID, consumerName)

	for {
		select {
		case <-m.ctx.Done():
			logx.Info("worker shutting down", "worker", workerID)
			return
		default:
			m.processMessages(workerID, consumerName)
		}
	}
}

// processPending handles messages that were delivered but not acknowledged.
func (m *Manager) processPending(workerID int, consumerName string) {
	rc, ok := m.consumer.(*queue.RedisConsumer)
	if !ok {
		return
	}

	for {
		messages, err := rc.ReadPending(m.ctx, queue.StreamSwaps, queue.ConsumerGroupStats, consumerName, m.batchSize)
		if err != nil {
			logx.Error(err, "reading pending messages", "worker", workerID)
			return
		}

		if len(messages) == 0 {
			return
		}

		logx.Info("processing pending messages", "worker", workerID, "count", len(messages))
		m.handleMessages(workerID, messages)
	}
}

// processMessages reads and handles a batch of new messages.
func (m *Manager) processMessages(workerID int, consumerName string) {
	messages, err := m.consumer.Read(
		m.ctx,
		queue.StreamSwaps,
		queue.ConsumerGroupStats,
		consumerName,
		m.batchSize,
		m.blockTime,
	)

	if err != nil {
		logx.Error(err, "reading messages", "worker", workerID)
		time.Sleep(time.Second) // Back off on error
		return
	}

	if len(messages) == 0 {
		return // Timeout, no messages
	}

	m.handleMessages(workerID, messages)
}

// handleMessages processes a batch of messages and acknowledges them.
// Messages are always acked, even on handler error, to avoid retry loops.
func (m *Manager) handleMessages(workerID int, messages []queue.Message) {
	for _, msg := range messages {
		if err := m.handler.HandleEvent(m.ctx, msg.Event); err != nil {
			logx.Error(err, "handler failed", "worker", workerID, "msg_id", msg.ID)
		}

		if err := m.consumer.Ack(m.ctx, queue.StreamSwaps, queue.ConsumerGroupStats, msg.ID); err != nil {
			logx.Error(err, "ack failed", "worker", workerID, "msg_id", msg.ID)
		}
	}
}

// consumerNameForWorker generates a unique consumer name for each worker.
func consumerNameForWorker(workerID int) string {
	return fmt.Sprintf("worker-%d", workerID)
}
