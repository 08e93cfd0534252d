package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"camdencare/reference-checker/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueExtraction(appID uuid.UUID)
}

type worker struct {
	appRepo           repositories.ApplicationRepository
	requestRepo       repositories.ReferenceRequestRepository
	lifecycle         LifecycleService
	processor         ResumeProcessorService
	jobQueue          chan uuid.UUID
	concurrency       int
	pollInterval      time.Duration
	processingTimeout time.Duration
	overdueAfter      time.Duration
	wg                sync.WaitGroup
	stopChan          chan struct{}
}

func NewWorker(
	appRepo repositories.ApplicationRepository,
	requestRepo repositories.ReferenceRequestRepository,
	lifecycle LifecycleService,
	processor ResumeProcessorService,
	concurrency int,
	pollInterval, processingTimeout, overdueAfter time.Duration,
) Worker {
	return &worker{
		appRepo:           appRepo,
		requestRepo:       requestRepo,
		lifecycle:         lifecycle,
		processor:         processor,
		jobQueue:          make(chan uuid.UUID, 100),
		concurrency:       concurrency,
		pollInterval:      pollInterval,
		processingTimeout: processingTimeout,
		overdueAfter:      overdueAfter,
		stopChan:          make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollMaintenance(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueExtraction implements Worker.
func (w *worker) EnqueueExtraction(appID uuid.UUID) {
	select {
	case w.jobQueue <- appID:
		log.Printf("📥 Extraction job %s enqueued\n", appID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job %s\n", appID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case appID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing application %s\n", workerID, appID)
			if _, err := w.processor.ProcessApplication(ctx, appID); err != nil {
				log.Printf("❌ Worker #%d failed to process application %s: %v\n", workerID, appID, err)
			} else {
				log.Printf("✅ Worker #%d completed application %s\n", workerID, appID)
			}
		}
	}
}

// pollMaintenance fails stuck processing applications and flags overdue
// reference requests on a fixed interval.
func (w *worker) pollMaintenance(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting maintenance poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Maintenance poller stopped")
			return
		case <-ticker.C:
			w.failStuckApplications()
			w.flagOverdueRequests()
		}
	}
}

func (w *worker) failStuckApplications() {
	cutoff := time.Now().Add(-w.processingTimeout)
	stuck, err := w.appRepo.FindStuckProcessing(cutoff, 10)
	if err != nil {
		log.Printf("⚠️  Failed to fetch stuck applications: %v\n", err)
		return
	}

	for _, app := range stuck {
		cause := fmt.Sprintf("extraction timed out after %s", w.processingTimeout)
		if err := w.lifecycle.Fail(app.ID, cause); err != nil {
			log.Printf("⚠️  Failed to fail stuck application %s: %v\n", app.ID, err)
			continue
		}
		log.Printf("⏰ Application %s marked failed: %s\n", app.ID, cause)
	}
}

func (w *worker) flagOverdueRequests() {
	cutoff := time.Now().Add(-w.overdueAfter)
	flagged, err := w.requestRepo.MarkOverdue(cutoff)
	if err != nil {
		log.Printf("⚠️  Failed to flag overdue requests: %v\n", err)
		return
	}

	if flagged > 0 {
		log.Printf("⏰ Flagged %d overdue reference requests\n", flagged)
	}
}
