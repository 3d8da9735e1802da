package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"

	"prestamos-admin/internal/events"
	"prestamos-admin/internal/model"
	"prestamos-admin/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool sends a push notification to every subscriber when a loan
// changes state.
type WorkerPool struct {
	size    int
	jobs    chan events.Event
	store   store.Store
	webpush *webpush.Options
	sender  NotificationSender
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan events.Event, size*16),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines; they stop when ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has returned.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log.Printf("Worker %d started", id)
	for {
		select {
		case e := <-wp.jobs:
			log.Printf("Worker %d processing %s for loan %s", id, e.Kind, e.Code)
			wp.sendNotificationsForLoan(ctx, e)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// HandleEvent is an events.Handler that queues status changes.
func (wp *WorkerPool) HandleEvent(e events.Event) {
	if e.Kind == events.LoanStatusChanged {
		wp.Dispatch(e)
	}
}

// Dispatch queues a job. When the queue is full the job is dropped, so a slow
// push service never holds up the request that changed the loan.
func (wp *WorkerPool) Dispatch(e events.Event) bool {
	select {
	case wp.jobs <- e:
		return true
	default:
		log.Printf("Notification queue full; dropping %s for loan %s", e.Kind, e.Code)
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan events.Event {
	return wp.jobs
}

// Message is the text pushed for a status change.
func Message(e events.Event) string {
	if e.Loan == nil {
		return fmt.Sprintf("Préstamo %s cambió de estado", e.Code)
	}
	who := e.Loan.Solicitante
	if who == "" {
		who = "sin solicitante"
	}
	return fmt.Sprintf("Préstamo %s (%s): %s", e.Code, who, e.Loan.Estado.Label())
}

func (wp *WorkerPool) sendNotificationsForLoan(ctx context.Context, e events.Event) {
	subscriptions, err := wp.store.ListSubscriptions(ctx)
	if err != nil {
		log.Printf("Error fetching subscriptions for loan %s: %v", e.Code, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for loan %s", len(subscriptions), e.Code)
	payload := []byte(Message(e))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
