package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"surfboard-checkout-backend/internal/model"
	"surfboard-checkout-backend/internal/store"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Job kinds handled by the pool.
const (
	KindReservationAvailable = "reservation_available"
	KindDamageReported       = "damage_reported"
)

// Job identifies one record to notify about.
type Job struct {
	Kind string
	ID   string
}

// payload is the JSON body delivered to the service worker on the client.
type payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

// WorkerPool manages a pool of workers for sending push notifications.
// Delivery is best effort: failures are logged and never surfaced to the
// request path that queued the job.
type WorkerPool struct {
	size    int
	jobs    chan Job
	store   *store.Store
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, st *store.Store, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size*4),
		store:   st,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			switch job.Kind {
			case KindReservationAvailable:
				wp.notifyReservation(ctx, job.ID)
			case KindDamageReported:
				wp.notifyDamage(ctx, job.ID)
			default:
				log.Printf("worker %d: unknown job kind %q", id, job.Kind)
			}
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a job, dropping it when the pool is saturated so callers
// on the request path never block.
func (wp *WorkerPool) Dispatch(job Job) {
	select {
	case wp.jobs <- job:
	default:
		log.Printf("notification queue full, dropping %s job for %s", job.Kind, job.ID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// ReservationAvailable implements service.Notifier.
func (wp *WorkerPool) ReservationAvailable(_ context.Context, reservationID string) {
	wp.Dispatch(Job{Kind: KindReservationAvailable, ID: reservationID})
}

// DamageReported implements service.Notifier.
func (wp *WorkerPool) DamageReported(_ context.Context, damageReportID string) {
	wp.Dispatch(Job{Kind: KindDamageReported, ID: damageReportID})
}

// notifyReservation tells the reservation holder their board is ready and
// marks the row so the poller does not send it again.
func (wp *WorkerPool) notifyReservation(ctx context.Context, reservationID string) {
	res, err := wp.store.FindReservation(ctx, reservationID)
	if err != nil {
		log.Printf("fetch reservation %s: %v", reservationID, err)
		return
	}
	if res.NotificationSent {
		return
	}

	label := "your board"
	if board, err := wp.store.FindBoard(ctx, res.BoardID); err == nil && board.Name != "" {
		label = board.Name
	}

	body, _ := json.Marshal(payload{
		Title: "Board available",
		Body:  fmt.Sprintf("%s is ready for pickup. Your reservation is now active.", label),
		Tag:   "reservation-" + res.ID,
	})
	wp.sendToUser(ctx, res.UserID, body)

	if err := wp.store.MarkNotificationSent(ctx, res.ID); err != nil {
		log.Printf("mark reservation %s notified: %v", res.ID, err)
	}
}

// notifyDamage alerts every admin at the board's location.
func (wp *WorkerPool) notifyDamage(ctx context.Context, damageReportID string) {
	report, err := wp.store.FindDamageReport(ctx, damageReportID)
	if err != nil {
		log.Printf("fetch damage report %s: %v", damageReportID, err)
		return
	}
	board, err := wp.store.FindBoard(ctx, report.BoardID)
	if err != nil {
		log.Printf("fetch board %s: %v", report.BoardID, err)
		return
	}
	admins, err := wp.store.FindAdminsByLocation(ctx, board.LocationID)
	if err != nil {
		log.Printf("fetch admins for location %s: %v", board.LocationID, err)
		return
	}

	body, _ := json.Marshal(payload{
		Title: "Damage reported",
		Body:  fmt.Sprintf("%s was returned with damage: %s", board.Name, report.Description),
		Tag:   "damage-" + report.ID,
	})
	for _, admin := range admins {
		wp.sendToUser(ctx, admin.ID, body)
	}
}

func (wp *WorkerPool) sendToUser(ctx context.Context, userID string, body []byte) {
	subs, err := wp.store.SubscriptionsByUser(ctx, userID)
	if err != nil {
		log.Printf("fetch subscriptions for user %s: %v", userID, err)
		return
	}
	for _, sub := range subs {
		wp.send(ctx, sub, body)
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, body []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(body, wpSub, wp.webpush)
	if err != nil {
		log.Printf("send notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// 410 Gone means the browser dropped the subscription.
	if resp.StatusCode == http.StatusGone {
		log.Printf("subscription %s expired, deleting", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
