package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"prestamos-admin/internal/events"
	"prestamos-admin/internal/model"
	"prestamos-admin/internal/store"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestStore(t *testing.T) (store.Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return store.NewGormStore(gormDB), mock
}

func statusEvent(code string, estado model.Status) events.Event {
	return events.Event{
		Kind: events.LoanStatusChanged,
		Code: code,
		Loan: &model.Loan{Code: model.Code(code), Solicitante: "Ana", Estado: estado},
	}
}

func TestWorkerPool_HandleEventQueuesStatusChangesOnly(t *testing.T) {
	s, _ := newTestStore(t)
	wp := NewWorkerPool(1, s, &webpush.Options{})

	wp.HandleEvent(events.Event{Kind: events.LoanCreated, Code: "L1"})
	wp.HandleEvent(statusEvent("L2", model.StatusEntregado))

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "L2", job.Code)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
	assert.Empty(t, wp.Jobs())
}

func TestWorkerPool_DispatchDropsWhenFull(t *testing.T) {
	s, _ := newTestStore(t)
	wp := NewWorkerPool(1, s, &webpush.Options{})

	for i := 0; i < cap(wp.Jobs()); i++ {
		require.True(t, wp.Dispatch(statusEvent("L1", model.StatusEntregado)))
	}
	assert.False(t, wp.Dispatch(statusEvent("L1", model.StatusEntregado)))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Préstamo L5 (Ana): Devuelto", Message(statusEvent("L5", model.StatusDevuelto)))
	assert.Equal(t, "Préstamo L6 cambió de estado", Message(events.Event{Kind: events.LoanStatusChanged, Code: "L6"}))
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	s, mock := newTestStore(t)
	wp := NewWorkerPool(1, s, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends notification to every subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(2)

		var mu sync.Mutex
		var endpoints []string
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "Préstamo L5 (Ana): Devuelto", string(payload))
				mu.Lock()
				endpoints = append(endpoints, sub.Endpoint)
				mu.Unlock()
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/push/1", "k1", "a1", time.Now()).
				AddRow("https://example.com/push/2", "k2", "a2", time.Now()))

		wp.Dispatch(statusEvent("L5", model.StatusDevuelto))
		wg.Wait()

		mu.Lock()
		assert.ElementsMatch(t, []string{"https://example.com/push/1", "https://example.com/push/2"}, endpoints)
		mu.Unlock()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/expired", "k", "a", time.Now()))

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(statusEvent("L7", model.StatusEntregado))

		assert.Eventually(t, func() bool {
			return mock.ExpectationsWereMet() == nil
		}, time.Second, 10*time.Millisecond)
	})
}

func TestWorkerPool_StopsWithContext(t *testing.T) {
	s, _ := newTestStore(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	wp := NewWorkerPool(3, s, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	wp.Start(ctx)
	cancel()
	wp.Wait()
}
