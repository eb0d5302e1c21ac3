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
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nova-sync-backend/internal/feed"
	"nova-sync-backend/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func response(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

func subscriptionRows(subs ...model.PushSubscription) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"})
	for _, s := range subs {
		rows.AddRow(s.Endpoint, s.P256DH, s.Auth, time.Now())
	}
	return rows
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, 1, db, &webpush.Options{}, nil)

	assert.True(t, wp.Dispatch(Job{CommandID: "cmd3"}))
	assert.False(t, wp.Dispatch(Job{CommandID: "cmd5"}), "full queue drops the job")

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "cmd3", job.CommandID)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_HandleChange(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, 2, db, &webpush.Options{}, nil)

	wp.HandleChange(context.Background(), feed.Change{})
	assert.Empty(t, wp.Jobs(), "ticks without an advanced command are ignored")

	wp.HandleChange(context.Background(), feed.Change{
		Advanced: &feed.Transition{
			Command: model.Command{ID: "cmd3", CommandName: "moveMouse", Status: model.CommandInProgress},
			From:    model.CommandPending,
		},
	})

	job := <-wp.Jobs()
	assert.Equal(t, Job{CommandID: "cmd3", CommandName: "moveMouse", Status: model.CommandInProgress}, job)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Command moveMouse is now in_progress",
		Message(Job{CommandID: "cmd3", CommandName: "moveMouse", Status: model.CommandInProgress}))
	assert.Equal(t, "Command cmd9 is now in_progress",
		Message(Job{CommandID: "cmd9", Status: model.CommandInProgress}))
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, 4, gormDB, &webpush.Options{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	job := Job{CommandID: "cmd3", CommandName: "moveMouse", Status: model.CommandInProgress}

	t.Run("sends notification to every subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(2)

		var mu sync.Mutex
		var endpoints []string
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				assert.Equal(t, "Command moveMouse is now in_progress", string(payload))
				mu.Lock()
				endpoints = append(endpoints, sub.Endpoint)
				mu.Unlock()
				return response(http.StatusCreated), nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(subscriptionRows(
				model.PushSubscription{Endpoint: "https://example.com/a", P256DH: "k1", Auth: "a1"},
				model.PushSubscription{Endpoint: "https://example.com/b", P256DH: "k2", Auth: "a2"},
			))

		require.True(t, wp.Dispatch(job))
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.ElementsMatch(t, []string{"https://example.com/a", "https://example.com/b"}, endpoints)
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return response(http.StatusGone), nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(subscriptionRows(
				model.PushSubscription{Endpoint: "https://example.com/expired", P256DH: "k", Auth: "a"},
			))
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.True(t, wp.Dispatch(job))

		assert.Eventually(t, func() bool {
			return mock.ExpectationsWereMet() == nil
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("no subscriptions sends nothing", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				t.Error("unexpected send")
				return response(http.StatusCreated), nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(subscriptionRows())

		require.True(t, wp.Dispatch(job))

		assert.Eventually(t, func() bool {
			return mock.ExpectationsWereMet() == nil
		}, time.Second, 10*time.Millisecond)
	})
}
