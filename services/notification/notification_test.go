package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bookingcore/database/repository/memory"
	"bookingcore/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() models.NotificationPayload {
	return models.NotificationPayload{
		RecipientID:      "client-1",
		BookingID:        "b-1",
		BookingNumber:    "BK20250303-ABC123",
		CounterpartyName: "Jane Provider",
		ServiceName:      "Massage",
		Date:             "3 March 2025",
		Time:             "9:00 AM",
		Address:          "12 Elm St",
		Phone:            "+254700000001",
	}
}

func TestRenderConfirmed(t *testing.T) {
	title, body, err := Render(models.TemplateBookingConfirmed, samplePayload())
	require.NoError(t, err)
	assert.Equal(t, "Booking BK20250303-ABC123 confirmed", title)
	assert.Equal(t, "Jane Provider confirmed your Massage on 3 March 2025 at 9:00 AM. Address: 12 Elm St. Contact: +254700000001.", body)
}

func TestRenderFallbacks(t *testing.T) {
	p := samplePayload()
	p.CounterpartyName = ""
	p.Reason = ""

	_, body, err := Render(models.TemplateBookingCancelled, p)
	require.NoError(t, err)
	assert.Contains(t, body, "Your contact cancelled")
	assert.Contains(t, body, "Reason: not given.")
}

func TestRenderPaymentLink(t *testing.T) {
	p := samplePayload()
	p.Amount = 25
	p.PaymentURL = "https://pay.example/abc"

	_, body, err := Render(models.TemplatePaymentLink, p)
	require.NoError(t, err)
	assert.Contains(t, body, "25.00")
	assert.Contains(t, body, "https://pay.example/abc")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, err := Render("nope", samplePayload())
	assert.Error(t, err)
}

func TestNewReminderTask(t *testing.T) {
	at := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	task, opts, err := NewReminderTask(models.ReminderTask{
		BookingID: "b-1",
		Channel:   models.ChannelPush,
		At:        at,
		Payload:   samplePayload(),
	})
	require.NoError(t, err)
	assert.Equal(t, TypeSendReminder, task.Type())
	assert.Len(t, opts, 3)

	var decoded models.ReminderTask
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, "b-1", decoded.BookingID)
	assert.True(t, at.Equal(decoded.At))
	assert.Equal(t, "client-1", decoded.Payload.RecipientID)
}

func TestReminderTaskIDIsStable(t *testing.T) {
	at := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	task := models.ReminderTask{BookingID: "b-1", Channel: "push", At: at, Payload: samplePayload()}
	assert.Equal(t, reminderTaskID(task), reminderTaskID(task))
	assert.Equal(t, "reminder:b-1:client-1:push:1740906000", reminderTaskID(task))

	task.Payload.RecipientID = "provider-1"
	assert.NotEqual(t, "reminder:b-1:client-1:push:1740906000", reminderTaskID(task))
}

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func TestAsynqNotifierEnqueues(t *testing.T) {
	q := &fakeQueue{}
	n := NewAsynqNotifier(q, nil)

	require.NoError(t, n.ScheduleReminder(context.Background(), "b-1", models.ChannelPush, time.Now().Add(time.Hour), samplePayload()))
	require.NoError(t, n.Dispatch(context.Background(), "client-1", models.TemplateBookingConfirmed, samplePayload(), []string{models.ChannelPush}))

	require.Len(t, q.tasks, 2)
	assert.Equal(t, TypeSendReminder, q.tasks[0].Type())
	assert.Equal(t, TypeDispatch, q.tasks[1].Type())

	var dispatch models.DispatchTask
	require.NoError(t, json.Unmarshal(q.tasks[1].Payload(), &dispatch))
	assert.Equal(t, models.TemplateBookingConfirmed, dispatch.Template)
	assert.Equal(t, []string{models.ChannelPush}, dispatch.Channels)
}

func TestAsynqNotifierTreatsDuplicateReminderAsScheduled(t *testing.T) {
	n := NewAsynqNotifier(&fakeQueue{err: asynq.ErrTaskIDConflict}, nil)
	assert.NoError(t, n.ScheduleReminder(context.Background(), "b-1", models.ChannelPush, time.Now().Add(time.Hour), samplePayload()))
}

func TestAsynqNotifierSurfacesQueueErrors(t *testing.T) {
	n := NewAsynqNotifier(&fakeQueue{err: errors.New("redis down")}, nil)
	err := n.Dispatch(context.Background(), "client-1", models.TemplateBookingConfirmed, samplePayload(), nil)
	assert.ErrorContains(t, err, "redis down")
}

type recordingSender struct {
	sent []models.Notification
	err  error
}

func (s *recordingSender) Send(_ context.Context, n models.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

func TestDelivererDispatchAcrossChannels(t *testing.T) {
	push := &recordingSender{}
	sms := &recordingSender{err: errors.New("gateway timeout")}
	d := NewDeliverer(map[string]Sender{models.ChannelPush: push, models.ChannelSMS: sms}, nil)

	err := d.DeliverDispatch(context.Background(), models.DispatchTask{
		UserID:   "client-1",
		Template: models.TemplateBookingConfirmed,
		Channels: []string{models.ChannelSMS, models.ChannelPush, models.ChannelEmail},
		Payload:  samplePayload(),
	})

	assert.ErrorContains(t, err, "gateway timeout")
	require.Len(t, push.sent, 1)
	assert.Equal(t, "client-1", push.sent[0].UserID)
	assert.Equal(t, "b-1", push.sent[0].Data["bookingId"])
	assert.Equal(t, models.TemplateBookingConfirmed, push.sent[0].Data["type"])
}

func TestDelivererReminder(t *testing.T) {
	push := &recordingSender{}
	d := NewDeliverer(map[string]Sender{models.ChannelPush: push}, nil)

	require.NoError(t, d.DeliverReminder(context.Background(), models.ReminderTask{
		BookingID: "b-1",
		Channel:   models.ChannelPush,
		Payload:   samplePayload(),
	}))
	require.Len(t, push.sent, 1)
	assert.Equal(t, "Upcoming booking BK20250303-ABC123", push.sent[0].Title)
}

func TestDirectoryTokens(t *testing.T) {
	store := memory.NewStore()
	store.PutClient(&models.Client{ID: "client-1", Name: "Carl", FCMToken: "client-token"})
	store.PutProvider(&models.Provider{ID: "provider-1", Name: "Jane", Status: models.ProviderActive, FCMToken: "provider-token"})
	lookup := DirectoryTokens(store, store)

	token, err := lookup(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Equal(t, "client-token", token)

	token, err = lookup(context.Background(), "provider-1")
	require.NoError(t, err)
	assert.Equal(t, "provider-token", token)

	_, err = lookup(context.Background(), "ghost")
	assert.Error(t, err)
}
