package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sailing-club-backend/internal/domain"
)

type fakeSendClient struct {
	sent     []*mail.SGMailV3
	response *rest.Response
	err      error
}

func (f *fakeSendClient) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	return f.response, f.err
}

func TestEmailService_SendRentalConfirmation(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: 1, Username: "alice", Email: "alice@club.test"}
	boat := &domain.Boat{ID: 2, Name: "Laser 1"}
	rental := &domain.Rental{ID: 3, Price: domain.MustMoney("30.00"), RentalTime: time.Now()}

	t.Run("Success", func(t *testing.T) {
		client := &fakeSendClient{response: &rest.Response{StatusCode: 202}}
		svc := newEmailServiceWithClient(client, "noreply@club.test", "Sailing Club")

		require.NoError(t, svc.SendRentalConfirmation(ctx, user, boat, rental))
		require.Len(t, client.sent, 1)
		msg := client.sent[0]
		assert.Equal(t, "Boat rented: Laser 1", msg.Subject)
		assert.Equal(t, "noreply@club.test", msg.From.Address)
		require.Len(t, msg.Personalizations, 1)
		assert.Equal(t, "alice@club.test", msg.Personalizations[0].To[0].Address)
		assert.Contains(t, msg.Content[0].Value, "30.00")
	})

	t.Run("Error Status", func(t *testing.T) {
		client := &fakeSendClient{response: &rest.Response{StatusCode: 401, Body: "unauthorized"}}
		svc := newEmailServiceWithClient(client, "noreply@club.test", "Sailing Club")

		err := svc.SendRentalConfirmation(ctx, user, boat, rental)
		assert.ErrorContains(t, err, "status 401")
	})

	t.Run("Transport Error", func(t *testing.T) {
		client := &fakeSendClient{err: errors.New("dial tcp: timeout")}
		svc := newEmailServiceWithClient(client, "noreply@club.test", "Sailing Club")

		assert.Error(t, svc.SendRentalConfirmation(ctx, user, boat, rental))
	})

	t.Run("No Address", func(t *testing.T) {
		client := &fakeSendClient{}
		svc := newEmailServiceWithClient(client, "noreply@club.test", "Sailing Club")

		assert.NoError(t, svc.SendRentalConfirmation(ctx, &domain.User{Username: "ghost"}, boat, rental))
		assert.Empty(t, client.sent)
	})
}

func TestEmailService_LogOnly(t *testing.T) {
	svc := NewEmailService("", "noreply@club.test", "Sailing Club")
	err := svc.SendSignupConfirmation(context.Background(),
		&domain.User{Username: "alice", Email: "alice@club.test"},
		&domain.Activity{Title: "Evening race", StartTime: time.Now()})
	assert.NoError(t, err)
}
