package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/ports"
	notificationactivities "github.com/Apurer/sundus-book-orders/internal/platform/temporal/activities/notifications"
)

type stubDeliverer struct {
	fail map[ports.Channel]error
}

func (s *stubDeliverer) Deliver(_ context.Context, channel ports.Channel, _ domain.OrderNotice) error {
	return s.fail[channel]
}

func newEnv(t *testing.T, deliverer ports.Deliverer) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	activities := notificationactivities.NewActivities(deliverer)
	env.RegisterActivityWithOptions(activities.Deliver, activity.RegisterOptions{Name: notificationactivities.DeliverActivityName})
	return env
}

func TestNotificationWorkflow_DeliversEveryChannel(t *testing.T) {
	env := newEnv(t, &stubDeliverer{})
	notice := domain.OrderNotice{ID: 7, Name: "A", Email: "a@example.com", Book: "B1", Payment: "COD", Price: 299}

	env.ExecuteWorkflow(NotificationWorkflow, NotificationWorkflowInput{Notice: notice, TraceID: "trace-1"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result NotificationResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.ElementsMatch(t, []ports.Channel{ports.ChannelAdminEmail, ports.ChannelCustomerEmail, ports.ChannelWhatsApp}, result.Delivered)
	require.Empty(t, result.Failed)
}

func TestNotificationWorkflow_FailureIsSwallowedAndNotRetried(t *testing.T) {
	env := newEnv(t, &stubDeliverer{})
	calls := 0
	env.OnActivity(notificationactivities.DeliverActivityName, mock.Anything, mock.Anything).Return(
		func(_ context.Context, input notificationactivities.DeliverInput) error {
			if input.Channel == ports.ChannelWhatsApp {
				calls++
				return errors.New("twilio down")
			}
			return nil
		})

	env.ExecuteWorkflow(NotificationWorkflow, NotificationWorkflowInput{Notice: domain.OrderNotice{ID: 8}})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result NotificationResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Equal(t, []ports.Channel{ports.ChannelWhatsApp}, result.Failed)
	require.Equal(t, []ports.Channel{ports.ChannelAdminEmail}, result.Delivered)
	require.Equal(t, 1, calls)
}
