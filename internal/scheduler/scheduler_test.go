package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/shopledger/internal/config"
	"github.com/mamadbah2/shopledger/internal/domain/models"
)

type mockReports struct {
	mock.Mock
}

func (m *mockReports) GenerateDailyReport(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	return m.Called(ctx, req).Error(0)
}

var reportingConfig = config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "UTC"}

func TestRunDailyReport_SendsToManager(t *testing.T) {
	// Arrange
	reports := new(mockReports)
	reports.On("GenerateDailyReport", mock.Anything).Return("*Daily report*", nil)
	sender := new(mockSender)
	sender.On("SendOutbound", mock.Anything, models.OutboundMessageRequest{To: "224600000001", Message: "*Daily report*"}).Return(nil)

	s, err := NewScheduler(reportingConfig, "224600000001", reports, sender, nil)
	require.NoError(t, err)

	// Act
	err = s.RunDailyReport(context.Background())

	// Assert
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestRunDailyReport_WithoutSender(t *testing.T) {
	// Arrange
	reports := new(mockReports)
	reports.On("GenerateDailyReport", mock.Anything).Return("report", nil)

	s, err := NewScheduler(reportingConfig, "224600000001", reports, nil, nil)
	require.NoError(t, err)

	// Act
	err = s.RunDailyReport(context.Background())

	// Assert
	require.NoError(t, err)
	reports.AssertExpectations(t)
}

func TestRunDailyReport_GenerationFailureSkipsSend(t *testing.T) {
	// Arrange
	reports := new(mockReports)
	reports.On("GenerateDailyReport", mock.Anything).Return("", errors.New("sheet quota"))
	sender := new(mockSender)

	s, err := NewScheduler(reportingConfig, "224600000001", reports, sender, nil)
	require.NoError(t, err)

	// Act
	err = s.RunDailyReport(context.Background())

	// Assert
	require.Error(t, err)
	sender.AssertNotCalled(t, "SendOutbound", mock.Anything, mock.Anything)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	// Arrange
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "every evening", Timezone: "UTC"}, "", new(mockReports), nil, nil)
	require.NoError(t, err)

	// Act
	err = s.Start()

	// Assert
	assert.Error(t, err)
}

func TestNewScheduler_UnknownTimezone(t *testing.T) {
	_, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "Mars/Olympus"}, "", new(mockReports), nil, nil)
	assert.Error(t, err)
}
