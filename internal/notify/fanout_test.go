// internal/notify/fanout_test.go
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
	"github.com/TimLS94/IJP-Portal-sub000/internal/settings"
)

// ==========================
// Test Doubles
// ==========================

type sliceSource struct {
	applicants []*models.Applicant
}

func (s sliceSource) StreamOptedInApplicants(_ context.Context, fn func(*models.Applicant) error) error {
	for _, a := range s.applicants {
		if err := fn(a); err != nil {
			return err
		}
	}
	return nil
}

type recordingSink struct {
	alerts []JobAlert
	err    error
}

func (s *recordingSink) SendJobAlert(_ context.Context, alert JobAlert) error {
	if s.err != nil {
		return s.err
	}
	s.alerts = append(s.alerts, alert)
	return nil
}

const settingsQuery = `SELECT value FROM settings WHERE key = $1`

// settingsWith builds a registry over sqlmock answering the enabled flag and
// threshold lookups Run performs, in that order.
func settingsWith(t *testing.T, enabled string, threshold string) *settings.Registry {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	expectSetting(mock, settings.KeyJobNotificationsEnabled, enabled)
	expectSetting(mock, settings.KeyJobNotificationThreshold, threshold)
	return settings.NewRegistry(db)
}

func expectSetting(mock sqlmock.Sqlmock, key, value string) {
	q := mock.ExpectQuery(regexp.QuoteMeta(settingsQuery)).WithArgs(key)
	if value == "" {
		q.WillReturnError(sql.ErrNoRows)
	} else {
		q.WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(value))
	}
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func strongApplicant(id int64) *models.Applicant {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	return &models.Applicant{
		ID:            id,
		FirstName:     "Ana",
		LastName:      "Petrova",
		Email:         fmt.Sprintf("ana%d@example.com", id),
		Phone:         "+359881234567",
		PositionTypes: []models.PositionCategory{models.CategoryStudentVacationJob},
		GermanLevel:   models.LevelB2,
		EnglishLevel:  models.LevelB1,
		WorkExperiences: []models.WorkExperience{
			{Company: "Hotel Adler", Position: "Kellner"},
			{Company: "Gasthof Linde", Position: "Service Restaurant"},
		},
		BreakStart: &start,
		BreakEnd:   &end,
	}
}

func serviceJob() *models.JobWithCompany {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return &models.JobWithCompany{
		JobPosting: models.JobPosting{
			ID:              42,
			Title:           "Restaurant Service",
			Category:        models.CategoryStudentVacationJob,
			GermanRequired:  models.LangGood,
			EnglishRequired: models.LangNotRequired,
			Location:        "Berlin",
			Slug:            "restaurant-service-berlin",
			StartDate:       &start,
		},
		CompanyName: "Hotel Adler",
	}
}

// ==========================
// Run
// ==========================

func TestRun_DeliversAboveThreshold(t *testing.T) {
	sink := &recordingSink{}
	fanout := NewFanout(
		sliceSource{applicants: []*models.Applicant{strongApplicant(100)}},
		settingsWith(t, "", ""), // defaults: enabled, threshold 85
		testRedis(t),
		time.Hour,
		logger.NewNop(),
		sink,
	)

	stats, err := fanout.Run(context.Background(), serviceJob())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Notified)

	require.Len(t, sink.alerts, 1)
	alert := sink.alerts[0]
	assert.Equal(t, "ana100@example.com", alert.Email)
	assert.Equal(t, "Ana Petrova", alert.Name)
	assert.Equal(t, "Hotel Adler", alert.CompanyName)
	assert.Equal(t, "/jobs/restaurant-service-berlin-42", alert.JobURL)
	assert.GreaterOrEqual(t, alert.Score, 85)
}

func TestRun_BelowThreshold(t *testing.T) {
	weak := &models.Applicant{
		ID:            101,
		Email:         "weak@example.com",
		PositionTypes: []models.PositionCategory{models.CategorySkilledWorker},
	}
	sink := &recordingSink{}
	fanout := NewFanout(
		sliceSource{applicants: []*models.Applicant{weak}},
		settingsWith(t, "", ""),
		testRedis(t),
		time.Hour,
		logger.NewNop(),
		sink,
	)

	stats, err := fanout.Run(context.Background(), serviceJob())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.BelowThreshold)
	assert.Zero(t, stats.Notified)
	assert.Empty(t, sink.alerts)
}

func TestRun_LoweredThreshold(t *testing.T) {
	weak := &models.Applicant{
		ID:            101,
		Email:         "weak@example.com",
		PositionTypes: []models.PositionCategory{models.CategoryStudentVacationJob},
	}
	sink := &recordingSink{}
	fanout := NewFanout(
		sliceSource{applicants: []*models.Applicant{weak}},
		settingsWith(t, "", "30"),
		testRedis(t),
		time.Hour,
		logger.NewNop(),
		sink,
	)

	stats, err := fanout.Run(context.Background(), serviceJob())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Notified)
}

func TestRun_SkipsApplicantWithoutEmail(t *testing.T) {
	a := strongApplicant(102)
	a.Email = ""
	sink := &recordingSink{}
	fanout := NewFanout(
		sliceSource{applicants: []*models.Applicant{a}},
		settingsWith(t, "", ""),
		testRedis(t),
		time.Hour,
		logger.NewNop(),
		sink,
	)

	stats, err := fanout.Run(context.Background(), serviceJob())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SkippedNoEmail)
	assert.Empty(t, sink.alerts)
}

func TestRun_DisabledGlobally(t *testing.T) {
	sink := &recordingSink{}
	fanout := NewFanout(
		sliceSource{applicants: []*models.Applicant{strongApplicant(100)}},
		settingsWith(t, "false", ""),
		testRedis(t),
		time.Hour,
		logger.NewNop(),
		sink,
	)

	stats, err := fanout.Run(context.Background(), serviceJob())
	require.NoError(t, err)
	assert.Zero(t, stats.Notified)
	assert.Empty(t, sink.alerts)
}

func TestRun_DeduplicatesAcrossRuns(t *testing.T) {
	rdb := testRedis(t)
	sink := &recordingSink{}
	source := sliceSource{applicants: []*models.Applicant{strongApplicant(100)}}

	first := NewFanout(source, settingsWith(t, "", ""), rdb, time.Hour, logger.NewNop(), sink)
	stats, err := first.Run(context.Background(), serviceJob())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Notified)

	second := NewFanout(source, settingsWith(t, "", ""), rdb, time.Hour, logger.NewNop(), sink)
	stats, err = second.Run(context.Background(), serviceJob())
	require.NoError(t, err)
	assert.Zero(t, stats.Notified)
	assert.Len(t, sink.alerts, 1)
}

func TestRun_SinkFailureCounted(t *testing.T) {
	sink := &recordingSink{err: fmt.Errorf("smtp down")}
	fanout := NewFanout(
		sliceSource{applicants: []*models.Applicant{strongApplicant(100)}},
		settingsWith(t, "", ""),
		testRedis(t),
		time.Hour,
		logger.NewNop(),
		sink,
	)

	stats, err := fanout.Run(context.Background(), serviceJob())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Errors)
	assert.Zero(t, stats.Notified)
}

func TestRun_SecondSinkStillDelivers(t *testing.T) {
	broken := &recordingSink{err: fmt.Errorf("smtp down")}
	working := &recordingSink{}
	fanout := NewFanout(
		sliceSource{applicants: []*models.Applicant{strongApplicant(100)}},
		settingsWith(t, "", ""),
		testRedis(t),
		time.Hour,
		logger.NewNop(),
		broken, working,
	)

	stats, err := fanout.Run(context.Background(), serviceJob())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Notified)
	assert.Len(t, working.alerts, 1)
}

func TestRun_NoRedisStillDelivers(t *testing.T) {
	sink := &recordingSink{}
	fanout := NewFanout(
		sliceSource{applicants: []*models.Applicant{strongApplicant(100)}},
		settingsWith(t, "", ""),
		nil,
		time.Hour,
		logger.NewNop(),
		sink,
	)

	stats, err := fanout.Run(context.Background(), serviceJob())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Notified)
}
