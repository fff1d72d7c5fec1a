package yard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/apperrors"
	"github.com/liancar/yard/internal/domain/models"
	"github.com/liancar/yard/internal/repository/memory"
)

func amount(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

type BoardSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *Service
}

func (s *BoardSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.svc = NewService(s.store, zap.NewNop())
}

func (s *BoardSuite) schedule(client, plate, serviceType, value string) models.ServiceRecord {
	record, err := s.svc.Schedule(s.ctx, ScheduleInput{
		Client:      client,
		Plate:       plate,
		ServiceType: serviceType,
		Amount:      amount(value),
	})
	s.Require().NoError(err)
	return record
}

func TestBoardSuite(t *testing.T) {
	suite.Run(t, new(BoardSuite))
}

func (s *BoardSuite) TestAnaWashLifecycle() {
	ana := s.schedule("Ana", "ABC123", "Lavagem Simples", "35.00")

	board, err := s.svc.BoardView(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(board.Scheduled, 1)
	s.Equal(ana.ID, board.Scheduled[0].ID)

	washing, err := s.svc.Advance(s.ctx, ana.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusWashing, washing.Status)

	board, err = s.svc.BoardView(s.ctx)
	s.Require().NoError(err)
	s.Empty(board.Scheduled)
	s.Len(board.Washing, 1)

	revenue, err := s.svc.RevenueTotal(s.ctx)
	s.Require().NoError(err)
	s.True(revenue.IsZero())

	done, err := s.svc.Advance(s.ctx, ana.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusDone, done.Status)

	revenue, err = s.svc.RevenueTotal(s.ctx)
	s.Require().NoError(err)
	s.Equal("35.00", revenue.StringFixed(2))
}

func (s *BoardSuite) TestAdvanceDoneIsIllegal() {
	record := s.schedule("Ana", "ABC123", "Lavagem Simples", "35.00")
	for i := 0; i < 2; i++ {
		_, err := s.svc.Advance(s.ctx, record.ID)
		s.Require().NoError(err)
	}

	_, err := s.svc.Advance(s.ctx, record.ID)
	s.ErrorIs(err, apperrors.ErrIllegalTransition)

	got, err := s.svc.Get(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusDone, got.Status)
}

func (s *BoardSuite) TestAdvanceUnknownID() {
	_, err := s.svc.Advance(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *BoardSuite) TestScheduleWithEmptyClientLeavesStoreUnchanged() {
	s.schedule("Ana", "ABC123", "Lavagem Simples", "35.00")

	_, err := s.svc.Schedule(s.ctx, ScheduleInput{Client: "", Plate: "XYZ789", Amount: amount("10")})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Schedule(s.ctx, ScheduleInput{Client: "Bia", Plate: "XYZ789", Amount: amount("-1")})
	s.ErrorIs(err, apperrors.ErrValidation)

	records, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *BoardSuite) TestScheduleFillsCatalogPrice() {
	record, err := s.svc.Schedule(s.ctx, ScheduleInput{Client: "Bia", Plate: "xyz789", ServiceType: "polimento"})
	s.Require().NoError(err)
	s.Equal("250.00", record.Amount.StringFixed(2))
	s.Equal("XYZ789", record.Plate)

	free, err := s.svc.Schedule(s.ctx, ScheduleInput{Client: "Caio", Plate: "QWE456", ServiceType: "Cera especial"})
	s.Require().NoError(err)
	s.True(free.Amount.IsZero())

	explicit, err := s.svc.Schedule(s.ctx, ScheduleInput{Client: "Duda", Plate: "RTY321", ServiceType: "Polimento", Amount: amount("200")})
	s.Require().NoError(err)
	s.Equal("200.00", explicit.Amount.StringFixed(2))
}

func (s *BoardSuite) TestRevenueCountsOnlyDone() {
	a := s.schedule("Ana", "ABC123", "Lavagem Simples", "35.00")
	b := s.schedule("Bia", "XYZ789", "Polimento", "250.00")
	s.schedule("Caio", "QWE456", "Lavagem Completa", "60.00")

	for _, id := range []string{a.ID, a.ID, b.ID} {
		_, err := s.svc.Advance(s.ctx, id)
		s.Require().NoError(err)
	}

	revenue, err := s.svc.RevenueTotal(s.ctx)
	s.Require().NoError(err)
	s.Equal("35.00", revenue.StringFixed(2))

	pending, err := s.svc.PendingTotal(s.ctx)
	s.Require().NoError(err)
	s.Equal("310.00", pending.StringFixed(2))

	// A non-Done record never moves revenue.
	s.schedule("Duda", "RTY321", "Polimento", "250.00")
	after, err := s.svc.RevenueTotal(s.ctx)
	s.Require().NoError(err)
	s.True(revenue.Equal(after))
}

func (s *BoardSuite) TestBoardLanesArePartition() {
	ids := make([]string, 0, 6)
	for _, client := range []string{"Ana", "Bia", "Caio", "Duda", "Edu", "Fabi"} {
		ids = append(ids, s.schedule(client, "P"+client, "Lavagem Simples", "35").ID)
	}
	for _, id := range []string{ids[1], ids[2], ids[2], ids[4]} {
		_, err := s.svc.Advance(s.ctx, id)
		s.Require().NoError(err)
	}

	board, err := s.svc.BoardView(s.ctx)
	s.Require().NoError(err)
	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)

	seen := map[string]int{}
	for _, status := range models.Statuses() {
		for _, record := range board.Lane(status) {
			s.Equal(status, record.Status)
			seen[record.ID]++
		}
	}
	s.Len(seen, len(all))
	for _, record := range all {
		s.Equal(1, seen[record.ID], "record %s", record.ID)
	}

	s.Equal([]string{ids[0], ids[3], ids[5]}, laneIDs(board.Scheduled))
	s.Equal([]string{ids[1], ids[4]}, laneIDs(board.Washing))
	s.Equal([]string{ids[2]}, laneIDs(board.Done))
}

func (s *BoardSuite) TestSetStatus() {
	record := s.schedule("Ana", "ABC123", "Lavagem Simples", "35.00")

	_, err := s.svc.SetStatus(s.ctx, record.ID, models.StatusDone)
	s.ErrorIs(err, apperrors.ErrIllegalTransition, "skipping Washing")

	_, err = s.svc.SetStatus(s.ctx, record.ID, models.Status("ARCHIVED"))
	s.ErrorIs(err, apperrors.ErrInvalidStatus)

	updated, err := s.svc.SetStatus(s.ctx, record.ID, models.StatusWashing)
	s.Require().NoError(err)
	s.Equal(models.StatusWashing, updated.Status)

	_, err = s.svc.SetStatus(s.ctx, record.ID, models.StatusScheduled)
	s.ErrorIs(err, apperrors.ErrIllegalTransition, "moving backward")

	got, err := s.svc.Get(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusWashing, got.Status)
}

func (s *BoardSuite) TestList() {
	jan1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	jan2 := time.Date(2025, 1, 2, 18, 30, 0, 0, time.UTC)
	jan5 := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)

	var ids []string
	for _, date := range []time.Time{jan1, jan2, jan5} {
		record, err := s.svc.Schedule(s.ctx, ScheduleInput{Client: "Ana", Plate: "ABC123", Amount: amount("35"), Date: date})
		s.Require().NoError(err)
		ids = append(ids, record.ID)
	}
	_, err := s.svc.Advance(s.ctx, ids[1])
	s.Require().NoError(err)

	all, err := s.svc.List(s.ctx, Filter{})
	s.Require().NoError(err)
	s.Len(all, 3)

	inRange, err := s.svc.List(s.ctx, Filter{Period: models.Period{From: jan1, To: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}})
	s.Require().NoError(err)
	s.Equal([]string{ids[0], ids[1]}, laneIDs(inRange))

	washing, err := s.svc.List(s.ctx, Filter{Status: models.StatusWashing})
	s.Require().NoError(err)
	s.Equal([]string{ids[1]}, laneIDs(washing))

	_, err = s.svc.List(s.ctx, Filter{Status: "LOST"})
	s.ErrorIs(err, apperrors.ErrInvalidStatus)
}

func laneIDs(records []models.ServiceRecord) []string {
	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	return ids
}

// mockStore lets tests script store failures the real backends never produce on demand.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListAll(ctx context.Context) ([]models.ServiceRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]models.ServiceRecord)
	return records, args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, id string) (models.ServiceRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.ServiceRecord), args.Error(1)
}

func (m *mockStore) Insert(ctx context.Context, in models.NewServiceRecord) (models.ServiceRecord, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.ServiceRecord), args.Error(1)
}

func (m *mockStore) UpdateStatus(ctx context.Context, id string, expected, next models.Status) (models.ServiceRecord, error) {
	args := m.Called(ctx, id, expected, next)
	return args.Get(0).(models.ServiceRecord), args.Error(1)
}

func TestAdvance_ConflictLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	record := models.ServiceRecord{ID: "r1", Status: models.StatusScheduled}
	store.On("Get", ctx, "r1").Return(record, nil)
	store.On("UpdateStatus", ctx, "r1", models.StatusScheduled, models.StatusWashing).
		Return(models.ServiceRecord{}, apperrors.ErrConflict)

	_, err := NewService(store, nil).Advance(ctx, "r1")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	store.AssertExpectations(t)
}

func TestBoardView_PropagatesStoreError(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	boom := errors.New("sheet unavailable")
	store.On("ListAll", ctx).Return(nil, boom)

	svc := NewService(store, nil)
	_, err := svc.BoardView(ctx)
	require.ErrorIs(t, err, boom)
	_, err = svc.RevenueTotal(ctx)
	require.ErrorIs(t, err, boom)
}

func TestPartitionEmptyLanesAreNonNil(t *testing.T) {
	board := Partition(nil)
	assert.NotNil(t, board.Scheduled)
	assert.NotNil(t, board.Washing)
	assert.NotNil(t, board.Done)
}
