package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"maitred/config"
	kafkaMocks "maitred/infras/kafka/mocks"
	"maitred/infras/otel/mocks"
	resMocks "maitred/internal/domains/reservation/mocks"
	resModel "maitred/internal/domains/reservation/model"
	waitlistMocks "maitred/internal/domains/waitlist/mocks"
	"maitred/internal/domains/waitlist/model"
	"maitred/internal/domains/waitlist/model/dto"
	"maitred/internal/domains/waitlist/service"
	cacheMocks "maitred/shared/cache/mocks"
	"maitred/shared/constant"
	gModel "maitred/shared/model"
	"maitred/shared/timezone"
)

type waitlistFixture struct {
	repo         *waitlistMocks.MockWaitlist
	reservations *resMocks.MockReservation
	cache        *cacheMocks.MockRedisCache
	producer     *kafkaMocks.MockProducer
	svc          service.Waitlist
}

func newWaitlistFixture(ctrl *gomock.Controller) *waitlistFixture {
	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Restaurant.Capacity = 50

	f := &waitlistFixture{
		repo:         waitlistMocks.NewMockWaitlist(ctrl),
		reservations: resMocks.NewMockReservation(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		producer:     kafkaMocks.NewMockProducer(ctrl),
	}

	f.svc = service.New(f.repo, f.reservations, cfg, f.cache, mocks.NewOtel(), f.producer)

	// Publishing and cache writes happen on background goroutines.
	f.producer.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func waitingEntry() model.WaitlistEntry {
	return model.WaitlistEntry{
		ID:            "wait-id",
		Code:          "WAIT-20260901-0042",
		GuestName:     "Alice Moreau",
		GuestPhone:    "555-0101",
		PartySize:     4,
		EstimatedWait: 25,
		Status:        model.StatusWaiting,
		Priority:      2,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "host",
			ModifiedBy: "host",
		},
	}
}

func TestWaitlistService_Join(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newWaitlistFixture(ctrl)

	tests := []struct {
		name         string
		req          dto.JoinWaitlistRequest
		setupMock    func()
		wantErr      bool
		wantPriority int
		wantWait     int
	}{
		{
			name: "empty queue gets the minimum wait",
			req: dto.JoinWaitlistRequest{
				GuestName:  "Alice Moreau",
				GuestPhone: "555-0101",
				PartySize:  2,
			},
			setupMock: func() {
				f.repo.EXPECT().
					GetQueue(gomock.Any()).
					Return([]model.WaitlistEntry{}, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantPriority: 1,
			wantWait:     10,
		},
		{
			// Three parties ahead at 15 minutes each, plus the large-party
			// surcharge.
			name: "busy queue and a large party wait longer",
			req: dto.JoinWaitlistRequest{
				GuestName:  "Ben Okafor",
				GuestPhone: "555-0202",
				PartySize:  6,
			},
			setupMock: func() {
				f.repo.EXPECT().
					GetQueue(gomock.Any()).
					Return([]model.WaitlistEntry{
						waitingEntry(), waitingEntry(), waitingEntry(),
					}, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantPriority: 4,
			wantWait:     55,
		},
		{
			name: "host override beats the estimate",
			req: dto.JoinWaitlistRequest{
				GuestName:     "Chen Wei",
				GuestPhone:    "555-0303",
				PartySize:     2,
				EstimatedWait: 25,
			},
			setupMock: func() {
				f.repo.EXPECT().
					GetQueue(gomock.Any()).
					Return([]model.WaitlistEntry{}, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantPriority: 1,
			wantWait:     25,
		},
		{
			name: "queue load failure",
			req: dto.JoinWaitlistRequest{
				GuestName:  "Alice Moreau",
				GuestPhone: "555-0101",
				PartySize:  2,
			},
			setupMock: func() {
				f.repo.EXPECT().
					GetQueue(gomock.Any()).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
		{
			name: "insert failure",
			req: dto.JoinWaitlistRequest{
				GuestName:  "Alice Moreau",
				GuestPhone: "555-0101",
				PartySize:  2,
			},
			setupMock: func() {
				f.repo.EXPECT().
					GetQueue(gomock.Any()).
					Return([]model.WaitlistEntry{}, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("insert error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyOperator, "host")
			result, err := f.svc.Join(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.True(t, strings.HasPrefix(result.Entry.Code, "WAIT-"))
			assert.Equal(t, model.StatusWaiting, result.Entry.Status)
			assert.Equal(t, tt.wantPriority, result.Entry.Priority)
			assert.Equal(t, tt.wantWait, result.Entry.EstimatedWait)
		})
	}
}

func TestWaitlistService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newWaitlistFixture(ctrl)

	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name      string
		req       dto.UpdateWaitlistRequest
		setupMock func()
		wantErr   bool
		check     func(t *testing.T, res dto.WaitlistEntryResponse)
	}{
		{
			name: "notify stamps the notification time",
			req:  dto.UpdateWaitlistRequest{Status: model.StatusNotified},
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(waitingEntry(), nil)

				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Contains(t, fields, model.FieldNotifiedAt)

						return nil
					})
			},
			check: func(t *testing.T, res dto.WaitlistEntryResponse) {
				assert.Equal(t, model.StatusNotified, res.Status)
				assert.NotNil(t, res.NotifiedAt)
			},
		},
		{
			name: "queue position reorder",
			req:  dto.UpdateWaitlistRequest{Priority: intPtr(1)},
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(waitingEntry(), nil)

				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.NotContains(t, fields, model.FieldNotifiedAt)

						return nil
					})
			},
			check: func(t *testing.T, res dto.WaitlistEntryResponse) {
				assert.Equal(t, 1, res.Priority)
				assert.Nil(t, res.NotifiedAt)
			},
		},
		{
			name:      "empty update rejected",
			req:       dto.UpdateWaitlistRequest{},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:      "unknown status rejected",
			req:       dto.UpdateWaitlistRequest{Status: "vanished"},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "entry not found",
			req:  dto.UpdateWaitlistRequest{Status: model.StatusCancelled},
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.WaitlistEntry{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyOperator, "host")
			result, err := f.svc.Update(ctx, tt.req, "wait-id")

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			tt.check(t, result)
		})
	}
}

func TestWaitlistService_Remove(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newWaitlistFixture(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "entry removed",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(waitingEntry(), nil)

				f.repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "entry not found",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.WaitlistEntry{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyOperator, "host")
			err := f.svc.Remove(ctx, "wait-id")

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestWaitlistService_Queue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newWaitlistFixture(ctrl)

	t.Run("cache hit skips the repository", func(t *testing.T) {
		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest any) error {
				res := dest.(*dto.GetWaitlistResponse)
				res.Count = 2

				return nil
			})

		result, err := f.svc.Queue(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, result.Count)
	})

	t.Run("cache miss loads the queue", func(t *testing.T) {
		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.repo.EXPECT().
			GetQueue(gomock.Any()).
			Return([]model.WaitlistEntry{waitingEntry()}, nil)

		result, err := f.svc.Queue(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 1, result.Count)
		assert.Equal(t, "WAIT-20260901-0042", result.Entries[0].Code)
	})

	t.Run("repository failure", func(t *testing.T) {
		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.repo.EXPECT().
			GetQueue(gomock.Any()).
			Return(nil, errors.New("db error"))

		_, err := f.svc.Queue(context.Background())

		assert.Error(t, err)
	})
}

func TestWaitlistService_WaitTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newWaitlistFixture(ctrl)

	// The estimate depends on the wall clock, so expectations are built with
	// the same peak-hour rule the service applies.
	peakBump := func() int {
		hour := timezone.Now().Hour()
		if hour >= 18 && hour <= 20 {
			return 10
		}

		return 0
	}

	nowSlot := func() string {
		return timezone.Now().Format(constant.ClockFormat)
	}

	t.Run("quiet book quotes the base wait", func(t *testing.T) {
		f.reservations.EXPECT().
			GetActiveByDate(gomock.Any(), gomock.Any()).
			Return([]resModel.Reservation{}, nil)

		result, err := f.svc.WaitTime(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 10+peakBump(), result.EstimatedWaitMinutes)
		assert.Equal(t, 0, result.OccupancyPercentage)
	})

	t.Run("crowded window raises the quote", func(t *testing.T) {
		busy := make([]resModel.Reservation, 41)
		for i := range busy {
			busy[i] = resModel.Reservation{Time: nowSlot(), PartySize: 2, Status: resModel.StatusConfirmed}
		}

		f.reservations.EXPECT().
			GetActiveByDate(gomock.Any(), gomock.Any()).
			Return(busy, nil)

		result, err := f.svc.WaitTime(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 30+peakBump(), result.EstimatedWaitMinutes)
		assert.Equal(t, 82, result.OccupancyPercentage)
	})

	t.Run("unparseable slots are skipped", func(t *testing.T) {
		f.reservations.EXPECT().
			GetActiveByDate(gomock.Any(), gomock.Any()).
			Return([]resModel.Reservation{
				{Time: "soon", PartySize: 2, Status: resModel.StatusConfirmed},
			}, nil)

		result, err := f.svc.WaitTime(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 10+peakBump(), result.EstimatedWaitMinutes)
	})

	t.Run("reservation load failure", func(t *testing.T) {
		f.reservations.EXPECT().
			GetActiveByDate(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("db error"))

		_, err := f.svc.WaitTime(context.Background())

		assert.Error(t, err)
	})
}

func TestWaitlistService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newWaitlistFixture(ctrl)

	t.Run("entry found", func(t *testing.T) {
		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(waitingEntry(), nil)

		result, err := f.svc.Get(context.Background(), "wait-id")

		assert.NoError(t, err)
		assert.Equal(t, "wait-id", result.ID)
		assert.Equal(t, model.StatusWaiting, result.Status)
	})

	t.Run("entry not found", func(t *testing.T) {
		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.WaitlistEntry{}, nil)

		_, err := f.svc.Get(context.Background(), "missing")

		assert.Error(t, err)
	})
}
