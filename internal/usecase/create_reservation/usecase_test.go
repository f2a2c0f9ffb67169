package create_reservation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarpenko/shine-booking/internal/domain"
	customerRepo "github.com/vkarpenko/shine-booking/internal/infra/storage/customer"
	reservationRepo "github.com/vkarpenko/shine-booking/internal/infra/storage/reservation"
	"github.com/vkarpenko/shine-booking/internal/integrations/pricing"
	"github.com/vkarpenko/shine-booking/internal/service/events"
	"github.com/vkarpenko/shine-booking/pkg/ptr"
)

// Фейки коллабораторов

type fakeReservationRepo struct {
	existing  []*domain.Reservation
	createErr error
	created   *domain.Reservation
}

func (f *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *res
	stored.ID = 42
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.created = &stored
	return &stored, nil
}

func (f *fakeReservationRepo) GetWithFilter(_ context.Context, _ domain.ReservationsFilter) ([]*domain.Reservation, error) {
	return f.existing, nil
}

type fakeCustomerRepo struct {
	byEmail    map[string]*domain.Customer
	createErr  error
	createdNew bool
}

func (f *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	if c, ok := f.byEmail[email]; ok {
		return c, nil
	}
	return nil, customerRepo.ErrCustomerNotFound
}

func (f *fakeCustomerRepo) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *c
	stored.ID = 7
	if f.byEmail == nil {
		f.byEmail = map[string]*domain.Customer{}
	}
	f.byEmail[c.Email] = &stored
	f.createdNew = true
	return &stored, nil
}

type fakePricing struct {
	service    *pricing.Service
	serviceErr error
	quote      *pricing.Quote
	quoteErr   error
}

func (f *fakePricing) GetService(_ context.Context, _ string) (*pricing.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.service, nil
}

func (f *fakePricing) GetQuote(_ context.Context, _ *pricing.QuoteRequest) (*pricing.Quote, error) {
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return f.quote, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturingPublisher struct {
	published []events.ReservationEvent
}

func (p *capturingPublisher) Publish(_ context.Context, e events.ReservationEvent) error {
	p.published = append(p.published, e)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// Сборка окружения теста

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func testSettings() Settings {
	return Settings{
		OpenTime:           "08:00",
		CloseTime:          "18:00",
		GranularityMinutes: 30,
		ReferencePrefix:    "SHN",
	}
}

func newTestUseCase(resRepo *fakeReservationRepo, custRepo *fakeCustomerRepo, pc *fakePricing, pub *capturingPublisher) *UseCase {
	uc := NewUseCase(resRepo, custRepo, pc, fakeTxManager{}, pub, testSettings(), nopLogger{})
	uc.timeProvider = fixedTime{now: testNow}
	return uc
}

func validRequest() *Request {
	return &Request{
		CustomerName:  "Анна Петрова",
		CustomerEmail: "anna@example.com",
		Date:          testNow.AddDate(0, 0, 1),
		StartTime:     "10:00",
		ServiceType:   "full_detail",
		VehicleType:   "sedan",
		Extras:        []string{"wax"},
		PaymentMethod: "card",
	}
}

func defaultPricing() *fakePricing {
	return &fakePricing{
		service: &pricing.Service{Type: "full_detail", Name: "Полная мойка", DurationMinutes: 60, BasePrice: 100},
		quote:   &pricing.Quote{Amount: 150},
	}
}

func TestExecute_Success(t *testing.T) {
	resRepo := &fakeReservationRepo{}
	custRepo := &fakeCustomerRepo{
		byEmail: map[string]*domain.Customer{
			"anna@example.com": {ID: 5, Name: "Анна Петрова", Email: "anna@example.com"},
		},
	}
	pub := &capturingPublisher{}
	uc := newTestUseCase(resRepo, custRepo, defaultPricing(), pub)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, int64(5), resp.CustomerID)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 150.0, resp.Price)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
	assert.True(t, strings.HasPrefix(resp.Reference, "SHN-20260902-1000-"))

	require.NotNil(t, resRepo.created)
	assert.Equal(t, domain.StatusPending, resRepo.created.Status)
	assert.False(t, custRepo.createdNew)

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TypeReservationCreated, pub.published[0].Type)
}

func TestExecute_CreatesCustomerWhenMissing(t *testing.T) {
	resRepo := &fakeReservationRepo{}
	custRepo := &fakeCustomerRepo{}
	uc := newTestUseCase(resRepo, custRepo, defaultPricing(), &capturingPublisher{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, custRepo.createdNew)
	assert.Equal(t, int64(7), resp.CustomerID)
}

func TestExecute_CustomerCreateRaceFallsBackToLookup(t *testing.T) {
	// Конкурентный запрос успел создать клиента между lookup и create
	resRepo := &fakeReservationRepo{}
	custRepo := &raceCustomerRepo{winner: &domain.Customer{ID: 9, Email: "anna@example.com"}}
	uc := newTestUseCase(resRepo, &fakeCustomerRepo{}, defaultPricing(), &capturingPublisher{})
	uc.customerRepo = custRepo

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.CustomerID)
}

// raceCustomerRepo имитирует проигранную гонку создания клиента:
// первый lookup — not found, create — duplicate, повторный lookup — успех
type raceCustomerRepo struct {
	winner  *domain.Customer
	lookups int
}

func (r *raceCustomerRepo) GetByEmail(_ context.Context, _ string) (*domain.Customer, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, customerRepo.ErrCustomerNotFound
	}
	return r.winner, nil
}

func (r *raceCustomerRepo) Create(_ context.Context, _ *domain.Customer) (*domain.Customer, error) {
	return nil, customerRepo.ErrDuplicateEmail
}

func TestExecute_SlotTakenByExistingReservation(t *testing.T) {
	resRepo := &fakeReservationRepo{
		existing: []*domain.Reservation{
			{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		},
	}
	uc := newTestUseCase(resRepo, &fakeCustomerRepo{}, defaultPricing(), &capturingPublisher{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotTaken)
	assert.Nil(t, resRepo.created)
}

func TestExecute_OverlappingReservationBlocks(t *testing.T) {
	// Занят интервал [09:30, 10:30) - пересекается с кандидатом 10:00
	resRepo := &fakeReservationRepo{
		existing: []*domain.Reservation{
			{StartTime: "09:30", DurationMinutes: 60, Status: domain.StatusPending},
		},
	}
	uc := newTestUseCase(resRepo, &fakeCustomerRepo{}, defaultPricing(), &capturingPublisher{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_LostRaceOnUniqueIndex(t *testing.T) {
	// Проверка прошла, но запись упала на уникальном индексе слота
	resRepo := &fakeReservationRepo{createErr: reservationRepo.ErrSlotTaken}
	uc := newTestUseCase(resRepo, &fakeCustomerRepo{}, defaultPricing(), &capturingPublisher{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "missing name", mutate: func(r *Request) { r.CustomerName = " " }},
		{name: "missing email", mutate: func(r *Request) { r.CustomerEmail = "" }},
		{name: "malformed email", mutate: func(r *Request) { r.CustomerEmail = "not-an-email" }},
		{name: "missing service type", mutate: func(r *Request) { r.ServiceType = "" }},
		{name: "missing vehicle type", mutate: func(r *Request) { r.VehicleType = "" }},
		{name: "bad payment method", mutate: func(r *Request) { r.PaymentMethod = "crypto" }},
		{name: "bad start time", mutate: func(r *Request) { r.StartTime = "9:00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeReservationRepo{}, &fakeCustomerRepo{}, defaultPricing(), &capturingPublisher{})
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_DateInPast(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeCustomerRepo{}, defaultPricing(), &capturingPublisher{})
	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_StartTimeOffGrid(t *testing.T) {
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeCustomerRepo{}, defaultPricing(), &capturingPublisher{})

	// 10:15 не лежит в получасовой сетке
	req := validRequest()
	req.StartTime = "10:15"
	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidTimeSlot)

	// 17:30 лежит в сетке, но часовая услуга не завершится до 18:00
	req = validRequest()
	req.StartTime = "17:30"
	_, err = uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	pc := &fakePricing{serviceErr: pricing.ErrServiceNotFound}
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeCustomerRepo{}, pc, &capturingPublisher{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_QuoteFailureIsInternal(t *testing.T) {
	pc := defaultPricing()
	pc.quoteErr = errors.New("pricing unavailable")
	uc := newTestUseCase(&fakeReservationRepo{}, &fakeCustomerRepo{}, pc, &capturingPublisher{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrInternal)
}

func TestGenerateReference(t *testing.T) {
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	ref := generateReference("SHN", date, "10:00")

	parts := strings.Split(ref, "-")
	require.Len(t, parts, 4)
	assert.Equal(t, "SHN", parts[0])
	assert.Equal(t, "20260902", parts[1])
	assert.Equal(t, "1000", parts[2])
	assert.Len(t, parts[3], 6)
	assert.Equal(t, strings.ToUpper(parts[3]), parts[3])

	// Случайный суффикс делает референсы уникальными
	assert.NotEqual(t, ref, generateReference("SHN", date, "10:00"))
}

func TestExecute_PaymentMethodStored(t *testing.T) {
	resRepo := &fakeReservationRepo{}
	uc := newTestUseCase(resRepo, &fakeCustomerRepo{}, defaultPricing(), &capturingPublisher{})

	req := validRequest()
	req.PaymentMethod = "cash"
	req.Notes = ptr.Ptr("позвонить за час")

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, resRepo.created)
	require.NotNil(t, resRepo.created.PaymentMethod)
	assert.Equal(t, "cash", *resRepo.created.PaymentMethod)
	require.NotNil(t, resRepo.created.Notes)
	assert.Equal(t, "позвонить за час", *resRepo.created.Notes)
}
