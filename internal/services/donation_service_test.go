package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/repository"
)

type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(ctx context.Context, d *model.Donation) (*model.Donation, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationRepository) List(ctx context.Context, f model.DonationFilter) ([]*model.Donation, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Donation), args.Get(1).(int64), args.Error(2)
}

func (m *MockDonationRepository) SumSuccessfulAmount(ctx context.Context, programID int64) (float64, error) {
	args := m.Called(ctx, programID)
	return args.Get(0).(float64), args.Error(1)
}

type MockProgramRepository struct {
	mock.Mock
}

func (m *MockProgramRepository) Create(ctx context.Context, p *model.Program) (*model.Program, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Program), args.Error(1)
}

func (m *MockProgramRepository) GetByID(ctx context.Context, id int64) (*model.Program, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Program), args.Error(1)
}

func (m *MockProgramRepository) List(ctx context.Context) ([]*model.Program, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Program), args.Error(1)
}

func (m *MockProgramRepository) ListByNGO(ctx context.Context, ngoID int64) ([]*model.Program, error) {
	args := m.Called(ctx, ngoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Program), args.Error(1)
}

func (m *MockProgramRepository) Update(ctx context.Context, id int64, req model.ProgramUpdateRequest) (*model.Program, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Program), args.Error(1)
}

func (m *MockProgramRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validCardRequest() model.DonationCreateRequest {
	return model.DonationCreateRequest{
		Amount:     50,
		CauseName:  "Clean Water",
		DonorName:  "Jane Doe",
		DonorEmail: "jane@example.com",
		CardNumber: "4111111111111111",
		CardExpiry: "12/30",
		CardCVV:    "123",
	}
}

func TestDonationService_Submit_Accepted(t *testing.T) {
	donationRepo := new(MockDonationRepository)
	programRepo := new(MockProgramRepository)
	ctx := context.Background()

	service := NewDonationService(donationRepo, programRepo, nil)

	donationRepo.On("Create", ctx, mock.AnythingOfType("*model.Donation")).
		Run(func(args mock.Arguments) {
			d := args.Get(1).(*model.Donation)
			assert.Equal(t, model.PaymentStatusSuccess, d.PaymentStatus)
			assert.Equal(t, model.PaymentMethodSimulatedCard, d.PaymentMethod)
			require.NotNil(t, d.TransactionRef)
			assert.True(t, strings.HasPrefix(*d.TransactionRef, "TXN-"))
			assert.Len(t, *d.TransactionRef, 16)
			assert.Equal(t, strings.ToLower(*d.TransactionRef), *d.TransactionRef)
		}).
		Return(&model.Donation{ID: 1, Amount: 50, PaymentStatus: model.PaymentStatusSuccess}, nil)

	created, err := service.Submit(ctx, validCardRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	donationRepo.AssertExpectations(t)
}

func TestDonationService_Submit_InvalidAmount(t *testing.T) {
	donationRepo := new(MockDonationRepository)
	programRepo := new(MockProgramRepository)
	service := NewDonationService(donationRepo, programRepo, nil)
	ctx := context.Background()

	for _, amount := range []float64{0, -1, -0.01} {
		req := validCardRequest()
		req.Amount = amount

		result, err := service.Submit(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Nil(t, result)
	}

	// No persistence on rejection
	donationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDonationService_Submit_InvalidCard(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*model.DonationCreateRequest)
	}{
		{"short card number", func(r *model.DonationCreateRequest) { r.CardNumber = "1234" }},
		{"expired card", func(r *model.DonationCreateRequest) { r.CardExpiry = "01/20" }},
		{"malformed expiry", func(r *model.DonationCreateRequest) { r.CardExpiry = "13/2030" }},
		{"bad cvv", func(r *model.DonationCreateRequest) { r.CardCVV = "12" }},
		{"alpha card number", func(r *model.DonationCreateRequest) { r.CardNumber = "4111abcd1111111" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			donationRepo := new(MockDonationRepository)
			programRepo := new(MockProgramRepository)
			service := NewDonationService(donationRepo, programRepo, nil)

			req := validCardRequest()
			tc.mutate(&req)

			result, err := service.Submit(ctx, req)
			assert.ErrorIs(t, err, ErrPaymentValidationFailed)
			assert.Nil(t, result)
			donationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestDonationService_Submit_GuestNeedsContact(t *testing.T) {
	donationRepo := new(MockDonationRepository)
	programRepo := new(MockProgramRepository)
	service := NewDonationService(donationRepo, programRepo, nil)
	ctx := context.Background()

	req := validCardRequest()
	req.DonorName = ""
	req.DonorEmail = "  "

	result, err := service.Submit(ctx, req)
	assert.ErrorIs(t, err, ErrMissingDonorContact)
	assert.Nil(t, result)

	t.Run("authenticated user needs no contact fields", func(t *testing.T) {
		userID := int64(8)
		req := validCardRequest()
		req.DonorName = ""
		req.DonorEmail = ""
		req.UserID = &userID

		donationRepo.On("Create", ctx, mock.AnythingOfType("*model.Donation")).
			Return(&model.Donation{ID: 2, UserID: &userID}, nil).Once()

		result, err := service.Submit(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.ID)
	})
}

func TestDonationService_Submit_UnknownProgram(t *testing.T) {
	donationRepo := new(MockDonationRepository)
	programRepo := new(MockProgramRepository)
	service := NewDonationService(donationRepo, programRepo, nil)
	ctx := context.Background()

	programID := int64(404)
	req := validCardRequest()
	req.ProgramID = &programID

	programRepo.On("GetByID", ctx, programID).Return(nil, repository.ErrProgramNotFound)

	result, err := service.Submit(ctx, req)
	assert.ErrorIs(t, err, ErrProgramNotFound)
	assert.Nil(t, result)
	donationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDonationService_Submit_RegeneratesRefOnCollision(t *testing.T) {
	donationRepo := new(MockDonationRepository)
	programRepo := new(MockProgramRepository)
	service := NewDonationService(donationRepo, programRepo, nil)
	ctx := context.Background()

	var refs []string
	donationRepo.On("Create", ctx, mock.AnythingOfType("*model.Donation")).
		Run(func(args mock.Arguments) {
			d := args.Get(1).(*model.Donation)
			refs = append(refs, *d.TransactionRef)
		}).
		Return(nil, repository.ErrDuplicateReference).Twice()
	donationRepo.On("Create", ctx, mock.AnythingOfType("*model.Donation")).
		Return(&model.Donation{ID: 3}, nil).Once()

	result, err := service.Submit(ctx, validCardRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.ID)
	assert.Len(t, refs, 2)
	assert.NotEqual(t, refs[0], refs[1])

	donationRepo.AssertExpectations(t)
}

func TestDonationService_Submit_GivesUpAfterRepeatedCollisions(t *testing.T) {
	donationRepo := new(MockDonationRepository)
	programRepo := new(MockProgramRepository)
	service := NewDonationService(donationRepo, programRepo, nil)
	ctx := context.Background()

	donationRepo.On("Create", ctx, mock.AnythingOfType("*model.Donation")).
		Return(nil, repository.ErrDuplicateReference).Times(refAttempts)

	result, err := service.Submit(ctx, validCardRequest())
	assert.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrDuplicateReference)
	assert.Nil(t, result)

	donationRepo.AssertExpectations(t)
}

func TestDonationService_Submit_PersistenceErrorSurfaced(t *testing.T) {
	donationRepo := new(MockDonationRepository)
	programRepo := new(MockProgramRepository)
	service := NewDonationService(donationRepo, programRepo, nil)
	ctx := context.Background()

	donationRepo.On("Create", ctx, mock.AnythingOfType("*model.Donation")).
		Return(nil, assert.AnError).Once()

	result, err := service.Submit(ctx, validCardRequest())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, result)
}

func TestDonationService_History(t *testing.T) {
	donationRepo := new(MockDonationRepository)
	programRepo := new(MockProgramRepository)
	service := NewDonationService(donationRepo, programRepo, nil)
	ctx := context.Background()

	userID := int64(12)
	expected := []*model.Donation{{ID: 5, UserID: &userID}}

	donationRepo.On("List", ctx, mock.MatchedBy(func(f model.DonationFilter) bool {
		return f.UserID != nil && *f.UserID == userID && f.Desc &&
			f.Limit == 25 && f.Offset == 50
	})).Return(expected, int64(1), nil)

	donations, total, err := service.History(ctx, userID, 25, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, donations, 1)
}
