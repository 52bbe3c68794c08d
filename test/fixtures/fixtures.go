package fixtures

import (
	"time"

	"github.com/givehub/donation-platform/internal/model"
)

// Card numbers that pass format validation. They are test numbers and
// never touch a payment network.
const (
	ValidCardNumber = "4111111111111111"
	ValidCardExpiry = "12/30"
	ValidCardCVV    = "123"
)

var InvalidCardNumbers = []string{
	"1234",
	"abcd1111efgh2222",
	"",
	"4111 1111",
}

func NewTestNGO(name string) *model.NGO {
	return &model.NGO{
		Name:         name,
		Description:  "Test organization",
		Website:      "https://" + name + ".example.org",
		ContactEmail: "contact@" + name + ".example.org",
	}
}

func NewTestProgram(ngoID int64, title string, goal *float64) *model.Program {
	now := time.Now()
	return &model.Program{
		NGOID:       ngoID,
		Title:       title,
		Description: "Test program",
		Location:    "Testville",
		GoalAmount:  goal,
		StartDate:   now,
		EndDate:     now.AddDate(0, 3, 0),
	}
}

// NewGuestDonationRequest builds a donation submission with valid card
// details and guest contact information.
func NewGuestDonationRequest(amount float64, programID *int64) model.DonationCreateRequest {
	return model.DonationCreateRequest{
		Amount:     amount,
		ProgramID:  programID,
		DonorName:  "Sam Carter",
		DonorEmail: "sam@example.com",
		CardNumber: ValidCardNumber,
		CardExpiry: ValidCardExpiry,
		CardCVV:    ValidCardCVV,
	}
}

func NewUserDonationRequest(amount float64, userID int64, programID *int64) model.DonationCreateRequest {
	req := NewGuestDonationRequest(amount, programID)
	req.UserID = &userID
	req.DonorName = ""
	req.DonorEmail = ""
	return req
}

func NewTestUser(email string) *model.User {
	return &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "test-hash-not-a-real-credential",
		Role:         model.RoleDonor,
	}
}
