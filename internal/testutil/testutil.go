package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/psmak4/reprint-ui/internal/entity"
)

// TestUser is a mock user for testing
var TestUser = entity.User{
	ID:       "test-user-id-123",
	Username: "testuser",
	Role:     entity.RoleUser,
}

// TestAdmin is a mock admin user for testing
var TestAdmin = entity.User{
	ID:       "test-admin-id-456",
	Username: "adminuser",
	Role:     entity.RoleAdmin,
}

// TestBook is a mock book for testing
var TestBook = entity.Book{
	WorkKey:  "/works/OL45883W",
	Title:    "The Left Hand of Darkness",
	Authors:  []entity.AuthorRef{{Key: "/authors/OL23919A", Name: "Ursula K. Le Guin"}},
	Subjects: []string{"Science fiction"},
	Rating:   &entity.AggregateRating{Average: 4.2, Count: 1337},
}

// TestReview is a mock approved review for testing
var TestReview = entity.Review{
	ID:       "test-review-id-789",
	UserID:   TestUser.ID,
	Username: TestUser.Username,
	WorkKey:  TestBook.WorkKey,
	Rating:   5,
	Content:  "A test review body",
	Status:   "approved",
}

// TestLibraryItem is a mock shelf row for testing
var TestLibraryItem = entity.LibraryItem{
	ID:      "test-item-id-001",
	UserID:  TestUser.ID,
	WorkKey: TestBook.WorkKey,
	Status:  "reading",
}

const testSecret = "test-secret"

// GenerateTestToken mints a signed token for testing. The client never
// verifies signatures, so the secret is fixed.
func GenerateTestToken(userID, role string) string {
	return signToken(userID, role, time.Now().Add(time.Hour))
}

// GenerateExpiredToken mints a token whose expiry has already passed.
func GenerateExpiredToken(userID, role string) string {
	return signToken(userID, role, time.Now().Add(-time.Hour))
}

func signToken(userID, role string, expiresAt time.Time) string {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  expiresAt.Unix(),
		"iat":  time.Now().Add(-time.Minute).Unix(),
	})
	token, _ := t.SignedString([]byte(testSecret))
	return token
}
