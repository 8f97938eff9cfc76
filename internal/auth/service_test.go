package auth_test

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/auth"
	"github.com/frahmantamala/recruitment-management/internal/user"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubUsers struct {
	users map[string]*user.User
}

func (s *stubUsers) FindActive(_ context.Context, id string) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	if !u.IsActive() {
		return nil, internal.ErrUserInactive
	}
	return u, nil
}

func newUsers() *stubUsers {
	return &stubUsers{users: map[string]*user.User{
		"hr-1":   {ID: "hr-1", Role: internal.RoleHR, Status: user.StatusActive},
		"emp-1":  {ID: "emp-1", Role: internal.RoleEmployee, Status: user.StatusActive},
		"gone-1": {ID: "gone-1", Role: internal.RoleAdmin, Status: user.StatusDisabled},
	}}
}

var _ = Describe("JWTVerifier", func() {
	var verifier *auth.JWTVerifier

	BeforeEach(func() {
		verifier = auth.NewJWTVerifier(internal.SecurityConfig{
			JWTSecret:   testSecret,
			JWTIssuer:   "https://id.example.com",
			JWTAudience: "recruitment",
		})
	})

	It("should accept a token it issued", func() {
		token, err := verifier.Issue("hr-1", "hr@example.com", time.Hour)
		Expect(err).NotTo(HaveOccurred())

		claims, err := verifier.Verify(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.Subject).To(Equal("hr-1"))
		Expect(claims.Email).To(Equal("hr@example.com"))
	})

	It("should report expired tokens", func() {
		token, err := verifier.Issue("hr-1", "", -time.Minute)
		Expect(err).NotTo(HaveOccurred())

		_, err = verifier.Verify(token)
		Expect(err).To(MatchError(internal.ErrTokenExpired))
	})

	It("should reject tokens signed with another secret", func() {
		other := auth.NewJWTVerifier(internal.SecurityConfig{
			JWTSecret:   "ffffffffffffffffffffffffffffffff",
			JWTIssuer:   "https://id.example.com",
			JWTAudience: "recruitment",
		})
		token, err := other.Issue("hr-1", "", time.Hour)
		Expect(err).NotTo(HaveOccurred())

		_, err = verifier.Verify(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("should reject a foreign issuer", func() {
		other := auth.NewJWTVerifier(internal.SecurityConfig{
			JWTSecret:   testSecret,
			JWTIssuer:   "https://elsewhere.example.com",
			JWTAudience: "recruitment",
		})
		token, err := other.Issue("hr-1", "", time.Hour)
		Expect(err).NotTo(HaveOccurred())

		_, err = verifier.Verify(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("should reject tokens without a subject", func() {
		claims := jwt.RegisteredClaims{
			Issuer:    "https://id.example.com",
			Audience:  jwt.ClaimStrings{"recruitment"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		Expect(err).NotTo(HaveOccurred())

		_, err = verifier.Verify(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("should reject garbage", func() {
		_, err := verifier.Verify("not.a.token")
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})
})

var _ = Describe("Service", func() {
	var (
		verifier *auth.JWTVerifier
		service  *auth.Service
	)

	BeforeEach(func() {
		verifier = auth.NewJWTVerifier(internal.SecurityConfig{JWTSecret: testSecret})
		service = auth.NewService(verifier, newUsers(), slog.Default())
	})

	It("should resolve the actor from the account", func() {
		token, _ := verifier.Issue("hr-1", "", time.Hour)

		actor, err := service.Authenticate(context.Background(), token)
		Expect(err).NotTo(HaveOccurred())
		Expect(actor).To(Equal(internal.Actor{ID: "hr-1", Role: internal.RoleHR}))
	})

	It("should refuse disabled accounts", func() {
		token, _ := verifier.Issue("gone-1", "", time.Hour)

		_, err := service.Authenticate(context.Background(), token)
		Expect(err).To(MatchError(internal.ErrUserInactive))
	})

	It("should treat unknown subjects as invalid tokens", func() {
		token, _ := verifier.Issue("missing", "", time.Hour)

		_, err := service.Authenticate(context.Background(), token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})
})
