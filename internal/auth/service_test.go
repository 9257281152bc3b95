package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock repository for testing
type mockAuthRepository struct {
	credentials map[string]*Credentials
	users       map[int64]*User
	tokens      map[string]*RefreshToken
	nextTokenID int64
	returnError error
}

func newMockAuthRepository() *mockAuthRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockAuthRepository{
		credentials: map[string]*Credentials{
			"staff@ngo.org":    {UserID: 1, PasswordHash: string(hashedPassword), IsActive: true},
			"inactive@ngo.org": {UserID: 2, PasswordHash: string(hashedPassword), IsActive: false},
		},
		users: map[int64]*User{
			1: {ID: 1, FullName: "Field Officer", Email: "staff@ngo.org", Role: RoleStaff, IsActive: true},
			2: {ID: 2, FullName: "Former Staff", Email: "inactive@ngo.org", Role: RoleStaff, IsActive: false},
		},
		tokens:      make(map[string]*RefreshToken),
		nextTokenID: 1,
	}
}

func (m *mockAuthRepository) GetCredentialsByEmail(email string) (*Credentials, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	creds, ok := m.credentials[email]
	if !ok {
		return nil, errors.New("user not found")
	}
	return creds, nil
}

func (m *mockAuthRepository) GetUserByID(userID int64) (*User, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (m *mockAuthRepository) StoreRefreshToken(token *RefreshToken) error {
	token.ID = m.nextTokenID
	m.nextTokenID++
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockAuthRepository) GetRefreshToken(tokenHash string) (*RefreshToken, error) {
	token, ok := m.tokens[tokenHash]
	if !ok {
		return nil, errors.New("token not found")
	}
	return token, nil
}

func (m *mockAuthRepository) RevokeRefreshToken(tokenHash string) error {
	token, ok := m.tokens[tokenHash]
	if !ok {
		return errors.New("token not found")
	}
	now := time.Now()
	token.RevokedAt = &now
	return nil
}

func (m *mockAuthRepository) RevokeAllForUser(userID int64) error {
	now := time.Now()
	for _, token := range m.tokens {
		if token.UserID == userID {
			token.RevokedAt = &now
		}
	}
	return nil
}

var _ = ginkgo.Describe("Auth Service", func() {
	var (
		service  *Service
		mockRepo *mockAuthRepository
	)

	ginkgo.BeforeEach(func() {
		privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		mockRepo = newMockAuthRepository()
		service = NewService(mockRepo, privateKey, &privateKey.PublicKey, 15*time.Minute, 24*time.Hour, bcrypt.MinCost)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.It("should return a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(LoginDTO{Email: "staff@ngo.org", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).NotTo(gomega.BeEmpty())
			gomega.Expect(tokens.RefreshToken).NotTo(gomega.BeEmpty())
			gomega.Expect(tokens.ExpiresIn).To(gomega.Equal(int64(900)))
		})

		ginkgo.It("should reject a wrong password", func() {
			_, err := service.Authenticate(LoginDTO{Email: "staff@ngo.org", Password: "wrong"})
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
		})

		ginkgo.It("should reject an unknown email the same way as a wrong password", func() {
			_, err := service.Authenticate(LoginDTO{Email: "nobody@ngo.org", Password: "correct_password"})
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
		})

		ginkgo.It("should reject a deactivated account", func() {
			_, err := service.Authenticate(LoginDTO{Email: "inactive@ngo.org", Password: "correct_password"})
			gomega.Expect(err).To(gomega.MatchError(ErrUserInactive))
		})

		ginkgo.It("should require email and password", func() {
			_, err := service.Authenticate(LoginDTO{Email: "staff@ngo.org"})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("should round-trip user claims", func() {
			tokens, err := service.Authenticate(LoginDTO{Email: "staff@ngo.org", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("1"))
			gomega.Expect(claims.Email).To(gomega.Equal("staff@ngo.org"))
			gomega.Expect(claims.Role).To(gomega.Equal("staff"))
		})

		ginkgo.It("should reject a token signed with another key", func() {
			otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			otherService := NewService(mockRepo, otherKey, &otherKey.PublicKey, 15*time.Minute, 24*time.Hour, bcrypt.MinCost)

			tokens, err := otherService.Authenticate(LoginDTO{Email: "staff@ngo.org", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})

		ginkgo.It("should reject garbage", func() {
			_, err := service.ValidateAccessToken("not.a.token")
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should rotate the refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{Email: "staff@ngo.org", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			rotated, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(rotated.RefreshToken).NotTo(gomega.Equal(tokens.RefreshToken))

			// the presented token is single-use
			_, err = service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})

		ginkgo.It("should reject an expired refresh token", func() {
			key := mustKey()
			expiredService := NewService(mockRepo, key, &key.PublicKey, 15*time.Minute, -time.Hour, bcrypt.MinCost)
			tokens, err := expiredService.Authenticate(LoginDTO{Email: "staff@ngo.org", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = expiredService.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).To(gomega.MatchError(ErrTokenExpired))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should revoke the refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{Email: "staff@ngo.org", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(service.Logout(tokens.RefreshToken)).To(gomega.Succeed())

			_, err = service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})
	})
})

func mustKey() *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return key
}

var _ = ginkgo.Describe("Policy", func() {
	var (
		policy *Policy
		deptA  = int64(1)
		deptB  = int64(2)
	)

	ginkgo.BeforeEach(func() {
		policy = NewPolicy()
	})

	ginkgo.Describe("VisibilityScope", func() {
		ginkgo.It("gives admins everything", func() {
			scope := policy.VisibilityScope(&User{ID: 1, Role: RoleAdmin})
			gomega.Expect(scope.All).To(gomega.BeTrue())
		})

		ginkgo.It("narrows managers to their department", func() {
			scope := policy.VisibilityScope(&User{ID: 2, Role: RoleManager, DepartmentID: &deptA})
			gomega.Expect(scope.All).To(gomega.BeFalse())
			gomega.Expect(*scope.DepartmentID).To(gomega.Equal(deptA))
		})

		ginkgo.It("treats a manager without a department like staff", func() {
			scope := policy.VisibilityScope(&User{ID: 2, Role: RoleManager})
			gomega.Expect(scope.DepartmentID).To(gomega.BeNil())
			gomega.Expect(scope.UserID).To(gomega.Equal(int64(2)))
		})
	})

	ginkgo.Describe("CanViewRecord", func() {
		ginkgo.It("lets owners read their own records", func() {
			staff := &User{ID: 3, Role: RoleStaff, DepartmentID: &deptA}
			gomega.Expect(policy.CanViewRecord(staff, 3, nil)).To(gomega.BeTrue())
			gomega.Expect(policy.CanViewRecord(staff, 4, &deptA)).To(gomega.BeFalse())
		})

		ginkgo.It("scopes managers to their department", func() {
			manager := &User{ID: 2, Role: RoleManager, DepartmentID: &deptA}
			gomega.Expect(policy.CanViewRecord(manager, 4, &deptA)).To(gomega.BeTrue())
			gomega.Expect(policy.CanViewRecord(manager, 4, &deptB)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("CanCreateUser", func() {
		ginkgo.It("blocks managers from minting managers", func() {
			manager := &User{ID: 2, Role: RoleManager, DepartmentID: &deptA}
			gomega.Expect(policy.CanCreateUser(manager, RoleManager, &deptA)).To(gomega.HaveOccurred())
			gomega.Expect(policy.CanCreateUser(manager, RoleStaff, &deptB)).To(gomega.HaveOccurred())
			gomega.Expect(policy.CanCreateUser(manager, RoleStaff, &deptA)).To(gomega.Succeed())
			gomega.Expect(policy.CanCreateUser(manager, RoleCollaborator, &deptA)).To(gomega.Succeed())
		})

		ginkgo.It("lets admins create anything", func() {
			admin := &User{ID: 1, Role: RoleAdmin}
			gomega.Expect(policy.CanCreateUser(admin, RoleAdmin, nil)).To(gomega.Succeed())
		})
	})

	ginkgo.Describe("messaging gates", func() {
		ginkgo.It("limits broadcasts to admins", func() {
			gomega.Expect(policy.CanBroadcast(&User{Role: RoleAdmin})).To(gomega.BeTrue())
			gomega.Expect(policy.CanBroadcast(&User{Role: RoleManager, DepartmentID: &deptA})).To(gomega.BeFalse())
		})

		ginkgo.It("limits department messages to the manager's own department", func() {
			manager := &User{Role: RoleManager, DepartmentID: &deptA}
			gomega.Expect(policy.CanMessageDepartment(manager, &deptA)).To(gomega.BeTrue())
			gomega.Expect(policy.CanMessageDepartment(manager, &deptB)).To(gomega.BeFalse())
			gomega.Expect(policy.CanMessageDepartment(&User{Role: RoleStaff, DepartmentID: &deptA}, &deptA)).To(gomega.BeFalse())
		})
	})
})
