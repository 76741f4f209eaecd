package user_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/abhay-gupta-199/kmrl-backend/internal/transport"
	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
	userPostgres "github.com/abhay-gupta-199/kmrl-backend/internal/user/postgres"
)

var _ = Describe("User Handler Integration", func() {
	var (
		db         *gorm.DB
		repo       *userPostgres.UserRepository
		service    *user.Service
		handler    *user.Handler
		slogger    *slog.Logger
		superAdmin *user.User
	)

	doRequest := func(actor *user.User, method, target string, body []byte, h http.HandlerFunc) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if actor != nil {
			req = req.WithContext(user.NewContext(req.Context(), actor))
		}
		w := httptest.NewRecorder()
		h(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&user.User{})
		Expect(err).NotTo(HaveOccurred())

		repo = userPostgres.NewUserRepository(db)
		service = user.NewService(repo, user.DefaultRolePolicy(), bcrypt.MinCost, slogger)
		handler = user.NewHandler(service)

		superAdmin = &user.User{
			Email:        "root@kmrl.co.in",
			PasswordHash: "x",
			Role:         user.RoleSuperAdmin,
			Department:   user.DepartmentAdministration,
		}
		Expect(repo.Create(superAdmin)).To(Succeed())
	})

	Describe("POST /users/add-user", func() {
		It("should provision an account and return the generated password", func() {
			body := []byte(`{"email":"lead@kmrl.co.in","department":"Engineering","role":"Lead"}`)

			w := doRequest(superAdmin, http.MethodPost, "/users/add-user", body, handler.CreateUser)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var env struct {
				Data    user.CreatedUserResponse `json:"data"`
				Success bool                     `json:"success"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
			Expect(env.Success).To(BeTrue())
			Expect(env.Data.GeneratedPassword).To(HaveLen(12))
			Expect(env.Data.User.Email).To(Equal("lead@kmrl.co.in"))
			Expect(env.Data.User.Role).To(Equal(user.RoleLead))

			stored, err := repo.GetByEmail("lead@kmrl.co.in")
			Expect(err).NotTo(HaveOccurred())
			Expect(bcrypt.CompareHashAndPassword(
				[]byte(stored.PasswordHash),
				[]byte(env.Data.GeneratedPassword))).To(Succeed())
		})

		It("should never echo the password hash", func() {
			body := []byte(`{"email":"emp@kmrl.co.in","department":"HR","role":"Employee"}`)

			w := doRequest(superAdmin, http.MethodPost, "/users/add-user", body, handler.CreateUser)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(w.Body.String()).NotTo(ContainSubstring("password_hash"))
			Expect(w.Body.String()).NotTo(ContainSubstring("passwordHash"))
		})

		It("should reject a role the department does not admit", func() {
			body := []byte(`{"email":"chair@kmrl.co.in","department":"Engineering","role":"Chairperson"}`)

			w := doRequest(superAdmin, http.MethodPost, "/users/add-user", body, handler.CreateUser)

			Expect(w.Code).To(Equal(http.StatusBadRequest))

			var env transport.Envelope
			Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
			Expect(env.Success).To(BeFalse())
			Expect(env.Message).To(ContainSubstring("not allowed"))
		})

		It("should conflict on a duplicate email", func() {
			body := []byte(`{"email":"dup@kmrl.co.in","department":"Finance","role":"Auditor"}`)

			w := doRequest(superAdmin, http.MethodPost, "/users/add-user", body, handler.CreateUser)
			Expect(w.Code).To(Equal(http.StatusCreated))

			w = doRequest(superAdmin, http.MethodPost, "/users/add-user", body, handler.CreateUser)
			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("should reject a malformed body", func() {
			w := doRequest(superAdmin, http.MethodPost, "/users/add-user", []byte("{"), handler.CreateUser)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should require an authenticated actor", func() {
			body := []byte(`{"email":"x@kmrl.co.in","department":"HR","role":"Employee"}`)

			w := doRequest(nil, http.MethodPost, "/users/add-user", body, handler.CreateUser)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("GET /users/me", func() {
		It("should return the authenticated account", func() {
			w := doRequest(superAdmin, http.MethodGet, "/users/me", nil, handler.GetCurrentUser)

			Expect(w.Code).To(Equal(http.StatusOK))

			var env struct {
				Data user.User `json:"data"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
			Expect(env.Data.Email).To(Equal("root@kmrl.co.in"))
		})
	})
})
