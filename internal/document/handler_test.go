package document_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/abhay-gupta-199/kmrl-backend/internal/document"
	documentPostgres "github.com/abhay-gupta-199/kmrl-backend/internal/document/postgres"
	"github.com/abhay-gupta-199/kmrl-backend/internal/transport"
	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
	userPostgres "github.com/abhay-gupta-199/kmrl-backend/internal/user/postgres"
)

var _ = Describe("Document Handler Integration", func() {
	var (
		db       *gorm.DB
		service  *document.Service
		handler  *document.Handler
		router   *chi.Mux
		store    *mockFileStore
		slogger  *slog.Logger
		uploader *user.User
		head     *user.User
	)

	multipartBody := func(fields map[string]string, fileName, contentType, content string) (*bytes.Buffer, string) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)

		if fileName != "" {
			h := make(map[string][]string)
			h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + fileName + `"`}
			h["Content-Type"] = []string{contentType}
			part, err := writer.CreatePart(h)
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write([]byte(content))
			Expect(err).NotTo(HaveOccurred())
		}

		for k, v := range fields {
			Expect(writer.WriteField(k, v)).To(Succeed())
		}
		Expect(writer.Close()).To(Succeed())

		return body, writer.FormDataContentType()
	}

	doRequest := func(actor *user.User, method, target, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
		if body == nil {
			body = &bytes.Buffer{}
		}
		req := httptest.NewRequest(method, target, body)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req = req.WithContext(user.NewContext(req.Context(), actor))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodeEnvelope := func(w *httptest.ResponseRecorder) transport.Envelope {
		var env transport.Envelope
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		return env
	}

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&user.User{}, &document.Document{})
		Expect(err).NotTo(HaveOccurred())

		userRepo := userPostgres.NewUserRepository(db)
		docRepo := documentPostgres.NewDocumentRepository(db)
		store = &mockFileStore{}

		uploader = &user.User{Email: "emp@kmrl.co.in", PasswordHash: "x", Role: user.RoleEmployee, Department: user.DepartmentEngineering}
		head = &user.User{Email: "head@kmrl.co.in", PasswordHash: "x", Role: user.RoleDepartmentHead, Department: user.DepartmentEngineering}
		Expect(userRepo.Create(uploader)).To(Succeed())
		Expect(userRepo.Create(head)).To(Succeed())

		service = document.NewService(docRepo, userRepo, store, nil, slogger)
		handler = document.NewHandler(service, 1<<20)

		router = chi.NewRouter()
		router.Post("/documents/upload", handler.Upload)
		router.Get("/documents/get-doc", handler.GetDocuments)
		router.Post("/documents/{docId}/approve", handler.Approve)
		router.Patch("/documents/{docId}/status", handler.UpdateStatus)
	})

	Describe("POST /documents/upload", func() {
		It("should create a document from a multipart form", func() {
			body, contentType := multipartBody(map[string]string{
				"audience":         "department",
				"targetDepartment": "Engineering",
				"tags":             "safety,circular",
			}, "circular.pdf", "application/pdf", "pdf payload")

			w := doRequest(uploader, http.MethodPost, "/documents/upload", contentType, body)

			Expect(w.Code).To(Equal(http.StatusCreated))
			env := decodeEnvelope(w)
			Expect(env.Success).To(BeTrue())
			Expect(env.StatusCode).To(Equal(http.StatusCreated))
			Expect(store.savedName).To(Equal("circular.pdf"))
		})

		It("should reject a form without a file part", func() {
			body, contentType := multipartBody(map[string]string{"audience": "all"}, "", "", "")

			w := doRequest(uploader, http.MethodPost, "/documents/upload", contentType, body)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			env := decodeEnvelope(w)
			Expect(env.Success).To(BeFalse())
			Expect(env.Message).To(Equal("no file uploaded"))
		})

		It("should reject an upload without an audience", func() {
			body, contentType := multipartBody(map[string]string{}, "circular.pdf", "application/pdf", "pdf payload")

			w := doRequest(uploader, http.MethodPost, "/documents/upload", contentType, body)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeEnvelope(w).Message).To(ContainSubstring("audience"))
		})

		It("should reject unsupported file types", func() {
			body, contentType := multipartBody(map[string]string{"audience": "all"}, "notes.txt", "text/plain", "plain text")

			w := doRequest(uploader, http.MethodPost, "/documents/upload", contentType, body)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeEnvelope(w).Message).To(ContainSubstring("pdf and docx"))
		})
	})

	Describe("GET /documents/get-doc", func() {
		BeforeEach(func() {
			for _, fields := range []map[string]string{
				{"audience": "all"},
				{"audience": "department", "targetDepartment": "Engineering"},
				{"audience": "department", "targetDepartment": "Finance"},
				{"audience": "dean"},
			} {
				body, contentType := multipartBody(fields, "doc.pdf", "application/pdf", "payload")
				w := doRequest(uploader, http.MethodPost, "/documents/upload", contentType, body)
				Expect(w.Code).To(Equal(http.StatusCreated))
			}
		})

		It("should return only documents visible to the requester", func() {
			w := doRequest(uploader, http.MethodGet, "/documents/get-doc", "", nil)

			Expect(w.Code).To(Equal(http.StatusOK))

			var env struct {
				Data []document.View `json:"data"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
			Expect(env.Data).To(HaveLen(2))
			for _, v := range env.Data {
				Expect(v.Uploader).NotTo(BeNil())
				Expect(v.Uploader.Email).To(Equal("emp@kmrl.co.in"))
			}
		})
	})

	Describe("POST /documents/{docId}/approve", func() {
		var docID int64

		BeforeEach(func() {
			body, contentType := multipartBody(map[string]string{
				"audience":         "all",
				"requiresApproval": "true",
			}, "policy.pdf", "application/pdf", "payload")
			w := doRequest(uploader, http.MethodPost, "/documents/upload", contentType, body)
			Expect(w.Code).To(Equal(http.StatusCreated))

			var env struct {
				Data document.Document `json:"data"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
			docID = env.Data.ID
			Expect(env.Data.ApprovalStatus).To(Equal(document.ApprovalPending))
		})

		It("should persist an approval decision", func() {
			body := bytes.NewBufferString(`{"action":"approved"}`)
			w := doRequest(head, http.MethodPost, "/documents/1/approve", "application/json", body)

			Expect(w.Code).To(Equal(http.StatusOK))
			env := decodeEnvelope(w)
			Expect(env.Message).To(ContainSubstring("approved"))

			var stored document.Document
			Expect(db.First(&stored, docID).Error).To(Succeed())
			Expect(stored.ApprovalStatus).To(Equal(document.ApprovalApproved))
			Expect(stored.ApprovedBy).NotTo(BeNil())
			Expect(*stored.ApprovedBy).To(Equal(head.ID))
		})

		It("should forbid actors without approval authority", func() {
			body := bytes.NewBufferString(`{"action":"approved"}`)
			w := doRequest(uploader, http.MethodPost, "/documents/1/approve", "application/json", body)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should reject a malformed document id", func() {
			body := bytes.NewBufferString(`{"action":"approved"}`)
			w := doRequest(head, http.MethodPost, "/documents/abc/approve", "application/json", body)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeEnvelope(w).Message).To(Equal("invalid document ID"))
		})
	})

	Describe("PATCH /documents/{docId}/status", func() {
		BeforeEach(func() {
			body, contentType := multipartBody(map[string]string{"audience": "all"}, "old.pdf", "application/pdf", "payload")
			w := doRequest(uploader, http.MethodPost, "/documents/upload", contentType, body)
			Expect(w.Code).To(Equal(http.StatusCreated))
		})

		It("should archive a document for its uploader", func() {
			body := bytes.NewBufferString(`{"status":"archived"}`)
			w := doRequest(uploader, http.MethodPatch, "/documents/1/status", "application/json", body)

			Expect(w.Code).To(Equal(http.StatusOK))

			var stored document.Document
			Expect(db.First(&stored, 1).Error).To(Succeed())
			Expect(stored.Status).To(Equal(document.StatusArchived))
		})

		It("should forbid a non-uploader", func() {
			body := bytes.NewBufferString(`{"status":"deleted"}`)
			w := doRequest(head, http.MethodPatch, "/documents/1/status", "application/json", body)

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(strings.ToLower(decodeEnvelope(w).Message)).To(ContainSubstring("not authorized"))
		})
	})
})
