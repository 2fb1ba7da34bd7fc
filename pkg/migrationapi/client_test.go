package migrationapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/kubev2v/spo-migrator/pkg/errors"
	"github.com/kubev2v/spo-migrator/pkg/migrationapi"
)

func signedToken(exp time.Time) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"aud": "00000003-0000-0ff1-ce00-000000000000",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	Expect(err).NotTo(HaveOccurred())
	return tok
}

var _ = Describe("Client", func() {
	const webID = "c1d2e3f4-a5b6-4c7d-8e9f-0a1b2c3d4e5f"

	var (
		ctx      context.Context
		server   *httptest.Server
		requests []*http.Request
		bodies   []map[string]string
		status   int
		response string
	)

	BeforeEach(func() {
		ctx = context.Background()
		requests = nil
		bodies = nil
		status = http.StatusOK
		response = `{"value":"5b1d0c6e-8f3a-4d2b-9e7c-1a2b3c4d5e6f"}`

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := map[string]string{}
			_ = json.NewDecoder(r.Body).Decode(&body)
			requests = append(requests, r)
			bodies = append(bodies, body)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(response))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	Context("StartJob", func() {
		// Given a site accepting the job
		// When we start a job
		// Then the three urls and the web id are posted and the job id is returned
		It("should create the migration job", func() {
			// Arrange
			token := signedToken(time.Now().Add(time.Hour))
			client := migrationapi.NewClient(server.URL+"/sites/user/", webID, migrationapi.StaticToken(token))

			// Act
			jobID, err := client.StartJob(ctx, "https://src", "https://manifest", "https://queue")

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(jobID).To(Equal(uuid.MustParse("5b1d0c6e-8f3a-4d2b-9e7c-1a2b3c4d5e6f")))
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Method).To(Equal(http.MethodPost))
			Expect(requests[0].URL.Path).To(Equal("/sites/user/_api/site/CreateMigrationJob"))
			Expect(requests[0].Header.Get("Authorization")).To(Equal("Bearer " + token))
			Expect(bodies[0]).To(Equal(map[string]string{
				"gWebId":                    webID,
				"azureContainerSourceUri":   "https://src",
				"azureContainerManifestUri": "https://manifest",
				"azureQueueReportUri":       "https://queue",
			}))
		})

		// Given a site answering with verbose odata
		// When we start a job
		// Then the job id is read from the d envelope
		It("should accept verbose odata responses", func() {
			// Arrange
			response = `{"d":{"CreateMigrationJob":"5b1d0c6e-8f3a-4d2b-9e7c-1a2b3c4d5e6f"}}`
			client := migrationapi.NewClient(server.URL, webID, migrationapi.StaticToken("opaque-token"))

			// Act
			jobID, err := client.StartJob(ctx, "s", "m", "q")

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(jobID.String()).To(Equal("5b1d0c6e-8f3a-4d2b-9e7c-1a2b3c4d5e6f"))
		})

		// Given a site rejecting the request
		// When we start a job
		// Then an HTTPStatusError with the status and body is returned
		It("should return HTTPStatusError on non 2xx", func() {
			// Arrange
			status = http.StatusForbidden
			response = `{"error":"access denied"}`
			client := migrationapi.NewClient(server.URL, webID, migrationapi.StaticToken("opaque-token"))

			// Act
			_, err := client.StartJob(ctx, "s", "m", "q")

			// Assert
			var httpErr *migrationapi.HTTPStatusError
			Expect(err).To(BeAssignableToTypeOf(httpErr))
			httpErr = err.(*migrationapi.HTTPStatusError)
			Expect(httpErr.StatusCode).To(Equal(http.StatusForbidden))
			Expect(httpErr.Body).To(ContainSubstring("access denied"))
		})

		// Given a response without a valid job id
		// When we start a job
		// Then an error is returned
		It("should reject an invalid job id", func() {
			response = `{"value":"not-a-guid"}`
			client := migrationapi.NewClient(server.URL, webID, migrationapi.StaticToken("opaque-token"))

			_, err := client.StartJob(ctx, "s", "m", "q")

			Expect(err).To(MatchError(ContainSubstring("invalid migration job id")))
		})

		// Given an expired token
		// When we start a job
		// Then no request is sent and TokenExpiredError is returned
		It("should not call the site with an expired token", func() {
			// Arrange
			client := migrationapi.NewClient(server.URL, webID, migrationapi.StaticToken(signedToken(time.Now().Add(-time.Minute))))

			// Act
			_, err := client.StartJob(ctx, "s", "m", "q")

			// Assert
			Expect(srvErrors.IsTokenExpiredError(err)).To(BeTrue())
			Expect(requests).To(BeEmpty())
		})
	})

	Context("FileToken", func() {
		// Given a token file with surrounding whitespace
		// When the token is read
		// Then it is trimmed
		It("should read and trim the token file", func() {
			// Arrange
			path := filepath.Join(GinkgoT().TempDir(), "token")
			token := signedToken(time.Now().Add(time.Hour))
			Expect(os.WriteFile(path, []byte("  "+token+"\n"), 0o600)).To(Succeed())

			// Act
			got, err := migrationapi.FileToken(path)(ctx)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(token))
		})

		It("should fail for a missing file", func() {
			_, err := migrationapi.FileToken(filepath.Join(GinkgoT().TempDir(), "missing"))(ctx)
			Expect(err).To(HaveOccurred())
		})

		It("should reject an empty token", func() {
			path := filepath.Join(GinkgoT().TempDir(), "token")
			Expect(os.WriteFile(path, []byte("\n"), 0o600)).To(Succeed())
			_, err := migrationapi.FileToken(path)(ctx)
			Expect(err).To(MatchError(ContainSubstring("empty")))
		})
	})
})
