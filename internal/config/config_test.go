package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/kubev2v/spo-migrator/internal/config"
)

func validConfig() *config.Configuration {
	cfg := config.NewConfigurationWithDefaults()
	cfg.Target = config.Target{
		SiteURL:            "https://contoso.sharepoint.com/sites/user",
		DocumentLibrary:    "Documents",
		DocumentLibraryID:  "3f1d6a52-2d7e-4a6b-9a55-1c7a2a5c0b01",
		WebID:              "8c0a3b0e-5d5e-4c59-8b3a-0b0f2a6f4c02",
		RootFolderID:       "b2f7c0a1-9e4d-4f6a-8f0e-7d2c1b3a4e03",
		RootFolderParentID: "0d9e8f7a-6b5c-4d3e-2f1a-0b9c8d7e6f04",
	}
	cfg.Storage.SourceBucket = "spo-source"
	cfg.Storage.ManifestBucket = "spo-manifest"
	cfg.Queue.URL = "https://sqs.us-east-1.amazonaws.com/123456789012/spo-reports"
	cfg.MigrationAPI.TokenFile = "/var/run/secrets/spo/token"
	return cfg
}

var _ = Describe("Configuration", func() {
	Context("defaults", func() {
		// Given no explicit setting
		// When we create the configuration
		// Then every default should be applied
		It("should apply defaults", func() {
			// Act
			cfg := config.NewConfigurationWithDefaults()

			// Assert
			Expect(cfg.LogFormat).To(Equal("console"))
			Expect(cfg.LogLevel).To(Equal("info"))
			Expect(cfg.Target.DocumentLibrary).To(Equal("Documents"))
			Expect(cfg.Storage.Backend).To(Equal(config.StorageBackendS3))
			Expect(cfg.Storage.Secure).To(BeTrue())
			Expect(cfg.Storage.AccessURLExpiry).To(Equal(168 * time.Hour))
			Expect(cfg.Queue.WaitTimeSeconds).To(Equal(int32(10)))
			Expect(cfg.MigrationAPI.Timeout).To(Equal(time.Minute))
			Expect(cfg.Provision.Count).To(Equal(10))
			Expect(cfg.Monitor.InitialInterval).To(Equal(time.Second))
			Expect(cfg.Monitor.IdleTimeout).To(Equal(time.Hour))
			Expect(cfg.Agent.NumWorkers).To(Equal(4))
			Expect(cfg.Server.HTTPPort).To(Equal(8000))
		})

		// Given no data folder
		// When we ask for the database path
		// Then the history should be kept in memory
		It("should keep the history in memory without data folder", func() {
			cfg := config.NewConfigurationWithDefaults()
			Expect(cfg.DatabasePath()).To(Equal(":memory:"))

			cfg.Agent.DataFolder = "/var/lib/spo"
			Expect(cfg.DatabasePath()).To(Equal("/var/lib/spo/spo-migrator.duckdb"))
		})
	})

	Context("Load", func() {
		// Given a config file and an environment variable for the same key
		// When we load the configuration
		// Then the environment should win and untouched defaults remain
		It("should layer file and environment over defaults", func() {
			// Arrange
			file := filepath.Join(GinkgoT().TempDir(), "config.yaml")
			Expect(os.WriteFile(file, []byte(`
target:
  site-url: https://contoso.sharepoint.com/sites/user
  subfolder: Reports
storage:
  source-bucket: from-file
monitor:
  idle-timeout: 10m
provision:
  count: 3
`), 0o600)).To(Succeed())
			GinkgoT().Setenv("SPO_STORAGE_SOURCE_BUCKET", "from-env")
			GinkgoT().Setenv("SPO_QUEUE_WAIT_TIME_SECONDS", "20")

			// Act
			cfg, err := config.Load(viper.New(), file)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Target.SiteURL).To(Equal("https://contoso.sharepoint.com/sites/user"))
			Expect(cfg.Target.Subfolder).To(Equal("Reports"))
			Expect(cfg.Storage.SourceBucket).To(Equal("from-env"))
			Expect(cfg.Queue.WaitTimeSeconds).To(Equal(int32(20)))
			Expect(cfg.Monitor.IdleTimeout).To(Equal(10 * time.Minute))
			Expect(cfg.Monitor.MaxInterval).To(Equal(30 * time.Second))
			Expect(cfg.Provision.Count).To(Equal(3))
			Expect(cfg.Target.DocumentLibrary).To(Equal("Documents"))
		})

		// Given a missing config file
		// When we load the configuration
		// Then it should fail
		It("should fail on a missing file", func() {
			_, err := config.Load(viper.New(), filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Validate", func() {
		// Given a complete configuration
		// When we validate it for a run
		// Then it should pass
		It("should accept a complete configuration", func() {
			Expect(validConfig().ValidateRun()).To(Succeed())
		})

		DescribeTable("should reject invalid settings",
			func(mutate func(*config.Configuration), validate func(*config.Configuration) error, message string) {
				// Arrange
				cfg := validConfig()
				mutate(cfg)

				// Act
				err := validate(cfg)

				// Assert
				Expect(err).To(MatchError(ContainSubstring(message)))
			},
			Entry("log format", func(c *config.Configuration) { c.LogFormat = "xml" }, (*config.Configuration).Validate, "invalid log format"),
			Entry("log level", func(c *config.Configuration) { c.LogLevel = "loud" }, (*config.Configuration).Validate, "invalid log level"),
			Entry("workers", func(c *config.Configuration) { c.Agent.NumWorkers = 0 }, (*config.Configuration).Validate, "num-workers"),
			Entry("intervals", func(c *config.Configuration) { c.Monitor.MaxInterval = time.Millisecond }, (*config.Configuration).Validate, "monitor intervals"),
			Entry("web id", func(c *config.Configuration) { c.Target.WebID = "web" }, (*config.Configuration).ValidatePackage, "web id"),
			Entry("library name", func(c *config.Configuration) { c.Target.DocumentLibrary = "" }, (*config.Configuration).ValidatePackage, "document library name"),
			Entry("site url", func(c *config.Configuration) { c.Target.SiteURL = "contoso" }, (*config.Configuration).ValidateRun, "absolute url"),
			Entry("backend", func(c *config.Configuration) { c.Storage.Backend = "azure" }, (*config.Configuration).ValidateRun, "invalid storage backend"),
			Entry("minio endpoint", func(c *config.Configuration) { c.Storage.Backend = config.StorageBackendMinio }, (*config.Configuration).ValidateRun, "storage.endpoint"),
			Entry("buckets", func(c *config.Configuration) { c.Storage.ManifestBucket = "" }, (*config.Configuration).ValidateRun, "manifest-bucket are required"),
			Entry("same bucket", func(c *config.Configuration) { c.Storage.ManifestBucket = c.Storage.SourceBucket }, (*config.Configuration).ValidateRun, "must differ"),
			Entry("expiry", func(c *config.Configuration) { c.Storage.AccessURLExpiry = 8 * 24 * time.Hour }, (*config.Configuration).ValidateRun, "access-url-expiry"),
			Entry("queue", func(c *config.Configuration) { c.Queue.URL = "" }, (*config.Configuration).ValidateRun, "queue.url"),
			Entry("token", func(c *config.Configuration) { c.MigrationAPI.TokenFile = "" }, (*config.Configuration).ValidateRun, "token-file"),
		)

		// Given a configuration without remote settings
		// When we validate it for local packaging
		// Then it should pass
		It("should not require remote settings for local packaging", func() {
			// Arrange
			cfg := validConfig()
			cfg.Storage.SourceBucket = ""
			cfg.Queue.URL = ""
			cfg.MigrationAPI.TokenFile = ""

			// Act & Assert
			Expect(cfg.ValidatePackage()).To(Succeed())
		})

		// Given a configuration without target
		// When we validate it for the run history commands
		// Then it should pass
		It("should not require a target to read the run history", func() {
			// Arrange
			cfg := config.NewConfigurationWithDefaults()

			// Act & Assert
			Expect(cfg.Validate()).To(Succeed())
			Expect(cfg.ValidatePackage()).To(HaveOccurred())
		})
	})

	// Given a secret key
	// When we build the debug map
	// Then the secret should be masked
	It("should mask secrets in the debug map", func() {
		cfg := validConfig()
		cfg.Storage.SecretKey = "s3cr3t"
		Expect(cfg.DebugMap()).To(HaveKeyWithValue("storage.secret-key", "(sensitive)"))
		Expect(cfg.DebugMap()).NotTo(ContainElement("s3cr3t"))
	})
})
