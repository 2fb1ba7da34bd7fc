package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.uber.org/zap"

	"github.com/kubev2v/spo-migrator/internal/models"
)

const (
	StorageBackendS3    = "s3"
	StorageBackendMinio = "minio"

	maxAccessURLExpiry = 7 * 24 * time.Hour
	databaseFile       = "spo-migrator.duckdb"
)

type Configuration struct {
	Target       Target       `mapstructure:"target"`
	Storage      Storage      `mapstructure:"storage"`
	Queue        Queue        `mapstructure:"queue"`
	MigrationAPI MigrationAPI `mapstructure:"migration-api"`
	Provision    Provision    `mapstructure:"provision"`
	Monitor      Monitor      `mapstructure:"monitor"`
	Agent        Agent        `mapstructure:"agent"`
	Server       Server       `mapstructure:"server"`
	LogFormat    string       `mapstructure:"log-format" default:"console"`
	LogLevel     string       `mapstructure:"log-level" default:"info"`
}

type Target struct {
	SiteURL            string `mapstructure:"site-url"`
	DocumentLibrary    string `mapstructure:"document-library" default:"Documents"`
	DocumentLibraryID  string `mapstructure:"document-library-id"`
	Subfolder          string `mapstructure:"subfolder"`
	WebID              string `mapstructure:"web-id"`
	RootFolderID       string `mapstructure:"root-folder-id"`
	RootFolderParentID string `mapstructure:"root-folder-parent-id"`
}

type Storage struct {
	Backend         string        `mapstructure:"backend" default:"s3"`
	Region          string        `mapstructure:"region" default:"us-east-1"`
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKey       string        `mapstructure:"access-key"`
	SecretKey       string        `mapstructure:"secret-key" debugmap:"hidden"`
	Secure          bool          `mapstructure:"secure" default:"true"`
	SourceBucket    string        `mapstructure:"source-bucket"`
	ManifestBucket  string        `mapstructure:"manifest-bucket"`
	AccessURLExpiry time.Duration `mapstructure:"access-url-expiry" default:"168h"`
}

type Queue struct {
	URL               string `mapstructure:"url"`
	Region            string `mapstructure:"region"`
	Endpoint          string `mapstructure:"endpoint"`
	WaitTimeSeconds   int32  `mapstructure:"wait-time-seconds" default:"10"`
	VisibilityTimeout int32  `mapstructure:"visibility-timeout" default:"30"`
}

type MigrationAPI struct {
	TokenFile string        `mapstructure:"token-file"`
	Timeout   time.Duration `mapstructure:"timeout" default:"60s"`
}

type Provision struct {
	Count    int    `mapstructure:"count" default:"10"`
	Workbook string `mapstructure:"workbook"`
}

type Monitor struct {
	InitialInterval time.Duration `mapstructure:"initial-interval" default:"1s"`
	MaxInterval     time.Duration `mapstructure:"max-interval" default:"30s"`
	IdleTimeout     time.Duration `mapstructure:"idle-timeout" default:"1h"`
	LogFolder       string        `mapstructure:"log-folder" default:"logs"`
}

type Agent struct {
	NumWorkers int    `mapstructure:"num-workers" default:"4"`
	DataFolder string `mapstructure:"data-folder"`
}

type Server struct {
	ServerMode string `mapstructure:"server-mode" default:"dev"`
	HTTPPort   int    `mapstructure:"http-port" default:"8000"`
}

func NewConfigurationWithDefaults() *Configuration {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		// only fails on malformed tags
		panic(err)
	}
	return cfg
}

// TargetModel converts the target section into the model used by the manifest builder.
func (c *Configuration) TargetModel() models.Target {
	return models.Target{
		SiteName:            c.Target.SiteURL,
		DocumentLibraryName: c.Target.DocumentLibrary,
		DocumentLibraryID:   c.Target.DocumentLibraryID,
		Subfolder:           c.Target.Subfolder,
		WebID:               c.Target.WebID,
		RootFolderID:        c.Target.RootFolderID,
		RootFolderParentID:  c.Target.RootFolderParentID,
	}
}

// DatabasePath returns the run history location. Without a data folder the history is kept in memory.
func (c *Configuration) DatabasePath() string {
	if c.Agent.DataFolder == "" {
		return ":memory:"
	}
	return filepath.Join(c.Agent.DataFolder, databaseFile)
}

// Validate checks the settings needed by every command.
func (c *Configuration) Validate() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q: expected console or json", c.LogFormat)
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.Agent.NumWorkers < 1 {
		return fmt.Errorf("agent.num-workers must be at least 1, got %d", c.Agent.NumWorkers)
	}
	if c.Provision.Count < 0 {
		return fmt.Errorf("provision.count must not be negative, got %d", c.Provision.Count)
	}
	if c.Monitor.InitialInterval <= 0 || c.Monitor.MaxInterval < c.Monitor.InitialInterval {
		return fmt.Errorf("monitor intervals are invalid: initial %s, max %s", c.Monitor.InitialInterval, c.Monitor.MaxInterval)
	}
	if c.Monitor.IdleTimeout <= 0 {
		return fmt.Errorf("monitor.idle-timeout must be positive")
	}
	return nil
}

// ValidatePackage checks the settings needed to build a package.
func (c *Configuration) ValidatePackage() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.TargetModel().Validate()
}

// ValidateRun checks the settings needed to reach the remote services.
func (c *Configuration) ValidateRun() error {
	if err := c.ValidatePackage(); err != nil {
		return err
	}

	u, err := url.Parse(c.Target.SiteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("target.site-url %q must be an absolute url", c.Target.SiteURL)
	}

	switch c.Storage.Backend {
	case StorageBackendS3:
	case StorageBackendMinio:
		if c.Storage.Endpoint == "" {
			return fmt.Errorf("storage.endpoint is required by the minio backend")
		}
	default:
		return fmt.Errorf("invalid storage backend %q: expected %s or %s", c.Storage.Backend, StorageBackendS3, StorageBackendMinio)
	}
	if c.Storage.SourceBucket == "" || c.Storage.ManifestBucket == "" {
		return fmt.Errorf("storage.source-bucket and storage.manifest-bucket are required")
	}
	if c.Storage.SourceBucket == c.Storage.ManifestBucket {
		return fmt.Errorf("source and manifest buckets must differ, both are %q", c.Storage.SourceBucket)
	}
	if c.Storage.AccessURLExpiry <= 0 || c.Storage.AccessURLExpiry > maxAccessURLExpiry {
		return fmt.Errorf("storage.access-url-expiry must be within (0, %s], got %s", maxAccessURLExpiry, c.Storage.AccessURLExpiry)
	}
	if c.Queue.URL == "" {
		return fmt.Errorf("queue.url is required")
	}
	if c.MigrationAPI.TokenFile == "" {
		return fmt.Errorf("migration-api.token-file is required")
	}
	return nil
}

// DebugMap returns the configuration for logging. Secrets are masked.
func (c *Configuration) DebugMap() map[string]any {
	secret := ""
	if c.Storage.SecretKey != "" {
		secret = "(sensitive)"
	}
	return map[string]any{
		"target":                    c.Target,
		"storage.backend":           c.Storage.Backend,
		"storage.region":            c.Storage.Region,
		"storage.endpoint":          c.Storage.Endpoint,
		"storage.access-key":        c.Storage.AccessKey,
		"storage.secret-key":        secret,
		"storage.source-bucket":     c.Storage.SourceBucket,
		"storage.manifest-bucket":   c.Storage.ManifestBucket,
		"storage.access-url-expiry": c.Storage.AccessURLExpiry.String(),
		"queue":                     c.Queue,
		"migration-api":             c.MigrationAPI,
		"provision":                 c.Provision,
		"monitor":                   c.Monitor,
		"agent":                     c.Agent,
		"server":                    c.Server,
		"log-format":                c.LogFormat,
		"log-level":                 c.LogLevel,
	}
}
