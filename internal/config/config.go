// Package config contains utilities for loading configs.
package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

const (
	configFilePath     = "/data/mise.yaml"
	appSecretBytes     = 32
	appSecretFilePerms = 0o600
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

type AppSecretValue string

func (a *AppSecretValue) Validate() error {
	if a == nil {
		return errors.New("secret should not be nil")
	}
	if len([]byte(*a)) < appSecretBytes {
		return errors.New("secret should be at least 32 bytes")
	}
	return nil
}

type AppSecret struct {
	Value   *AppSecretValue `yaml:"value" validate:"omitempty"`
	Path    string          `yaml:"path" validate:"omitempty,filepath"`
	Version string          `yaml:"version"`
}

type Database struct {
	Port     uint16 `yaml:"port"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Port Host Database User Password"`
}

type SMTP struct {
	Port     uint16 `yaml:"port"`
	Username string `yaml:"username"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Password string `yaml:"password"`
	From     string `yaml:"from" validate:"omitempty,email"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=From Password Host Username Port"`
}

// Google holds the OAuth client credentials. Sign-in with Google is
// disabled when the section is empty.
type Google struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=ClientID ClientSecret"`
}

// ObjectStore configures the S3-compatible store for avatar uploads.
// Avatar uploads are disabled when the section is empty.
type ObjectStore struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Endpoint AccessKey SecretKey Bucket"`
}

type OpenAI struct {
	// BaseURL overrides the hosted API endpoint, mainly for tests and
	// compatible self-hosted gateways.
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
}

type Config struct {
	AppSecret   AppSecret   `yaml:"app_secret"`
	Database    Database    `yaml:"database"`
	SMTP        SMTP        `yaml:"smtp"`
	Google      Google      `yaml:"google"`
	ObjectStore ObjectStore `yaml:"object_store"`
	OpenAI      OpenAI      `yaml:"openai"`
	HostOrigin  string      `yaml:"host_origin" validate:"url"`
	Env         string      `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
}

func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// Secret returns the loaded app secret value.
func (c *Config) Secret() string {
	if c.AppSecret.Value == nil {
		return ""
	}
	return string(*c.AppSecret.Value)
}

func splitFieldList(param string) []string {
	// "A,B,C" or "A B C"
	param = strings.ReplaceAll(param, " ", ",")
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// allOrNothing is a cross-field validator: the listed fields must be either
// all zero-valued or all non-zero. It is attached to a placeholder field and
// inspects the parent struct.
func allOrNothing(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Pointer {
		if parent.IsNil() {
			return true // nothing to validate
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return false
	}

	names := splitFieldList(fl.Param())
	if len(names) == 0 {
		return false
	}

	hasZero := false
	hasNonZero := false
	for _, name := range names {
		f := parent.FieldByName(name)
		if !f.IsValid() {
			return false // field name typo / not found
		}

		for (f.Kind() == reflect.Pointer || f.Kind() == reflect.Interface) && !f.IsNil() {
			f = f.Elem()
		}

		if f.IsZero() {
			hasZero = true
		} else {
			hasNonZero = true
		}
		if hasZero && hasNonZero {
			return false
		}
	}
	return true
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("allOrNothing", allOrNothing)
	return v
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		if e.Tag() == "allOrNothing" {
			namespace := strings.Split(e.Namespace(), ".")
			structName := "configuration"
			if len(namespace) >= 2 {
				structName = namespace[len(namespace)-2]
			}
			return fmt.Errorf(
				"%s configuration is incomplete: either all of its fields must be set or all must be empty",
				structName)
		}
	}
	return err
}

func newAppSecret() (string, error) {
	token := make([]byte, appSecretBytes)
	if _, err := rand.Reader.Read(token); err != nil {
		return "", fmt.Errorf("creating app secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(token), nil
}

func loadAppSecret(config *Config) error {
	if config.AppSecret.Value != nil {
		return nil
	}

	var secret string
	if f1, err := os.Lstat(config.AppSecret.Path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking secret path: %w", err)
		}

		file, err := os.OpenFile(config.AppSecret.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, appSecretFilePerms)
		if err != nil {
			return fmt.Errorf("creating secret file: %w", err)
		}
		defer func() { _ = file.Close() }()

		secret, err = newAppSecret()
		if err != nil {
			return fmt.Errorf("generating new app secret: %w", err)
		}

		if _, err := file.WriteString(secret); err != nil {
			return fmt.Errorf("writing secret file: %w", err)
		}
	} else {
		if f1.IsDir() {
			return fmt.Errorf("expected file, got directory at %q", config.AppSecret.Path)
		}
		data, err := os.ReadFile(config.AppSecret.Path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		secret = string(data)
	}
	val := AppSecretValue(secret)
	config.AppSecret.Value = &val
	return nil
}

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadConfigFromEnv() (Config, error) {
	conf := Config{
		Env:        loadWithDefault("ENV", EnvDev),
		HostOrigin: loadWithDefault("HOST_ORIGIN", "http://localhost:8080"),
	}

	// AppSecret
	conf.AppSecret = AppSecret{
		Path:    loadWithDefault("APP_SECRET_PATH", "/data/secret"),
		Version: loadWithDefault("APP_SECRET_VERSION", "1"),
	}
	if v := os.Getenv("APP_SECRET"); v != "" {
		val := AppSecretValue(v)
		conf.AppSecret.Value = &val
	}

	// Database
	conf.Database = Database{
		Host:     loadWithDefault("DATABASE_HOST", "localhost"),
		Database: loadWithDefault("DATABASE", ""),
		User:     loadWithDefault("DATABASE_USER", ""),
		Password: loadWithDefault("DATABASE_PASSWORD", ""),
	}
	databasePort := loadWithDefault("DATABASE_PORT", "5432")
	if port, err := strconv.ParseUint(databasePort, 10, 16); err != nil {
		return conf, fmt.Errorf("invalid DATABASE_PORT (%q): %w", databasePort, err)
	} else {
		conf.Database.Port = uint16(port)
	}

	// SMTP
	conf.SMTP = SMTP{
		Username: loadWithDefault("SMTP_USERNAME", ""),
		Host:     loadWithDefault("SMTP_HOST", ""),
		Password: loadWithDefault("SMTP_PASSWORD", ""),
		From:     loadWithDefault("SMTP_FROM", ""),
	}
	// Only set SMTP_PORT default if SMTP is being configured
	smtpPort := loadWithDefault("SMTP_PORT", "")
	if smtpPort == "" && (conf.SMTP.From != "" || conf.SMTP.Password != "" ||
		conf.SMTP.Host != "" || conf.SMTP.Username != "") {
		smtpPort = "587"
	}
	if smtpPort != "" {
		if port, err := strconv.ParseUint(smtpPort, 10, 16); err != nil {
			return conf, fmt.Errorf("invalid SMTP_PORT (%q): %w", smtpPort, err)
		} else {
			conf.SMTP.Port = uint16(port)
		}
	}

	// Google OAuth
	conf.Google = Google{
		ClientID:     loadWithDefault("GOOGLE_CLIENT_ID", ""),
		ClientSecret: loadWithDefault("GOOGLE_CLIENT_SECRET", ""),
	}

	// Object store
	conf.ObjectStore = ObjectStore{
		Endpoint:  loadWithDefault("OBJECT_STORE_ENDPOINT", ""),
		AccessKey: loadWithDefault("OBJECT_STORE_ACCESS_KEY", ""),
		SecretKey: loadWithDefault("OBJECT_STORE_SECRET_KEY", ""),
		Bucket:    loadWithDefault("OBJECT_STORE_BUCKET", ""),
	}
	useSSL := loadWithDefault("OBJECT_STORE_USE_SSL", "false")
	if b, err := strconv.ParseBool(useSSL); err != nil {
		return conf, fmt.Errorf("invalid OBJECT_STORE_USE_SSL (%q): %w", useSSL, err)
	} else {
		conf.ObjectStore.UseSSL = b
	}

	// OpenAI
	conf.OpenAI = OpenAI{
		BaseURL: loadWithDefault("OPENAI_BASE_URL", ""),
	}

	if err := newValidator().Struct(conf); err != nil {
		return conf, formatValidationError(err)
	}

	if err := loadAppSecret(&conf); err != nil {
		return conf, fmt.Errorf("loading app secret: %w", err)
	}

	return conf, nil
}

func loadConfigFromFile(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Set defaults
	if config.AppSecret.Path == "" {
		config.AppSecret.Path = "/data/secret"
	}
	if config.AppSecret.Version == "" {
		config.AppSecret.Version = "1"
	}
	if config.Env == "" {
		config.Env = EnvDev
	}
	if config.HostOrigin == "" {
		config.HostOrigin = "http://localhost:8080"
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	// Only set SMTP.Port default if SMTP is being configured
	if config.SMTP.Port == 0 && (config.SMTP.From != "" || config.SMTP.Password != "" ||
		config.SMTP.Host != "" || config.SMTP.Username != "") {
		config.SMTP.Port = 587
	}

	if err := newValidator().Struct(config); err != nil {
		return Config{}, formatValidationError(err)
	}

	if err := loadAppSecret(&config); err != nil {
		return Config{}, fmt.Errorf("loading app secret: %w", err)
	}

	return config, nil
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return !f.IsDir()
}

func LoadConfig() (Config, error) {
	if configFileExists(configFilePath) {
		return loadConfigFromFile(configFilePath)
	}
	return loadConfigFromEnv()
}
