package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FOX2920/Automated-CV-Scoring/internal/filtering"
	"github.com/FOX2920/Automated-CV-Scoring/internal/pipeline"
	"github.com/FOX2920/Automated-CV-Scoring/internal/report"
	"github.com/FOX2920/Automated-CV-Scoring/internal/scheduler"
	"github.com/FOX2920/Automated-CV-Scoring/internal/secrets"
)

const (
	app = "cv-scoring"
)

type Config struct {
	Base      *BaseConfig   `mapstructure:"base" validate:"required"`
	AI        *AIConfig     `mapstructure:"ai" validate:"required"`
	Mail      *MailConfig   `mapstructure:"mail" validate:"required"`
	Report    *ReportConfig `mapstructure:"report" validate:"required"`
	Filters   *FilterConfig `mapstructure:"filters"`
	PDF       *PDFConfig    `mapstructure:"pdf"`
	Schedule  string        `mapstructure:"schedule" validate:"required"`
	Timezone  string        `mapstructure:"timezone" validate:"required,timezone"`
	Delay     time.Duration `mapstructure:"delay" validate:"gte=0"`
	UserAgent string        `mapstructure:"user-agent"`
}

type BaseConfig struct {
	URL             string `mapstructure:"url" validate:"required,url"`
	AccessToken     string `mapstructure:"access-token" validate:"required"`
	AccessTokenFile string `mapstructure:"access-token-file"`
	PageSize        int    `mapstructure:"page-size" validate:"gt=0"`
	WindowEndHour   int    `mapstructure:"window-end-hour" validate:"gte=0,lte=23"`
	WindowDays      int    `mapstructure:"window-days" validate:"gte=1"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini" validate:"required"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key" validate:"required"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model" validate:"required"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

type MailConfig struct {
	Host         string   `mapstructure:"host" validate:"required,hostname"`
	Port         int      `mapstructure:"port" validate:"gt=0,lte=65535"`
	From         string   `mapstructure:"from" validate:"required,email"`
	Password     string   `mapstructure:"password" validate:"required"`
	PasswordFile string   `mapstructure:"password-file"`
	To           []string `mapstructure:"to" validate:"required,min=1,dive,email"`
	Company      string   `mapstructure:"company"`
}

type ReportConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type FilterConfig struct {
	MinDescriptionLength *int     `mapstructure:"min-description-length" validate:"omitnil,gte=0"`
	ExcludeOpenings      []string `mapstructure:"exclude-openings"`
	Disable              []string `mapstructure:"disable"`
}

type PDFConfig struct {
	LicenseKey string `mapstructure:"license-key"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-scoring scores new Base Hiring candidates with Gemini and mails the results",
	}

	envBindings = map[string]string{
		"base.access-token":      "BASE_API_KEY",
		"base.access-token-file": "BASE_API_KEY_FILE",
		"ai.gemini.api-key":      "GOOGLE_API_KEY",
		"ai.gemini.api-key-file": "GOOGLE_API_KEY_FILE",
		"mail.from":              "EMAIL",
		"mail.password":          "PASSWORD",
		"mail.password-file":     "PASSWORD_FILE",
		"mail.to":                "EMAIL_TO",
		"pdf.license-key":        "UNIDOC_LICENSE_API_KEY",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}
	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-scoring.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("base.url", "https://hiring.base.vn")
	viper.SetDefault("base.page-size", 10000)
	viper.SetDefault("base.window-end-hour", 8)
	viper.SetDefault("base.window-days", 1)
	viper.SetDefault("ai.gemini.model", "gemini-1.5-flash-latest")
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("mail.host", report.DefaultSMTPHost)
	viper.SetDefault("mail.port", report.DefaultSMTPPort)
	viper.SetDefault("mail.company", "Công ty A Plus Mineral Material Corporation")
	viper.SetDefault("report.path", report.DefaultPath)
	viper.SetDefault("filters.min-description-length", filtering.DefaultMinDescriptionLength)
	viper.SetDefault("schedule", scheduler.DefaultSpec)
	viper.SetDefault("timezone", "Asia/Ho_Chi_Minh")
	viper.SetDefault("delay", pipeline.DefaultDelay)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The config file is optional; the environment alone is enough to run.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

// getConfig decodes the viper state, loads secrets from files where
// configured and validates the result. Mail settings are not required when
// the report is not going to be sent.
func getConfig(withMail bool) (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	if err := resolveSecrets(config, withMail); err != nil {
		return nil, err
	}

	if err := validateConfig(config, withMail); err != nil {
		return nil, err
	}

	return config, nil
}

func resolveSecrets(config *Config, withMail bool) error {
	if config.Base == nil || config.AI == nil || config.AI.Gemini == nil {
		return errors.New("base and ai.gemini sections are required")
	}

	targets := map[*string]secrets.Source{
		&config.Base.AccessToken: {
			Name:  "Base access token",
			Value: config.Base.AccessToken,
			File:  config.Base.AccessTokenFile,
		},
		&config.AI.Gemini.APIKey: {
			Name:  "Gemini API key",
			Value: config.AI.Gemini.APIKey,
			File:  config.AI.Gemini.APIKeyFile,
		},
	}

	if withMail && config.Mail != nil {
		targets[&config.Mail.Password] = secrets.Source{
			Name:  "SMTP password",
			Value: config.Mail.Password,
			File:  config.Mail.PasswordFile,
		}
	}

	return secrets.Resolve(targets)
}

func validateConfig(config *Config, withMail bool) error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if config.Mail != nil {
		config.Mail.To = splitRecipients(config.Mail.To)
	}

	var err error
	if withMail {
		err = validate.Struct(config)
	} else {
		err = validate.StructExcept(config, "Mail")
	}
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return fmt.Errorf("validate config: %w", err)
	}

	problems := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		problems = append(problems, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}

// splitRecipients accepts both YAML lists and comma separated env values.
func splitRecipients(values []string) []string {
	var result []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}
