// Package config defines the data structures related to configuration and
// includes functions for loading and validating the loan file.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/store"
	"github.com/iwvelando/loan-amortization/pkg/validation"
	"github.com/spf13/viper"
)

// DateLayout is the format expected for dates in config files and is also
// the output date format.
const DateLayout = constants.DateLayout

// envKeys can be supplied through the environment even when the file omits
// them, e.g. AMORTIZE_LOAN_PRINCIPAL.
var envKeys = []string{
	"loan.principal",
	"loan.interestRate",
	"loan.termMonths",
	"loan.termYears",
	"loan.insuranceRate",
	"startDate",
	"currency",
	"storage.driver",
	"storage.dsn",
	"storage.addr",
	"storage.password",
}

// Configuration holds all configuration for a loan amortization run.
type Configuration struct {
	Loan         amortization.RawLoanInputs `yaml:"loan" mapstructure:"loan"`
	StartDate    string                     `yaml:"startDate,omitempty" mapstructure:"startDate"`
	MaxOverrides int                        `yaml:"maxOverrides,omitempty" mapstructure:"maxOverrides"`
	Overrides    []amortization.RawOverride `yaml:"overrides,omitempty" mapstructure:"overrides"`
	Currency     string                     `yaml:"currency,omitempty" mapstructure:"currency"`
	Logging      LoggingConfig              `yaml:"logging,omitempty" mapstructure:"logging"`
	Output       OutputConfig               `yaml:"output,omitempty" mapstructure:"output"`
	Storage      store.Config               `yaml:"storage,omitempty" mapstructure:"storage"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// OutputFormat returns the configured output format, defaulting to pretty.
func (c *Configuration) OutputFormat() string {
	if f := strings.TrimSpace(c.Output.Format); f != "" {
		return f
	}
	return constants.OutputFormatPretty
}

// ValidateConfiguration checks the settings around the loan itself and
// returns warnings. Problems with the loan fields and override rows are
// reported when the schedule is computed.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if err := validation.ValidateOutputFormat(c.OutputFormat()); err != nil {
		warnings = append(warnings, fmt.Sprintf("%v - falling back to %s", err, constants.OutputFormatPretty))
	}
	if err := validation.ValidateStorageDriver(c.Storage.Driver); err != nil {
		warnings = append(warnings, err.Error())
	}
	if c.MaxOverrides < 0 {
		warnings = append(warnings, fmt.Sprintf("maxOverrides %d is negative - treating as unlimited", c.MaxOverrides))
	}

	return warnings
}
