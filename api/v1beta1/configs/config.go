// Package configs provides the global Configuration type for pagelegend.
package configs

import (
	"errors"
	"fmt"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/pagelegend/api"
	"github.com/macropower/pagelegend/api/v1beta1"
	"github.com/macropower/pagelegend/pkg/ui/theme"
	"github.com/macropower/pagelegend/pkg/yaml"

	uilegend "github.com/macropower/pagelegend/pkg/ui/legend"
)

//go:generate go run ../../../internal/schemagen -type config -o configs.v1beta1.json

const Kind = "Configuration"

// Defaults.
const (
	DefaultTheme        = "github"
	DefaultFPS          = 60
	DefaultMinimumDelay = 200 * time.Millisecond
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	// ValidKinds contains the valid kind values for global configurations.
	ValidKinds = []string{Kind}

	// DefaultValidator validates global configuration against the JSON schema.
	DefaultValidator = yaml.MustGenerateValidator("/configs.v1beta1.json", &Config{})

	ErrInvalidTheme = errors.New("invalid theme")

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config represents the global pagelegend configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// UI configures the terminal program.
	UI *UIConfig `json:"ui,omitempty" jsonschema:"title=UI"`
	// Legend holds the default options of every legend.
	Legend *uilegend.Options `json:"legend,omitempty" jsonschema:"title=Legend Options"`
	// MCP configures the MCP server.
	MCP *MCPConfig `json:"mcp,omitempty" jsonschema:"title=MCP"`
	// Telemetry configures trace export.
	Telemetry        *TelemetryConfig `json:"telemetry,omitempty" jsonschema:"title=Telemetry"`
	v1beta1.TypeMeta `json:",inline"`
}

// UIConfig configures the terminal program.
type UIConfig struct {
	// KeyBinds configures the key bindings of the legend.
	KeyBinds *uilegend.KeyBinds `json:"keybinds,omitempty" jsonschema:"title=Key Binds"`
	// Themes registers custom themes by name. Each theme maps chroma token
	// types to chroma style entries, e.g. `NameTag: "bold #268bd2"`.
	Themes map[string]map[string]string `json:"themes,omitempty" jsonschema:"title=Themes"`
	// MinimumDelay is the minimum time between two reloads of a watched file,
	// e.g. "200ms".
	MinimumDelay *string `json:"minimumDelay,omitempty" jsonschema:"title=Minimum Delay"`
	// Theme is the name of a chroma style or a custom theme.
	Theme *string `json:"theme,omitempty" jsonschema:"title=Theme"`
	// FPS is the frame rate of page transitions.
	FPS *int `json:"fps,omitempty" jsonschema:"title=FPS,minimum=1,maximum=120"`
	// ShowHelp shows the help line below the legend.
	ShowHelp *bool `json:"showHelp,omitempty" jsonschema:"title=Show Help"`
}

// MCPConfig configures the MCP server.
type MCPConfig struct {
	// Address is the listen address of the streamable HTTP transport. An
	// empty address uses stdio.
	Address *string `json:"address,omitempty" jsonschema:"title=Address"`
}

// TelemetryConfig configures trace export.
type TelemetryConfig struct {
	// Endpoint is the OTLP gRPC endpoint. Tracing is disabled when empty.
	Endpoint *string `json:"endpoint,omitempty" jsonschema:"title=Endpoint"`
	// Insecure disables transport security for the endpoint.
	Insecure *bool `json:"insecure,omitempty" jsonschema:"title=Insecure"`
}

// New creates a new global [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.NewTypeMeta(Kind),
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.UI == nil {
		c.UI = &UIConfig{}
	}

	c.UI.EnsureDefaults()

	// Legend options stay sparse, defaults are applied after they are
	// merged with the options of a legend document.
	if c.Legend == nil {
		c.Legend = &uilegend.Options{}
	}

	if c.MCP == nil {
		c.MCP = &MCPConfig{}
	}
	if c.MCP.Address == nil {
		c.MCP.Address = ptr("")
	}

	if c.Telemetry == nil {
		c.Telemetry = &TelemetryConfig{}
	}
	if c.Telemetry.Endpoint == nil {
		c.Telemetry.Endpoint = ptr("")
	}
	if c.Telemetry.Insecure == nil {
		c.Telemetry.Insecure = ptr(false)
	}
}

// EnsureDefaults initializes nil fields to their default values.
func (c *UIConfig) EnsureDefaults() {
	if c.KeyBinds == nil {
		c.KeyBinds = uilegend.NewKeyBinds()
	} else {
		c.KeyBinds.EnsureDefaults()
	}
	if c.Theme == nil {
		c.Theme = ptr(DefaultTheme)
	}
	if c.MinimumDelay == nil {
		c.MinimumDelay = ptr(DefaultMinimumDelay.String())
	}
	if c.FPS == nil {
		c.FPS = ptr(DefaultFPS)
	}
	if c.ShowHelp == nil {
		c.ShowHelp = ptr(true)
	}
}

// Delay returns the parsed minimum delay.
func (c *UIConfig) Delay() (time.Duration, error) {
	if c.MinimumDelay == nil {
		return DefaultMinimumDelay, nil
	}

	d, err := time.ParseDuration(*c.MinimumDelay)
	if err != nil {
		return 0, fmt.Errorf("minimumDelay: %w", err)
	}

	return d, nil
}

// RegisterThemes registers the custom themes.
func (c *UIConfig) RegisterThemes() error {
	var errs []error

	for name, entries := range c.Themes {
		styles := chroma.StyleEntries{}

		for token, entry := range entries {
			tt, err := chroma.TokenTypeString(token)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidTheme, name, err))

				continue
			}

			styles[tt] = entry
		}

		err := theme.Register(name, styles)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.UI != nil {
		if c.UI.KeyBinds != nil {
			err := c.UI.KeyBinds.Validate()
			if err != nil {
				return fmt.Errorf("validate key binds: %w", err)
			}
		}

		_, err := c.UI.Delay()
		if err != nil {
			return fmt.Errorf("validate ui: %w", err)
		}
	}

	if c.Legend != nil {
		_, err := c.Legend.Resolve()
		if err != nil {
			return fmt.Errorf("validate legend options: %w", err)
		}
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// Write writes the config to the specified path if it doesn't already exist.
func (c Config) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// WriteDefault writes the embedded default config.yaml to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// GetPath returns the path to the global configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}

func ptr[T any](v T) *T {
	return &v
}
