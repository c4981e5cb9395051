package config

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/hashicorp-forge/appsdir/pkg/directory"
	"github.com/hashicorp-forge/appsdir/pkg/session"
)

const (
	DefaultLoginURL       = "https://www.google.com/accounts/ClientLogin"
	DefaultCustomerIDURL  = "https://apps-apis.google.com/a/feeds/customer/2.0/customerId"
	DefaultMoveToGroupURL = "https://apps-apis.google.com/a/feeds/orgunit/2.0/"
	DefaultTimeout        = "30s"
)

// Config is the appsdir configuration file.
//
// Example configuration (HCL):
//
//	log_level = "info"
//
//	directory {
//	  email    = "admin@example.com"
//	  password = env("APPSDIR_PASSWORD")
//	  base_url = "https://apps-apis.google.com/a/feeds/example.com/user/2.0/"
//	  timeout  = "30s"
//	}
type Config struct {
	// LogLevel is one of trace, debug, info, warn or error.
	LogLevel string `hcl:"log_level,optional"`

	Directory *Directory `hcl:"directory,block"`
}

// Directory configures the directory API client.
type Directory struct {
	// Email and Password are the administrator credentials used to log in.
	Email    string `hcl:"email" json:"email"`
	Password string `hcl:"password" json:"-"`

	// LoginURL is the ClientLogin endpoint.
	// Default: https://www.google.com/accounts/ClientLogin
	LoginURL string `hcl:"login_url,optional" json:"login_url"`

	// BaseURL is the user feed of the domain, ending in a slash.
	BaseURL string `hcl:"base_url" json:"base_url"`

	CustomerIDURL  string `hcl:"customer_id_url,optional" json:"customer_id_url"`
	MoveToGroupURL string `hcl:"move_to_group_url,optional" json:"move_to_group_url"`

	// Service and AccountType are sent with the login.
	// Default: "apps" and "HOSTED"
	Service     string `hcl:"service,optional" json:"service"`
	AccountType string `hcl:"account_type,optional" json:"account_type"`

	// Timeout for each API request, as a Go duration.
	// Default: 30s
	Timeout string `hcl:"timeout,optional" json:"timeout"`

	// TLSVerify controls TLS certificate verification.
	// Set to false only for testing against self-signed certs.
	TLSVerify *bool `hcl:"tls_verify,optional" json:"tls_verify"`

	// Trace logs every request and response.
	Trace bool `hcl:"trace,optional" json:"trace"`
}

// Load reads and validates the configuration file at path.
func Load(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("configuration file path is required")
	}

	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var cfg Config
	if err := hclsimple.Decode(path, src, evalContext(), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	d := c.Directory
	if d == nil {
		return
	}
	if d.LoginURL == "" {
		d.LoginURL = DefaultLoginURL
	}
	if d.CustomerIDURL == "" {
		d.CustomerIDURL = DefaultCustomerIDURL
	}
	if d.MoveToGroupURL == "" {
		d.MoveToGroupURL = DefaultMoveToGroupURL
	}
	if d.Service == "" {
		d.Service = session.DefaultService
	}
	if d.AccountType == "" {
		d.AccountType = session.DefaultAccountType
	}
	if d.Timeout == "" {
		d.Timeout = DefaultTimeout
	}
	if d.TLSVerify == nil {
		tlsVerify := true
		d.TLSVerify = &tlsVerify
	}
}

// Validate checks the whole configuration and reports every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result,
			fmt.Errorf("invalid log_level %q", c.LogLevel))
	}

	if c.Directory == nil {
		result = multierror.Append(result,
			fmt.Errorf("directory block is required"))
	} else if err := c.Directory.Validate(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// Validate checks the directory block.
func (d *Directory) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Email, validation.Required),
		validation.Field(&d.Password, validation.Required),
		validation.Field(&d.LoginURL, validation.Required, validation.By(httpURL)),
		validation.Field(&d.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&d.CustomerIDURL, validation.Required, validation.By(httpURL)),
		validation.Field(&d.MoveToGroupURL, validation.Required, validation.By(httpURL)),
		validation.Field(&d.Timeout, validation.By(positiveDuration)),
	)
}

// TimeoutDuration returns the parsed request timeout.
func (d *Directory) TimeoutDuration() time.Duration {
	timeout, err := time.ParseDuration(d.Timeout)
	if err != nil {
		return 0
	}
	return timeout
}

// NewHTTPClient creates the HTTP client used for every directory call.
func (d *Directory) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if d.TLSVerify != nil && !*d.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   d.TimeoutDuration(),
		Transport: transport,
	}
}

// SessionConfig returns the session configuration for this directory.
func (d *Directory) SessionConfig(logger hclog.Logger) session.Config {
	return session.Config{
		Email:       d.Email,
		Password:    d.Password,
		LoginURL:    d.LoginURL,
		Service:     d.Service,
		AccountType: d.AccountType,
		HTTPClient:  d.NewHTTPClient(),
		Logger:      logger,
		Trace:       d.Trace,
	}
}

// Endpoints returns the directory API locations.
func (d *Directory) Endpoints() directory.Endpoints {
	return directory.Endpoints{
		BaseURL:        d.BaseURL,
		CustomerIDURL:  d.CustomerIDURL,
		MoveToGroupURL: d.MoveToGroupURL,
	}
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("must have a host")
	}
	return nil
}

func positiveDuration(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("must be positive, got: %v", d)
	}
	return nil
}

// evalContext exposes env("NAME") to configuration files so secrets can stay
// out of them. Unset variables evaluate to "".
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})
