package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gogf/gf/v2/util/gconv"
	"github.com/joho/godotenv"
	"github.com/sinder-app/sinder/constants"
	"gopkg.in/yaml.v2"
	"io/fs"
	"os"
	"strings"
)

// LookupEnv matches os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// Chain locates the deployer contract.
type Chain struct {
	RPC      string `yaml:"rpc" validate:"required,url"`
	Deployer string `yaml:"deployer" validate:"required,eth_addr"`
	ChainID  int64  `yaml:"chain_id" validate:"gt=0"`
}

type Server struct {
	Listen      string   `yaml:"listen" validate:"required"`
	EnablePProf bool     `yaml:"pprof"`
	Prometheus  bool     `yaml:"prometheus"`
	Origins     []string `yaml:"origins" validate:"dive,required,url|eq=*"`
}

// Mysql is optional; statistics are only kept when Addr is set.
type Mysql struct {
	Addr     string `yaml:"addr" validate:"omitempty,hostname_port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DB       string `yaml:"db"`
}

type Sentry struct {
	DSN         string `yaml:"dsn" validate:"omitempty,url"`
	Environment string `yaml:"environment"`
}

// SrvConfigs is the read API configuration file.
type SrvConfigs struct {
	Server   Server `yaml:"server"`
	Chain    Chain  `yaml:"chain"`
	Mysql    Mysql  `yaml:"mysql"`
	Sentry   Sentry `yaml:"sentry"`
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error critical off"`
}

var validate = validator.New()

// LoadFile decodes a yaml file over the current values. An empty path is a no-op.
func (c *SrvConfigs) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides values from the environment.
func (c *SrvConfigs) ApplyEnv(lookup LookupEnv) {
	c.Chain.ApplyEnv(lookup)
	if v, ok := lookup(constants.EnvListen); ok && v != "" {
		c.Server.Listen = v
	}
}

func (c *SrvConfigs) SetDefaults() {
	c.Chain.SetDefaults()
	if c.Server.Listen == "" {
		c.Server.Listen = constants.DefaultListen
	}
	if c.Mysql.Addr != "" {
		if c.Mysql.User == "" {
			c.Mysql.User = constants.DefaultDBUser
		}
		if c.Mysql.DB == "" {
			c.Mysql.DB = constants.DefaultDBName
		}
	}
}

func (c *SrvConfigs) Validate() error {
	return validationError(validate.Struct(c))
}

// ApplyEnv reads RPC_URL, DEPLOYER_ADDRESS (or NEXT_PUBLIC_DEPLOYER_ADDRESS) and CHAIN_ID.
func (c *Chain) ApplyEnv(lookup LookupEnv) {
	if v, ok := lookup(constants.EnvRPCURL); ok && v != "" {
		c.RPC = v
	}
	if v, ok := lookup(constants.EnvDeployerAddress); ok && v != "" {
		c.Deployer = v
	} else if v, ok := lookup(constants.EnvPublicDeployerAddr); ok && v != "" {
		c.Deployer = v
	}
	if v, ok := lookup(constants.EnvChainID); ok && v != "" {
		c.ChainID = gconv.Int64(v)
	}
}

func (c *Chain) SetDefaults() {
	if c.RPC == "" {
		c.RPC = constants.DefaultRPCURL
	}
	if c.Deployer == "" {
		c.Deployer = constants.DefaultDeployerAddress
	}
	if c.ChainID == 0 {
		c.ChainID = constants.BaseSepoliaChainID
	}
}

func (c *Chain) Validate() error {
	return validationError(validate.Struct(c))
}

// LoadDotEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, fmt.Sprintf("%s failed %s", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
}
