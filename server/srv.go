package server

import (
	"context"
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/sinder-app/sinder/chain"
	"github.com/sinder-app/sinder/config"
	"github.com/sinder-app/sinder/constants"
	"github.com/sinder-app/sinder/dao"
	"github.com/sinder-app/sinder/internal/sentry"
	"github.com/sinder-app/sinder/internal/signal"
	"github.com/sinder-app/sinder/log"
	"github.com/sinder-app/sinder/server/handle"
	"github.com/sinder-app/sinder/sin"
	"github.com/sinder-app/sinder/tables"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"os"
	"time"
)

const shutdownTimeout = 10 * time.Second

var srvOptions = &SrvOptions{}

// SrvOptions holds the server command line and configuration file values.
type SrvOptions struct {
	configFile string
	envFile    string
	config.SrvConfigs
}

// SrvOption is a function type that modifies SrvOptions.
type SrvOption func(*SrvOptions)

// WithListen returns a SrvOption that sets the api listen address.
func WithListen(addr string) SrvOption {
	return func(options *SrvOptions) {
		options.Server.Listen = addr
	}
}

// WithEnablePProf returns a SrvOption that toggles the pprof routes.
func WithEnablePProf(enable bool) SrvOption {
	return func(options *SrvOptions) {
		options.Server.EnablePProf = enable
	}
}

// WithPrometheus returns a SrvOption that toggles the /metrics route.
func WithPrometheus(enable bool) SrvOption {
	return func(options *SrvOptions) {
		options.Server.Prometheus = enable
	}
}

// WithOrigins returns a SrvOption that sets the CORS allowed origins.
func WithOrigins(origins ...string) SrvOption {
	return func(options *SrvOptions) {
		options.Server.Origins = origins
	}
}

// WithRPC returns a SrvOption that sets the chain rpc url.
func WithRPC(rpc string) SrvOption {
	return func(options *SrvOptions) {
		options.Chain.RPC = rpc
	}
}

// WithDeployer returns a SrvOption that sets the sin deployer contract address.
func WithDeployer(addr string) SrvOption {
	return func(options *SrvOptions) {
		options.Chain.Deployer = addr
	}
}

// WithChainID returns a SrvOption that sets the chain id.
func WithChainID(id int64) SrvOption {
	return func(options *SrvOptions) {
		options.Chain.ChainID = id
	}
}

// WithMysqlAddr returns a SrvOption that sets the statistics database address.
func WithMysqlAddr(addr string) SrvOption {
	return func(options *SrvOptions) {
		options.Mysql.Addr = addr
	}
}

// WithMysqlUser returns a SrvOption that sets the statistics database user.
func WithMysqlUser(user string) SrvOption {
	return func(options *SrvOptions) {
		options.Mysql.User = user
	}
}

// WithMysqlPassword returns a SrvOption that sets the statistics database password.
func WithMysqlPassword(password string) SrvOption {
	return func(options *SrvOptions) {
		options.Mysql.Password = password
	}
}

// WithDBName returns a SrvOption that sets the statistics database name.
func WithDBName(name string) SrvOption {
	return func(options *SrvOptions) {
		options.Mysql.DB = name
	}
}

// WithSentryDSN returns a SrvOption that sets the sentry dsn.
func WithSentryDSN(dsn string) SrvOption {
	return func(options *SrvOptions) {
		options.Sentry.DSN = dsn
	}
}

// WithLogLevel returns a SrvOption that sets the log level of every subsystem.
func WithLogLevel(level string) SrvOption {
	return func(options *SrvOptions) {
		options.LogLevel = level
	}
}

var Cmd = &cobra.Command{
	Use:   "server",
	Short: "serve the sinder read api",
	Run: func(cmd *cobra.Command, args []string) {
		if err := Srv(signal.Context(context.Background()), flagOverrides(cmd)...); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	Cmd.Flags().StringVarP(&srvOptions.configFile, "config", "c", "", "config file path")
	Cmd.Flags().StringVarP(&srvOptions.envFile, "env_file", "", ".env", "dotenv file loaded before reading the environment")
	Cmd.Flags().StringVarP(&srvOptions.Server.Listen, "listen", "l", "", "api listen address (default :3000)")
	Cmd.Flags().BoolVarP(&srvOptions.Server.EnablePProf, "pprof", "", false, "enable pprof")
	Cmd.Flags().BoolVarP(&srvOptions.Server.Prometheus, "prometheus", "", false, "serve prometheus metrics on /metrics")
	Cmd.Flags().StringSliceVarP(&srvOptions.Server.Origins, "origins", "", nil, "CORS allowed origins")
	Cmd.Flags().StringVarP(&srvOptions.Chain.RPC, "rpc", "r", "", "chain rpc url (default https://sepolia.base.org)")
	Cmd.Flags().StringVarP(&srvOptions.Chain.Deployer, "deployer", "", "", "sin deployer contract address")
	Cmd.Flags().Int64VarP(&srvOptions.Chain.ChainID, "chain_id", "", 0, "chain id (default 84532)")
	Cmd.Flags().StringVarP(&srvOptions.Mysql.Addr, "mysql_addr", "d", "", "statistics mysql address, statistics are off when empty")
	Cmd.Flags().StringVarP(&srvOptions.Mysql.User, "mysql_user", "", "", "statistics mysql user")
	Cmd.Flags().StringVarP(&srvOptions.Mysql.Password, "mysql_pass", "", "", "statistics mysql password")
	Cmd.Flags().StringVarP(&srvOptions.Mysql.DB, "db", "", "", "statistics mysql database name")
	Cmd.Flags().StringVarP(&srvOptions.Sentry.DSN, "sentry_dsn", "", "", "sentry dsn")
	Cmd.Flags().StringVarP(&srvOptions.LogLevel, "log_level", "", "", "log level: trace, debug, info, warn, error, critical, off")
}

// flagOverrides returns one SrvOption per flag set on the command line,
// holding the value it was given.
func flagOverrides(cmd *cobra.Command) []SrvOption {
	set := *srvOptions
	set.Server.Origins = append([]string(nil), srvOptions.Server.Origins...)
	all := []struct {
		flag string
		opt  SrvOption
	}{
		{"listen", WithListen(set.Server.Listen)},
		{"pprof", WithEnablePProf(set.Server.EnablePProf)},
		{"prometheus", WithPrometheus(set.Server.Prometheus)},
		{"origins", WithOrigins(set.Server.Origins...)},
		{"rpc", WithRPC(set.Chain.RPC)},
		{"deployer", WithDeployer(set.Chain.Deployer)},
		{"chain_id", WithChainID(set.Chain.ChainID)},
		{"mysql_addr", WithMysqlAddr(set.Mysql.Addr)},
		{"mysql_user", WithMysqlUser(set.Mysql.User)},
		{"mysql_pass", WithMysqlPassword(set.Mysql.Password)},
		{"db", WithDBName(set.Mysql.DB)},
		{"sentry_dsn", WithSentryDSN(set.Sentry.DSN)},
		{"log_level", WithLogLevel(set.LogLevel)},
	}
	var opts []SrvOption
	for _, v := range all {
		if cmd.Flags().Changed(v.flag) {
			opts = append(opts, v.opt)
		}
	}
	return opts
}

// loadConfig layers the configuration: the yaml file, then the environment
// and .env file, then opts, then defaults.
func loadConfig(lookup config.LookupEnv, opts ...SrvOption) error {
	if err := srvOptions.LoadFile(srvOptions.configFile); err != nil {
		return err
	}
	if err := config.LoadDotEnv(srvOptions.envFile); err != nil {
		return err
	}
	srvOptions.ApplyEnv(lookup)
	for _, v := range opts {
		v(srvOptions)
	}
	srvOptions.SetDefaults()
	return srvOptions.Validate()
}

// Srv loads configuration and serves the read api until ctx is done. opts
// override the file and the environment.
func Srv(ctx context.Context, opts ...SrvOption) error {
	if err := loadConfig(os.LookupEnv, opts...); err != nil {
		return err
	}

	log.InitLogRotator(constants.LogFile("server"))
	defer log.CloseLogRotator()
	if srvOptions.LogLevel != "" {
		if err := log.SetLevel(srvOptions.LogLevel); err != nil {
			return err
		}
	}

	flush, err := sentry.Init(srvOptions.Sentry.DSN, srvOptions.Sentry.Environment, constants.AppName)
	if err != nil {
		return err
	}
	defer flush()

	client, err := chain.NewClient(
		chain.WithRPC(srvOptions.Chain.RPC),
		chain.WithDeployer(common.HexToAddress(srvOptions.Chain.Deployer)),
		chain.WithChainID(srvOptions.Chain.ChainID),
	)
	if err != nil {
		return err
	}

	handleOpts := []handle.Option{
		handle.WithAddr(srvOptions.Server.Listen),
		handle.WithRegistry(sin.NewRegistry(client)),
		handle.WithDeployerAddress(srvOptions.Chain.Deployer),
		handle.WithEnablePProf(srvOptions.Server.EnablePProf),
		handle.WithEnablePrometheus(srvOptions.Server.Prometheus),
		handle.WithOrigins(srvOptions.Server.Origins...),
	}
	if srvOptions.Mysql.Addr != "" {
		db, err := dao.NewDB(
			dao.WithAddr(srvOptions.Mysql.Addr),
			dao.WithUser(srvOptions.Mysql.User),
			dao.WithPassword(srvOptions.Mysql.Password),
			dao.WithDBName(srvOptions.Mysql.DB),
			dao.WithAutoMigrateTables(tables.Tables...),
		)
		if err != nil {
			return err
		}
		defer db.Close()
		handleOpts = append(handleOpts, handle.WithStatisticRecorder(db))
	}

	gin.SetMode(gin.ReleaseMode)
	h, err := handle.New(handleOpts...)
	if err != nil {
		return err
	}
	log.Srv.Infof("deployer %s on %s (chain %d)", srvOptions.Chain.Deployer, srvOptions.Chain.RPC, srvOptions.Chain.ChainID)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(h.Run)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Srv.Info("shutting down read api")
		return h.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
