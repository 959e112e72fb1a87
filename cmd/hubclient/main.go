// Command hubclient is a sample client for a messaging hub.
//
// It keeps a persistent channel to the hub, prints every envelope it
// receives and, in interactive mode, sends messages, notifications and
// commands typed at the prompt.
//
// Usage:
//
//	hubclient [flags]
//
// Flags:
//
//	-config string        Configuration file path (YAML or .toml)
//	-endpoint string      Hub endpoint (ws:// or wss://)
//	-identity string      Identity to authenticate as (name@domain)
//	-instance string      Requested node instance
//	-password string      Password for plain authentication
//	-access-key string    Access key for key authentication
//	-send-timeout dur     Bound on the first connect and implicit reconnects
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-protocol-log string  File path for protocol event logging (CBOR format)
//	-interactive          Enable the interactive prompt (default true)
//	-version              Print the protocol version and exit
//
// Settings from -config and HUBCLIENT_* environment variables apply first;
// flags given on the command line override them. Edits to log_level in the
// config file apply while running unless -log-level was given.
//
// Examples:
//
//	# Connect as a guest and chat interactively
//	hubclient -endpoint ws://localhost:8080/hub -identity guest@hub.test
//
//	# Run headless with a config file and a protocol log
//	hubclient -config /etc/hubclient.yaml -interactive=false -protocol-log hub.cbor
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/msghub/hubclient-go/cmd/hubclient/interactive"
	"github.com/msghub/hubclient-go/pkg/channel"
	"github.com/msghub/hubclient-go/pkg/config"
	"github.com/msghub/hubclient-go/pkg/listener"
	hublog "github.com/msghub/hubclient-go/pkg/log"
	"github.com/msghub/hubclient-go/pkg/version"
)

var (
	configFile  = flag.String("config", "", "Configuration file path (YAML, or TOML by .toml extension)")
	endpoint    = flag.String("endpoint", "", "Hub endpoint (ws:// or wss://)")
	identity    = flag.String("identity", "", "Identity to authenticate as (name@domain)")
	instance    = flag.String("instance", "", "Requested node instance")
	password    = flag.String("password", "", "Password for plain authentication")
	accessKey   = flag.String("access-key", "", "Access key for key authentication")
	sendTimeout = flag.Duration("send-timeout", 0, "Bound on the first connect and implicit reconnects")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
	protocolLog = flag.String("protocol-log", "", "File path for protocol event logging (CBOR format)")
	interact    = flag.Bool("interactive", true, "Enable the interactive prompt")
	showVersion = flag.Bool("version", false, "Print the protocol version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("hubclient protocol %s (subprotocols: %v)\n", version.Current, version.SupportedSubprotocols())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers explicitly set flags over file and environment values.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Read(*configFile)
	if err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "endpoint":
			cfg.Endpoint = *endpoint
		case "identity":
			cfg.Identity = *identity
		case "instance":
			cfg.Instance = *instance
		case "password":
			cfg.Password = *password
		case "access-key":
			cfg.AccessKey = *accessKey
		case "send-timeout":
			cfg.SendTimeout = *sendTimeout
		case "log-level":
			cfg.LogLevel = *logLevel
		case "protocol-log":
			cfg.ProtocolLog = *protocolLog
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// watchLogLevel applies log_level edits in the config file without a restart.
// Other settings take effect on the next run.
func watchLogLevel(ctx context.Context, path string, logger *slog.Logger, level *slog.LevelVar) {
	err := config.Watch(ctx, path, logger, func(c *config.Config) {
		l, err := c.SlogLevel()
		if err != nil || l == level.Level() {
			return
		}
		level.Set(l)
		logger.Info("log level changed", "level", l.String())
	})
	if err != nil {
		logger.Warn("config watch disabled", "error", err)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var out io.Writer = os.Stdout
	var console *interactive.Client
	if *interact {
		var err error
		console, err = interactive.New()
		if err != nil {
			return err
		}
		out = console.Stdout()
	}

	level := new(slog.LevelVar)
	if l, err := cfg.SlogLevel(); err == nil {
		level.Set(l)
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	if *configFile != "" && !flagSet("log-level") {
		go watchLogLevel(ctx, *configFile, logger, level)
	}

	// Only set the protocol logger when non-nil to avoid a typed-nil interface.
	var plog hublog.Logger
	if cfg.ProtocolLog != "" {
		fileLogger, err := hublog.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			return fmt.Errorf("create protocol logger: %w", err)
		}
		defer fileLogger.Close()
		plog = fileLogger
		logger.Info("protocol logging enabled", "path", cfg.ProtocolLog)
	}

	chCfg, err := cfg.ChannelConfig(logger, plog)
	if err != nil {
		return err
	}
	ch, err := channel.New(chCfg)
	if err != nil {
		return err
	}

	logger.Info("connecting", "endpoint", chCfg.Endpoint.Redacted(), "identity", chCfg.Identity.String())
	if err := ch.Start(ctx); err != nil {
		return err
	}
	defer ch.Stop()

	s := ch.Session()
	logger.Info("session established", "sessionID", s.ID(), "node", s.LocalNode().String())

	l := listener.New(ch, listener.Config{Logger: logger, ProtocolLogger: plog, ChannelID: ch.ID()})
	printer := &printer{out: out}
	l.AddMessageReceiver(listener.MessageReceiverFunc(printer.message))
	l.AddNotificationReceiver(listener.NotificationReceiverFunc(printer.notification))
	l.AddCommandReceiver(listener.CommandReceiverFunc(printer.command))
	l.Start(ctx)
	defer l.Stop()

	if console != nil {
		console.Run(ctx, cancel, ch)
		return nil
	}

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
