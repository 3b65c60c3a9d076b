package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maksimkurb/keen-softap/src/internal/api"
	"github.com/maksimkurb/keen-softap/src/internal/config"
	"github.com/maksimkurb/keen-softap/src/internal/domain"
	"github.com/maksimkurb/keen-softap/src/internal/log"
)

func CreateServiceCommand() *ServiceCommand {
	sc := &ServiceCommand{
		fs: flag.NewFlagSet("service", flag.ExitOnError),
	}

	sc.fs.BoolVar(&sc.NoAPI, "no-api", false, "Do not start the HTTP API even if it is enabled in the configuration")

	return sc
}

type ServiceCommand struct {
	fs    *flag.FlagSet
	cfg   *config.Config
	ctx   *AppContext
	NoAPI bool

	deps       *domain.AppDependencies
	serviceMgr *ServiceManager

	apiServer *api.Server
	apiRunner *RestartableRunner
}

func (s *ServiceCommand) Name() string {
	return s.fs.Name()
}

func (s *ServiceCommand) Init(args []string, ctx *AppContext) error {
	s.ctx = ctx

	if err := s.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		s.cfg = cfg
	}

	deps, err := domain.NewAppDependencies(ctx.appConfig(s.cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	s.deps = deps
	s.serviceMgr = NewServiceManager(s.cfg, deps)

	return nil
}

func (s *ServiceCommand) Run() error {
	log.Infof("Starting keen-softap service on interface %s...", s.cfg.General.Interface)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(sigChan)

	if err := s.serviceMgr.Start(ctx); err != nil {
		return fmt.Errorf("failed to start hotspot service: %w", err)
	}

	if s.cfg.API.Enabled && !s.NoAPI {
		if err := s.startAPIServer(ctx, s.cfg.API.Listen); err != nil {
			log.Errorf("Failed to start API server: %v", err)
			log.Warnf("Hotspot control will only be available through signals")
		}
	} else {
		log.Infof("REST API is disabled")
	}

	log.Infof("Service started successfully.")
	log.Infof("Send SIGHUP to reload the hotspot configuration, SIGUSR1 to log connected stations, SIGUSR2 to restart the hotspot")

	for sig := range sigChan {
		switch sig {
		case syscall.SIGHUP:
			log.Infof("Received SIGHUP signal, reloading configuration...")
			if err := s.serviceMgr.Reload(s.ctx.ConfigPath); err != nil {
				log.Errorf("Failed to reload configuration: %v", err)
			} else {
				log.Infof("Configuration reloaded successfully")
			}

		case syscall.SIGUSR1:
			s.serviceMgr.LogStations()

		case syscall.SIGUSR2:
			log.Infof("Received SIGUSR2 signal, restarting hotspot...")
			s.serviceMgr.RestartHotspot()

		case syscall.SIGINT, syscall.SIGTERM:
			log.Infof("Received signal %v, shutting down...", sig)
			return s.shutdown()
		}
	}
	return nil
}

func (s *ServiceCommand) startAPIServer(ctx context.Context, bindAddr string) error {
	log.Infof("Starting keen-softap API server on %s", bindAddr)
	log.Infof("Access restricted to private subnets only:")
	log.Infof("  IPv4: 10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16, 127.0.0.0/8")
	log.Infof("  IPv6: fc00::/7, fe80::/10, ::1/128")

	handler := api.NewHandler(s.serviceMgr.Hotspot(), s.cfg.General.Interface, s.ctx.Version)
	s.apiServer = api.NewServer(bindAddr, handler)

	s.apiRunner = NewRestartableRunner(RunnerConfig{
		Name:           "API server",
		RestartBackoff: 2 * time.Second,
		MaxBackoff:     30 * time.Second,
	}, func(context.Context) error {
		return s.apiServer.Start()
	})

	return s.apiRunner.Start(ctx)
}

func (s *ServiceCommand) shutdown() error {
	log.Infof("Shutting down keen-softap service...")

	if s.apiServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.apiServer.Stop(shutdownCtx); err != nil {
			log.Errorf("Error during API server shutdown: %v", err)
		}
	}
	if s.apiRunner != nil {
		if err := s.apiRunner.Stop(); err != nil {
			log.Errorf("Failed to stop API server: %v", err)
		}
	}

	log.Infof("Stopping hotspot...")
	if err := s.serviceMgr.Stop(); err != nil {
		log.Errorf("Failed to stop hotspot service: %v", err)
	}

	log.Infof("Service stopped successfully")
	return nil
}
