// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/tombee/codeconv/internal/api"
	"github.com/tombee/codeconv/internal/auth"
	"github.com/tombee/codeconv/internal/cli"
	"github.com/tombee/codeconv/internal/config"
	"github.com/tombee/codeconv/internal/handlers"
	"github.com/tombee/codeconv/internal/log"
	"github.com/tombee/codeconv/internal/profile"
	"github.com/tombee/codeconv/internal/tracing"
	"github.com/tombee/codeconv/internal/ui"
	"github.com/tombee/codeconv/pkg/command"
	"github.com/tombee/codeconv/pkg/httpclient"
)

// Version information (injected via ldflags at build time)
var (
	version = "dev"
	commit  = "unknown"
)

// ExitFatal is returned when the command tree itself is misused (EX_SOFTWARE).
const ExitFatal = 70

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCfg := log.FromEnv()
	logger := log.New(logCfg)

	cfgPath, err := config.ConfigPath()
	if err != nil {
		logger.Warn("could not determine config path", log.Error(err))
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.NewStyles(os.Stderr).RenderError(err.Error()))
		return command.ExitFailure
	}

	logger = log.New(logCfg.Merge(cfg.Log.Level, cfg.Log.Format))
	slog.SetDefault(logger)

	tp, err := tracing.Setup(ctx, tracing.Config{
		Exporter:   cfg.Tracing.Exporter,
		Endpoint:   cfg.Tracing.Endpoint,
		Insecure:   cfg.Tracing.Insecure,
		SampleRate: cfg.Tracing.SampleRate,
	}, "codeconv", version)
	if err != nil {
		logger.Warn("tracing disabled", log.Error(err))
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Warn("failed to flush traces", log.Error(err))
			}
		}()
	}

	root, err := build(cfg, logger)
	if err != nil {
		logger.Error("startup failed", log.Error(err))
		return command.ExitFailure
	}

	code, err := root.Execute(ctx, os.Args[1:])
	if err != nil {
		logger.Error("command failed", log.Error(err))
		return ExitFatal
	}
	return code
}

func build(cfg *config.Config, logger *slog.Logger) (*command.Command, error) {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.UserAgent = "codeconv/" + version
	httpCfg.Timeout = cfg.API.Timeout
	httpCfg.RetryAttempts = cfg.API.RetryAttempts
	httpCfg.RateLimit = rate.Limit(cfg.API.RequestsPerSecond)
	httpCfg.RateBurst = max(1, int(cfg.API.RequestsPerSecond))
	httpCfg.Logger = log.WithComponent(logger, "http")

	hc, err := httpclient.New(httpCfg)
	if err != nil {
		return nil, err
	}

	client, err := api.New(hc, cfg.API.BaseURL, log.WithComponent(logger, "api"))
	if err != nil {
		return nil, err
	}

	var authenticator handlers.Authenticator
	flow, err := auth.NewDeviceFlow(cfg.Auth, hc, log.WithComponent(logger, "auth"))
	if err != nil {
		authenticator = handlers.Unavailable(err)
	} else {
		authenticator = flow
	}

	store := profile.NewStore(cfg.ProfilePath,
		profile.NewTokenStore(cfg.Auth.TokenStorage, logger),
		log.WithComponent(logger, "profile"))

	h := handlers.New(handlers.Options{
		Service:          client,
		Auth:             authenticator,
		Profiles:         store,
		Confirm:          ui.PromptConfirmer{},
		MaxContentLength: cfg.API.MaxContentLength,
		Out:              os.Stdout,
		Logger:           logger,
	})

	return cli.NewRootCommand(h, cli.Options{
		Build:  cli.BuildInfo{Version: version, Commit: commit},
		Out:    os.Stdout,
		Logger: log.WithComponent(logger, "command"),
	}), nil
}
