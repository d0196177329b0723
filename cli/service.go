package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/viant/caseflow"
	"github.com/viant/caseflow/client/auth/session"
	"github.com/viant/caseflow/internal/logging"
	"github.com/viant/caseflow/schema"
	"go.uber.org/zap"
	"io"
	"os"
	"path/filepath"
)

type Service struct {
	options *Options
	client  *caseflow.Client
	logger  *zap.Logger
	w       io.Writer
}

func New(ctx context.Context, options *Options, w io.Writer) (*Service, error) {
	logger, err := logging.New(options.LogLevel)
	if err != nil {
		return nil, err
	}
	tokenURL := options.TokenFile
	if tokenURL == "" && options.Redis == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate token file: %w", err)
		}
		tokenURL = filepath.Join(home, ".caseflow", "token.json")
	}
	client, err := caseflow.New(ctx, &caseflow.Options{
		BaseURL:       options.URL,
		TokenURL:      tokenURL,
		EncryptionKey: options.Key,
		RedisAddr:     options.Redis,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}
	return &Service{options: options, client: client, logger: logger, w: w}, nil
}

// Execute runs the named command
func (s *Service) Execute(ctx context.Context, command string) error {
	switch command {
	case "login":
		user, err := s.client.Login(ctx, s.options.Login.Username, s.options.Login.Password)
		if err != nil {
			return err
		}
		return s.print(user)
	case "logout":
		return s.client.Logout()
	case "whoami":
		snapshot, err := s.client.Session.Wait(ctx)
		if err != nil {
			return err
		}
		switch snapshot.State {
		case session.Authenticated:
			return s.print(snapshot.User)
		case session.Degraded:
			return fmt.Errorf("failed to fetch identity: %w", snapshot.Err)
		}
		_, err = fmt.Fprintln(s.w, "not logged in")
		return err
	}

	if err := s.authenticated(ctx); err != nil {
		return err
	}
	switch command {
	case "tasks":
		tasks, err := s.client.Reports.Tasks(ctx)
		if err != nil {
			return err
		}
		return s.print(tasks)
	case "task":
		task, err := s.client.Reports.Task(ctx, s.options.Task.Slug)
		if err != nil {
			return err
		}
		return s.print(task)
	case "dataset":
		data, err := s.client.Reports.Dataset(ctx, s.options.Dataset.Name)
		if err != nil {
			return err
		}
		return s.print(data)
	case "report":
		if asset := s.options.Report.Asset; asset != "" {
			data, err := s.client.API.ReportAsset(ctx, s.options.Report.Name, asset)
			if err != nil {
				return err
			}
			_, err = s.w.Write(data)
			return err
		}
		report, err := s.client.Reports.Report(ctx, s.options.Report.Name)
		if err != nil {
			return err
		}
		return s.print(report)
	}
	return fmt.Errorf("unsupported command: %v", command)
}

func (s *Service) authenticated(ctx context.Context) error {
	snapshot, err := s.client.Session.Wait(ctx)
	if err != nil {
		return err
	}
	if !snapshot.HasToken {
		return schema.ErrNoCredential
	}
	if snapshot.State == session.Degraded {
		s.logger.Warn("identity unavailable", zap.Error(snapshot.Err))
	}
	return nil
}

func (s *Service) print(value interface{}) error {
	encoder := json.NewEncoder(s.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func (s *Service) Close() {
	if err := s.client.Close(); err != nil {
		s.logger.Warn("failed to close client", zap.Error(err))
	}
	_ = s.logger.Sync()
}
