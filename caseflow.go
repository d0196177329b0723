package caseflow

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/viant/caseflow/client/api"
	"github.com/viant/caseflow/client/auth/session"
	"github.com/viant/caseflow/client/auth/store"
	"github.com/viant/caseflow/client/auth/transport"
	"github.com/viant/caseflow/client/report"
	"github.com/viant/caseflow/schema"
	"go.uber.org/zap"
	"net/http"
	"strings"
)

// Client bundles the session, the API client and the report cache over one shared transport.
type Client struct {
	Session *session.Manager
	API     *api.Client
	Reports *report.Cache
	HTTP    *http.Client

	redis  *redis.Client
	logger *zap.Logger
}

// New creates a client; the persisted credential, if any, is loaded and validated in the background.
func New(ctx context.Context, options *Options) (*Client, error) {
	if options == nil || options.BaseURL == "" {
		return nil, errors.New("caseflow: base URL was empty")
	}
	ret := &Client{logger: options.logger()}
	credentials, err := ret.credentialStore(ctx, options)
	if err != nil {
		return nil, err
	}

	var rtOptions []transport.Option
	if options.Transport != nil {
		rtOptions = append(rtOptions, transport.WithTransport(options.Transport))
	}
	rt := transport.New(rtOptions...)
	ret.HTTP = &http.Client{Transport: rt, Timeout: options.timeout()}
	ret.API = api.New(options.BaseURL, api.WithHTTPClient(ret.HTTP))
	if ret.Reports, err = report.New(ret.API, options.CacheSize); err != nil {
		ret.closeRedis()
		return nil, err
	}

	baseURL := strings.TrimRight(options.BaseURL, "/")
	ret.Session = session.New(credentials, ret.API,
		session.WithContext(ctx),
		session.WithLogger(ret.logger),
		session.WithMetrics(options.Registerer),
		session.WithInvalidator(ret.Reports),
		session.WithUnauthorizedScope(func(req *http.Request) bool {
			return strings.HasPrefix(req.URL.String(), baseURL)
		}),
	)
	ret.Session.Install(rt)
	return ret, nil
}

func (c *Client) credentialStore(ctx context.Context, options *Options) (store.Store, error) {
	switch {
	case options.Store != nil:
		return options.Store, nil
	case options.RedisAddr != "":
		c.redis = redis.NewClient(&redis.Options{Addr: options.RedisAddr})
		if err := c.redis.Ping(ctx).Err(); err != nil {
			c.closeRedis()
			return nil, fmt.Errorf("failed to connect to redis %v: %w", options.RedisAddr, err)
		}
		var redisOptions []store.RedisStoreOption
		if options.RedisKey != "" {
			redisOptions = append(redisOptions, store.WithKey(options.RedisKey))
		}
		return store.NewRedisStore(c.redis, redisOptions...), nil
	case options.TokenURL != "" && options.EncryptionKey != "":
		return store.NewSecretStore(options.TokenURL, options.EncryptionKey), nil
	case options.TokenURL != "":
		return store.NewFileStore(options.TokenURL), nil
	}
	return store.NewMemoryStore(), nil
}

// Login exchanges credentials for a token, stores it and waits for identity.
// Rejected credentials leave the current session untouched.
func (c *Client) Login(ctx context.Context, username, password string) (*schema.Identity, error) {
	token, err := c.API.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err = c.Session.SetToken(token.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}
	snapshot, err := c.Session.Wait(ctx)
	if err != nil {
		return nil, err
	}
	switch snapshot.State {
	case session.Authenticated:
		c.logger.Info("logged in", zap.String("username", snapshot.User.Username))
		return snapshot.User, nil
	case session.Degraded:
		return nil, fmt.Errorf("failed to fetch identity: %w", snapshot.Err)
	}
	return nil, schema.ErrUnauthorized
}

// Logout clears the credential and purges the report cache.
func (c *Client) Logout() error {
	return c.Session.Logout()
}

// Close stops background identity fetches and releases connections.
func (c *Client) Close() error {
	c.Session.Close()
	return c.closeRedis()
}

func (c *Client) closeRedis() error {
	if c.redis == nil {
		return nil
	}
	err := c.redis.Close()
	c.redis = nil
	return err
}
