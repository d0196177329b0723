package caseflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/caseflow/client/auth/store"
	"go.uber.org/zap"
	"net/http"
	"time"
)

// Options defines options for configuring a CaseFlow client.
type Options struct {
	BaseURL       string        `yaml:"baseURL" json:"baseURL"`
	TokenURL      string        `yaml:"tokenURL,omitempty" json:"tokenURL,omitempty"`
	EncryptionKey string        `yaml:"encryptionKey,omitempty" json:"encryptionKey,omitempty"`
	RedisAddr     string        `yaml:"redisAddr,omitempty" json:"redisAddr,omitempty"`
	RedisKey      string        `yaml:"redisKey,omitempty" json:"redisKey,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	CacheSize     int           `yaml:"cacheSize,omitempty" json:"cacheSize,omitempty"`

	// Store overrides credential store selection.
	Store store.Store `yaml:"-" json:"-"`
	// Transport is the inner transport of the shared round tripper.
	Transport  http.RoundTripper     `yaml:"-" json:"-"`
	Logger     *zap.Logger           `yaml:"-" json:"-"`
	Registerer prometheus.Registerer `yaml:"-" json:"-"`
}

const defaultTimeout = 30 * time.Second

func (o *Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return defaultTimeout
	}
	return o.Timeout
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
