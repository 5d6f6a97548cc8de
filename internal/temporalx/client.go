package temporalx

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/api/workflowservice/v1"
	temporalsdkclient "go.temporal.io/sdk/client"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/yungbote/vitality-backend/internal/platform/envutil"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

// NewClient dials Temporal with retry. It returns nil, nil when no address
// is configured.
func NewClient(log *logger.Logger, cfg Config) (temporalsdkclient.Client, error) {
	if !cfg.Enabled() {
		log.Info("TEMPORAL_ADDRESS not set; batch analysis stays in-process")
		return nil, nil
	}
	opts, err := cfg.clientOptions(log)
	if err != nil {
		return nil, err
	}
	opts.Namespace = cfg.Namespace

	dialTimeout := envutil.Seconds("TEMPORAL_DIAL_TIMEOUT_SECONDS", 5*time.Second)
	var c temporalsdkclient.Client
	err = RetryFromEnv("TEMPORAL_DIAL", time.Minute).Do(context.Background(), log.With("address", cfg.Address), "temporal dial",
		func(ctx context.Context, _ int) (bool, error) {
			dctx, cancel := context.WithTimeout(ctx, dialTimeout)
			defer cancel()
			var derr error
			c, derr = temporalsdkclient.DialContext(dctx, opts)
			return true, derr
		})
	if err != nil {
		return nil, err
	}

	if envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false) {
		if err := EnsureNamespace(context.Background(), cfg, log); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// EnsureNamespace registers the configured namespace when it does not exist.
// Used for local and self-hosted Temporal only.
func EnsureNamespace(ctx context.Context, cfg Config, log *logger.Logger) error {
	if cfg.Namespace == "" || !cfg.Enabled() {
		return nil
	}
	// No Namespace on the options: the namespace client must be able to
	// talk to the frontend before the namespace exists.
	opts, err := cfg.clientOptions(log)
	if err != nil {
		return err
	}
	nsClient, err := temporalsdkclient.NewNamespaceClient(opts)
	if err != nil {
		return fmt.Errorf("temporal namespace client: %w", err)
	}
	defer nsClient.Close()

	retention := time.Duration(min(max(envutil.Int("TEMPORAL_NAMESPACE_RETENTION_DAYS", 7), 1), 365)) * 24 * time.Hour
	return RetryFromEnv("TEMPORAL_NAMESPACE_ENSURE", 10*time.Second).Do(ctx, log.With("namespace", cfg.Namespace), "temporal namespace ensure",
		func(ctx context.Context, _ int) (bool, error) {
			_, err := nsClient.Describe(ctx, cfg.Namespace)
			var notFound *serviceerror.NamespaceNotFound
			if !errors.As(err, &notFound) {
				return isRetryableRPC(err), err
			}
			err = nsClient.Register(ctx, &workflowservice.RegisterNamespaceRequest{
				Namespace:                        cfg.Namespace,
				Description:                      "vitality health analysis",
				WorkflowExecutionRetentionPeriod: durationpb.New(retention),
			})
			var exists *serviceerror.NamespaceAlreadyExists
			if err == nil || errors.As(err, &exists) {
				log.Info("Temporal namespace ready", "namespace", cfg.Namespace, "retention", retention)
				return false, nil
			}
			return isRetryableRPC(err), err
		})
}

func (c Config) clientOptions(log *logger.Logger) (temporalsdkclient.Options, error) {
	opts := temporalsdkclient.Options{HostPort: c.Address}
	if log != nil {
		opts.Logger = log
	}
	if c.ClientCertPath == "" && c.ClientKeyPath == "" && c.ClientCAPath == "" {
		return opts, nil
	}
	tlsCfg, err := c.tlsConfig()
	if err != nil {
		return opts, err
	}
	opts.ConnectionOptions.TLS = tlsCfg
	return opts, nil
}

func (c Config) tlsConfig() (*tls.Config, error) {
	if c.ClientCertPath == "" || c.ClientKeyPath == "" {
		return nil, fmt.Errorf("temporal tls: TEMPORAL_CLIENT_CERT_PATH and TEMPORAL_CLIENT_KEY_PATH are both required")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCertPath, c.ClientKeyPath)
	if err != nil {
		return nil, fmt.Errorf("temporal tls: load client cert/key: %w", err)
	}
	tlsCfg := &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	if c.ClientCAPath == "" {
		return tlsCfg, nil
	}
	pem, err := os.ReadFile(c.ClientCAPath)
	if err != nil {
		return nil, fmt.Errorf("temporal tls: read CA: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("temporal tls: invalid CA pem")
	}
	tlsCfg.RootCAs = pool
	return tlsCfg, nil
}
