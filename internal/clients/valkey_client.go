package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/reviewlens/config"
	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyErr      error
	valkeyOnce     sync.Once
)

// releaseLeaseScript deletes the lease only while it still holds our token,
// so an expired lease taken over by another run is left alone.
var releaseLeaseScript = valkey.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type ValkeyClient struct {
	Client valkey.Client
	opts   valkey.ClientOption
	mu     sync.Mutex
}

func InitValkey(cfg config.ValkeySettings) (*ValkeyClient, error) {
	valkeyOnce.Do(func() {
		opts := valkey.ClientOption{
			InitAddress: []string{
				cfg.InitAddress,
			},
			Password:         cfg.Password,
			ConnWriteTimeout: 5 * time.Second,
			SelectDB:         0,
		}

		if cfg.UseTLS {
			opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
		}

		client, err := connectValkey(opts)
		if err != nil {
			valkeyErr = err
			return
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")
		valkeyInstance = &ValkeyClient{Client: client, opts: opts}
	})
	return valkeyInstance, valkeyErr
}

func connectValkey(opts valkey.ClientOption) (valkey.Client, error) {
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), CONNECT_TIMEOUT)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

// Acquire takes the lease at key for ttl if nobody holds it. token identifies
// the holder for Release.
func (vc *ValkeyClient) Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	cmd := vc.Client.B().Set().Key(key).Value(token).Nx().ExSeconds(int64(ttl / time.Second)).Build()
	res := vc.Client.Do(ctx, cmd)

	err := res.Error()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return false, fmt.Errorf("[ValkeyClient] failed to acquire lease %s: %w", key, err)
	}

	slog.Debug("[ValkeyClient] Lease acquired",
		slog.String("key", key),
		slog.Duration("ttl", ttl))
	return true, nil
}

// Release drops the lease at key if token still holds it.
func (vc *ValkeyClient) Release(ctx context.Context, key, token string) error {
	res := releaseLeaseScript.Exec(ctx, vc.Client, []string{key}, []string{token})
	if err := res.Error(); err != nil {
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return fmt.Errorf("[ValkeyClient] failed to release lease %s: %w", key, err)
	}

	slog.Debug("[ValkeyClient] Lease released", slog.String("key", key))
	return nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
