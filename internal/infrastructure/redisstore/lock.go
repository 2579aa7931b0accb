package redisstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/salones-api/internal/application/inventory"
	"github.com/jhoicas/salones-api/internal/domain"
)

// releaseScript borra la clave solo si sigue siendo nuestra.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// extendScript renueva el TTL (ms) solo si la clave sigue siendo nuestra.
var extendScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return 0
`)

var _ inventory.Locker = (*Locker)(nil)

// Locker candado SET NX con token propio. Mientras no se libere, el TTL se renueva cada
// tercio de su duración, así un lote largo no pierde el candado a mitad de camino.
type Locker struct {
	client *redis.Client
}

func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// Acquire devuelve domain.ErrLocked si la clave ya está tomada.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (inventory.Unlock, error) {
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, &domain.PersistenceError{Kind: domain.KindConnection, Op: "lock " + key, Err: err}
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrLocked)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(key, token, ttl, stop, done)

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() {
			close(stop)
			<-done
		})
		return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}, nil
}

func (l *Locker) keepAlive(key, token string, ttl time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	interval := ttl / 3
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			n, err := extendScript.Run(ctx, l.client, []string{key}, token, ttl.Milliseconds()).Int()
			cancel()
			// un error de red se reintenta en el siguiente tick; 0 = el candado ya no es nuestro
			if err == nil && n == 0 {
				return
			}
		}
	}
}
