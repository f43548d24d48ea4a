package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript удаляет ключ, только если он всё ещё принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const releaseTimeout = 2 * time.Second

// RedisOptions параметры распределённой блокировки
type RedisOptions struct {
	TTL           time.Duration
	WaitTimeout   time.Duration
	RetryInterval time.Duration
}

// RedisLocker распределённая блокировка на SET NX с токеном владельца
type RedisLocker struct {
	client redis.UniversalClient
	opts   RedisOptions
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	const op = "lock.NewRedisClient"

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return client, nil
}

// NewRedisLocker создает распределённую блокировку поверх готового клиента
func NewRedisLocker(client redis.UniversalClient, opts RedisOptions) *RedisLocker {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 25 * time.Millisecond
	}
	return &RedisLocker{client: client, opts: opts}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	const op = "lock.RedisLocker.Acquire"

	lockKey := "lock:" + key
	token := uuid.NewString()

	var deadline <-chan time.Time
	if l.opts.WaitTimeout > 0 {
		timer := time.NewTimer(l.opts.WaitTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(l.opts.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, l.opts.TTL).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrLockBackend, op, err)
		}
		if ok {
			return l.releaseFunc(lockKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, fmt.Errorf("%w: key %s", ErrLockTimeout, key)
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) releaseFunc(lockKey, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			// контекст запроса к этому моменту может быть уже отменён
			ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()

			// при ошибке ключ истечёт сам по TTL
			_ = releaseScript.Run(ctx, l.client, []string{lockKey}, token).Err()
		})
	}
}

// Close закрывает клиент Redis
func (l *RedisLocker) Close() error {
	return l.client.Close()
}
