package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/metrics"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RedisPublisher публикует события бронирований в Redis pub/sub
// Публикация асинхронная: ошибка доставки логируется и не влияет на состояние бронирования
type RedisPublisher struct {
	client  *redis.Client
	channel string
	timeout time.Duration
	log     Logger
	metrics *metrics.Metrics

	wg sync.WaitGroup
}

// Options параметры подключения к Redis
type Options struct {
	Addr     string
	Password string
	DB       int
	Channel  string
	Timeout  time.Duration
}

// NewRedisPublisher создает публикатор; metrics может быть nil
func NewRedisPublisher(opts Options, log Logger, m *metrics.Metrics) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.Timeout,
		MaxRetries:  1,
	})

	return &RedisPublisher{
		client:  client,
		channel: opts.Channel,
		timeout: opts.Timeout,
		log:     log,
		metrics: m,
	}
}

// Ping проверяет доступность Redis при старте
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Publish отправляет событие в фоне
// Контекст запроса не отменяет публикацию: она происходит уже после фиксации изменений
func (p *RedisPublisher) Publish(ctx context.Context, event domain.BookingEvent) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()

		if err := p.publish(pubCtx, event); err != nil {
			p.log.Error("Failed to publish %s for booking_id=%d: %v", event.Type, event.BookingID, err)
			if p.metrics != nil {
				p.metrics.EventPublishFailuresTotal.WithLabelValues(string(event.Type)).Inc()
			}
			return
		}
		p.log.Info("Published %s for booking_id=%d", event.Type, event.BookingID)
	}()
}

func (p *RedisPublisher) publish(ctx context.Context, event domain.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// Close дожидается отправки начатых событий и закрывает соединение
func (p *RedisPublisher) Close() error {
	p.wg.Wait()
	return p.client.Close()
}

// NopPublisher используется, когда публикация событий выключена
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event domain.BookingEvent) {}

func (NopPublisher) Close() error { return nil }
