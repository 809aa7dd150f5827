package listener

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"creative-approval-engine/internal/engine"
	"creative-approval-engine/internal/observability"
	"creative-approval-engine/internal/storage"
)

const debounce = 200 * time.Millisecond

// ListenAndRefresh waits for NOTIFY on the store's channel and swaps a freshly loaded
// keyword snapshot into eng. It reconnects with jittered backoff and returns
// when ctx is done.
func ListenAndRefresh(ctx context.Context, st *storage.Store, eng *engine.ApprovalEngine, baseBackoff time.Duration) {
	channel := st.ListenChannel()
	for {
		err := listen(ctx, st, eng, channel)
		if ctx.Err() != nil {
			log.Info().Msg("listener stopped")
			return
		}
		backoff := jitter(baseBackoff)
		log.Error().Err(err).Str("channel", channel).Dur("retry_in", backoff).Msg("keyword listener error")
		select {
		case <-ctx.Done():
			log.Info().Msg("listener stopped")
			return
		case <-time.After(backoff):
		}
	}
}

func listen(ctx context.Context, st *storage.Store, eng *engine.ApprovalEngine, channel string) error {
	conn, err := st.PgxPool().Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err = conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		return err
	}
	log.Info().Str("channel", channel).Msg("listening for keyword changes")

	// pick up anything that changed while we were disconnected
	refresh(ctx, st, eng)

	for {
		ntf, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		// collapse a burst of notifications into one reload issued after the last
		if err := drain(ctx, conn.Conn()); err != nil {
			return err
		}
		log.Info().Str("channel", ntf.Channel).Msg("keyword change; refreshing snapshot")
		refresh(ctx, st, eng)
	}
}

func drain(ctx context.Context, conn *pgx.Conn) error {
	for {
		wctx, cancel := context.WithTimeout(ctx, debounce)
		_, err := conn.WaitForNotification(wctx)
		cancel()
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

func refresh(ctx context.Context, src engine.KeywordSource, eng *engine.ApprovalEngine) {
	if err := eng.ReloadKeywords(ctx, src); err != nil {
		observability.KeywordReloads.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("refresh keyword snapshot error")
		return
	}
	observability.KeywordReloads.WithLabelValues("ok").Inc()
}

func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	factor := 0.5 + rand.Float64() // 0.5x-1.5x
	return time.Duration(float64(base) * factor)
}
