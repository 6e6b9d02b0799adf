// =============================
// File: internal/launchpad/state/fetcher.go
// =============================
package state

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/addrs"
)

// AccountSource — минимальная возможность чтения аккаунтов, которую
// предоставляет сетевой клиент. ok=false означает «аккаунт отсутствует» —
// это нормальный исход, а не ошибка.
type AccountSource interface {
	AccountData(ctx context.Context, pubkey solana.PublicKey) (data []byte, ok bool, err error)
}

// Fetcher читает и декодирует записи программы. Состояния между вызовами
// не хранит: каждый вызов — свежий снимок.
type Fetcher struct {
	source   AccountSource
	resolver *addrs.Resolver
	logger   *zap.Logger
}

// NewFetcher создаёт Fetcher.
func NewFetcher(source AccountSource, resolver *addrs.Resolver, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		source:   source,
		resolver: resolver,
		logger:   logger.Named("state"),
	}
}

// TryPool возвращает снимок пула для минта; (nil, false, nil) если пула нет.
func (f *Fetcher) TryPool(ctx context.Context, mint solana.PublicKey) (*Pool, bool, error) {
	addr, err := f.resolver.Pool(mint)
	if err != nil {
		return nil, false, err
	}
	data, ok, err := f.source.AccountData(ctx, addr)
	if err != nil || !ok {
		return nil, false, err
	}
	var pool Pool
	if err := decodeRecord(data, PoolDiscriminator, &pool); err != nil {
		return nil, false, fmt.Errorf("pool %s: %w", addr, err)
	}
	return &pool, true, nil
}

// GlobalConfig возвращает конфигурацию протокола. В отличие от остальных
// записей она обязана существовать: отсутствие — ошибка деплоя.
func (f *Fetcher) GlobalConfig(ctx context.Context) (*GlobalConfig, error) {
	addr, err := f.resolver.GlobalState()
	if err != nil {
		return nil, err
	}
	data, ok, err := f.source.AccountData(ctx, addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("global config %s not found", addr)
	}
	var cfg GlobalConfig
	if err := decodeRecord(data, GlobalConfigDiscriminator, &cfg); err != nil {
		return nil, fmt.Errorf("global config %s: %w", addr, err)
	}
	return &cfg, nil
}

// TryBundleBuyPool возвращает запись коллективной покупки, если она создана.
func (f *Fetcher) TryBundleBuyPool(ctx context.Context, mint solana.PublicKey) (*BundleBuyPool, bool, error) {
	addr, err := f.resolver.BundleBuyPool(mint)
	if err != nil {
		return nil, false, err
	}
	data, ok, err := f.source.AccountData(ctx, addr)
	if err != nil || !ok {
		return nil, false, err
	}
	var bundle BundleBuyPool
	if err := decodeRecord(data, BundleBuyPoolDiscriminator, &bundle); err != nil {
		return nil, false, fmt.Errorf("bundle pool %s: %w", addr, err)
	}
	return &bundle, true, nil
}

// TryBundleDeposit возвращает вклад пользователя, если он делал депозит.
func (f *Fetcher) TryBundleDeposit(ctx context.Context, mint, user solana.PublicKey) (*BundleDeposit, bool, error) {
	addr, err := f.resolver.BundleDeposit(mint, user)
	if err != nil {
		return nil, false, err
	}
	data, ok, err := f.source.AccountData(ctx, addr)
	if err != nil || !ok {
		return nil, false, err
	}
	var dep BundleDeposit
	if err := decodeRecord(data, BundleDepositDiscriminator, &dep); err != nil {
		return nil, false, fmt.Errorf("bundle deposit %s: %w", addr, err)
	}
	return &dep, true, nil
}

// TryLockedTokens возвращает запись заблокированных токенов пользователя.
func (f *Fetcher) TryLockedTokens(ctx context.Context, mint, user solana.PublicKey) (*LockedTokens, bool, error) {
	addr, err := f.resolver.LockedTokens(mint, user)
	if err != nil {
		return nil, false, err
	}
	data, ok, err := f.source.AccountData(ctx, addr)
	if err != nil || !ok {
		return nil, false, err
	}
	var locked LockedTokens
	if err := decodeRecord(data, LockedTokensDiscriminator, &locked); err != nil {
		return nil, false, fmt.Errorf("locked tokens %s: %w", addr, err)
	}
	return &locked, true, nil
}

// TradeContext — всё состояние, нужное одной торговой операции.
type TradeContext struct {
	Pool   *Pool
	Config *GlobalConfig
}

// FetchTradeContext параллельно запрашивает пул и конфигурацию протокола.
// Пул обязан существовать: торговая операция без пула бессмысленна.
func (f *Fetcher) FetchTradeContext(ctx context.Context, mint solana.PublicKey) (*TradeContext, error) {
	var (
		pool *Pool
		cfg  *GlobalConfig
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, ok, err := f.TryPool(gctx, mint)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("pool for mint %s not found", mint)
		}
		pool = p
		return nil
	})
	g.Go(func() error {
		c, err := f.GlobalConfig(gctx)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	f.logger.Debug("Fetched trade context",
		zap.String("mint", mint.String()),
		zap.Uint64("real_token_reserve", pool.RealTokenReserve),
		zap.Uint64("real_stable_reserve", pool.RealStableReserve),
		zap.Bool("complete", pool.Complete))

	return &TradeContext{Pool: pool, Config: cfg}, nil
}
