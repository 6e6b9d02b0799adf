// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/errs"
)

// Wallet — подписывающая способность клиента: публичный ключ, подпись одной
// транзакции, подпись пачки. Управление ключами (hardware, расширение
// браузера) остаётся снаружи; эта реализация держит ключ в памяти.
type Wallet struct {
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey

	mu       sync.Mutex
	ataCache map[string]solana.PublicKey // кеш ассоциированных токен-аккаунтов
}

// NewFromBase58 создаёт кошелёк из base58-encoded приватного ключа.
func NewFromBase58(privateKeyBase58 string) (*Wallet, error) {
	raw, err := base58.Decode(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(raw) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(raw))
	}
	pk := solana.PrivateKey(raw)
	return &Wallet{
		privateKey: pk,
		publicKey:  pk.PublicKey(),
		ataCache:   make(map[string]solana.PublicKey),
	}, nil
}

// NewEphemeral создаёт одноразовый кошелёк (для тестов и вспомогательных
// keypair-ов вроде минта нового токена).
func NewEphemeral() *Wallet {
	w := solana.NewWallet()
	return &Wallet{
		privateKey: w.PrivateKey,
		publicKey:  w.PublicKey(),
		ataCache:   make(map[string]solana.PublicKey),
	}
}

// Pubkey возвращает публичный ключ кошелька.
func (w *Wallet) Pubkey() solana.PublicKey {
	return w.publicKey
}

// PrivateKey отдаёт приватный ключ для частичной подписи дополнительных
// keypair-ов внутри билдера транзакций.
func (w *Wallet) PrivateKey() solana.PrivateKey {
	return w.privateKey
}

// Ready сообщает, доступна ли подписывающая способность. Nil-кошелёк или
// пустой ключ — окружение «не готово», операции должны отказаться мягко.
func (w *Wallet) Ready() bool {
	return w != nil && len(w.privateKey) == 64 && !w.publicKey.IsZero()
}

// CheckReady возвращает нормализованную ошибку, если подписант недоступен.
func CheckReady(w *Wallet) error {
	if !w.Ready() {
		return errs.New(errs.KindWalletNotConnected, "wallet is not connected")
	}
	return nil
}

// SignTransaction подписывает транзакцию ключом кошелька. Подпись
// частичная: слоты со-подписантов (например, минта нового токена)
// остаются пустыми и заполняются билдером отдельно.
func (w *Wallet) SignTransaction(tx *solana.Transaction) error {
	if !w.Ready() {
		return errs.New(errs.KindWalletNotConnected, "wallet is not connected")
	}
	_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.publicKey) {
			return &w.privateKey
		}
		return nil
	})
	return err
}

// SignAllTransactions подписывает несколько транзакций за один вызов.
// При ошибке не продолжаем: частично подписанная пачка бесполезна.
func (w *Wallet) SignAllTransactions(txs []*solana.Transaction) error {
	for i, tx := range txs {
		if err := w.SignTransaction(tx); err != nil {
			return fmt.Errorf("sign transaction %d: %w", i, err)
		}
	}
	return nil
}

// GetATA возвращает адрес ассоциированного токен-аккаунта для минта,
// с кешированием: деривация детерминированна и повторять её незачем.
func (w *Wallet) GetATA(mint solana.PublicKey) (solana.PublicKey, error) {
	key := mint.String()

	w.mu.Lock()
	if ata, ok := w.ataCache[key]; ok {
		w.mu.Unlock()
		return ata, nil
	}
	w.mu.Unlock()

	ata, _, err := solana.FindAssociatedTokenAddress(w.publicKey, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}

	w.mu.Lock()
	w.ataCache[key] = ata
	w.mu.Unlock()
	return ata, nil
}
