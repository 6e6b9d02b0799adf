package txbuilder

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/launchpad-client/internal/chain"
	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/errs"
)

type fakeChain struct {
	blockhash solana.Hash
	existing  map[solana.PublicKey]bool
	simResult *chain.SimulationResult

	existsCalls int
}

func (f *fakeChain) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return f.blockhash, nil
}

func (f *fakeChain) AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error) {
	f.existsCalls++
	return f.existing[pubkey], nil
}

func (f *fakeChain) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*chain.SimulationResult, error) {
	return f.simResult, nil
}

type fakeSender struct {
	sent *solana.Transaction
	sig  solana.Signature
}

func (f *fakeSender) SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	f.sent = tx
	return f.sig, nil
}

type keySigner struct {
	wallet  *solana.Wallet
	decline bool
}

func newKeySigner() *keySigner {
	return &keySigner{wallet: solana.NewWallet()}
}

func (s *keySigner) Pubkey() solana.PublicKey { return s.wallet.PublicKey() }

func (s *keySigner) SignTransaction(tx *solana.Transaction) error {
	if s.decline {
		return errors.New("user closed the signing prompt")
	}
	_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.wallet.PublicKey()) {
			return &s.wallet.PrivateKey
		}
		return nil
	})
	return err
}

func (s *keySigner) SignAllTransactions(txs []*solana.Transaction) error {
	for _, tx := range txs {
		if err := s.SignTransaction(tx); err != nil {
			return err
		}
	}
	return nil
}

func testHash() solana.Hash {
	var h solana.Hash
	for i := range h {
		h[i] = byte(i + 1)
	}
	return h
}

func noopInstruction(payer solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		solana.MemoProgramID,
		[]*solana.AccountMeta{
			{PublicKey: payer, IsWritable: true, IsSigner: true},
		},
		[]byte("ping"),
	)
}

func programAt(t *testing.T, tx *solana.Transaction, index int) solana.PublicKey {
	t.Helper()
	ix := tx.Message.Instructions[index]
	program, err := tx.Message.Program(ix.ProgramIDIndex)
	require.NoError(t, err)
	return program
}

func TestBuildPlacesComputeBudgetFirst(t *testing.T) {
	signer := newKeySigner()
	client := &fakeChain{blockhash: testHash()}
	b := New(client, &fakeSender{}, signer, zap.NewNop())

	b.AddInstruction(noopInstruction(signer.Pubkey()))
	tx, err := b.Build(context.Background())
	require.NoError(t, err)

	require.Len(t, tx.Message.Instructions, 3)
	assert.Equal(t, computebudget.ProgramID, programAt(t, tx, 0))
	assert.Equal(t, computebudget.ProgramID, programAt(t, tx, 1))
	assert.Equal(t, solana.MemoProgramID, programAt(t, tx, 2))
	assert.Equal(t, signer.Pubkey(), tx.Message.AccountKeys[0])
	assert.NotEmpty(t, tx.Signatures)
}

func TestBuildWithoutComputeBudget(t *testing.T) {
	signer := newKeySigner()
	b := New(&fakeChain{blockhash: testHash()}, &fakeSender{}, signer, zap.NewNop())

	b.SetComputeBudget(0, 0)
	b.AddInstruction(noopInstruction(signer.Pubkey()))
	tx, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, tx.Message.Instructions, 1)
}

func TestBuildWithoutInstructionsFails(t *testing.T) {
	b := New(&fakeChain{blockhash: testHash()}, &fakeSender{}, newKeySigner(), zap.NewNop())
	_, err := b.Build(context.Background())
	require.Error(t, err)
}

func TestBuildSigningDeclined(t *testing.T) {
	signer := newKeySigner()
	signer.decline = true
	b := New(&fakeChain{blockhash: testHash()}, &fakeSender{}, signer, zap.NewNop())
	b.AddInstruction(noopInstruction(signer.Pubkey()))

	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.Equal(t, errs.KindUserDeclined, errs.KindOf(err))
}

func TestEnsureTokenAccount(t *testing.T) {
	signer := newKeySigner()
	owner := signer.Pubkey()
	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)

	t.Run("missing account scheduled once", func(t *testing.T) {
		client := &fakeChain{blockhash: testHash(), existing: map[solana.PublicKey]bool{}}
		b := New(client, &fakeSender{}, signer, zap.NewNop())

		require.NoError(t, b.EnsureTokenAccount(context.Background(), ata, owner, mint))
		require.NoError(t, b.EnsureTokenAccount(context.Background(), ata, owner, mint))

		assert.Equal(t, 1, client.existsCalls)
		require.Len(t, b.instructions, 1)
		assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, b.instructions[0].ProgramID())
	})

	t.Run("existing account untouched", func(t *testing.T) {
		client := &fakeChain{
			blockhash: testHash(),
			existing:  map[solana.PublicKey]bool{ata: true},
		}
		b := New(client, &fakeSender{}, signer, zap.NewNop())

		require.NoError(t, b.EnsureTokenAccount(context.Background(), ata, owner, mint))
		assert.Empty(t, b.instructions)
	})
}

func TestSimulateReportsFailureWithoutError(t *testing.T) {
	signer := newKeySigner()
	client := &fakeChain{
		blockhash: testHash(),
		simResult: &chain.SimulationResult{
			Err: map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}},
			Logs: []string{
				"Program log: AnchorError occurred. Error Code: InsufficientLiquidity. Error Number: 6001. Error Message: Not enough liquidity.",
			},
			UnitsConsumed: 4200,
		},
	}
	b := New(client, &fakeSender{}, signer, zap.NewNop())
	b.AddInstruction(noopInstruction(signer.Pubkey()))

	report, err := b.Simulate(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Ok)
	assert.Contains(t, report.FailureReason, "InsufficientLiquidity")
	assert.Equal(t, uint64(4200), report.UnitsConsumed)
}

func TestBuildAndSendDelegatesToSender(t *testing.T) {
	signer := newKeySigner()
	sender := &fakeSender{}
	b := New(&fakeChain{blockhash: testHash()}, sender, signer, zap.NewNop())
	b.AddInstruction(noopInstruction(signer.Pubkey()))

	_, err := b.BuildAndSend(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sender.sent)
	assert.Len(t, sender.sent.Message.Instructions, 3)
}
