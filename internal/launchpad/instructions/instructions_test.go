package instructions

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/launchpad-client/internal/launchpad/addrs"
)

var (
	testProgram     = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	testCpmmProgram = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")
	testTokenMint   = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	testStableMint  = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	testUser        = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
)

func testResolver() *addrs.Resolver {
	return addrs.New(testProgram, testCpmmProgram)
}

func TestBuyEncodesArgsLittleEndian(t *testing.T) {
	ix, err := Buy(testResolver(), testUser, testTokenMint, testStableMint,
		testUser, testUser, 1_000_000_000, 35_000_000)
	require.NoError(t, err)

	assert.Equal(t, testProgram, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+8+8)
	assert.Equal(t, buyDiscriminator, data[:8])
	assert.Equal(t, uint64(1_000_000_000), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(35_000_000), binary.LittleEndian.Uint64(data[16:24]))
}

func TestBuyAccountLayout(t *testing.T) {
	r := testResolver()
	ix, err := Buy(r, testUser, testTokenMint, testStableMint,
		testUser, testUser, 1, 1)
	require.NoError(t, err)

	accounts := ix.Accounts()
	require.Len(t, accounts, 18)

	pool, err := r.Pool(testTokenMint)
	require.NoError(t, err)
	assert.Equal(t, pool, accounts[3].PublicKey)
	assert.True(t, accounts[3].IsWritable)

	// Единственный подписант — пользователь.
	signers := 0
	for _, meta := range accounts {
		if meta.IsSigner {
			signers++
			assert.Equal(t, testUser, meta.PublicKey)
		}
	}
	assert.Equal(t, 1, signers)
}

func TestCreatePoolMintCoSigns(t *testing.T) {
	ix, err := CreatePool(testResolver(), testUser, testTokenMint, testStableMint,
		CreatePoolParams{
			TotalSellAmount:      1_000_000_000_000_000,
			VirtualStableReserve: 30_000_000_000,
			BuyTaxBps:            100,
		})
	require.NoError(t, err)

	signers := make(map[solana.PublicKey]bool)
	for _, meta := range ix.Accounts() {
		if meta.IsSigner {
			signers[meta.PublicKey] = true
		}
	}
	assert.True(t, signers[testTokenMint], "new mint must co-sign")
	assert.True(t, signers[testUser], "creator must sign")

	data, err := ix.Data()
	require.NoError(t, err)
	// discriminator + 3×u64 + 2×u16
	require.Len(t, data, 8+24+4)
	assert.Equal(t, uint64(1_000_000_000_000_000), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint16(100), binary.LittleEndian.Uint16(data[32:34]))
}

func TestDepositAndWithdrawShareAccountLayout(t *testing.T) {
	r := testResolver()
	dep, err := DepositBundle(r, testUser, testTokenMint, testStableMint, 500)
	require.NoError(t, err)
	wit, err := WithdrawBundle(r, testUser, testTokenMint, testStableMint, 500)
	require.NoError(t, err)

	depAccounts := dep.Accounts()
	witAccounts := wit.Accounts()
	require.Equal(t, len(depAccounts), len(witAccounts))
	for i := range depAccounts {
		assert.Equal(t, depAccounts[i].PublicKey, witAccounts[i].PublicKey)
	}

	depData, err := dep.Data()
	require.NoError(t, err)
	witData, err := wit.Data()
	require.NoError(t, err)
	assert.NotEqual(t, depData[:8], witData[:8])
	assert.Equal(t, depData[8:], witData[8:])
}

func TestCreateExternalPoolUsesCanonicalVaultOrder(t *testing.T) {
	r := testResolver()
	ammConfig := testUser

	cpmm, err := r.DeriveCpmmSet(ammConfig, testTokenMint, testStableMint)
	require.NoError(t, err)
	swapped, err := r.DeriveCpmmSet(ammConfig, testStableMint, testTokenMint)
	require.NoError(t, err)
	require.Equal(t, cpmm.FirstVault, swapped.FirstVault)

	ix, err := CreateExternalPool(r, testUser, testTokenMint, testStableMint, ammConfig, cpmm)
	require.NoError(t, err)

	accounts := ix.Accounts()
	assert.Equal(t, cpmm.Order.First, accounts[11].PublicKey)
	assert.Equal(t, cpmm.Order.Second, accounts[12].PublicKey)
	assert.Equal(t, cpmm.FirstVault, accounts[13].PublicKey)
	assert.Equal(t, cpmm.SecondVault, accounts[14].PublicKey)
}

func TestNoArgInstructionsCarryOnlyDiscriminator(t *testing.T) {
	r := testResolver()

	claim, err := Claim(r, testUser, testTokenMint)
	require.NoError(t, err)
	data, err := claim.Data()
	require.NoError(t, err)
	assert.Equal(t, claimDiscriminator, data)

	locked, err := ClaimLocked(r, testUser, testTokenMint)
	require.NoError(t, err)
	data, err = locked.Data()
	require.NoError(t, err)
	assert.Equal(t, claimLockedDiscriminator, data)

	fin, err := Finalize(r, testUser, testTokenMint, testStableMint, testUser)
	require.NoError(t, err)
	data, err = fin.Data()
	require.NoError(t, err)
	assert.Equal(t, finalizeDiscriminator, data)
}
