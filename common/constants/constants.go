package constants

const (
	VaultName  = "cosvault"
	ProgramID  = "DdZtiP97GwpatRNrw82yzSQwXKiGnhY6pMvKtbJJ5Qcv"
	ClientName = "vaultd"
	CoinSymbol = "KAMA"

	// token precision and the reference supply minted at genesis.
	// the supply is not enforced by the vault itself.
	Decimals         = 9
	DecimalsFactor   = uint64(1000000000)
	FirstTotalSupply = uint64(1000000000000000000)

	// derivation labels
	GlobalSeed = "GLOBAL_SEED"
	VaultSeed  = "VAULT_SEED"
	MintSeed   = "MINT_SEED"

	// a signed operation is valid for at most 30 minutes
	OpMaxExpirationTime = 30 * 60

	// capacity of the in-memory front cache of applied operation signatures
	OpSignatureCacheSize = 4096

	NoticeOpApplied = "opapplied"
	NoticeOpFailed  = "opfailed"
)
