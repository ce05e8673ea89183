package backend

// Engine is the wallet engine's binary call contract with out-parameters
// turned into return values. Implementations must not retain any input slice
// after the call returns, and must leave Mem nil on every non-Success result.
type Engine interface {
	// Lifecycle. CreateNew and Open return the null handle on failure.
	CreateNew(configPath, storagePath string, password []byte) Handle
	Open(configPath, storagePath string) Handle
	Destroy(h Handle)
	Save(h Handle) Code

	// Account management.
	CreateAccountPublic(h Handle) (Bytes32, Code)
	CreateAccountPrivate(h Handle) (Bytes32, Code)
	ListAccounts(h Handle) (AccountList, Code)

	// Account queries.
	GetBalance(h Handle, id Bytes32, isPublic bool) (U128, Code)
	GetAccountPublic(h Handle, id Bytes32) (Account, Code)
	GetAccountPrivate(h Handle, id Bytes32) (Account, Code)
	GetPublicAccountKey(h Handle, id Bytes32) (Bytes32, Code)
	GetPrivateAccountKeys(h Handle, id Bytes32) (PrivateAccountKeys, Code)

	// Account encoding. These do not need a wallet handle.
	AccountIDToBase58(id Bytes32) Text
	AccountIDFromBase58(text string) (Bytes32, Code)

	// Blockchain synchronisation.
	SyncToBlock(h Handle, blockID uint64) Code
	GetLastSyncedBlock(h Handle) (uint64, Code)
	GetCurrentBlockHeight(h Handle) (uint64, Code)

	// Operations.
	TransferPublic(h Handle, from, to Bytes32, amount U128) (TransferResult, Code)
	TransferShielded(h Handle, from Bytes32, to PrivateAccountKeys, amount U128) (TransferResult, Code)
	TransferDeshielded(h Handle, from, to Bytes32, amount U128) (TransferResult, Code)
	TransferPrivate(h Handle, from Bytes32, to PrivateAccountKeys, amount U128) (TransferResult, Code)
	TransferShieldedOwned(h Handle, from, to Bytes32, amount U128) (TransferResult, Code)
	TransferPrivateOwned(h Handle, from, to Bytes32, amount U128) (TransferResult, Code)
	RegisterPublicAccount(h Handle, id Bytes32) (TransferResult, Code)
	RegisterPrivateAccount(h Handle, id Bytes32) (TransferResult, Code)
	ClaimPinata(h Handle, pinata, winner Bytes32, solution U128) (TransferResult, Code)

	// ClaimPinataPrivateOwned passes the winner's membership proof as a
	// contiguous buffer of len(siblings)/32 hashes.
	ClaimPinataPrivateOwned(h Handle, pinata, winner Bytes32, solution U128, proofIndex uint64, siblings []byte) (TransferResult, Code)

	// Configuration.
	SequencerAddr(h Handle) Text
}
